package user

// TeamMember is a member of the sales team.
type TeamMember struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Manager string `json:"manager"` // identifier of the member's manager
	Team    string `json:"team"`
}

// Identities returns the identifiers leads may be assigned to this member with.
func (m TeamMember) Identities() []string {
	ids := make([]string, 0, 2)
	if m.ID != "" {
		ids = append(ids, m.ID)
	}
	if m.Email != "" {
		ids = append(ids, m.Email)
	}
	return ids
}
