// Package session holds the identity of the user a request is made for.
//
// A Session is created from verified token claims and passed explicitly to whatever needs it
// (pipeline view model, route resolver, services); there is no package-level current user.
package session

import "github.com/skillbridge/portal/core"

// Session is an immutable snapshot of the current user's identity, role and team.
type Session struct {
	email         string
	name          string
	role          string
	team          string
	authenticated bool
}

// New returns an authenticated Session. A Session without an email is anonymous.
func New(email, role, team, name string) Session {
	email = core.CleanString(email, true /* lower */)
	return Session{
		email:         email,
		name:          core.CleanString(name),
		role:          core.CleanString(role),
		team:          core.CleanString(team),
		authenticated: email != "",
	}
}

// Anonymous returns the Session of an unauthenticated user.
func Anonymous() Session { return Session{} }

// Identity is the identifier leads are assigned to (the lower-cased email).
func (s Session) Identity() string      { return s.email }
func (s Session) Email() string         { return s.email }
func (s Session) Name() string          { return s.name }
func (s Session) Role() string          { return s.role }
func (s Session) Team() string          { return s.team }
func (s Session) IsAuthenticated() bool { return s.authenticated }

// Is reports whether identity refers to the session's user.
func (s Session) Is(identity string) bool {
	return core.SameIdentity(s.email, identity)
}

// View is the JSON representation of a Session.
type View struct {
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	Role          string `json:"role,omitempty"`
	Team          string `json:"team,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

func (s Session) View() View {
	return View{
		Email:         s.email,
		Name:          s.name,
		Role:          s.role,
		Team:          s.team,
		Authenticated: s.authenticated,
	}
}
