// Package role knows the portal roles: where each one lands and how much of the sales pipeline it may touch.
package role

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/skillbridge/portal/core"
)

// Roles
const (
	// Learning
	Student        = "student"
	Tutor          = "tutor"
	LSM            = "lsm" // learning-success manager
	Mentor         = "mentor"
	Placement      = "placement"
	ProgramManager = "program-manager"

	// Staff
	Admin     = "admin"
	Finance   = "finance"
	Marketing = "marketing"
	HRPartner = "hr-partner"

	// Sales
	SalesAgent = "sales_agent"
	SalesLead  = "sales_lead"
	SalesHead  = "sales_head"
	SalesAdmin = "sales_admin"
)

var (
	SalesRoles = []string{SalesAgent, SalesLead, SalesHead, SalesAdmin}
	AllRoles   = getAllRoles()
)

func getAllRoles() []string {
	all := []string{
		Student, Tutor, LSM, Mentor, Placement, ProgramManager,
		Admin, Finance, Marketing, HRPartner,
	}
	all = append(all, SalesRoles...)
	sort.Strings(all)
	return all
}

// Normalize lower-cases and trims a free-form role string.
func Normalize(r string) string {
	return core.CleanString(r, true /* lower */)
}

// IsValid reports whether r (in any case) is one of AllRoles.
func IsValid(r string) bool {
	r = Normalize(r)
	i := sort.SearchStrings(AllRoles, r)
	return i < len(AllRoles) && AllRoles[i] == r
}

// Is reports whether r (in any case) is any of roles.
func Is(r string, roles ...string) bool {
	r = Normalize(r)
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// Tier is the level of access a role has on the sales pipeline.
type Tier int

const (
	// TierNone has no access to the pipeline.
	TierNone Tier = iota
	// TierIndividual sees and moves only the leads assigned to them.
	TierIndividual
	// TierTeamLead sees and moves unassigned leads and the leads of their team.
	TierTeamLead
	// TierAggregator sees every lead and moves none.
	TierAggregator
)

var tierNames = map[Tier]string{
	TierNone:       "none",
	TierIndividual: "individual_contributor",
	TierTeamLead:   "team_lead",
	TierAggregator: "read_only_aggregator",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tier) UnmarshalText(text []byte) error {
	for tier, name := range tierNames {
		if name == string(text) {
			*t = tier
			return nil
		}
	}
	return errors.Errorf("unknown tier %q", text)
}

// CanRead reports whether the tier may see the pipeline at all.
func (t Tier) CanRead() bool { return t != TierNone }

// CanWrite reports whether the tier may move leads between stages.
func (t Tier) CanWrite() bool { return t == TierIndividual || t == TierTeamLead }

// TierOf maps a role (in any case) to its pipeline access tier.
func TierOf(r string) Tier {
	switch Normalize(r) {
	case SalesAgent:
		return TierIndividual
	case SalesLead:
		return TierTeamLead
	case SalesHead, SalesAdmin, Admin:
		return TierAggregator
	default:
		return TierNone
	}
}
