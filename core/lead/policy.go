package lead

import (
	"github.com/skillbridge/portal/core"
	"github.com/skillbridge/portal/core/role"
	"github.com/skillbridge/portal/core/session"
)

// TeamSet is a set of user identifiers, compared case-insensitively.
type TeamSet map[string]struct{}

func NewTeamSet(ids ...string) TeamSet {
	set := make(TeamSet, len(ids))
	for _, id := range ids {
		if id = core.CleanString(id, true /* lower */); id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

func (ts TeamSet) Has(id string) bool {
	_, ok := ts[core.CleanString(id, true /* lower */)]
	return ok
}

// Viewer is who a pipeline is rendered for.
type Viewer struct {
	Session session.Session
	Tier    role.Tier
	Team    TeamSet // only used by team leads
}

// NewViewer returns the Viewer of sess. team lists the identifiers of the viewer's team members;
// the viewer always belongs to their own team.
func NewViewer(sess session.Session, team ...string) Viewer {
	return Viewer{
		Session: sess,
		Tier:    role.TierOf(sess.Role()),
		Team:    NewTeamSet(append(team, sess.Identity())...),
	}
}

// CanSee applies the access policy of the viewer's tier to l.
func (v Viewer) CanSee(l Lead) bool {
	switch v.Tier {
	case role.TierIndividual:
		return v.Session.Is(l.AssignedTo)
	case role.TierTeamLead:
		return l.IsUnassigned() || v.Team.Has(l.AssignedTo)
	case role.TierAggregator:
		return true
	default:
		return false
	}
}

// CanMutate reports whether the viewer may move leads at all.
func (v Viewer) CanMutate() bool { return v.Tier.CanWrite() }

// ShowsUnassigned reports whether the board of the viewer has an unassigned column.
func (v Viewer) ShowsUnassigned() bool {
	return v.Tier == role.TierTeamLead || v.Tier == role.TierAggregator
}

// Visible returns the leads v can see, in input order.
func Visible(leads []Lead, v Viewer) []Lead {
	visible := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if v.CanSee(l) {
			visible = append(visible, l)
		}
	}
	return visible
}
