package user

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/skillbridge/portal/core"
	"github.com/skillbridge/portal/core/session"
)

type (
	Repository interface {
		ListTeamMembers(ctx context.Context) ([]TeamMember, error)
	}

	ServiceInterface interface {
		Members(ctx context.Context) ([]TeamMember, error)
		TeamOf(ctx context.Context, sess session.Session) ([]string, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Members(ctx context.Context) ([]TeamMember, error) {
	members, err := svc.repo.ListTeamMembers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing team members")
	}
	return members, nil
}

// TeamOf returns the identifiers of the members of sess's team: the members sharing its team,
// the members it manages, and sess itself.
func (svc *Service) TeamOf(ctx context.Context, sess session.Session) ([]string, error) {
	members, err := svc.Members(ctx)
	if err != nil {
		return nil, err
	}

	ids := []string{sess.Identity()}
	for _, m := range members {
		sameTeam := sess.Team() != "" && strings.EqualFold(core.CleanString(m.Team), sess.Team())
		if sameTeam || sess.Is(m.Manager) {
			ids = append(ids, m.Identities()...)
		}
	}
	return ids, nil
}
