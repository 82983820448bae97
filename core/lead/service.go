package lead

import (
	"context"

	"github.com/pkg/errors"

	"github.com/skillbridge/portal/core"
	"github.com/skillbridge/portal/core/role"
	"github.com/skillbridge/portal/core/session"
)

type (
	// TeamResolver lists the identifiers of the members of a team lead's team.
	TeamResolver interface {
		TeamOf(ctx context.Context, sess session.Session) ([]string, error)
	}

	// TransitionRepository stores the audit trail of stage changes.
	TransitionRepository interface {
		CreateTransition(ctx context.Context, t Transition) error
		QueryTransitions(ctx context.Context, leadID string, ordering ...core.DBOrdering) ([]Transition, error)
	}

	ServiceInterface interface {
		Open(ctx context.Context, sess session.Session) (*Pipeline, error)
		OpenForWrite(ctx context.Context, sess session.Session) (*Pipeline, error)
		History(ctx context.Context, sess session.Session, id string, ordering ...core.DBOrdering) ([]Transition, error)
	}

	Service struct {
		repo      Repository
		team      TeamResolver
		audit     TransitionRepository
		logger    core.Logger
		observers []Observer
	}
)

var _ ServiceInterface = (*Service)(nil)

// NewService returns a Service. audit may be nil, in which case no audit trail is kept.
func NewService(repo Repository, team TeamResolver, audit TransitionRepository, logger core.Logger) *Service {
	svc := &Service{repo: repo, team: team, audit: audit, logger: logger}
	if audit != nil {
		svc.Observe(ObserverFunc(audit.CreateTransition))
	}
	return svc
}

// Observe registers observers notified by every Pipeline opened afterwards.
func (svc *Service) Observe(observers ...Observer) {
	svc.observers = append(svc.observers, observers...)
}

// Viewer resolves the Viewer of sess. Team members are only looked up for team leads.
func (svc *Service) Viewer(ctx context.Context, sess session.Session) (Viewer, error) {
	if role.TierOf(sess.Role()) != role.TierTeamLead || svc.team == nil {
		return NewViewer(sess), nil
	}
	team, err := svc.team.TeamOf(ctx, sess)
	if err != nil {
		return Viewer{}, errors.Wrap(err, "listing team members")
	}
	return NewViewer(sess, team...), nil
}

// Open returns the loaded Pipeline of sess. Roles without pipeline access get ErrForbidden.
func (svc *Service) Open(ctx context.Context, sess session.Session) (*Pipeline, error) {
	if !role.TierOf(sess.Role()).CanRead() {
		return nil, ErrForbidden
	}
	viewer, err := svc.Viewer(ctx, sess)
	if err != nil {
		return nil, err
	}
	p := NewPipeline(svc.repo, viewer, svc.logger, svc.observers...)
	if err = p.Load(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// CanWrite reports whether sess may move leads: roles without pipeline access get ErrForbidden,
// read-only roles ErrReadOnly.
func CanWrite(sess session.Session) error {
	tier := role.TierOf(sess.Role())
	switch {
	case !tier.CanRead():
		return ErrForbidden
	case !tier.CanWrite():
		return ErrReadOnly
	}
	return nil
}

// OpenForWrite is Open for sessions that may move leads. Other sessions are rejected before anything is fetched.
func (svc *Service) OpenForWrite(ctx context.Context, sess session.Session) (*Pipeline, error) {
	if err := CanWrite(sess); err != nil {
		return nil, err
	}
	return svc.Open(ctx, sess)
}

// History returns the stage changes of a lead visible to sess.
func (svc *Service) History(ctx context.Context, sess session.Session, id string, ordering ...core.DBOrdering) ([]Transition, error) {
	p, err := svc.Open(ctx, sess)
	if err != nil {
		return nil, err
	}
	if _, ok := p.Lead(id); !ok {
		return nil, ErrNotFound
	}
	if svc.audit == nil {
		return []Transition{}, nil
	}
	return svc.audit.QueryTransitions(ctx, id, ordering...)
}
