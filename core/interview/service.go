// Package interview serves the interview scheduling pages.
package interview

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/skillbridge/portal/core"
	"github.com/skillbridge/portal/core/role"
	"github.com/skillbridge/portal/core/session"
)

var (
	ErrForbidden = errors.New("permission denied")
	ErrNotFound  = errors.New("interview not found")
	ErrNoChanges = errors.New("nothing to update")

	readers = append([]string{role.Placement, role.Mentor, role.Admin, role.Tutor, role.HRPartner}, role.SalesRoles...)
	writers = []string{role.Placement, role.Mentor, role.Admin, role.Tutor}
)

type (
	Repository interface {
		ListInterviews(ctx context.Context, filter QueryFilter) ([]Interview, error)
		UpdateInterview(ctx context.Context, id string, update Update) (Interview, error)
	}

	ServiceInterface interface {
		List(ctx context.Context, sess session.Session, filter QueryFilter) ([]Interview, error)
		Update(ctx context.Context, sess session.Session, id string, update Update) (Interview, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) List(ctx context.Context, sess session.Session, filter QueryFilter) ([]Interview, error) {
	if !role.Is(sess.Role(), readers...) {
		return nil, ErrForbidden
	}
	filter.Search = core.CleanString(filter.Search)
	if err := filter.Validate(svc.validate); err != nil {
		return nil, err
	}
	return svc.repo.ListInterviews(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, sess session.Session, id string, update Update) (Interview, error) {
	if !role.Is(sess.Role(), writers...) {
		return Interview{}, ErrForbidden
	}
	if err := update.Validate(svc.validate); err != nil {
		return Interview{}, err
	}
	if update.IsEmpty() {
		return Interview{}, core.NewValidationError(ErrNoChanges)
	}
	return svc.repo.UpdateInterview(ctx, id, update)
}
