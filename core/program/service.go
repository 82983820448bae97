// Package program serves the program builder: programs made of ordered modules, each with learning objectives.
package program

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/skillbridge/portal/core"
	"github.com/skillbridge/portal/core/role"
	"github.com/skillbridge/portal/core/session"
)

var (
	ErrForbidden = errors.New("permission denied")
	ErrNotFound  = errors.New("program not found")

	editors = []string{role.Admin, role.ProgramManager}
)

type (
	Repository interface {
		ListPrograms(ctx context.Context) ([]Program, error)
		GetProgram(ctx context.Context, id string) (Program, error)
		CreateProgram(ctx context.Context, np NewProgram) (Program, error)
		UpdateProgram(ctx context.Context, id string, up UpdateProgram) (Program, error)
		CreateModule(ctx context.Context, programID string, nm NewModule) (Module, error)
		UpdateModule(ctx context.Context, programID, moduleID string, nm NewModule) (Module, error)
	}

	ServiceInterface interface {
		List(ctx context.Context, sess session.Session) ([]Program, error)
		Get(ctx context.Context, sess session.Session, id string) (Program, error)
		Create(ctx context.Context, sess session.Session, np NewProgram) (Program, error)
		Update(ctx context.Context, sess session.Session, id string, up UpdateProgram) (Program, error)
		CreateModule(ctx context.Context, sess session.Session, programID string, nm NewModule) (Module, error)
		UpdateModule(ctx context.Context, sess session.Session, programID, moduleID string, nm NewModule) (Module, error)
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

func canRead(sess session.Session) error {
	if !sess.IsAuthenticated() {
		return ErrForbidden
	}
	return nil
}

func canEdit(sess session.Session) error {
	if !role.Is(sess.Role(), editors...) {
		return ErrForbidden
	}
	return nil
}

func (svc *Service) List(ctx context.Context, sess session.Session) ([]Program, error) {
	if err := canRead(sess); err != nil {
		return nil, err
	}
	return svc.repo.ListPrograms(ctx)
}

func (svc *Service) Get(ctx context.Context, sess session.Session, id string) (Program, error) {
	if err := canRead(sess); err != nil {
		return Program{}, err
	}
	return svc.repo.GetProgram(ctx, id)
}

func (svc *Service) Create(ctx context.Context, sess session.Session, np NewProgram) (Program, error) {
	if err := canEdit(sess); err != nil {
		return Program{}, err
	}
	np.Title = core.CleanString(np.Title)
	np.Description = core.CleanString(np.Description)
	if err := np.Validate(svc.validate); err != nil {
		return Program{}, err
	}
	return svc.repo.CreateProgram(ctx, np)
}

func (svc *Service) Update(ctx context.Context, sess session.Session, id string, up UpdateProgram) (Program, error) {
	if err := canEdit(sess); err != nil {
		return Program{}, err
	}
	up.Title = core.CleanString(up.Title)
	up.Description = core.CleanString(up.Description)
	if err := up.Validate(svc.validate); err != nil {
		return Program{}, err
	}
	return svc.repo.UpdateProgram(ctx, id, up)
}

func cleanModule(nm NewModule) NewModule {
	nm.Title = core.CleanString(nm.Title)
	objectives := make([]NewObjective, 0, len(nm.Objectives))
	for _, o := range nm.Objectives {
		if text := core.CleanString(o.Text); text != "" {
			objectives = append(objectives, NewObjective{Text: text})
		}
	}
	nm.Objectives = objectives
	return nm
}

func (svc *Service) CreateModule(ctx context.Context, sess session.Session, programID string, nm NewModule) (Module, error) {
	if err := canEdit(sess); err != nil {
		return Module{}, err
	}
	nm = cleanModule(nm)
	if err := nm.Validate(svc.validate); err != nil {
		return Module{}, err
	}
	return svc.repo.CreateModule(ctx, strings.TrimSpace(programID), nm)
}

func (svc *Service) UpdateModule(ctx context.Context, sess session.Session, programID, moduleID string, nm NewModule) (Module, error) {
	if err := canEdit(sess); err != nil {
		return Module{}, err
	}
	nm = cleanModule(nm)
	if err := nm.Validate(svc.validate); err != nil {
		return Module{}, err
	}
	return svc.repo.UpdateModule(ctx, strings.TrimSpace(programID), strings.TrimSpace(moduleID), nm)
}
