package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/skillbridge/portal/core/program"
)

type programRepository struct {
	db *programTable
}

func NewProgramRepository(db *DB) program.Repository {
	return &programRepository{db: db.program}
}

func copyProgram(p program.Program) program.Program {
	modules := make([]program.Module, 0, len(p.Modules))
	for _, m := range p.Modules {
		m.Objectives = append([]program.Objective{}, m.Objectives...)
		modules = append(modules, m)
	}
	p.Modules = modules
	return p
}

func newModule(id string, nm program.NewModule) program.Module {
	m := program.Module{ID: id, Title: nm.Title, Order: nm.Order, Objectives: make([]program.Objective, 0, len(nm.Objectives))}
	for _, o := range nm.Objectives {
		m.Objectives = append(m.Objectives, program.Objective{ID: uuid.NewString(), Text: o.Text})
	}
	return m
}

func sortModules(modules []program.Module) {
	sort.SliceStable(modules, func(i, j int) bool { return modules[i].Order < modules[j].Order })
}

// get must be called with the lock held.
func (repo *programRepository) get(id string) (*program.Program, error) {
	for i := range repo.db.table {
		if repo.db.table[i].ID == id {
			return &repo.db.table[i], nil
		}
	}
	return nil, program.ErrNotFound
}

func (repo *programRepository) ListPrograms(ctx context.Context) ([]program.Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	programs := make([]program.Program, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		programs = append(programs, copyProgram(p))
	}
	return programs, nil
}

func (repo *programRepository) GetProgram(ctx context.Context, id string) (program.Program, error) {
	if err := ctx.Err(); err != nil {
		return program.Program{}, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	p, err := repo.get(id)
	if err != nil {
		return program.Program{}, err
	}
	return copyProgram(*p), nil
}

func (repo *programRepository) CreateProgram(ctx context.Context, np program.NewProgram) (program.Program, error) {
	if err := ctx.Err(); err != nil {
		return program.Program{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p := program.Program{
		ID:          uuid.NewString(),
		Title:       np.Title,
		Description: np.Description,
		Modules:     []program.Module{},
	}
	repo.db.table = append(repo.db.table, p)
	return copyProgram(p), nil
}

func (repo *programRepository) UpdateProgram(ctx context.Context, id string, up program.UpdateProgram) (program.Program, error) {
	if err := ctx.Err(); err != nil {
		return program.Program{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, err := repo.get(id)
	if err != nil {
		return program.Program{}, err
	}
	p.Title = up.Title
	p.Description = up.Description
	return copyProgram(*p), nil
}

func (repo *programRepository) CreateModule(ctx context.Context, programID string, nm program.NewModule) (program.Module, error) {
	if err := ctx.Err(); err != nil {
		return program.Module{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, err := repo.get(programID)
	if err != nil {
		return program.Module{}, err
	}
	m := newModule(uuid.NewString(), nm)
	p.Modules = append(p.Modules, m)
	sortModules(p.Modules)
	return m, nil
}

// UpdateModule replaces the module and its objectives.
func (repo *programRepository) UpdateModule(ctx context.Context, programID, moduleID string, nm program.NewModule) (program.Module, error) {
	if err := ctx.Err(); err != nil {
		return program.Module{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, err := repo.get(programID)
	if err != nil {
		return program.Module{}, err
	}
	for i := range p.Modules {
		if p.Modules[i].ID == moduleID {
			m := newModule(moduleID, nm)
			p.Modules[i] = m
			sortModules(p.Modules)
			return m, nil
		}
	}
	return program.Module{}, program.ErrNotFound
}
