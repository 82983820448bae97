package inmemdb

import (
	"context"
	"time"

	"github.com/skillbridge/portal/core/lead"
)

type leadRepository struct {
	db *leadTable
}

func NewLeadRepository(db *DB) lead.Repository {
	return &leadRepository{db: db.lead}
}

// ListLeads returns every lead; like the real backend's, the scope is only a hint.
func (repo *leadRepository) ListLeads(ctx context.Context, _ lead.Scope) ([]lead.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.lists++
	return append([]lead.Lead(nil), repo.db.table...), nil
}

func (repo *leadRepository) UpdateLeadStage(ctx context.Context, id string, stage lead.Stage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.db.updateErr != nil {
		return repo.db.updateErr
	}
	for i := range repo.db.table {
		if repo.db.table[i].ID == id {
			repo.db.table[i].PipelineStage = stage
			repo.db.table[i].UpdatedAt = time.Now().UTC()
			repo.db.updates++
			return nil
		}
	}
	return lead.ErrNotFound
}
