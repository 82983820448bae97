package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/skillbridge/portal/core/interview"
)

type interviewRepository struct {
	db *interviewTable
}

func NewInterviewRepository(db *DB) interview.Repository {
	return &interviewRepository{db: db.interview}
}

func matchesInterview(iv interview.Interview, f interview.QueryFilter) bool {
	if f.Status != "" && iv.Status != f.Status {
		return false
	}
	if f.CandidateID != "" && iv.CandidateID != f.CandidateID {
		return false
	}
	if f.JobID != "" && iv.JobID != f.JobID {
		return false
	}
	if f.ScheduledDate != "" && iv.ScheduledAt.UTC().Format("2006-01-02") != f.ScheduledDate {
		return false
	}
	if q := strings.ToLower(f.Search); q != "" {
		return strings.Contains(strings.ToLower(iv.CandidateName), q) || strings.Contains(strings.ToLower(iv.JobTitle), q)
	}
	return true
}

func sortInterviews(ivs []interview.Interview, sortBy string) {
	desc := strings.HasPrefix(sortBy, "-")
	var less func(a, b interview.Interview) bool
	switch strings.TrimPrefix(sortBy, "-") {
	case "status":
		less = func(a, b interview.Interview) bool { return a.Status < b.Status }
	default:
		less = func(a, b interview.Interview) bool { return a.ScheduledAt.Before(b.ScheduledAt) }
	}
	sort.SliceStable(ivs, func(i, j int) bool {
		if desc {
			return less(ivs[j], ivs[i])
		}
		return less(ivs[i], ivs[j])
	})
}

func (repo *interviewRepository) ListInterviews(ctx context.Context, filter interview.QueryFilter) ([]interview.Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ivs := make([]interview.Interview, 0, len(repo.db.table))
	for _, iv := range repo.db.table {
		if matchesInterview(iv, filter) {
			ivs = append(ivs, iv)
		}
	}
	sortInterviews(ivs, filter.SortBy)
	return ivs, nil
}

// UpdateInterview only saves set fields.
func (repo *interviewRepository) UpdateInterview(ctx context.Context, id string, update interview.Update) (interview.Interview, error) {
	if err := ctx.Err(); err != nil {
		return interview.Interview{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i := range repo.db.table {
		iv := &repo.db.table[i]
		if iv.ID != id {
			continue
		}
		if update.Status != "" {
			iv.Status = update.Status
		}
		if update.ScheduledAt != nil {
			iv.ScheduledAt = update.ScheduledAt.UTC()
		}
		if update.Feedback != nil {
			iv.Feedback = *update.Feedback
		}
		return *iv, nil
	}
	return interview.Interview{}, interview.ErrNotFound
}
