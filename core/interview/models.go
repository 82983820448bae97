package interview

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Interview statuses
const (
	StatusScheduled   = "scheduled"
	StatusRescheduled = "rescheduled"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusNoShow      = "no_show"
)

var Statuses = []string{StatusScheduled, StatusRescheduled, StatusCompleted, StatusCancelled, StatusNoShow}

type (
	Interview struct {
		ID            string    `json:"id"`
		CandidateID   string    `json:"candidateId"`
		CandidateName string    `json:"candidateName"`
		JobID         string    `json:"jobId"`
		JobTitle      string    `json:"jobTitle"`
		Status        string    `json:"status"`
		ScheduledAt   time.Time `json:"scheduledAt"`
		Feedback      string    `json:"feedback"`
	}

	// QueryFilter is forwarded as-is to the backend; empty fields are not sent.
	QueryFilter struct {
		Status        string `json:"status" query:"status" validate:"omitempty,oneof=scheduled rescheduled completed cancelled no_show"`
		Search        string `json:"search" query:"search" validate:"max=100"`
		CandidateID   string `json:"candidateId" query:"candidateId" validate:"omitempty,max=64,ident"`
		JobID         string `json:"jobId" query:"jobId" validate:"omitempty,max=64,ident"`
		ScheduledDate string `json:"scheduledDate" query:"scheduledDate" validate:"omitempty,datetime=2006-01-02"`
		SortBy        string `json:"sortBy" query:"sortBy" validate:"omitempty,oneof=scheduledAt -scheduledAt status -status"`
	}

	Update struct {
		Status      string     `json:"status,omitempty" validate:"omitempty,oneof=scheduled rescheduled completed cancelled no_show"`
		ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
		Feedback    *string    `json:"feedback,omitempty" validate:"omitempty,max=2000"`
	}
)

func (f QueryFilter) Validate(validate *validator.Validate) error {
	return validate.Struct(f)
}

// Params returns the non-empty filters keyed by their query parameter name.
func (f QueryFilter) Params() map[string]string {
	params := make(map[string]string, 6)
	for key, val := range map[string]string{
		"status":        f.Status,
		"search":        f.Search,
		"candidateId":   f.CandidateID,
		"jobId":         f.JobID,
		"scheduledDate": f.ScheduledDate,
		"sortBy":        f.SortBy,
	} {
		if val != "" {
			params[key] = val
		}
	}
	return params
}

func (u Update) Validate(validate *validator.Validate) error {
	return validate.Struct(u)
}

func (u Update) IsEmpty() bool {
	return u.Status == "" && u.ScheduledAt == nil && u.Feedback == nil
}
