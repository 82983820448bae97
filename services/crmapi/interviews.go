package crmapi

import (
	"context"
	"time"

	"github.com/sendgrid/rest"

	"github.com/skillbridge/portal/core/interview"
)

type interviewData struct {
	ID            string    `json:"_id"`
	CandidateID   string    `json:"candidateId"`
	CandidateName string    `json:"candidateName"`
	JobID         string    `json:"jobId"`
	JobTitle      string    `json:"jobTitle"`
	Status        string    `json:"status"`
	ScheduledAt   time.Time `json:"scheduledAt"`
	Feedback      string    `json:"feedback"`
}

var _ interview.Repository = (*Client)(nil)

func (c *Client) ListInterviews(ctx context.Context, filter interview.QueryFilter) ([]interview.Interview, error) {
	var data []interviewData
	if err := c.do(ctx, "list interviews", rest.Get, "interviews", filter.Params(), nil, &data); err != nil {
		return nil, err
	}
	interviews := make([]interview.Interview, 0, len(data))
	for _, d := range data {
		interviews = append(interviews, interview.Interview(d))
	}
	return interviews, nil
}

func (c *Client) UpdateInterview(ctx context.Context, id string, update interview.Update) (interview.Interview, error) {
	var data interviewData
	if err := c.do(ctx, "update interview", rest.Put, endpoint("interview", id), nil, update, &data); err != nil {
		return interview.Interview{}, err
	}
	return interview.Interview(data), nil
}
