package crmapi

import (
	"context"
	"time"

	"github.com/sendgrid/rest"

	"github.com/skillbridge/portal/core/lead"
)

type leadData struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Company       string    `json:"company"`
	AssignedTo    string    `json:"assignedTo"`
	PipelineStage string    `json:"pipelineStage"`
	Value         string    `json:"value"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (d leadData) toLead() lead.Lead {
	return lead.Lead{
		ID:            d.ID,
		Name:          d.Name,
		Email:         d.Email,
		Phone:         d.Phone,
		Company:       d.Company,
		AssignedTo:    d.AssignedTo,
		PipelineStage: lead.Stage(d.PipelineStage),
		Value:         d.Value,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

var _ lead.Repository = (*Client)(nil)

// ListLeads fetches every lead. The scope is sent as a hint; the backend may ignore it.
func (c *Client) ListLeads(ctx context.Context, scope lead.Scope) ([]lead.Lead, error) {
	params := make(map[string]string, 2)
	if scope.Role != "" {
		params["role"] = scope.Role
	}
	if scope.Team != "" {
		params["team"] = scope.Team
	}

	var data []leadData
	if err := c.do(ctx, "list leads", rest.Get, "leads", params, nil, &data); err != nil {
		return nil, err
	}
	leads := make([]lead.Lead, 0, len(data))
	for _, d := range data {
		leads = append(leads, d.toLead())
	}
	return leads, nil
}

func (c *Client) UpdateLeadStage(ctx context.Context, id string, stage lead.Stage) error {
	body := map[string]string{"pipelineStage": string(stage)}
	return c.do(ctx, "update lead stage", rest.Put, endpoint("lead", id, "pipeline-stage"), nil, body, nil)
}
