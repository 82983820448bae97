package crmapi

import (
	"context"

	"github.com/sendgrid/rest"

	"github.com/skillbridge/portal/core/user"
)

type memberData struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Manager string `json:"manager"`
	Team    string `json:"team"`
}

var _ user.Repository = (*Client)(nil)

func (c *Client) ListTeamMembers(ctx context.Context) ([]user.TeamMember, error) {
	var data []memberData
	if err := c.do(ctx, "list team members", rest.Get, endpoint("users", "sales-team"), nil, nil, &data); err != nil {
		return nil, err
	}
	members := make([]user.TeamMember, 0, len(data))
	for _, d := range data {
		members = append(members, user.TeamMember(d))
	}
	return members, nil
}
