package crmapi

import (
	"context"

	"github.com/sendgrid/rest"

	"github.com/skillbridge/portal/core/program"
)

type (
	objectiveData struct {
		ID   string `json:"_id"`
		Text string `json:"text"`
	}

	moduleData struct {
		ID         string          `json:"_id"`
		Title      string          `json:"title"`
		Order      int             `json:"order"`
		Objectives []objectiveData `json:"objectives"`
	}

	programData struct {
		ID          string       `json:"_id"`
		Title       string       `json:"title"`
		Description string       `json:"description"`
		Modules     []moduleData `json:"modules"`
	}
)

func (d moduleData) toModule() program.Module {
	m := program.Module{ID: d.ID, Title: d.Title, Order: d.Order, Objectives: make([]program.Objective, 0, len(d.Objectives))}
	for _, o := range d.Objectives {
		m.Objectives = append(m.Objectives, program.Objective(o))
	}
	return m
}

func (d programData) toProgram() program.Program {
	p := program.Program{ID: d.ID, Title: d.Title, Description: d.Description, Modules: make([]program.Module, 0, len(d.Modules))}
	for _, m := range d.Modules {
		p.Modules = append(p.Modules, m.toModule())
	}
	return p
}

var _ program.Repository = (*Client)(nil)

func (c *Client) ListPrograms(ctx context.Context) ([]program.Program, error) {
	var data []programData
	if err := c.do(ctx, "list programs", rest.Get, "program", nil, nil, &data); err != nil {
		return nil, err
	}
	programs := make([]program.Program, 0, len(data))
	for _, d := range data {
		programs = append(programs, d.toProgram())
	}
	return programs, nil
}

func (c *Client) GetProgram(ctx context.Context, id string) (program.Program, error) {
	var data programData
	if err := c.do(ctx, "get program", rest.Get, endpoint("program", id), nil, nil, &data); err != nil {
		return program.Program{}, err
	}
	return data.toProgram(), nil
}

func (c *Client) CreateProgram(ctx context.Context, np program.NewProgram) (program.Program, error) {
	var data programData
	if err := c.do(ctx, "create program", rest.Post, "program", nil, np, &data); err != nil {
		return program.Program{}, err
	}
	return data.toProgram(), nil
}

func (c *Client) UpdateProgram(ctx context.Context, id string, up program.UpdateProgram) (program.Program, error) {
	var data programData
	if err := c.do(ctx, "update program", rest.Put, endpoint("program", id), nil, up, &data); err != nil {
		return program.Program{}, err
	}
	return data.toProgram(), nil
}

func (c *Client) CreateModule(ctx context.Context, programID string, nm program.NewModule) (program.Module, error) {
	var data moduleData
	if err := c.do(ctx, "create module", rest.Post, endpoint("program", programID, "module"), nil, nm, &data); err != nil {
		return program.Module{}, err
	}
	return data.toModule(), nil
}

func (c *Client) UpdateModule(ctx context.Context, programID, moduleID string, nm program.NewModule) (program.Module, error) {
	var data moduleData
	if err := c.do(ctx, "update module", rest.Put, endpoint("program", programID, "module", moduleID), nil, nm, &data); err != nil {
		return program.Module{}, err
	}
	return data.toModule(), nil
}
