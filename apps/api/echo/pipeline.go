package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/skillbridge/portal/core/lead"
)

type (
	MoveRequest struct {
		Stage string `json:"stage" validate:"required,stage"`
	}

	BatchMoveRequest struct {
		IDs   []string `json:"ids" validate:"max=500,dive,required,ident"`
		Stage string   `json:"stage" validate:"required,stage"`
	}
)

func (r MoveRequest) Validate(validate *validator.Validate) error      { return validate.Struct(r) }
func (r BatchMoveRequest) Validate(validate *validator.Validate) error { return validate.Struct(r) }

type pipelineApi struct {
	svc      lead.ServiceInterface
	validate *validator.Validate
}

func registerPipelineAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc lead.ServiceInterface, validate *validator.Validate) {
	api := pipelineApi{
		svc:      svc,
		validate: validate,
	}

	pg := g.Group("/pipeline", jwt, authRequired)
	pg.GET("", api.board)
	pg.POST("/leads/batch-stage", api.moveBatch, writerRequired)
	pg.PUT("/leads/:id/stage", api.move, writerRequired)
	pg.POST("/leads/:id/dump", api.dump, writerRequired)
	pg.GET("/leads/:id/history", api.history)
}

func (api *pipelineApi) open(ctx echo.Context) (*lead.Pipeline, error) {
	p, err := api.svc.Open(ctx.Request().Context(), getContextSession(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "opening pipeline")
	}
	return p, nil
}

func (api *pipelineApi) openForWrite(ctx echo.Context) (*lead.Pipeline, error) {
	p, err := api.svc.OpenForWrite(ctx.Request().Context(), getContextSession(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "opening pipeline")
	}
	return p, nil
}

// writerRequired rejects sessions that may not move leads before the request is bound or the backend called.
func writerRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if err := lead.CanWrite(getContextSession(ctx)); err != nil {
			return err
		}
		return next(ctx)
	}
}

// Handlers

func (api *pipelineApi) board(ctx echo.Context) error {
	p, err := api.open(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p.Board(ctx.QueryParam("search")))
}

func (api *pipelineApi) move(ctx echo.Context) error {
	var data MoveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MoveRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.openForWrite(ctx)
	if err != nil {
		return err
	}
	stage, _ := lead.ParseStage(data.Stage) // validated
	l, err := p.MoveLead(ctx.Request().Context(), ctx.Param("id"), stage)
	if err != nil {
		return errors.Wrap(err, "moving lead")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *pipelineApi) dump(ctx echo.Context) error {
	p, err := api.openForWrite(ctx)
	if err != nil {
		return err
	}
	l, err := p.MoveToDump(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "moving lead to dump")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *pipelineApi) moveBatch(ctx echo.Context) error {
	var data BatchMoveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BatchMoveRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.openForWrite(ctx)
	if err != nil {
		return err
	}
	stage, _ := lead.ParseStage(data.Stage) // validated
	res, err := p.MoveLeadsBatch(ctx.Request().Context(), data.IDs, stage)
	if err != nil {
		return errors.Wrap(err, "moving leads")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *pipelineApi) history(ctx echo.Context) error {
	var ordering Ordering
	ordering.Bind(ctx)

	transitions, err := api.svc.History(ctx.Request().Context(), getContextSession(ctx), ctx.Param("id"), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying lead history")
	}
	return ctx.JSON(http.StatusOK, transitions)
}
