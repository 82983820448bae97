package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/skillbridge/portal/core/program"
)

type programApi struct {
	svc program.ServiceInterface
}

func registerProgramAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc program.ServiceInterface) {
	api := programApi{svc: svc}

	pg := g.Group("/programs", jwt, authRequired)
	pg.GET("", api.query)
	pg.POST("", api.create)

	// detail endpoints
	dg := pg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.POST("/modules", api.createModule)
	dg.PUT("/modules/:moduleId", api.updateModule)
}

func (api *programApi) query(ctx echo.Context) error {
	programs, err := api.svc.List(ctx.Request().Context(), getContextSession(ctx))
	if err != nil {
		return errors.Wrap(err, "listing programs")
	}
	return ctx.JSON(http.StatusOK, programs)
}

func (api *programApi) retrieve(ctx echo.Context) error {
	p, err := api.svc.Get(ctx.Request().Context(), getContextSession(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting program")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *programApi) create(ctx echo.Context) error {
	var data program.NewProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to program.NewProgram")
	}

	p, err := api.svc.Create(ctx.Request().Context(), getContextSession(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating program")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *programApi) update(ctx echo.Context) error {
	var data program.UpdateProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to program.UpdateProgram")
	}

	p, err := api.svc.Update(ctx.Request().Context(), getContextSession(ctx), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating program")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *programApi) createModule(ctx echo.Context) error {
	var data program.NewModule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to program.NewModule")
	}

	m, err := api.svc.CreateModule(ctx.Request().Context(), getContextSession(ctx), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "creating module")
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *programApi) updateModule(ctx echo.Context) error {
	var data program.NewModule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to program.NewModule")
	}

	m, err := api.svc.UpdateModule(ctx.Request().Context(), getContextSession(ctx), ctx.Param("id"), ctx.Param("moduleId"), data)
	if err != nil {
		return errors.Wrap(err, "updating module")
	}
	return ctx.JSON(http.StatusOK, m)
}
