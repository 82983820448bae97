package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/skillbridge/portal/core/interview"
)

type interviewApi struct {
	svc interview.ServiceInterface
}

func registerInterviewAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc interview.ServiceInterface) {
	api := interviewApi{svc: svc}

	ig := g.Group("/interviews", jwt, authRequired)
	ig.GET("", api.query)
	ig.PUT("/:id", api.update)
}

func (api *interviewApi) query(ctx echo.Context) error {
	var filter interview.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to interview.QueryFilter")
	}

	ivs, err := api.svc.List(ctx.Request().Context(), getContextSession(ctx), filter)
	if err != nil {
		return errors.Wrap(err, "listing interviews")
	}
	return ctx.JSON(http.StatusOK, ivs)
}

func (api *interviewApi) update(ctx echo.Context) error {
	var data interview.Update
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to interview.Update")
	}

	iv, err := api.svc.Update(ctx.Request().Context(), getContextSession(ctx), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating interview")
	}
	return ctx.JSON(http.StatusOK, iv)
}
