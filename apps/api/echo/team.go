package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/skillbridge/portal/core/role"
	"github.com/skillbridge/portal/core/user"
)

type teamApi struct {
	svc user.ServiceInterface
}

func registerTeamAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc user.ServiceInterface) {
	api := teamApi{svc: svc}

	g.GET("/sales-team", api.query, jwt, authRequired, pipelineMiddleware)
}

// pipelineMiddleware only lets roles with pipeline access through.
func pipelineMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if !role.TierOf(getContextSession(ctx).Role()).CanRead() {
			return errForbidden
		}
		return next(ctx)
	}
}

func (api *teamApi) query(ctx echo.Context) error {
	members, err := api.svc.Members(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing team members")
	}
	return ctx.JSON(http.StatusOK, members)
}
