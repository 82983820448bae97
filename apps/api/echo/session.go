package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skillbridge/portal/core/role"
	"github.com/skillbridge/portal/core/session"
)

type SessionResponse struct {
	session.View
	Dashboard string    `json:"dashboard"`
	Tier      role.Tier `json:"tier"`
}

type sessionApi struct{}

func registerSessionAPI(g *echo.Group, jwt, jwtOptional echo.MiddlewareFunc) {
	api := sessionApi{}

	g.GET("/session", api.retrieve, jwt, authRequired)
	g.GET("/navigation", api.navigate, jwtOptional)
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	sess := getContextSession(ctx)
	return ctx.JSON(http.StatusOK, SessionResponse{
		View:      sess.View(),
		Dashboard: role.DashboardPath(sess.Role()),
		Tier:      role.TierOf(sess.Role()),
	})
}

// navigate tells the portal whether the current user may open `?path=` or where to go instead.
func (api *sessionApi) navigate(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, role.Resolve(ctx.QueryParam("path"), getContextSession(ctx)))
}
