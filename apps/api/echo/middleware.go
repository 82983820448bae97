package echoapi

import (
	"github.com/labstack/echo/v4"
)

// authRequired rejects verified tokens that carry no identity.
func authRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if !getContextSession(ctx).IsAuthenticated() {
			return errUnauthorized
		}
		return next(ctx)
	}
}
