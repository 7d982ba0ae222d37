package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core"
)

// adminMiddleware only lets the configured admin user through.
func adminMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if conf.Auth.AdminUserID != "" && claims.Subject == conf.Auth.AdminUserID {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
