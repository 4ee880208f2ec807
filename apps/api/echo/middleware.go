package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/user"
)

// rolesMiddleware restricts a route to sessions holding one of the given roles.
func rolesMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			for _, role := range roles {
				if claims.Role == string(role) {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return rolesMiddleware(user.RoleAdmin)
}

func staffMiddleware() echo.MiddlewareFunc {
	return rolesMiddleware(user.RoleAdmin, user.RoleTeacher)
}
