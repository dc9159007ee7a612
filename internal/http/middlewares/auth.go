package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"ops-portal.com/ops-portal/internal/auth"
	"ops-portal.com/ops-portal/internal/logging"
	"ops-portal.com/ops-portal/internal/policy"
)

const actorKey = "actor"

// Auth trusts the analyst id and role carried by a valid bearer token.
func Auth(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			actor, err := tokens.Parse(strings.TrimSpace(raw))
			if errors.Is(err, auth.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(actorKey, actor)
			ctx := logging.ContextWithFields(c.Request().Context(), "analyst_id", actor.ID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func ActorFrom(c echo.Context) (policy.Actor, bool) {
	actor, ok := c.Get(actorKey).(policy.Actor)
	return actor, ok
}
