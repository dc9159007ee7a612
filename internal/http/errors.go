package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	errs "ops-portal.com/ops-portal/internal/errors"
)

// fail maps a service error onto an echo.HTTPError. Anything that is not a
// known exception is logged and answered with a generic 500.
func (h *Handler) fail(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var appErr *errs.Exception
	if errors.As(err, &appErr) && appErr.Kind != errs.KindInternal {
		status := appErr.StatusCode
		if status == 0 {
			status = errs.StatusCode(err)
		}
		return echo.NewHTTPError(status, echo.Map{
			"error":   appErr.Kind,
			"message": err.Error(),
		})
	}

	h.log.Error(c.Request().Context(), "request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"error", err,
	)
	return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{
		"error":   errs.KindInternal,
		"message": "internal error",
	})
}
