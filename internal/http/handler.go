package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	errs "ops-portal.com/ops-portal/internal/errors"
	middleware "ops-portal.com/ops-portal/internal/http/middlewares"
	"ops-portal.com/ops-portal/internal/logging"
	"ops-portal.com/ops-portal/internal/policy"
	"ops-portal.com/ops-portal/internal/services"
)

type Services struct {
	Sessions  *services.SessionService
	Tasks     *services.TaskService
	Incidents *services.IncidentService
	Alerts    *services.AlertService
	Overtime  *services.OvertimeService
}

type Handler struct {
	sessions  *services.SessionService
	tasks     *services.TaskService
	incidents *services.IncidentService
	alerts    *services.AlertService
	overtime  *services.OvertimeService
	log       logging.Logger
}

func NewHandler(svc Services, log logging.Logger) *Handler {
	if log == nil {
		log = logging.Discard()
	}
	return &Handler{
		sessions:  svc.Sessions,
		tasks:     svc.Tasks,
		incidents: svc.Incidents,
		alerts:    svc.Alerts,
		overtime:  svc.Overtime,
		log:       log,
	}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// bind decodes the JSON body and runs the struct validation tags.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"error":   errs.KindValidation,
			"message": "invalid JSON payload",
		})
	}
	return c.Validate(req)
}

func actor(c echo.Context) (policy.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return policy.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}
	return a, nil
}

func list[T any](items []T) echo.Map {
	if items == nil {
		items = []T{}
	}
	return echo.Map{"count": len(items), "items": items}
}
