package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "ops-portal.com/ops-portal/internal/data_models"
)

func (h *Handler) Alerts(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	alerts, err := h.alerts.GetAlerts(c.Request().Context(), a)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list(alerts))
}

func (h *Handler) SubmitOvertimeValidations(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.OvertimeValidationsRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	results, err := h.overtime.SubmitOvertimeValidations(c.Request().Context(), a, req.Validations)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list(results))
}

func (h *Handler) QueryOvertime(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	report, err := h.overtime.QueryOvertime(c.Request().Context(), a,
		c.QueryParam("rut"), c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) PendingOvertime(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	pending, err := h.overtime.ListPendingOvertime(c.Request().Context(), a, c.QueryParam("rut"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list(pending))
}
