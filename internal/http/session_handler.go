package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "ops-portal.com/ops-portal/internal/data_models"
)

func (h *Handler) CheckIn(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.SessionRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	result, err := h.sessions.CheckIn(c.Request().Context(), a, req.CampaignID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) CheckOut(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.SessionRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	session, err := h.sessions.CheckOut(c.Request().Context(), a, req.CampaignID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *Handler) ActiveSessions(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	sessions, err := h.sessions.ListActive(c.Request().Context(), a.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list(sessions))
}

func (h *Handler) Coverage(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	report, err := h.sessions.Coverage(c.Request().Context(), a)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list(report))
}
