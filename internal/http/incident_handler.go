package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ops-portal.com/ops-portal/internal/constants"
	dto "ops-portal.com/ops-portal/internal/data_models"
	repository "ops-portal.com/ops-portal/internal/repositories"
	"ops-portal.com/ops-portal/internal/services"
)

func (h *Handler) CreateIncident(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CreateIncidentRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	incident, err := h.incidents.CreateIncident(c.Request().Context(), a, services.CreateIncidentInput{
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		Type:        req.Type,
		CampaignID:  req.CampaignID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, incident)
}

func (h *Handler) GetIncident(c echo.Context) error {
	incident, err := h.incidents.GetIncident(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, incident)
}

func (h *Handler) ListIncidents(c echo.Context) error {
	incidents, err := h.incidents.ListIncidents(c.Request().Context(), repository.IncidentFilter{
		State:      constants.IncidentState(c.QueryParam("state")),
		CampaignID: c.QueryParam("campaign_id"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list(incidents))
}

func (h *Handler) UpdateIncident(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateIncidentRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	incident, err := h.incidents.UpdateIncident(c.Request().Context(), a, c.Param("id"), services.IncidentUpdate{
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		Type:        req.Type,
		CampaignID:  req.CampaignID,
		OpenedAt:    req.OpenedAt,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, incident)
}

func (h *Handler) UpdateIncidentState(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.IncidentStateRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	incident, err := h.incidents.UpdateIncidentState(c.Request().Context(), a, c.Param("id"), req.State, req.Comment)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, incident)
}

func (h *Handler) ClaimIncident(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	incident, err := h.incidents.ClaimIncident(c.Request().Context(), a, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, incident)
}

func (h *Handler) AddIncidentComment(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	update, err := h.incidents.AddIncidentComment(c.Request().Context(), a, c.Param("id"), req.Body)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, update)
}
