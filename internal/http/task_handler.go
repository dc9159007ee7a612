package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ops-portal.com/ops-portal/internal/constants"
	dto "ops-portal.com/ops-portal/internal/data_models"
	repository "ops-portal.com/ops-portal/internal/repositories"
	"ops-portal.com/ops-portal/internal/services"
)

func (h *Handler) CreateTask(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	task, err := h.tasks.CreateTask(c.Request().Context(), a, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
		OwnerID:     req.OwnerID,
		CampaignID:  req.CampaignID,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.tasks.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	progress := constants.Progress(c.QueryParam("progress"))
	if progress != "" && !progress.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown progress filter")
	}

	tasks, err := h.tasks.ListTasks(c.Request().Context(), repository.TaskFilter{
		OwnerID:    c.QueryParam("owner_id"),
		CampaignID: c.QueryParam("campaign_id"),
		Progress:   progress,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list(tasks))
}

func (h *Handler) UpdateTask(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	task, err := h.tasks.UpdateTask(c.Request().Context(), a, c.Param("id"), services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Progress:    req.Progress,
		DueAt:       req.DueAt,
		OwnerID:     req.OwnerID,
		CampaignID:  req.CampaignID,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) TaskHistory(c echo.Context) error {
	history, err := h.tasks.GetTaskHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list(history))
}

func (h *Handler) TaskComments(c echo.Context) error {
	comments, err := h.tasks.ListTaskComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list(comments))
}

func (h *Handler) AddTaskComment(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	comment, err := h.tasks.AddTaskComment(c.Request().Context(), a, c.Param("id"), req.Body)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *Handler) ToggleChecklistItem(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.ToggleChecklistItemRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	item, err := h.tasks.ToggleChecklistItem(c.Request().Context(), a, c.Param("id"), c.Param("itemId"), *req.Completed)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, item)
}
