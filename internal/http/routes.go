package http

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"ops-portal.com/ops-portal/internal/auth"
	middleware "ops-portal.com/ops-portal/internal/http/middlewares"
	"ops-portal.com/ops-portal/internal/http/validators"
	"ops-portal.com/ops-portal/internal/logging"
)

type RouteOptions struct {
	Tokens             *auth.TokenManager
	RateLimitPerMinute int
	Log                logging.Logger
}

func Register(e *echo.Echo, h *Handler, opts RouteOptions) {
	e.Validator = validators.New()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	if opts.Log != nil {
		e.Use(middleware.RequestLogger(opts.Log))
	}

	e.GET("/healthz", h.Health)

	api := e.Group("/api",
		middleware.Auth(opts.Tokens),
		middleware.RateLimiter(opts.RateLimitPerMinute, time.Minute),
	)

	api.POST("/sessions/check-in", h.CheckIn)
	api.POST("/sessions/check-out", h.CheckOut)
	api.GET("/sessions/active", h.ActiveSessions)
	api.GET("/coverage", h.Coverage)

	api.POST("/tasks", h.CreateTask)
	api.GET("/tasks", h.ListTasks)
	api.GET("/tasks/:id", h.GetTask)
	api.PATCH("/tasks/:id", h.UpdateTask)
	api.GET("/tasks/:id/history", h.TaskHistory)
	api.GET("/tasks/:id/comments", h.TaskComments)
	api.POST("/tasks/:id/comments", h.AddTaskComment)
	api.PATCH("/tasks/:id/checklist/:itemId", h.ToggleChecklistItem)

	api.POST("/incidents", h.CreateIncident)
	api.GET("/incidents", h.ListIncidents)
	api.GET("/incidents/:id", h.GetIncident)
	api.PATCH("/incidents/:id", h.UpdateIncident)
	api.POST("/incidents/:id/state", h.UpdateIncidentState)
	api.POST("/incidents/:id/claim", h.ClaimIncident)
	api.POST("/incidents/:id/comments", h.AddIncidentComment)

	api.GET("/alerts", h.Alerts)

	api.POST("/overtime/validations", h.SubmitOvertimeValidations)
	api.GET("/overtime", h.QueryOvertime)
	api.GET("/overtime/pending", h.PendingOvertime)
}
