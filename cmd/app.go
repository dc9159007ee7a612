package cmd

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"
	"gorm.io/gorm"

	"ops-portal.com/ops-portal/internal/alerts"
	config "ops-portal.com/ops-portal/internal/configs"
	"ops-portal.com/ops-portal/internal/logging"
	repository "ops-portal.com/ops-portal/internal/repositories"
	"ops-portal.com/ops-portal/internal/services"
	"ops-portal.com/ops-portal/internal/timetracking"
	"ops-portal.com/ops-portal/internal/timewindow"
)

// app holds the process-wide dependencies every command starts from.
type app struct {
	cfg   config.Config
	log   logging.Logger
	db    *gorm.DB
	store *repository.Store
	zone  timewindow.Zone
	redis rueidis.Client
}

func newApp() (*app, error) {
	dotenv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}
	if !dotenv {
		log.Debug(context.Background(), ".env file not found, using environment variables")
	}

	zone, err := timewindow.LoadZone(cfg.OperativeTimezone)
	if err != nil {
		return nil, fmt.Errorf("operative timezone: %w", err)
	}

	db, err := config.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:   cfg,
		log:   log,
		db:    db,
		store: repository.NewStore(db),
		zone:  zone,
	}, nil
}

type serviceSet struct {
	routines  *services.RoutineService
	sessions  *services.SessionService
	tasks     *services.TaskService
	incidents *services.IncidentService
	alerts    *services.AlertService
	overtime  *services.OvertimeService
}

func (a *app) services() (*serviceSet, error) {
	now := services.SystemClock

	tokens, err := a.tokenStore()
	if err != nil {
		return nil, err
	}
	var source services.AttendanceSource
	if a.cfg.TimeTrackingBaseURL != "" {
		source = timetracking.NewClient(timetracking.Options{
			BaseURL:  a.cfg.TimeTrackingBaseURL,
			User:     a.cfg.TimeTrackingUser,
			Password: a.cfg.TimeTrackingPassword,
			Timeout:  a.cfg.TimeTrackingTimeout(),
		}, tokens, a.log.With("component", "timetracking"))
	}

	routines := services.NewRoutineService(a.zone, now, a.log)
	return &serviceSet{
		routines:  routines,
		sessions:  services.NewSessionService(a.store, routines, now, a.log),
		tasks:     services.NewTaskService(a.store, now, a.log),
		incidents: services.NewIncidentService(a.store, a.zone, now, a.log),
		alerts: services.NewAlertService(a.store, a.zone, now, alerts.Policy{
			Grace:     a.cfg.AlertGraceMinutes,
			Lookahead: a.cfg.AlertLookaheadMinutes,
		}),
		overtime: services.NewOvertimeService(a.store, source, a.zone, now, a.log),
	}, nil
}

// tokenStore caches the upstream token in Redis when it is configured so that
// every replica shares one login.
func (a *app) tokenStore() (timetracking.TokenStore, error) {
	client, err := config.NewRedisClient(a.cfg.RedisAddr())
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if client == nil {
		return timetracking.NewMemoryTokenStore(), nil
	}
	a.redis = client
	return timetracking.NewRedisTokenStore(client, a.cfg.RedisTokenKey), nil
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
