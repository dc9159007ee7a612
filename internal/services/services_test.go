package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ops-portal.com/ops-portal/internal/alerts"
	"ops-portal.com/ops-portal/internal/constants"
	"ops-portal.com/ops-portal/internal/logging"
	model "ops-portal.com/ops-portal/internal/models"
	"ops-portal.com/ops-portal/internal/policy"
	repository "ops-portal.com/ops-portal/internal/repositories"
	"ops-portal.com/ops-portal/internal/timewindow"
)

var testZone = timewindow.NewZone(time.FixedZone("CLT", -3*3600))

// monday is 2024-03-04 in the operative zone.
func monday(hour, minute int) time.Time {
	return time.Date(2024, 3, 4, hour, minute, 0, 0, testZone.Location())
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *repository.Store
	clock *testClock
	log   logging.Logger

	routines  *RoutineService
	sessions  *SessionService
	tasks     *TaskService
	incidents *IncidentService
	alerts    *AlertService
	overtime  *OvertimeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := repository.NewStore(setupTestDB(t))
	clock := &testClock{now: monday(9, 30)}
	log := logging.Discard()
	routines := NewRoutineService(testZone, clock.Now, log)

	return &fixture{
		t:         t,
		ctx:       context.Background(),
		store:     store,
		clock:     clock,
		log:       log,
		routines:  routines,
		sessions:  NewSessionService(store, routines, clock.Now, log),
		tasks:     NewTaskService(store, clock.Now, log),
		incidents: NewIncidentService(store, testZone, clock.Now, log),
		alerts:    NewAlertService(store, testZone, clock.Now, alerts.DefaultPolicy),
		overtime:  NewOvertimeService(store, nil, testZone, clock.Now, log),
	}
}

func (f *fixture) analyst(name string, role constants.Role) policy.Actor {
	f.t.Helper()
	a := &model.Analyst{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  name + "@example.com",
		RUT:    uuid.NewString()[:10],
		Role:   role,
		Active: true,
	}
	require.NoError(f.t, f.store.Analysts.Create(f.ctx, a))
	return policy.Actor{ID: a.ID, Role: role}
}

func (f *fixture) campaign(name string, lines ...model.TemplateItem) *model.Campaign {
	f.t.Helper()
	c := &model.Campaign{ID: uuid.NewString(), Name: name, Active: true}
	require.NoError(f.t, f.store.Campaigns.Create(f.ctx, c))

	if len(lines) > 0 {
		for i := range lines {
			lines[i].ID = uuid.NewString()
		}
		tpl := &model.ChecklistTemplate{
			ID:         uuid.NewString(),
			CampaignID: c.ID,
			Name:       name + " routine",
			Active:     true,
			CreatedAt:  f.clock.Now().Add(-24 * time.Hour),
			Items:      lines,
		}
		require.NoError(f.t, f.store.Campaigns.CreateTemplate(f.ctx, tpl))
	}
	return c
}

func line(position int, description, suggested string, days model.Weekdays) model.TemplateItem {
	item := model.TemplateItem{Position: position, Description: description, Weekdays: days}
	if suggested != "" {
		item.SuggestedTime = &suggested
	}
	return item
}
