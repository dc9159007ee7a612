package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ops-portal.com/ops-portal/internal/constants"
	model "ops-portal.com/ops-portal/internal/models"
	repository "ops-portal.com/ops-portal/internal/repositories"
)

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

const sample = `{
  "analysts": [
    {"name": "Ana", "email": "Ana@Example.com", "rut": "11111111-1", "role": "analyst"},
    {"name": "Sofia", "email": "sofia@example.com", "rut": "22222222-2", "role": "supervisor_ops"}
  ],
  "campaigns": [
    {"name": "Support-EN", "template": {"items": [
      {"description": "Send status email", "suggested_time": "9:00", "weekdays": "mon,tue,wed,thu,fri"},
      {"description": "Weekend backlog", "weekdays": "sat,sun"}
    ]}},
    {"name": "Support-ES"}
  ]
}`

func TestApply_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(setupTestDB(t))
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	f, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	summary, err := Apply(ctx, store, f, now, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{Analysts: 2, Campaigns: 2, Templates: 1}, summary)

	again, err := Apply(ctx, store, f, now, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, again)

	ana, err := store.Analysts.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAnalyst, ana.Role)

	campaign, err := store.Campaigns.FindByName(ctx, "Support-EN")
	require.NoError(t, err)
	template, err := store.Campaigns.ActiveTemplate(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, "Support-EN", template.Name)
	require.Len(t, template.Items, 2)
	assert.Equal(t, "09:00", *template.Items[0].SuggestedTime)
	assert.True(t, template.Items[0].Weekdays.Has(time.Monday))
	assert.False(t, template.Items[0].Weekdays.Has(time.Sunday))
	assert.Nil(t, template.Items[1].SuggestedTime)
}

func TestApply_RollsBackOnInvalidEntry(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(setupTestDB(t))

	f := File{
		Analysts: []Analyst{{Name: "Ana", Email: "ana@example.com", Role: constants.RoleAnalyst}},
		Campaigns: []Campaign{{Name: "Support-EN", Template: &Template{Items: []Item{
			{Description: "Bad day", Weekdays: "funday"},
		}}}},
	}

	_, err := Apply(ctx, store, f, time.Now(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "funday")

	_, err = store.Analysts.FindByEmail(ctx, "ana@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"analysts": [], "teams": []}`))
	assert.Error(t, err)
}

func TestApply_UnknownRole(t *testing.T) {
	store := repository.NewStore(setupTestDB(t))

	_, err := Apply(context.Background(), store, File{Analysts: []Analyst{{Name: "x", Email: "x@example.com", Role: "admin"}}}, time.Now(), nil)
	assert.Error(t, err)
}
