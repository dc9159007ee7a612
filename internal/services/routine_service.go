package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ops-portal.com/ops-portal/internal/constants"
	"ops-portal.com/ops-portal/internal/logging"
	model "ops-portal.com/ops-portal/internal/models"
	repository "ops-portal.com/ops-portal/internal/repositories"
	"ops-portal.com/ops-portal/internal/timewindow"
)

// RoutineService materializes the shared daily checklist task of a campaign.
// The first check-in of the civil day creates it; later check-ins join it.
type RoutineService struct {
	zone timewindow.Zone
	now  Clock
	log  logging.Logger
}

func NewRoutineService(zone timewindow.Zone, now Clock, log logging.Logger) *RoutineService {
	if log == nil {
		log = logging.Discard()
	}
	return &RoutineService{zone: zone, now: now, log: log}
}

func (s *RoutineService) Today() string {
	return s.zone.CivilDay(nowUTC(s.now))
}

// Ensure must run inside the caller's transaction. It returns nil without error
// when the campaign has no active template.
func (s *RoutineService) Ensure(ctx context.Context, tx *repository.Store, campaign *model.Campaign, actorID string) (*model.Task, error) {
	now := nowUTC(s.now)
	day := s.zone.CivilDay(now)

	task, err := tx.Tasks.FindRoutine(ctx, campaign.ID, day)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	return s.createOrJoin(ctx, tx, campaign, actorID, now)
}

// createOrJoin inserts the routine inside a savepoint. Losing the race on the
// (campaign_id, routine_day) index turns into a join of the winner's task.
func (s *RoutineService) createOrJoin(ctx context.Context, tx *repository.Store, campaign *model.Campaign, actorID string, now time.Time) (*model.Task, error) {
	template, err := tx.Campaigns.ActiveTemplate(ctx, campaign.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	task := s.materialize(campaign, template, actorID, now)

	err = tx.Transaction(ctx, func(sp *repository.Store) error {
		return sp.Tasks.Create(ctx, task)
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		s.log.Info(ctx, "routine already created concurrently, joining",
			"campaign_id", campaign.ID, "routine_day", *task.RoutineDay)

		existing, err := tx.Tasks.FindRoutine(ctx, campaign.ID, *task.RoutineDay)
		if err != nil {
			return nil, fmt.Errorf("re-read routine after conflict: %w", err)
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "routine created",
		"campaign_id", campaign.ID, "task_id", task.ID, "items", len(task.ChecklistItems))
	return task, nil
}

func (s *RoutineService) materialize(campaign *model.Campaign, template *model.ChecklistTemplate, actorID string, now time.Time) *model.Task {
	day := s.zone.CivilDay(now)
	weekday := s.zone.Weekday(now)
	_, end := s.zone.CivilDayBounds(now)
	due := end.Add(-time.Second).UTC()

	task := &model.Task{
		ID:            uuid.NewString(),
		Title:         fmt.Sprintf("Rutina diaria %s %s", campaign.Name, day),
		Description:   template.Name,
		DueAt:         &due,
		Progress:      constants.ProgressPending,
		CampaignID:    strPtr(campaign.ID),
		AutoGenerated: true,
		RoutineDay:    strPtr(day),
		CreatedByID:   strPtr(actorID),
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, line := range template.Items {
		if !line.Weekdays.Has(weekday) {
			continue
		}
		task.ChecklistItems = append(task.ChecklistItems, model.ChecklistItem{
			ID:            uuid.NewString(),
			TaskID:        task.ID,
			Position:      line.Position,
			Description:   line.Description,
			SuggestedTime: normalizeClock(line.SuggestedTime),
		})
	}
	return task
}

func normalizeClock(value *string) *string {
	if value == nil {
		return nil
	}
	c, err := timewindow.ParseClock(*value)
	if err != nil {
		return nil
	}
	return strPtr(c.String())
}
