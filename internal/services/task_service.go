package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"ops-portal.com/ops-portal/internal/constants"
	dto "ops-portal.com/ops-portal/internal/data_models"
	errs "ops-portal.com/ops-portal/internal/errors"
	"ops-portal.com/ops-portal/internal/logging"
	model "ops-portal.com/ops-portal/internal/models"
	"ops-portal.com/ops-portal/internal/policy"
	repository "ops-portal.com/ops-portal/internal/repositories"
)

type TaskService struct {
	store *repository.Store
	now   Clock
	log   logging.Logger
}

type CreateTaskInput struct {
	Title       string
	Description string
	DueAt       *time.Time
	OwnerID     *string
	CampaignID  *string
}

// TaskUpdate carries only the fields the caller sent.
type TaskUpdate struct {
	Title       *string
	Description *string
	Progress    *constants.Progress
	DueAt       dto.Nullable[time.Time]
	OwnerID     dto.Nullable[string]
	CampaignID  dto.Nullable[string]
}

func NewTaskService(store *repository.Store, now Clock, log logging.Logger) *TaskService {
	if log == nil {
		log = logging.Discard()
	}
	return &TaskService{store: store, now: now, log: log}
}

func (s *TaskService) CreateTask(ctx context.Context, actor policy.Actor, in CreateTaskInput) (*model.Task, error) {
	if _, err := authorize(policy.OpCreateTask, actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, errs.Validationf("title is required")
	}

	owner := in.OwnerID
	if owner == nil && !actor.Role.AtLeast(constants.RoleResponsible) {
		owner = strPtr(actor.ID)
	}
	if !policy.CanAssignOwner(actor, owner) {
		return nil, errs.Forbiddenf("analysts may only create tasks for themselves")
	}

	now := nowUTC(s.now)
	task := &model.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueAt:       utcPtr(in.DueAt),
		Progress:    constants.ProgressPending,
		OwnerID:     owner,
		CampaignID:  in.CampaignID,
		CreatedByID: strPtr(actor.ID),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if task.CampaignID != nil {
			if _, err := tx.Campaigns.FindByID(ctx, *task.CampaignID); err != nil {
				return storeError(err, errs.ErrCampaignNotFound)
			}
		}
		if task.OwnerID != nil {
			if _, err := tx.Analysts.FindByID(ctx, *task.OwnerID); err != nil {
				return storeError(err, errs.ErrAnalystNotFound)
			}
		}
		return tx.Tasks.Create(ctx, task)
	})
	if err != nil {
		return nil, storeError(err, errs.ErrTaskNotFound)
	}

	s.log.Info(ctx, "task created", "task_id", task.ID, "actor_id", actor.ID)
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.store.Tasks.FindByID(ctx, id)
	return task, storeError(err, errs.ErrTaskNotFound)
}

// ListTasks runs the expiry sweep first so overdue tasks never show as open.
func (s *TaskService) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	if _, err := s.ExpireOverdue(ctx); err != nil {
		s.log.Warn(ctx, "expiry sweep failed before listing tasks", "error", err)
	}
	return s.store.Tasks.List(ctx, filter)
}

func (s *TaskService) GetTaskHistory(ctx context.Context, id string) ([]model.TaskHistory, error) {
	if _, err := s.GetTask(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Tasks.History(ctx, id)
}

func (s *TaskService) UpdateTask(ctx context.Context, actor policy.Actor, id string, upd TaskUpdate) (*model.Task, error) {
	var task *model.Task

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		task, err = tx.Tasks.FindByID(ctx, id)
		if err != nil {
			return storeError(err, errs.ErrTaskNotFound)
		}

		if err := s.authorizeTaskMutation(ctx, tx, policy.OpUpdateTask, actor, task); err != nil {
			return err
		}
		if err := checkTaskFields(actor, upd); err != nil {
			return err
		}

		now := nowUTC(s.now)
		history, err := s.applyTaskUpdate(ctx, tx, actor, task, upd, now)
		if err != nil {
			return err
		}

		task.UpdatedAt = now
		if err := tx.Tasks.Update(ctx, task); err != nil {
			return storeError(err, errs.ErrTaskNotFound)
		}
		if history != nil {
			return tx.Tasks.AppendHistory(ctx, history)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

func checkTaskFields(actor policy.Actor, upd TaskUpdate) error {
	sent := map[policy.TaskField]bool{
		policy.FieldTitle:       upd.Title != nil,
		policy.FieldDescription: upd.Description != nil,
		policy.FieldProgress:    upd.Progress != nil,
		policy.FieldDueAt:       upd.DueAt.Set,
		policy.FieldOwner:       upd.OwnerID.Set,
		policy.FieldCampaign:    upd.CampaignID.Set,
	}
	for field, present := range sent {
		if present && !policy.CanEditTaskField(actor.Role, field) {
			return errs.Forbiddenf("role %s may not change %s", actor.Role, field)
		}
	}
	if upd.OwnerID.Set && !policy.CanAssignOwner(actor, upd.OwnerID.Value) {
		return errs.Forbiddenf("analysts may only assign a task to themselves or release it")
	}
	return nil
}

func (s *TaskService) applyTaskUpdate(ctx context.Context, tx *repository.Store, actor policy.Actor, task *model.Task, upd TaskUpdate, now time.Time) (*model.TaskHistory, error) {
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, errs.Validationf("title must not be empty")
		}
		task.Title = title
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.DueAt.Set {
		task.DueAt = utcPtr(upd.DueAt.Value)
	}
	if upd.OwnerID.Set {
		if upd.OwnerID.Value != nil {
			if _, err := tx.Analysts.FindByID(ctx, *upd.OwnerID.Value); err != nil {
				return nil, storeError(err, errs.ErrAnalystNotFound)
			}
		}
		task.OwnerID = upd.OwnerID.Value
	}
	if upd.CampaignID.Set {
		if upd.CampaignID.Value != nil {
			if _, err := tx.Campaigns.FindByID(ctx, *upd.CampaignID.Value); err != nil {
				return nil, storeError(err, errs.ErrCampaignNotFound)
			}
		}
		task.CampaignID = upd.CampaignID.Value
	}

	if upd.Progress == nil || *upd.Progress == task.Progress {
		return nil, nil
	}
	next := *upd.Progress
	if !next.Valid() {
		return nil, errs.Validationf("unknown progress %q", next)
	}
	if !task.Progress.CanTransitionTo(next) {
		return nil, errs.Validationf("cannot move task from %s to %s", task.Progress, next)
	}
	return transition(task, next, strPtr(actor.ID), now), nil
}

// transition applies a progress change and returns its history entry. A nil
// actor marks a system transition.
func transition(task *model.Task, next constants.Progress, actorID *string, now time.Time) *model.TaskHistory {
	entry := &model.TaskHistory{
		ID:          uuid.NewString(),
		TaskID:      task.ID,
		OldProgress: task.Progress,
		NewProgress: next,
		ActorID:     actorID,
		System:      actorID == nil,
		CreatedAt:   now,
	}

	task.Progress = next
	if next.Terminal() {
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
	return entry
}

// HasCollaborativeAccess holds when the task is a campaign routine and the
// actor is checked in on that campaign.
func (s *TaskService) HasCollaborativeAccess(ctx context.Context, tx *repository.Store, actor policy.Actor, task *model.Task) (bool, error) {
	if !task.AutoGenerated || task.CampaignID == nil {
		return false, nil
	}
	return tx.Sessions.HasActive(ctx, actor.ID, *task.CampaignID)
}

func (s *TaskService) authorizeTaskMutation(ctx context.Context, tx *repository.Store, op policy.Operation, actor policy.Actor, task *model.Task) error {
	decision, err := authorize(op, actor)
	if err != nil {
		return err
	}
	if decision == policy.Allowed {
		return nil
	}
	if task.OwnerID != nil && *task.OwnerID == actor.ID {
		return nil
	}
	ok, err := s.HasCollaborativeAccess(ctx, tx, actor, task)
	if err != nil {
		return err
	}
	if !ok {
		return errs.ErrNotTaskCollaborator
	}
	return nil
}

// ToggleChecklistItem records who completed the item and when; uncompleting
// clears both.
func (s *TaskService) ToggleChecklistItem(ctx context.Context, actor policy.Actor, taskID, itemID string, completed bool) (*model.ChecklistItem, error) {
	var item *model.ChecklistItem

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.FindByID(ctx, taskID)
		if err != nil {
			return storeError(err, errs.ErrTaskNotFound)
		}
		if err := s.authorizeTaskMutation(ctx, tx, policy.OpToggleChecklist, actor, task); err != nil {
			return err
		}

		item, err = tx.Tasks.FindItem(ctx, taskID, itemID)
		if err != nil {
			return storeError(err, errs.ErrChecklistItemNotFound)
		}
		if item.Completed == completed {
			return nil
		}

		item.Completed = completed
		if completed {
			now := nowUTC(s.now)
			item.CompletedByID = strPtr(actor.ID)
			item.CompletedAt = &now
		} else {
			item.CompletedByID = nil
			item.CompletedAt = nil
		}
		return tx.Tasks.UpdateItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *TaskService) AddTaskComment(ctx context.Context, actor policy.Actor, taskID, body string) (*model.TaskComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errs.Validationf("comment body is required")
	}

	comment := &model.TaskComment{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		AuthorID:  actor.ID,
		Body:      body,
		CreatedAt: nowUTC(s.now),
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.FindByID(ctx, taskID)
		if err != nil {
			return storeError(err, errs.ErrTaskNotFound)
		}
		if err := s.authorizeTaskMutation(ctx, tx, policy.OpCommentTask, actor, task); err != nil {
			return err
		}
		return tx.Tasks.AddComment(ctx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *TaskService) ListTaskComments(ctx context.Context, taskID string) ([]model.TaskComment, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.store.Tasks.Comments(ctx, taskID)
}

// ExpireOverdue cancels open tasks whose due time has passed and records a
// system-attributed history entry for each. Tasks changed concurrently are
// left for the next sweep.
func (s *TaskService) ExpireOverdue(ctx context.Context) (int, error) {
	now := nowUTC(s.now)
	expired := 0

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		overdue, err := tx.Tasks.ListOverdue(ctx, now)
		if err != nil {
			return err
		}

		for i := range overdue {
			task := &overdue[i]
			entry := transition(task, constants.ProgressCancelled, nil, now)
			task.UpdatedAt = now

			if err := tx.Tasks.Update(ctx, task); err != nil {
				if errors.Is(err, repository.ErrOptimisticLock) {
					s.log.Warn(ctx, "sweep: task changed concurrently, skipping", "task_id", task.ID)
					continue
				}
				return err
			}
			if err := tx.Tasks.AppendHistory(ctx, entry); err != nil {
				return err
			}
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		s.log.Info(ctx, "expired overdue tasks", "count", expired)
	}
	return expired, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
