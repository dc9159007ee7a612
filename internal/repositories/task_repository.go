package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ops-portal.com/ops-portal/internal/constants"
	model "ops-portal.com/ops-portal/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

type TaskFilter struct {
	OwnerID    string
	CampaignID string
	Progress   constants.Progress
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts the task and its checklist items. A second routine for the
// same campaign and day fails with ErrDuplicateKey.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.Version == 0 {
		task.Version = 1
	}
	return translate(r.db.WithContext(ctx).Create(task).Error)
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.withItems(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (r *TaskRepository) FindRoutine(ctx context.Context, campaignID, day string) (*model.Task, error) {
	var task model.Task
	err := r.withItems(ctx).
		Where("campaign_id = ? AND routine_day = ?", campaignID, day).
		First(&task).Error
	if err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (r *TaskRepository) CountRoutines(ctx context.Context, campaignID, day string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("campaign_id = ? AND routine_day = ?", campaignID, day).
		Count(&count).Error
	return count, err
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := r.withItems(ctx)
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.CampaignID != "" {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}
	if filter.Progress != "" {
		query = query.Where("progress = ?", filter.Progress)
	}

	var tasks []model.Task
	err := query.Order("created_at desc").Find(&tasks).Error
	return tasks, err
}

// ListOverdue returns open tasks whose due time is before now.
func (r *TaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("due_at IS NOT NULL AND due_at < ? AND progress IN ?", now, constants.OpenProgress()).
		Order("due_at asc").
		Find(&tasks).Error
	return tasks, err
}

// Update writes the mutable columns when the stored version still matches and
// bumps it; a stale copy fails with ErrOptimisticLock.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Updates(map[string]interface{}{
			"title":        task.Title,
			"description":  task.Description,
			"due_at":       task.DueAt,
			"progress":     task.Progress,
			"owner_id":     task.OwnerID,
			"campaign_id":  task.CampaignID,
			"completed_at": task.CompletedAt,
			"updated_at":   task.UpdatedAt,
			"version":      gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		return translate(res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}

	task.Version++
	return nil
}

func (r *TaskRepository) FindItem(ctx context.Context, taskID, itemID string) (*model.ChecklistItem, error) {
	var item model.ChecklistItem
	err := r.db.WithContext(ctx).First(&item, "id = ? AND task_id = ?", itemID, taskID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *TaskRepository) UpdateItem(ctx context.Context, item *model.ChecklistItem) error {
	return r.db.WithContext(ctx).Model(&model.ChecklistItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"completed":       item.Completed,
			"completed_by_id": item.CompletedByID,
			"completed_at":    item.CompletedAt,
		}).Error
}

func (r *TaskRepository) AppendHistory(ctx context.Context, entry *model.TaskHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *TaskRepository) History(ctx context.Context, taskID string) ([]model.TaskHistory, error) {
	var entries []model.TaskHistory
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at asc").
		Find(&entries).Error
	return entries, err
}

func (r *TaskRepository) AddComment(ctx context.Context, comment *model.TaskComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *TaskRepository) Comments(ctx context.Context, taskID string) ([]model.TaskComment, error) {
	var comments []model.TaskComment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at asc").
		Find(&comments).Error
	return comments, err
}

func (r *TaskRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("ChecklistItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	})
}
