package model

import (
	"time"

	"ops-portal.com/ops-portal/internal/constants"
)

// Task covers both analyst-owned tasks and the auto-generated daily routine of
// a campaign. Routine tasks carry RoutineDay; the partial unique index on
// (campaign_id, routine_day) keeps one routine per campaign and civil day.
type Task struct {
	ID             string             `gorm:"primaryKey;size:36" json:"id"`
	Title          string             `gorm:"not null" json:"title"`
	Description    string             `gorm:"type:text" json:"description"`
	DueAt          *time.Time         `gorm:"index" json:"due_at,omitempty"`
	Progress       constants.Progress `gorm:"type:varchar(20);not null;index" json:"progress"`
	OwnerID        *string            `gorm:"size:36;index" json:"owner_id,omitempty"`
	CampaignID     *string            `gorm:"size:36;index;index:idx_tasks_routine_day,unique,where:routine_day IS NOT NULL" json:"campaign_id,omitempty"`
	AutoGenerated  bool               `gorm:"not null;default:false" json:"auto_generated"`
	RoutineDay     *string            `gorm:"size:10;index:idx_tasks_routine_day,unique,where:routine_day IS NOT NULL" json:"routine_day,omitempty"`
	CreatedByID    *string            `gorm:"size:36" json:"created_by_id,omitempty"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	Version        uint               `gorm:"not null;default:1" json:"version"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	ChecklistItems []ChecklistItem    `gorm:"foreignKey:TaskID" json:"checklist_items,omitempty"`
}

type ChecklistItem struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	TaskID        string     `gorm:"size:36;not null;index" json:"task_id"`
	Position      int        `gorm:"not null" json:"position"`
	Description   string     `gorm:"not null" json:"description"`
	SuggestedTime *string    `gorm:"size:5" json:"suggested_time,omitempty"`
	Completed     bool       `gorm:"not null;default:false" json:"completed"`
	CompletedByID *string    `gorm:"size:36" json:"completed_by_id,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// TaskHistory is append-only. ActorID is nil for system transitions.
type TaskHistory struct {
	ID          string             `gorm:"primaryKey;size:36" json:"id"`
	TaskID      string             `gorm:"size:36;not null;index" json:"task_id"`
	OldProgress constants.Progress `gorm:"type:varchar(20);not null" json:"old_progress"`
	NewProgress constants.Progress `gorm:"type:varchar(20);not null" json:"new_progress"`
	ActorID     *string            `gorm:"size:36" json:"actor_id,omitempty"`
	System      bool               `gorm:"not null;default:false" json:"system"`
	CreatedAt   time.Time          `gorm:"not null" json:"created_at"`
}

func (TaskHistory) TableName() string {
	return "task_history"
}

type TaskComment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"size:36;not null;index" json:"task_id"`
	AuthorID  string    `gorm:"size:36;not null" json:"author_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
