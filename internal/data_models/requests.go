package dto

import (
	"time"

	"ops-portal.com/ops-portal/internal/constants"
	"ops-portal.com/ops-portal/internal/overtime"
)

type SessionRequest struct {
	CampaignID string `json:"campaign_id" validate:"required"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
	OwnerID     *string    `json:"owner_id"`
	CampaignID  *string    `json:"campaign_id"`
}

type UpdateTaskRequest struct {
	Title       *string             `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string             `json:"description"`
	Progress    *constants.Progress `json:"progress" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	DueAt       Nullable[time.Time] `json:"due_at"`
	OwnerID     Nullable[string]    `json:"owner_id"`
	CampaignID  Nullable[string]    `json:"campaign_id"`
}

type ToggleChecklistItemRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

type CommentRequest struct {
	Body string `json:"body" validate:"required,max=4000"`
}

type CreateIncidentRequest struct {
	Title       string             `json:"title" validate:"required,max=255"`
	Description string             `json:"description"`
	Severity    constants.Severity `json:"severity" validate:"required,oneof=LOW MEDIUM HIGH"`
	Type        string             `json:"type" validate:"required,max=60"`
	CampaignID  string             `json:"campaign_id" validate:"required"`
	AssigneeID  *string            `json:"assignee_id"`
}

type UpdateIncidentRequest struct {
	Title       *string             `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string             `json:"description"`
	Severity    *constants.Severity `json:"severity" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Type        *string             `json:"type" validate:"omitempty,min=1,max=60"`
	CampaignID  *string             `json:"campaign_id" validate:"omitempty,min=1"`
	OpenedAt    *time.Time          `json:"opened_at"`
	AssigneeID  Nullable[string]    `json:"assignee_id"`
}

type IncidentStateRequest struct {
	State   constants.IncidentState `json:"state" validate:"required,oneof=OPEN IN_PROGRESS CLOSED"`
	Comment string                  `json:"comment" validate:"max=4000"`
}

type OvertimeValidationsRequest struct {
	Validations []overtime.Submission `json:"validations" validate:"required,min=1,dive"`
}
