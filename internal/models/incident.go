package model

import (
	"time"

	"ops-portal.com/ops-portal/internal/constants"
)

type Incident struct {
	ID          string                  `gorm:"primaryKey;size:36" json:"id"`
	Title       string                  `gorm:"not null" json:"title"`
	Description string                  `gorm:"type:text" json:"description"`
	Severity    constants.Severity      `gorm:"type:varchar(10);not null" json:"severity"`
	Type        string                  `gorm:"size:60;not null" json:"type"`
	State       constants.IncidentState `gorm:"type:varchar(20);not null;index" json:"state"`
	CampaignID  string                  `gorm:"size:36;not null;index" json:"campaign_id"`
	CreatorID   string                  `gorm:"size:36;not null" json:"creator_id"`
	AssigneeID  *string                 `gorm:"size:36;index" json:"assignee_id,omitempty"`
	ClosedByID  *string                 `gorm:"size:36" json:"closed_by_id,omitempty"`
	OpenedAt    time.Time               `gorm:"not null" json:"opened_at"`
	ClosedAt    *time.Time              `json:"closed_at,omitempty"`
	Version     uint                    `gorm:"not null;default:1" json:"version"`
	UpdatedAt   time.Time               `json:"updated_at"`
	Updates     []IncidentUpdate        `gorm:"foreignKey:IncidentID" json:"updates,omitempty"`
}

// IncidentUpdate is an append-only comment. Change entries narrate the field
// diff of an update and are part of the audit trail.
type IncidentUpdate struct {
	ID         string               `gorm:"primaryKey;size:36" json:"id"`
	IncidentID string               `gorm:"size:36;not null;index" json:"incident_id"`
	AuthorID   string               `gorm:"size:36;not null" json:"author_id"`
	Kind       constants.UpdateKind `gorm:"type:varchar(10);not null" json:"kind"`
	Body       string               `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time            `gorm:"not null" json:"created_at"`
}
