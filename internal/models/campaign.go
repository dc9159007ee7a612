package model

import "time"

type Campaign struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:120;not null;uniqueIndex" json:"name"`
	Active    bool      `gorm:"not null" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ChecklistTemplate is the recurring list a campaign's daily routine task is
// materialized from. Only the newest active template is used.
type ChecklistTemplate struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	CampaignID string         `gorm:"size:36;not null;index" json:"campaign_id"`
	Name       string         `gorm:"not null" json:"name"`
	Active     bool           `gorm:"not null" json:"active"`
	CreatedAt  time.Time      `json:"created_at"`
	Items      []TemplateItem `gorm:"foreignKey:TemplateID" json:"items,omitempty"`
}
