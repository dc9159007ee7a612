package model

import "time"

// Session is a check-in of an analyst on a campaign. The partial unique index
// keeps at most one open session per (analyst, campaign).
type Session struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	AnalystID  string     `gorm:"size:36;not null;index:idx_sessions_active,unique,where:ended_at IS NULL;index" json:"analyst_id"`
	CampaignID string     `gorm:"size:36;not null;index:idx_sessions_active,unique,where:ended_at IS NULL;index:idx_sessions_campaign" json:"campaign_id"`
	StartedAt  time.Time  `gorm:"not null" json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}

func (s Session) Active() bool {
	return s.EndedAt == nil
}
