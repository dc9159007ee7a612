package model

import (
	"time"

	"ops-portal.com/ops-portal/internal/constants"
)

type Analyst struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"size:255;uniqueIndex" json:"email"`
	RUT       string         `gorm:"column:rut;size:20;index" json:"rut"`
	Role      constants.Role `gorm:"type:varchar(20);not null" json:"role"`
	Active    bool           `gorm:"not null" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
}
