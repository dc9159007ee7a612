package model

import (
	"time"

	"ops-portal.com/ops-portal/internal/constants"
)

// OvertimeValidation is the local system of record for approved overtime.
// At most one validated row exists per (rut, date, kind) and at most one
// pending correction per (rut, date).
type OvertimeValidation struct {
	ID            string                    `gorm:"primaryKey;size:36" json:"id"`
	RUT           string                    `gorm:"column:rut;size:20;not null;index;index:idx_overtime_validated,unique,where:state = 'validated';index:idx_overtime_pending,unique,where:state = 'pending_correction'" json:"rut"`
	Date          string                    `gorm:"size:10;not null;index:idx_overtime_validated,unique;index:idx_overtime_pending,unique" json:"date"`
	Kind          constants.OvertimeKind    `gorm:"type:varchar(20);not null;index:idx_overtime_validated,unique" json:"kind"`
	DeclaredHours float64                   `gorm:"not null;default:0" json:"declared_hours"`
	ApprovedHours float64                   `gorm:"not null;default:0" json:"approved_hours"`
	State         constants.ValidationState `gorm:"type:varchar(20);not null;index" json:"state"`
	Note          string                    `gorm:"type:text" json:"note"`
	ValidatorID   string                    `gorm:"size:36;not null" json:"validator_id"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}
