package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories over one handle. Inside Transaction every
// repository is rebound to the transaction; a nested call opens a savepoint.
type Store struct {
	db *gorm.DB

	Analysts  *AnalystRepository
	Campaigns *CampaignRepository
	Sessions  *SessionRepository
	Tasks     *TaskRepository
	Incidents *IncidentRepository
	Overtime  *OvertimeRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Analysts:  NewAnalystRepository(db),
		Campaigns: NewCampaignRepository(db),
		Sessions:  NewSessionRepository(db),
		Tasks:     NewTaskRepository(db),
		Incidents: NewIncidentRepository(db),
		Overtime:  NewOvertimeRepository(db),
	}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn atomically. Any error returned by fn rolls back every
// write made through the store it received.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
