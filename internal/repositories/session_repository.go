package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	model "ops-portal.com/ops-portal/internal/models"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create fails with ErrDuplicateKey when the pair already has an open session.
func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	return translate(r.db.WithContext(ctx).Create(session).Error)
}

func (r *SessionRepository) FindActive(ctx context.Context, analystID, campaignID string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Where("analyst_id = ? AND campaign_id = ? AND ended_at IS NULL", analystID, campaignID).
		First(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *SessionRepository) HasActive(ctx context.Context, analystID, campaignID string) (bool, error) {
	count, err := r.CountActive(ctx, analystID, campaignID)
	return count > 0, err
}

// Close ends an open session; a session that is already closed is ErrNotFound.
func (r *SessionRepository) Close(ctx context.Context, session *model.Session, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND ended_at IS NULL", session.ID).
		Update("ended_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	session.EndedAt = &at
	return nil
}

func (r *SessionRepository) ListActiveByAnalyst(ctx context.Context, analystID string) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Where("analyst_id = ? AND ended_at IS NULL", analystID).
		Order("started_at asc").
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) ListActive(ctx context.Context) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Where("ended_at IS NULL").
		Order("started_at asc").
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) CountActive(ctx context.Context, analystID, campaignID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("analyst_id = ? AND campaign_id = ? AND ended_at IS NULL", analystID, campaignID).
		Count(&count).Error
	return count, err
}
