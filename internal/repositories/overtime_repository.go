package repository

import (
	"context"

	"gorm.io/gorm"

	"ops-portal.com/ops-portal/internal/constants"
	model "ops-portal.com/ops-portal/internal/models"
)

type OvertimeRepository struct {
	db *gorm.DB
}

func NewOvertimeRepository(db *gorm.DB) *OvertimeRepository {
	return &OvertimeRepository{db: db}
}

func (r *OvertimeRepository) Create(ctx context.Context, record *model.OvertimeValidation) error {
	return translate(r.db.WithContext(ctx).Create(record).Error)
}

func (r *OvertimeRepository) Save(ctx context.Context, record *model.OvertimeValidation) error {
	return translate(r.db.WithContext(ctx).Save(record).Error)
}

func (r *OvertimeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.OvertimeValidation{}, "id = ?", id).Error
}

func (r *OvertimeRepository) FindValidated(ctx context.Context, rut, date string, kind constants.OvertimeKind) (*model.OvertimeValidation, error) {
	var record model.OvertimeValidation
	err := r.db.WithContext(ctx).
		Where("rut = ? AND date = ? AND kind = ? AND state = ?", rut, date, kind, constants.ValidationValidated).
		First(&record).Error
	if err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

func (r *OvertimeRepository) FindPending(ctx context.Context, rut, date string) (*model.OvertimeValidation, error) {
	var record model.OvertimeValidation
	err := r.db.WithContext(ctx).
		Where("rut = ? AND date = ? AND state = ?", rut, date, constants.ValidationPendingCorrection).
		First(&record).Error
	if err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

// ListRange returns every record of the employee with from <= date <= to.
// Dates are stored as YYYY-MM-DD so string comparison orders them.
func (r *OvertimeRepository) ListRange(ctx context.Context, rut, from, to string) ([]model.OvertimeValidation, error) {
	var records []model.OvertimeValidation
	err := r.db.WithContext(ctx).
		Where("rut = ? AND date >= ? AND date <= ?", rut, from, to).
		Order("date asc, kind asc").
		Find(&records).Error
	return records, err
}

func (r *OvertimeRepository) ListPending(ctx context.Context, rut string) ([]model.OvertimeValidation, error) {
	query := r.db.WithContext(ctx).Where("state = ?", constants.ValidationPendingCorrection)
	if rut != "" {
		query = query.Where("rut = ?", rut)
	}

	var records []model.OvertimeValidation
	err := query.Order("date asc, rut asc").Find(&records).Error
	return records, err
}

func (r *OvertimeRepository) Count(ctx context.Context, rut, date string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OvertimeValidation{}).
		Where("rut = ? AND date = ?", rut, date).
		Count(&count).Error
	return count, err
}
