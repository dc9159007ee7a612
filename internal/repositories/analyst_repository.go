package repository

import (
	"context"

	"gorm.io/gorm"

	model "ops-portal.com/ops-portal/internal/models"
)

type AnalystRepository struct {
	db *gorm.DB
}

func NewAnalystRepository(db *gorm.DB) *AnalystRepository {
	return &AnalystRepository{db: db}
}

func (r *AnalystRepository) Create(ctx context.Context, analyst *model.Analyst) error {
	return translate(r.db.WithContext(ctx).Create(analyst).Error)
}

func (r *AnalystRepository) FindByID(ctx context.Context, id string) (*model.Analyst, error) {
	var analyst model.Analyst
	if err := r.db.WithContext(ctx).First(&analyst, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &analyst, nil
}

func (r *AnalystRepository) FindByEmail(ctx context.Context, email string) (*model.Analyst, error) {
	var analyst model.Analyst
	if err := r.db.WithContext(ctx).First(&analyst, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &analyst, nil
}

// NamesByID resolves display names; unknown ids are absent from the map.
func (r *AnalystRepository) NamesByID(ctx context.Context, ids ...string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var analysts []model.Analyst
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&analysts).Error; err != nil {
		return nil, err
	}
	for _, a := range analysts {
		names[a.ID] = a.Name
	}
	return names, nil
}
