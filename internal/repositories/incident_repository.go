package repository

import (
	"context"

	"gorm.io/gorm"

	"ops-portal.com/ops-portal/internal/constants"
	model "ops-portal.com/ops-portal/internal/models"
)

type IncidentRepository struct {
	db *gorm.DB
}

type IncidentFilter struct {
	State      constants.IncidentState
	CampaignID string
}

func NewIncidentRepository(db *gorm.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

func (r *IncidentRepository) Create(ctx context.Context, incident *model.Incident) error {
	if incident.Version == 0 {
		incident.Version = 1
	}
	return translate(r.db.WithContext(ctx).Create(incident).Error)
}

func (r *IncidentRepository) FindByID(ctx context.Context, id string) (*model.Incident, error) {
	var incident model.Incident
	err := r.db.WithContext(ctx).
		Preload("Updates", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		First(&incident, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &incident, nil
}

func (r *IncidentRepository) List(ctx context.Context, filter IncidentFilter) ([]model.Incident, error) {
	query := r.db.WithContext(ctx)
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.CampaignID != "" {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}

	var incidents []model.Incident
	err := query.Order("opened_at desc").Find(&incidents).Error
	return incidents, err
}

func (r *IncidentRepository) Update(ctx context.Context, incident *model.Incident) error {
	res := r.db.WithContext(ctx).Model(&model.Incident{}).
		Where("id = ? AND version = ?", incident.ID, incident.Version).
		Updates(map[string]interface{}{
			"title":        incident.Title,
			"description":  incident.Description,
			"severity":     incident.Severity,
			"type":         incident.Type,
			"state":        incident.State,
			"campaign_id":  incident.CampaignID,
			"assignee_id":  incident.AssigneeID,
			"closed_by_id": incident.ClosedByID,
			"opened_at":    incident.OpenedAt,
			"closed_at":    incident.ClosedAt,
			"updated_at":   incident.UpdatedAt,
			"version":      gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		return translate(res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}

	incident.Version++
	return nil
}

func (r *IncidentRepository) AddUpdate(ctx context.Context, update *model.IncidentUpdate) error {
	return r.db.WithContext(ctx).Create(update).Error
}

func (r *IncidentRepository) Updates(ctx context.Context, incidentID string) ([]model.IncidentUpdate, error) {
	var updates []model.IncidentUpdate
	err := r.db.WithContext(ctx).
		Where("incident_id = ?", incidentID).
		Order("created_at asc").
		Find(&updates).Error
	return updates, err
}
