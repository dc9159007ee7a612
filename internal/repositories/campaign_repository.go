package repository

import (
	"context"

	"gorm.io/gorm"

	model "ops-portal.com/ops-portal/internal/models"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(ctx context.Context, campaign *model.Campaign) error {
	return translate(r.db.WithContext(ctx).Create(campaign).Error)
}

func (r *CampaignRepository) FindByID(ctx context.Context, id string) (*model.Campaign, error) {
	var campaign model.Campaign
	if err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &campaign, nil
}

func (r *CampaignRepository) FindByName(ctx context.Context, name string) (*model.Campaign, error) {
	var campaign model.Campaign
	if err := r.db.WithContext(ctx).First(&campaign, "name = ?", name).Error; err != nil {
		return nil, translate(err)
	}
	return &campaign, nil
}

func (r *CampaignRepository) ListActive(ctx context.Context) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name asc").Find(&campaigns).Error
	return campaigns, err
}

// CreateTemplate stores the template together with its items.
func (r *CampaignRepository) CreateTemplate(ctx context.Context, template *model.ChecklistTemplate) error {
	return translate(r.db.WithContext(ctx).Create(template).Error)
}

// ActiveTemplate returns the newest active template of the campaign with its
// items in position order, or ErrNotFound.
func (r *CampaignRepository) ActiveTemplate(ctx context.Context, campaignID string) (*model.ChecklistTemplate, error) {
	var template model.ChecklistTemplate
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Where("campaign_id = ? AND active = ?", campaignID, true).
		Order("created_at desc").
		First(&template).Error
	if err != nil {
		return nil, translate(err)
	}
	return &template, nil
}
