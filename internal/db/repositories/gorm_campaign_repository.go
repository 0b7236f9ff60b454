package repositories

import (
	"context"
	"fmt"

	"campaign-lab/polystore/internal/models/entities"
	gormModels "campaign-lab/polystore/internal/models/gorm"

	"gorm.io/gorm"
)

func preloadRequirements(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// ListCampaigns returns campaigns with their requirements, optionally only
// those of one organizer.
func (s *GormStore) ListCampaigns(ctx context.Context, filter entities.CampaignFilter) ([]entities.Campaign, error) {
	query := s.db.WithContext(ctx).Preload("Requirements", preloadRequirements)
	if filter.OrganizerID != nil {
		query = query.Where("organizer_id = ?", *filter.OrganizerID)
	}

	var rows []gormModels.Campaign
	if err := query.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch campaigns: %w", err)
	}

	campaigns := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		campaigns = append(campaigns, *row.ToEntity())
	}
	return campaigns, nil
}

// CreateCampaign inserts the campaign and its requirement rows in one
// transaction.
func (s *GormStore) CreateCampaign(ctx context.Context, in entities.NewCampaign) (*entities.Campaign, error) {
	row := gormModels.Campaign{
		OrganizerID: in.OrganizerID,
		Name:        in.Name,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Requirements", "Applications").Create(&row).Error; err != nil {
			return err
		}
		return insertRequirements(tx, row.ID, in.Requirements)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	return s.loadCampaign(ctx, row.ID)
}

// UpdateCampaign patches the campaign columns and, when the patch carries a
// requirements list, replaces every stored requirement with it.
func (s *GormStore) UpdateCampaign(ctx context.Context, id int64, patch entities.CampaignPatch) (*entities.Campaign, error) {
	var row gormModels.Campaign
	found, err := s.first(ctx, &row, id)
	if err != nil || !found {
		return nil, err
	}

	updates := map[string]interface{}{}
	if v, ok := patch.OrganizerID.Get(); ok {
		updates["organizer_id"] = v
	}
	if v, ok := patch.Name.Get(); ok {
		updates["name"] = v
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&row).Updates(updates).Error; err != nil {
				return err
			}
		}

		reqs, replace := patch.Requirements.Get()
		if !replace {
			return nil
		}
		if err := tx.Where("campaign_id = ?", id).Delete(&gormModels.CampaignRequirement{}).Error; err != nil {
			return err
		}
		return insertRequirements(tx, id, reqs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	return s.loadCampaign(ctx, id)
}

func (s *GormStore) loadCampaign(ctx context.Context, id int64) (*entities.Campaign, error) {
	var row gormModels.Campaign
	err := s.db.WithContext(ctx).
		Preload("Requirements", preloadRequirements).
		First(&row, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch campaign: %w", err)
	}
	return row.ToEntity(), nil
}

func insertRequirements(tx *gorm.DB, campaignID int64, reqs []entities.Requirement) error {
	if len(reqs) == 0 {
		return nil
	}
	rows := gormModels.NewRequirementRows(campaignID, reqs)
	return tx.Create(&rows).Error
}
