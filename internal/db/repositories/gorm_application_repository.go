package repositories

import (
	"context"
	"fmt"

	"campaign-lab/polystore/internal/models/entities"
	gormModels "campaign-lab/polystore/internal/models/gorm"
)

// ListApplications returns applications matching every predicate set in filter.
func (s *GormStore) ListApplications(ctx context.Context, filter entities.ApplicationFilter) ([]entities.Application, error) {
	query := s.db.WithContext(ctx)
	if filter.CampaignID != nil {
		query = query.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var rows []gormModels.CampaignApplication
	if err := query.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch applications: %w", err)
	}

	apps := make([]entities.Application, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, *row.ToEntity())
	}
	return apps, nil
}

func (s *GormStore) CreateApplication(ctx context.Context, in entities.NewApplication) (*entities.Application, error) {
	row := gormModels.CampaignApplication{
		CampaignID: in.CampaignID,
		UserID:     in.UserID,
		Status:     in.Status,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return row.ToEntity(), nil
}

func (s *GormStore) UpdateApplication(ctx context.Context, id int64, patch entities.ApplicationPatch) (*entities.Application, error) {
	var row gormModels.CampaignApplication
	found, err := s.first(ctx, &row, id)
	if err != nil || !found {
		return nil, err
	}

	updates := map[string]interface{}{}
	if v, ok := patch.CampaignID.Get(); ok {
		updates["campaign_id"] = v
	}
	if v, ok := patch.UserID.Get(); ok {
		updates["user_id"] = v
	}
	if v, ok := patch.Status.Get(); ok {
		updates["status"] = string(v)
	}

	if err := s.apply(ctx, &row, id, updates); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return row.ToEntity(), nil
}
