package repositories

import (
	"context"
	"fmt"

	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/models/entities"

	"cloud.google.com/go/bigtable"
)

func decodeApplication(c cells) (*entities.Application, error) {
	id, err := c.intValue("id")
	if err != nil {
		return nil, err
	}
	campaignID, err := c.intValue("campaign_id")
	if err != nil {
		return nil, err
	}
	userID, err := c.intValue("user_id")
	if err != nil {
		return nil, err
	}
	return &entities.Application{
		ID:         id,
		CampaignID: campaignID,
		UserID:     userID,
		Status:     entities.ApplicationStatus(c["status"]),
	}, nil
}

func applicationIndexes(c cells, id int64) ([]rowRef, error) {
	campaignID, err := c.intValue("campaign_id")
	if err != nil {
		return nil, err
	}
	userID, err := c.intValue("user_id")
	if err != nil {
		return nil, err
	}
	return []rowRef{
		{constants.TableApplicationsByCampaign, indexKey(campaignID, id)},
		{constants.TableApplicationsByUser, indexKey(userID, id)},
	}, nil
}

// ListApplications reads one access path: applications_by_campaign when a
// campaign is given, else applications_by_user, else the base table. A user
// predicate combined with a campaign one is applied here after the read.
func (s *BigtableStore) ListApplications(ctx context.Context, filter entities.ApplicationFilter) ([]entities.Application, error) {
	var (
		rows []cells
		err  error
	)
	switch {
	case filter.CampaignID != nil:
		rows, err = s.scan(ctx, constants.TableApplicationsByCampaign, bigtable.PrefixRange(indexPrefix(*filter.CampaignID)))
	case filter.UserID != nil:
		rows, err = s.scan(ctx, constants.TableApplicationsByUser, bigtable.PrefixRange(indexPrefix(*filter.UserID)))
	default:
		rows, err = s.scan(ctx, constants.TableCampaignApplications, bigtable.InfiniteRange(""))
	}
	if err != nil {
		return nil, err
	}

	apps := make([]entities.Application, 0, len(rows))
	for _, c := range rows {
		app, err := decodeApplication(c)
		if err != nil {
			return nil, fmt.Errorf("failed to decode application: %w", err)
		}
		if filter.Matches(*app) {
			apps = append(apps, *app)
		}
	}
	sortByID(apps, func(a entities.Application) int64 { return a.ID })
	return apps, nil
}

func (s *BigtableStore) CreateApplication(ctx context.Context, in entities.NewApplication) (*entities.Application, error) {
	id, err := s.create(ctx, constants.CounterApplication, func(id int64) (cells, []rowRef) {
		return cells{
			"id":          formatID(id),
			"campaign_id": formatID(in.CampaignID),
			"user_id":     formatID(in.UserID),
			"status":      string(in.Status),
		}, []rowRef{
			{constants.TableCampaignApplications, rowKey(id)},
			{constants.TableApplicationsByCampaign, indexKey(in.CampaignID, id)},
			{constants.TableApplicationsByUser, indexKey(in.UserID, id)},
		}
	})
	if err != nil {
		return nil, err
	}
	return s.getApplication(ctx, id)
}

// UpdateApplication returns nil for an empty patch and for an unknown id.
// Index rows follow the campaign and user of the updated row.
func (s *BigtableStore) UpdateApplication(ctx context.Context, id int64, patch entities.ApplicationPatch) (*entities.Application, error) {
	c := cells{}
	if v, ok := patch.CampaignID.Get(); ok {
		c["campaign_id"] = formatID(v)
	}
	if v, ok := patch.UserID.Get(); ok {
		c["user_id"] = formatID(v)
	}
	if v, ok := patch.Status.Get(); ok {
		c["status"] = string(v)
	}
	if len(c) == 0 {
		return nil, nil
	}

	old, err := s.readRow(ctx, constants.TableCampaignApplications, rowKey(id))
	if err != nil || old == nil {
		return nil, err
	}

	found, err := s.updateIfExists(ctx, constants.TableCampaignApplications, rowKey(id), c)
	if err != nil || !found {
		return nil, err
	}

	updated := old.merged(c)
	oldIndexes, err := applicationIndexes(old, id)
	if err != nil {
		return nil, fmt.Errorf("failed to decode application %d: %w", id, err)
	}
	newIndexes, err := applicationIndexes(updated, id)
	if err != nil {
		return nil, fmt.Errorf("failed to decode application %d: %w", id, err)
	}
	for i := range oldIndexes {
		if oldIndexes[i].key != newIndexes[i].key {
			if err := s.deleteRows(ctx, oldIndexes[i].table, []string{oldIndexes[i].key}); err != nil {
				return nil, err
			}
		}
	}
	if err := s.writeRow(ctx, updated, newIndexes...); err != nil {
		return nil, err
	}

	return s.getApplication(ctx, id)
}

func (s *BigtableStore) getApplication(ctx context.Context, id int64) (*entities.Application, error) {
	c, err := s.readRow(ctx, constants.TableCampaignApplications, rowKey(id))
	if err != nil || c == nil {
		return nil, err
	}
	return decodeApplication(c)
}
