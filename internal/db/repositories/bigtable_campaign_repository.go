package repositories

import (
	"context"
	"fmt"
	"strconv"

	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/models/entities"

	"cloud.google.com/go/bigtable"
)

type requirementRow struct {
	id  int64
	req entities.Requirement
}

func decodeCampaign(c cells) (*entities.Campaign, error) {
	id, err := c.intValue("id")
	if err != nil {
		return nil, err
	}
	organizerID, err := c.intValue("organizer_id")
	if err != nil {
		return nil, err
	}
	return &entities.Campaign{ID: id, OrganizerID: organizerID, Name: c["name"]}, nil
}

func decodeRequirement(c cells) (requirementRow, error) {
	id, err := c.intValue("id")
	if err != nil {
		return requirementRow{}, err
	}
	count, err := c.intValue("count")
	if err != nil {
		return requirementRow{}, err
	}
	return requirementRow{
		id:  id,
		req: entities.Requirement{MediaType: entities.MediaType(c["media_type"]), Count: int(count)},
	}, nil
}

// ListCampaigns reads campaigns_by_organizer when an organizer is given and
// the base table otherwise. Requirements come from requirements_by_campaign.
func (s *BigtableStore) ListCampaigns(ctx context.Context, filter entities.CampaignFilter) ([]entities.Campaign, error) {
	var (
		rows []cells
		err  error
	)
	if filter.OrganizerID != nil {
		rows, err = s.scan(ctx, constants.TableCampaignsByOrganizer, bigtable.PrefixRange(indexPrefix(*filter.OrganizerID)))
	} else {
		rows, err = s.scan(ctx, constants.TableCampaigns, bigtable.InfiniteRange(""))
	}
	if err != nil {
		return nil, err
	}

	campaigns := make([]entities.Campaign, 0, len(rows))
	for _, c := range rows {
		campaign, err := decodeCampaign(c)
		if err != nil {
			return nil, fmt.Errorf("failed to decode campaign: %w", err)
		}
		reqs, err := s.requirementsOf(ctx, campaign.ID)
		if err != nil {
			return nil, err
		}
		campaign.Requirements = requirementValues(reqs)
		campaigns = append(campaigns, *campaign)
	}
	sortByID(campaigns, func(c entities.Campaign) int64 { return c.ID })
	return campaigns, nil
}

// CreateCampaign writes the campaign and then each requirement under its own
// counter id. A failure part way leaves the earlier rows behind.
func (s *BigtableStore) CreateCampaign(ctx context.Context, in entities.NewCampaign) (*entities.Campaign, error) {
	id, err := s.create(ctx, constants.CounterCampaign, func(id int64) (cells, []rowRef) {
		return cells{
			"id":           formatID(id),
			"organizer_id": formatID(in.OrganizerID),
			"name":         in.Name,
		}, []rowRef{
			{constants.TableCampaigns, rowKey(id)},
			{constants.TableCampaignsByOrganizer, indexKey(in.OrganizerID, id)},
		}
	})
	if err != nil {
		return nil, err
	}

	if err := s.insertRequirements(ctx, id, in.Requirements); err != nil {
		return nil, err
	}
	return s.getCampaign(ctx, id)
}

// UpdateCampaign returns nil for an empty patch and for an unknown id. A
// requirements list in the patch replaces every stored requirement.
func (s *BigtableStore) UpdateCampaign(ctx context.Context, id int64, patch entities.CampaignPatch) (*entities.Campaign, error) {
	c := cells{}
	if v, ok := patch.OrganizerID.Get(); ok {
		c["organizer_id"] = formatID(v)
	}
	if v, ok := patch.Name.Get(); ok {
		c["name"] = v
	}
	reqs, replace := patch.Requirements.Get()
	if len(c) == 0 && !replace {
		return nil, nil
	}

	old, err := s.readRow(ctx, constants.TableCampaigns, rowKey(id))
	if err != nil || old == nil {
		return nil, err
	}

	if len(c) > 0 {
		found, err := s.updateIfExists(ctx, constants.TableCampaigns, rowKey(id), c)
		if err != nil || !found {
			return nil, err
		}
		if err := s.reindexCampaign(ctx, id, old, old.merged(c)); err != nil {
			return nil, err
		}
	}

	if replace {
		if err := s.replaceRequirements(ctx, id, reqs); err != nil {
			return nil, err
		}
	}
	return s.getCampaign(ctx, id)
}

func (s *BigtableStore) reindexCampaign(ctx context.Context, id int64, old, updated cells) error {
	oldOrganizer, err := old.intValue("organizer_id")
	if err != nil {
		return fmt.Errorf("failed to decode campaign %d: %w", id, err)
	}
	newOrganizer, err := updated.intValue("organizer_id")
	if err != nil {
		return fmt.Errorf("failed to decode campaign %d: %w", id, err)
	}

	if oldOrganizer != newOrganizer {
		err := s.deleteRows(ctx, constants.TableCampaignsByOrganizer, []string{indexKey(oldOrganizer, id)})
		if err != nil {
			return err
		}
	}
	return s.writeRow(ctx, updated, rowRef{constants.TableCampaignsByOrganizer, indexKey(newOrganizer, id)})
}

func (s *BigtableStore) getCampaign(ctx context.Context, id int64) (*entities.Campaign, error) {
	c, err := s.readRow(ctx, constants.TableCampaigns, rowKey(id))
	if err != nil || c == nil {
		return nil, err
	}

	campaign, err := decodeCampaign(c)
	if err != nil {
		return nil, fmt.Errorf("failed to decode campaign: %w", err)
	}
	reqs, err := s.requirementsOf(ctx, id)
	if err != nil {
		return nil, err
	}
	campaign.Requirements = requirementValues(reqs)
	return campaign, nil
}

// requirementsOf returns the stored requirements of a campaign in id order.
func (s *BigtableStore) requirementsOf(ctx context.Context, campaignID int64) ([]requirementRow, error) {
	rows, err := s.scan(ctx, constants.TableRequirementsByCampaign, bigtable.PrefixRange(indexPrefix(campaignID)))
	if err != nil {
		return nil, err
	}

	reqs := make([]requirementRow, 0, len(rows))
	for _, c := range rows {
		r, err := decodeRequirement(c)
		if err != nil {
			return nil, fmt.Errorf("failed to decode requirement: %w", err)
		}
		reqs = append(reqs, r)
	}
	sortByID(reqs, func(r requirementRow) int64 { return r.id })
	return reqs, nil
}

func (s *BigtableStore) insertRequirements(ctx context.Context, campaignID int64, reqs []entities.Requirement) error {
	for _, req := range reqs {
		_, err := s.create(ctx, constants.CounterRequirement, func(id int64) (cells, []rowRef) {
			return cells{
				"id":          formatID(id),
				"campaign_id": formatID(campaignID),
				"media_type":  string(req.MediaType),
				"count":       strconv.Itoa(req.Count),
			}, []rowRef{
				{constants.TableCampaignRequirements, rowKey(id)},
				{constants.TableRequirementsByCampaign, indexKey(campaignID, id)},
			}
		})
		if err != nil {
			return fmt.Errorf("failed to insert requirement for campaign %d: %w", campaignID, err)
		}
	}
	return nil
}

// replaceRequirements deletes every requirement of the campaign, from the
// base table and the index, and inserts reqs with fresh ids.
func (s *BigtableStore) replaceRequirements(ctx context.Context, campaignID int64, reqs []entities.Requirement) error {
	existing, err := s.requirementsOf(ctx, campaignID)
	if err != nil {
		return err
	}

	baseKeys := make([]string, 0, len(existing))
	indexKeys := make([]string, 0, len(existing))
	for _, r := range existing {
		baseKeys = append(baseKeys, rowKey(r.id))
		indexKeys = append(indexKeys, indexKey(campaignID, r.id))
	}
	if err := s.deleteRows(ctx, constants.TableCampaignRequirements, baseKeys); err != nil {
		return err
	}
	if err := s.deleteRows(ctx, constants.TableRequirementsByCampaign, indexKeys); err != nil {
		return err
	}

	return s.insertRequirements(ctx, campaignID, reqs)
}

func requirementValues(rows []requirementRow) []entities.Requirement {
	out := make([]entities.Requirement, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.req)
	}
	return out
}
