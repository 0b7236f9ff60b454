package seed

import (
	"context"
	"fmt"

	"campaign-lab/polystore/internal/db/repositories"
	"campaign-lab/polystore/internal/logging"
	"campaign-lab/polystore/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// SQL loads data into a relational schema created by AutoMigrate. It does
// nothing and returns false when users already exist. Everything is written
// in one transaction.
func SQL(ctx context.Context, conn *sqlx.DB, data Dataset) (bool, error) {
	var existing int
	if err := conn.GetContext(ctx, &existing, countUsersQuery); err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if existing > 0 {
		logging.Info("Seed skipped, users table not empty", "users", existing)
		return false, nil
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	ins := &sqlInserter{ctx: ctx, tx: tx}
	userIDs := make([]int64, 0, len(data.Users))
	for _, u := range data.Users {
		id := ins.insert(insertUserQuery, map[string]interface{}{
			"username": u.Username,
			"email":    u.Email,
			"password": u.Password,
		})
		userIDs = append(userIDs, id)
	}

	orgIDs := make([]int64, 0, len(data.Organizations))
	for _, o := range data.Organizations {
		orgIDs = append(orgIDs, ins.insert(insertOrganizationQuery, map[string]interface{}{"name": o.Name}))
	}

	campaignIDs := make([]int64, 0, len(data.Campaigns))
	for _, c := range data.Campaigns {
		id := ins.insert(insertCampaignQuery, map[string]interface{}{
			"organizer_id": orgIDs[c.Organizer],
			"name":         c.Name,
		})
		for _, r := range c.Requirements {
			ins.insert(insertRequirementQuery, map[string]interface{}{
				"campaign_id": id,
				"media_type":  r.MediaType,
				"count":       r.Count,
			})
		}
		campaignIDs = append(campaignIDs, id)
	}

	for _, a := range data.Applications {
		ins.insert(insertApplicationQuery, map[string]interface{}{
			"campaign_id": campaignIDs[a.Campaign],
			"user_id":     userIDs[a.User],
			"status":      a.Status,
		})
	}

	if ins.err != nil {
		return false, ins.err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit seed: %w", err)
	}

	logging.Info("Seeded relational backend",
		"users", len(userIDs), "organizations", len(orgIDs), "campaigns", len(campaignIDs))
	return true, nil
}

// sqlInserter runs named inserts until the first failure and keeps that error.
type sqlInserter struct {
	ctx context.Context
	tx  *sqlx.Tx
	err error
}

func (i *sqlInserter) insert(query string, arg map[string]interface{}) int64 {
	if i.err != nil {
		return 0
	}

	stmt, err := i.tx.PrepareNamedContext(i.ctx, query)
	if err != nil {
		i.err = fmt.Errorf("failed to prepare seed statement: %w", err)
		return 0
	}
	defer stmt.Close()

	var id int64
	if err := stmt.GetContext(i.ctx, &id, arg); err != nil {
		i.err = fmt.Errorf("failed to insert seed row: %w", err)
		return 0
	}
	return id
}

// Store loads data through the Store API. It is used for the wide-column
// backend, which has no SQL surface. Existing users make it a no-op.
func Store(ctx context.Context, store repositories.Store, data Dataset) (bool, error) {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) > 0 {
		logging.Info("Seed skipped, users already present", "users", len(users))
		return false, nil
	}

	userIDs := make([]int64, 0, len(data.Users))
	for _, u := range data.Users {
		created, err := store.CreateUser(ctx, u)
		if err != nil {
			return false, fmt.Errorf("failed to seed user %s: %w", u.Username, err)
		}
		if created == nil {
			return false, fmt.Errorf("failed to seed user %s", u.Username)
		}
		userIDs = append(userIDs, created.ID)
	}

	orgIDs := make([]int64, 0, len(data.Organizations))
	for _, o := range data.Organizations {
		created, err := store.CreateOrganization(ctx, o)
		if err != nil {
			return false, fmt.Errorf("failed to seed organization %s: %w", o.Name, err)
		}
		if created == nil {
			return false, fmt.Errorf("failed to seed organization %s", o.Name)
		}
		orgIDs = append(orgIDs, created.ID)
	}

	campaignIDs := make([]int64, 0, len(data.Campaigns))
	for _, c := range data.Campaigns {
		created, err := store.CreateCampaign(ctx, entities.NewCampaign{
			OrganizerID:  orgIDs[c.Organizer],
			Name:         c.Name,
			Requirements: c.Requirements,
		})
		if err != nil {
			return false, fmt.Errorf("failed to seed campaign %s: %w", c.Name, err)
		}
		if created == nil {
			return false, fmt.Errorf("failed to seed campaign %s", c.Name)
		}
		campaignIDs = append(campaignIDs, created.ID)
	}

	for _, a := range data.Applications {
		_, err := store.CreateApplication(ctx, entities.NewApplication{
			CampaignID: campaignIDs[a.Campaign],
			UserID:     userIDs[a.User],
			Status:     a.Status,
		})
		if err != nil {
			return false, fmt.Errorf("failed to seed application: %w", err)
		}
	}

	logging.Info("Seeded backend through store",
		"users", len(userIDs), "organizations", len(orgIDs), "campaigns", len(campaignIDs))
	return true, nil
}
