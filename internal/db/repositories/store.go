package repositories

import (
	"context"

	"campaign-lab/polystore/internal/models/entities"
)

// Store is the capability every backend provides. Updates return a nil
// entity (and nil error) when the target does not exist; creates return a nil
// entity when no persisted row could be read back. Store errors are passed
// through untranslated.
type Store interface {
	ListUsers(ctx context.Context) ([]entities.User, error)
	CreateUser(ctx context.Context, in entities.NewUser) (*entities.User, error)
	UpdateUser(ctx context.Context, id int64, patch entities.UserPatch) (*entities.User, error)

	ListOrganizations(ctx context.Context) ([]entities.Organization, error)
	CreateOrganization(ctx context.Context, in entities.NewOrganization) (*entities.Organization, error)
	UpdateOrganization(ctx context.Context, id int64, patch entities.OrganizationPatch) (*entities.Organization, error)

	ListCampaigns(ctx context.Context, filter entities.CampaignFilter) ([]entities.Campaign, error)
	CreateCampaign(ctx context.Context, in entities.NewCampaign) (*entities.Campaign, error)
	UpdateCampaign(ctx context.Context, id int64, patch entities.CampaignPatch) (*entities.Campaign, error)

	ListApplications(ctx context.Context, filter entities.ApplicationFilter) ([]entities.Application, error)
	CreateApplication(ctx context.Context, in entities.NewApplication) (*entities.Application, error)
	UpdateApplication(ctx context.Context, id int64, patch entities.ApplicationPatch) (*entities.Application, error)

	// Ping checks connectivity to the underlying store.
	Ping(ctx context.Context) error
	Close() error
}
