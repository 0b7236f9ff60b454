package repositories

import (
	"context"
	"testing"

	"campaign-lab/polystore/internal/models/entities"
)

func TestGormStore_EmptyPatchReturnsUnchanged(t *testing.T) {
	s := newTestGormStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "alice")
	got, err := s.UpdateUser(ctx, u.ID, entities.UserPatch{})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if got == nil || *got != *u {
		t.Errorf("expected unchanged user %+v, got %+v", u, got)
	}

	org := mustCreateOrganization(t, s, "Acme")
	c := mustCreateCampaign(t, s, org.ID, "Spring", entities.Requirement{MediaType: entities.MediaTypePhoto, Count: 1})
	gotCampaign, err := s.UpdateCampaign(ctx, c.ID, entities.CampaignPatch{})
	if err != nil || gotCampaign == nil {
		t.Fatalf("UpdateCampaign = %v, %v", gotCampaign, err)
	}
	if gotCampaign.Name != "Spring" || len(gotCampaign.Requirements) != 1 {
		t.Errorf("campaign changed by empty patch: %+v", gotCampaign)
	}
}

func TestGormStore_NullRequirementsKeepRows(t *testing.T) {
	s := newTestGormStore(t)
	ctx := context.Background()

	org := mustCreateOrganization(t, s, "Acme")
	c := mustCreateCampaign(t, s, org.ID, "Spring", entities.Requirement{MediaType: entities.MediaTypeVideo, Count: 2})

	patch := entities.CampaignPatch{
		Name:         entities.Some("Spring 2"),
		Requirements: entities.Optional[[]entities.Requirement]{Set: true, Null: true},
	}
	got, err := s.UpdateCampaign(ctx, c.ID, patch)
	if err != nil || got == nil {
		t.Fatalf("UpdateCampaign = %v, %v", got, err)
	}
	if len(got.Requirements) != 1 {
		t.Errorf("null requirements must not replace rows, got %+v", got.Requirements)
	}
}

func TestGormStore_ForeignKeysEnforced(t *testing.T) {
	s := newTestGormStore(t)
	ctx := context.Background()

	app, err := s.CreateApplication(ctx, entities.NewApplication{CampaignID: 42, UserID: 7, Status: entities.StatusPending})
	if err == nil {
		t.Fatalf("expected foreign key error, got %+v", app)
	}

	if _, err := s.CreateCampaign(ctx, entities.NewCampaign{OrganizerID: 42, Name: "orphan"}); err == nil {
		t.Fatal("expected foreign key error for unknown organizer")
	}

	campaigns, err := s.ListCampaigns(ctx, entities.CampaignFilter{})
	if err != nil {
		t.Fatalf("ListCampaigns failed: %v", err)
	}
	if len(campaigns) != 0 {
		t.Errorf("failed create left rows behind: %+v", campaigns)
	}
}

func TestGormStore_CampaignCreateIsAtomic(t *testing.T) {
	s := newTestGormStore(t)
	ctx := context.Background()

	org := mustCreateOrganization(t, s, "Acme")
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := s.CreateCampaign(cctx, entities.NewCampaign{
		OrganizerID:  org.ID,
		Name:         "cancelled",
		Requirements: []entities.Requirement{{MediaType: entities.MediaTypePhoto, Count: 1}},
	}); err == nil {
		t.Fatal("expected error for cancelled context")
	}

	campaigns, err := s.ListCampaigns(ctx, entities.CampaignFilter{})
	if err != nil {
		t.Fatalf("ListCampaigns failed: %v", err)
	}
	if len(campaigns) != 0 {
		t.Errorf("expected no campaign rows, got %+v", campaigns)
	}
}
