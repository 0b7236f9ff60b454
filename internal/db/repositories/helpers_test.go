package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"campaign-lab/polystore/internal/db"
	"campaign-lab/polystore/internal/models/entities"

	"cloud.google.com/go/bigtable/bttest"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func newTestGormStore(t *testing.T) *GormStore {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	orm, err := db.OpenSQLiteORM(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(orm); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	store := NewGormStore(orm)
	t.Cleanup(func() { store.Close() })
	return store
}

// newTestBigtable starts an in-process Bigtable emulator with the schema in
// place. Counters are initialized only when initSequences is set.
func newTestBigtable(t *testing.T, initSequences bool) *db.Bigtable {
	t.Helper()
	ctx := context.Background()

	srv, err := bttest.NewServer("localhost:0")
	if err != nil {
		t.Fatalf("failed to start bttest: %v", err)
	}
	t.Cleanup(srv.Close)

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("failed to dial bttest: %v", err)
	}

	bt, err := db.OpenBigtable(ctx, "test-project", "test-instance", option.WithGRPCConn(conn))
	if err != nil {
		t.Fatalf("failed to open bigtable: %v", err)
	}
	t.Cleanup(func() { bt.Close() })

	if err := db.EnsureBigtableSchema(ctx, bt.Admin); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if initSequences {
		if err := db.InitSequences(ctx, bt.Client); err != nil {
			t.Fatalf("failed to init sequences: %v", err)
		}
	}
	return bt
}

func newTestBigtableStore(t *testing.T, atomicSequences bool) *BigtableStore {
	t.Helper()
	return NewBigtableStore(newTestBigtable(t, true), atomicSequences)
}

type storeCase struct {
	name string
	open func(t *testing.T) Store
}

// storeCases lists every Store implementation the contract tests run against.
func storeCases() []storeCase {
	return []storeCase{
		{"sqlite", func(t *testing.T) Store { return newTestGormStore(t) }},
		{"bigtable", func(t *testing.T) Store { return newTestBigtableStore(t, false) }},
		{"bigtable_atomic", func(t *testing.T) Store { return newTestBigtableStore(t, true) }},
	}
}

func mustCreateUser(t *testing.T, s Store, name string) *entities.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), entities.NewUser{
		Username: name,
		Email:    name + "@example.com",
		Password: "secret",
	})
	if err != nil || u == nil {
		t.Fatalf("CreateUser(%s) = %v, %v", name, u, err)
	}
	return u
}

func mustCreateOrganization(t *testing.T, s Store, name string) *entities.Organization {
	t.Helper()
	o, err := s.CreateOrganization(context.Background(), entities.NewOrganization{Name: name})
	if err != nil || o == nil {
		t.Fatalf("CreateOrganization(%s) = %v, %v", name, o, err)
	}
	return o
}

func mustCreateCampaign(t *testing.T, s Store, organizerID int64, name string, reqs ...entities.Requirement) *entities.Campaign {
	t.Helper()
	c, err := s.CreateCampaign(context.Background(), entities.NewCampaign{
		OrganizerID:  organizerID,
		Name:         name,
		Requirements: reqs,
	})
	if err != nil || c == nil {
		t.Fatalf("CreateCampaign(%s) = %v, %v", name, c, err)
	}
	return c
}

func mustCreateApplication(t *testing.T, s Store, campaignID, userID int64) *entities.Application {
	t.Helper()
	a, err := s.CreateApplication(context.Background(), entities.NewApplication{
		CampaignID: campaignID,
		UserID:     userID,
		Status:     entities.StatusPending,
	})
	if err != nil || a == nil {
		t.Fatalf("CreateApplication(%d, %d) = %v, %v", campaignID, userID, a, err)
	}
	return a
}

func int64Ptr(v int64) *int64 { return &v }
