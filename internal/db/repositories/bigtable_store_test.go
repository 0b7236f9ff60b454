package repositories

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/db"
	"campaign-lab/polystore/internal/models/entities"
)

func TestBigtableStore_EmptyPatchReturnsNil(t *testing.T) {
	s := newTestBigtableStore(t, false)
	ctx := context.Background()

	u := mustCreateUser(t, s, "alice")
	got, err := s.UpdateUser(ctx, u.ID, entities.UserPatch{})
	if err != nil || got != nil {
		t.Errorf("UpdateUser(empty) = %v, %v; want nil, nil", got, err)
	}

	org := mustCreateOrganization(t, s, "Acme")
	c := mustCreateCampaign(t, s, org.ID, "Spring")
	gotCampaign, err := s.UpdateCampaign(ctx, c.ID, entities.CampaignPatch{})
	if err != nil || gotCampaign != nil {
		t.Errorf("UpdateCampaign(empty) = %v, %v; want nil, nil", gotCampaign, err)
	}

	// The row itself is untouched.
	users, _ := s.ListUsers(ctx)
	if len(users) != 1 || users[0] != *u {
		t.Errorf("unexpected users after empty patch: %+v", users)
	}
}

func TestBigtableStore_MissingCounterFailsCreate(t *testing.T) {
	s := NewBigtableStore(newTestBigtable(t, false), false)

	u, err := s.CreateUser(context.Background(), entities.NewUser{Username: "alice"})
	if u != nil {
		t.Errorf("expected no user, got %+v", u)
	}
	if !errors.Is(err, ErrSequenceMissing) {
		t.Fatalf("expected ErrSequenceMissing, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed to retrieve current user id") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestBigtableStore_InitSequencesKeepsCounters(t *testing.T) {
	bt := newTestBigtable(t, true)
	s := NewBigtableStore(bt, false)
	ctx := context.Background()

	mustCreateUser(t, s, "alice")
	mustCreateUser(t, s, "bob")

	if err := db.InitSequences(ctx, bt.Client); err != nil {
		t.Fatalf("InitSequences failed: %v", err)
	}

	carol := mustCreateUser(t, s, "carol")
	if carol.ID != 3 {
		t.Errorf("expected counter to continue at 3, got %d", carol.ID)
	}
}

// Two creators that both read the counter before either writes it back get
// the same id, and the second row overwrites the first.
func TestBigtableStore_ReadWriteSequenceRace(t *testing.T) {
	s := newTestBigtableStore(t, false)
	ctx := context.Background()

	var barrier sync.WaitGroup
	barrier.Add(2)
	s.seq.(*readWriteSequence).afterRead = func(string) {
		barrier.Done()
		barrier.Wait()
	}

	var wg sync.WaitGroup
	results := make([]*entities.User, 2)
	errs := make([]error, 2)
	for i, name := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i], errs[i] = s.CreateUser(ctx, entities.NewUser{Username: name})
		}(i, name)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("CreateUser %d failed: %v", i, err)
		}
	}
	if results[0] == nil || results[1] == nil {
		t.Fatalf("expected both creates to return a row, got %v", results)
	}
	if results[0].ID != results[1].ID {
		t.Fatalf("expected duplicate ids, got %d and %d", results[0].ID, results[1].ID)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected the second write to overwrite the first, got %d users", len(users))
	}
}

func TestBigtableStore_AtomicSequenceUniqueIDs(t *testing.T) {
	s := newTestBigtableStore(t, true)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := s.CreateUser(ctx, entities.NewUser{Username: "user"})
			if err != nil || u == nil {
				t.Errorf("CreateUser = %v, %v", u, err)
				return
			}
			ids <- u.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		if seen[id] {
			t.Errorf("id %d handed out twice", id)
		}
		seen[id] = true
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != n {
		t.Errorf("expected %d users, got %d", n, len(users))
	}
}

func TestBigtableStore_IndexRowsHoldFullCopy(t *testing.T) {
	s := newTestBigtableStore(t, false)
	ctx := context.Background()

	org := mustCreateOrganization(t, s, "Acme")
	c := mustCreateCampaign(t, s, org.ID, "Spring")
	if _, err := s.UpdateCampaign(ctx, c.ID, entities.CampaignPatch{Name: entities.Some("Summer")}); err != nil {
		t.Fatalf("UpdateCampaign failed: %v", err)
	}

	row, err := s.readRow(ctx, constants.TableCampaignsByOrganizer, indexKey(org.ID, c.ID))
	if err != nil || row == nil {
		t.Fatalf("index row missing: %v, %v", row, err)
	}
	if row["name"] != "Summer" || row["id"] != formatID(c.ID) || row["organizer_id"] != formatID(org.ID) {
		t.Errorf("index row not refreshed: %v", row)
	}
}

func TestRowKeysSortNumerically(t *testing.T) {
	if !(rowKey(9) < rowKey(10)) {
		t.Errorf("rowKey(9)=%q must sort before rowKey(10)=%q", rowKey(9), rowKey(10))
	}
	if strings.HasPrefix(indexKey(10, 1), indexPrefix(1)) {
		t.Error("prefix of organizer 1 must not match organizer 10")
	}
}
