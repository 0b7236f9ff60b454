package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/db/repositories"
	"campaign-lab/polystore/internal/metrics"
	"campaign-lab/polystore/internal/models/dtos"
	"campaign-lab/polystore/internal/models/entities"
	"campaign-lab/polystore/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// stubStore implements only what a test sets; anything else panics through
// the nil embedded interface.
type stubStore struct {
	repositories.Store
	createUser        func(entities.NewUser) (*entities.User, error)
	updateUser        func(int64, entities.UserPatch) (*entities.User, error)
	listCampaigns     func(entities.CampaignFilter) ([]entities.Campaign, error)
	listApplications  func(entities.ApplicationFilter) ([]entities.Application, error)
	createApplication func(entities.NewApplication) (*entities.Application, error)
	ping              func() error
}

func (s *stubStore) CreateUser(_ context.Context, in entities.NewUser) (*entities.User, error) {
	return s.createUser(in)
}

func (s *stubStore) UpdateUser(_ context.Context, id int64, patch entities.UserPatch) (*entities.User, error) {
	return s.updateUser(id, patch)
}

func (s *stubStore) ListCampaigns(_ context.Context, f entities.CampaignFilter) ([]entities.Campaign, error) {
	return s.listCampaigns(f)
}

func (s *stubStore) ListApplications(_ context.Context, f entities.ApplicationFilter) ([]entities.Application, error) {
	return s.listApplications(f)
}

func (s *stubStore) CreateApplication(_ context.Context, in entities.NewApplication) (*entities.Application, error) {
	return s.createApplication(in)
}

func (s *stubStore) Ping(context.Context) error { return s.ping() }

func (s *stubStore) Close() error { return nil }

func newTestRouter(t *testing.T, store repositories.Store) http.Handler {
	t.Helper()

	stores := map[constants.BackendKind]repositories.Store{}
	if store != nil {
		stores[constants.BackendEmbedded] = store
	}
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	h := NewHandlers(NewDependencies(services.NewDispatcher(stores, m), m, time.Now()))

	r := chi.NewRouter()
	r.Get("/", h.Root())
	r.Get("/healthCheck", h.HealthCheck())
	r.Post("/{db}/users", h.CreateUser())
	r.Put("/{db}/users/{id}", h.UpdateUser())
	r.Get("/{db}/users", h.ListUsers())
	r.Get("/{db}/campaigns", h.ListCampaigns())
	r.Get("/{db}/campaigns/{campaign_id}/applications", h.ListCampaignApplications())
	r.Get("/{db}/applications", h.ListApplications())
	r.Post("/{db}/applications", h.CreateApplication())
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dtos.APIResponse {
	t.Helper()
	var resp dtos.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body %q: %v", rec.Body.String(), err)
	}
	if resp.Status != string(constants.APIStatusError) {
		t.Errorf("expected status %q, got %q", constants.APIStatusError, resp.Status)
	}
	return resp
}

func TestRoot(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"message":"Hello World"}` {
		t.Errorf("unexpected body %s", got)
	}
}

func TestUnknownBackend_422(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodGet, "/mysql/users", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	decodeError(t, rec)
}

func TestUnconfiguredBackend_EmptyList(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodGet, "/postgres/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected [], got %s", got)
	}
}

func TestUnconfiguredBackend_CreateFails(t *testing.T) {
	body := `{"username":"a","email":"a@example.com","password":"x"}`
	rec := do(t, newTestRouter(t, nil), http.MethodPost, "/postgres/users", body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Message != constants.MsgUserCreateFailed {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestCreateUser_InvalidBody(t *testing.T) {
	h := newTestRouter(t, &stubStore{})
	cases := map[string]string{
		"malformed":     `{"username":`,
		"missing email": `{"username":"a","password":"x"}`,
		"bad email":     `{"username":"a","email":"nope","password":"x"}`,
		"wrong type":    `{"username":1,"email":"a@example.com","password":"x"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/sqlite/users", body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			decodeError(t, rec)
		})
	}
}

func TestCreateUser_StoreError(t *testing.T) {
	store := &stubStore{createUser: func(entities.NewUser) (*entities.User, error) {
		return nil, errors.New("UNIQUE constraint failed: users.email")
	}}
	rec := do(t, newTestRouter(t, store), http.MethodPost, "/sqlite/users",
		`{"username":"a","email":"a@example.com","password":"x"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); !strings.Contains(resp.Message, "UNIQUE") {
		t.Errorf("expected store error text, got %q", resp.Message)
	}
}

func TestCreateUser_NoPassword(t *testing.T) {
	store := &stubStore{createUser: func(in entities.NewUser) (*entities.User, error) {
		return &entities.User{ID: 7, Username: in.Username, Email: in.Email, Password: in.Password}, nil
	}}
	rec := do(t, newTestRouter(t, store), http.MethodPost, "/duckdb/users",
		`{"username":"a","email":"a@example.com","password":"secret"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "secret") || strings.Contains(rec.Body.String(), "password") {
		t.Errorf("password leaked: %s", rec.Body.String())
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	store := &stubStore{updateUser: func(int64, entities.UserPatch) (*entities.User, error) {
		return nil, nil
	}}
	rec := do(t, newTestRouter(t, store), http.MethodPut, "/sqlite/users/99", `{"username":"b"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Message != constants.MsgUserNotFound {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestUpdateUser_BadIDAndNull(t *testing.T) {
	h := newTestRouter(t, &stubStore{})

	if rec := do(t, h, http.MethodPut, "/sqlite/users/abc", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: expected 400, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPut, "/sqlite/users/1", `{"email":null}`); rec.Code != http.StatusBadRequest {
		t.Errorf("null email: expected 400, got %d", rec.Code)
	}
}

func TestUpdateUser_PassesPatch(t *testing.T) {
	var got entities.UserPatch
	store := &stubStore{updateUser: func(id int64, patch entities.UserPatch) (*entities.User, error) {
		got = patch
		return &entities.User{ID: id, Username: "b", Email: "a@example.com"}, nil
	}}
	rec := do(t, newTestRouter(t, store), http.MethodPut, "/sqlite/users/3", `{"username":"b"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if v, ok := got.Username.Get(); !ok || v != "b" {
		t.Errorf("expected username patch, got %+v", got.Username)
	}
	if got.Email.Set || got.Password.Set {
		t.Errorf("absent fields must not be set: %+v", got)
	}
}

func TestListCampaigns_Filter(t *testing.T) {
	var filter entities.CampaignFilter
	store := &stubStore{listCampaigns: func(f entities.CampaignFilter) ([]entities.Campaign, error) {
		filter = f
		return []entities.Campaign{{ID: 1, OrganizerID: 5, Name: "c"}}, nil
	}}
	h := newTestRouter(t, store)

	rec := do(t, h, http.MethodGet, "/sqlite/campaigns?organization_id=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if filter.OrganizerID == nil || *filter.OrganizerID != 5 {
		t.Errorf("expected organizer filter 5, got %v", filter.OrganizerID)
	}

	var body []dtos.CampaignResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body) != 1 || body[0].Requirements == nil {
		t.Errorf("expected one campaign with a non-nil requirement list, got %+v", body)
	}

	if rec := do(t, h, http.MethodGet, "/sqlite/campaigns?organization_id=x", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad query: expected 400, got %d", rec.Code)
	}
}

func TestListApplications_Filters(t *testing.T) {
	var filter entities.ApplicationFilter
	store := &stubStore{listApplications: func(f entities.ApplicationFilter) ([]entities.Application, error) {
		filter = f
		return nil, nil
	}}
	h := newTestRouter(t, store)

	rec := do(t, h, http.MethodGet, "/sqlite/applications?campaign_id=2&user_id=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if filter.CampaignID == nil || *filter.CampaignID != 2 || filter.UserID == nil || *filter.UserID != 3 {
		t.Errorf("unexpected filter %+v", filter)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected [], got %s", got)
	}

	do(t, h, http.MethodGet, "/sqlite/campaigns/4/applications", "")
	if filter.CampaignID == nil || *filter.CampaignID != 4 || filter.UserID != nil {
		t.Errorf("expected campaign-only filter, got %+v", filter)
	}
}

func TestCreateApplication_InvalidStatus(t *testing.T) {
	h := newTestRouter(t, &stubStore{})
	rec := do(t, h, http.MethodPost, "/sqlite/applications", `{"campaign_id":1,"user_id":1,"status":"maybe"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreateApplication_NilResult(t *testing.T) {
	store := &stubStore{createApplication: func(entities.NewApplication) (*entities.Application, error) {
		return nil, nil
	}}
	rec := do(t, newTestRouter(t, store), http.MethodPost, "/sqlite/applications",
		`{"campaign_id":1,"user_id":1,"status":"pending"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Message != constants.MsgApplicationCreateFailed {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestHealthCheck(t *testing.T) {
	store := &stubStore{ping: func() error { return errors.New("disk I/O error") }}
	rec := do(t, newTestRouter(t, store), http.MethodGet, "/healthCheck", "")

	var resp entities.HealthCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "down" {
		t.Errorf("expected overall down, got %q", resp.Status)
	}
	if svc := resp.Services["sqlite"]; svc.Status != "down" || svc.Details != "disk I/O error" {
		t.Errorf("unexpected sqlite status %+v", svc)
	}
}
