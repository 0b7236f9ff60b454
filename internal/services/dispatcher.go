package services

import (
	"context"
	"sync"
	"time"

	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/db/repositories"
	"campaign-lab/polystore/internal/logging"
	"campaign-lab/polystore/internal/metrics"
	"campaign-lab/polystore/internal/models/entities"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dispatcher routes each operation to the store of the requested backend and
// returns the store's result unchanged. A backend with no store answers lists
// with an empty slice and everything else with nil.
type Dispatcher struct {
	stores  map[constants.BackendKind]repositories.Store
	metrics *metrics.MetricsRegistry
	log     *zap.SugaredLogger
}

// NewDispatcher creates a dispatcher over stores. metricsReg may be nil.
func NewDispatcher(stores map[constants.BackendKind]repositories.Store, metricsReg *metrics.MetricsRegistry) *Dispatcher {
	if stores == nil {
		stores = map[constants.BackendKind]repositories.Store{}
	}
	return &Dispatcher{
		stores:  stores,
		metrics: metricsReg,
		log:     logging.Named("dispatcher"),
	}
}

// Configured lists the backends that have a store, in AllBackends order.
func (d *Dispatcher) Configured() []constants.BackendKind {
	var kinds []constants.BackendKind
	for _, kind := range constants.AllBackends {
		if _, ok := d.stores[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

func dispatch[T any](d *Dispatcher, kind constants.BackendKind, op string, fallback T, call func(repositories.Store) (T, error)) (T, error) {
	store, ok := d.stores[kind]
	if !ok {
		d.log.Warnw("Backend not configured, returning empty result", "backend", kind.Tag(), "operation", op)
		if d.metrics != nil {
			d.metrics.BackendUnconfigured.WithLabelValues(kind.Tag()).Inc()
		}
		return fallback, nil
	}

	start := time.Now()
	result, err := call(store)

	if d.metrics != nil {
		d.metrics.BackendOpsTotal.WithLabelValues(kind.Tag(), op).Inc()
		d.metrics.BackendOpDuration.WithLabelValues(kind.Tag(), op).Observe(time.Since(start).Seconds())
		if err != nil {
			d.metrics.BackendErrorsTotal.WithLabelValues(kind.Tag(), op).Inc()
		}
	}
	if err != nil {
		d.log.Errorw("Store operation failed", "backend", kind.Tag(), "operation", op, "error", err)
	}
	return result, err
}

func (d *Dispatcher) ListUsers(ctx context.Context, kind constants.BackendKind) ([]entities.User, error) {
	return dispatch(d, kind, "list_users", []entities.User{}, func(s repositories.Store) ([]entities.User, error) {
		return s.ListUsers(ctx)
	})
}

func (d *Dispatcher) CreateUser(ctx context.Context, kind constants.BackendKind, in entities.NewUser) (*entities.User, error) {
	return dispatch(d, kind, "create_user", nil, func(s repositories.Store) (*entities.User, error) {
		return s.CreateUser(ctx, in)
	})
}

func (d *Dispatcher) UpdateUser(ctx context.Context, kind constants.BackendKind, id int64, patch entities.UserPatch) (*entities.User, error) {
	return dispatch(d, kind, "update_user", nil, func(s repositories.Store) (*entities.User, error) {
		return s.UpdateUser(ctx, id, patch)
	})
}

func (d *Dispatcher) ListOrganizations(ctx context.Context, kind constants.BackendKind) ([]entities.Organization, error) {
	return dispatch(d, kind, "list_organizations", []entities.Organization{}, func(s repositories.Store) ([]entities.Organization, error) {
		return s.ListOrganizations(ctx)
	})
}

func (d *Dispatcher) CreateOrganization(ctx context.Context, kind constants.BackendKind, in entities.NewOrganization) (*entities.Organization, error) {
	return dispatch(d, kind, "create_organization", nil, func(s repositories.Store) (*entities.Organization, error) {
		return s.CreateOrganization(ctx, in)
	})
}

func (d *Dispatcher) UpdateOrganization(ctx context.Context, kind constants.BackendKind, id int64, patch entities.OrganizationPatch) (*entities.Organization, error) {
	return dispatch(d, kind, "update_organization", nil, func(s repositories.Store) (*entities.Organization, error) {
		return s.UpdateOrganization(ctx, id, patch)
	})
}

func (d *Dispatcher) ListCampaigns(ctx context.Context, kind constants.BackendKind, filter entities.CampaignFilter) ([]entities.Campaign, error) {
	return dispatch(d, kind, "list_campaigns", []entities.Campaign{}, func(s repositories.Store) ([]entities.Campaign, error) {
		return s.ListCampaigns(ctx, filter)
	})
}

func (d *Dispatcher) CreateCampaign(ctx context.Context, kind constants.BackendKind, in entities.NewCampaign) (*entities.Campaign, error) {
	return dispatch(d, kind, "create_campaign", nil, func(s repositories.Store) (*entities.Campaign, error) {
		return s.CreateCampaign(ctx, in)
	})
}

func (d *Dispatcher) UpdateCampaign(ctx context.Context, kind constants.BackendKind, id int64, patch entities.CampaignPatch) (*entities.Campaign, error) {
	return dispatch(d, kind, "update_campaign", nil, func(s repositories.Store) (*entities.Campaign, error) {
		return s.UpdateCampaign(ctx, id, patch)
	})
}

func (d *Dispatcher) ListApplications(ctx context.Context, kind constants.BackendKind, filter entities.ApplicationFilter) ([]entities.Application, error) {
	return dispatch(d, kind, "list_applications", []entities.Application{}, func(s repositories.Store) ([]entities.Application, error) {
		return s.ListApplications(ctx, filter)
	})
}

func (d *Dispatcher) CreateApplication(ctx context.Context, kind constants.BackendKind, in entities.NewApplication) (*entities.Application, error) {
	return dispatch(d, kind, "create_application", nil, func(s repositories.Store) (*entities.Application, error) {
		return s.CreateApplication(ctx, in)
	})
}

func (d *Dispatcher) UpdateApplication(ctx context.Context, kind constants.BackendKind, id int64, patch entities.ApplicationPatch) (*entities.Application, error) {
	return dispatch(d, kind, "update_application", nil, func(s repositories.Store) (*entities.Application, error) {
		return s.UpdateApplication(ctx, id, patch)
	})
}

// Health pings every configured backend concurrently. The map holds nil for
// a healthy backend and the ping error otherwise.
func (d *Dispatcher) Health(ctx context.Context) map[constants.BackendKind]error {
	var (
		mu      sync.Mutex
		results = make(map[constants.BackendKind]error, len(d.stores))
	)

	var g errgroup.Group
	for kind, store := range d.stores {
		kind, store := kind, store
		g.Go(func() error {
			err := store.Ping(ctx)

			mu.Lock()
			results[kind] = err
			mu.Unlock()

			if d.metrics != nil {
				up := 0.0
				if err == nil {
					up = 1
				}
				d.metrics.BackendUp.WithLabelValues(kind.Tag()).Set(up)
			}
			return nil
		})
	}
	g.Wait()
	return results
}

// Close closes every store and returns the first error.
func (d *Dispatcher) Close() error {
	var first error
	for kind, store := range d.stores {
		if err := store.Close(); err != nil {
			d.log.Warnw("Failed to close store", "backend", kind.Tag(), "error", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
