package services

import (
	"context"
	"fmt"
	"sync"

	"campaign-lab/polystore/internal/config"
	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/db"
	"campaign-lab/polystore/internal/db/repositories"
	"campaign-lab/polystore/internal/logging"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// OpenBackends opens a store for every backend enabled in cfg, concurrently.
// When AutoMigrate is set the relational schemas are migrated and the
// Bigtable tables and counters are created. On failure every store that was
// already opened is closed.
func OpenBackends(ctx context.Context, cfg *config.Config) (map[constants.BackendKind]repositories.Store, error) {
	kinds, err := cfg.Backends()
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		stores = make(map[constants.BackendKind]repositories.Store, len(kinds))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range kinds {
		kind := kind
		g.Go(func() error {
			store, err := openBackend(gctx, cfg, kind)
			if err != nil {
				return fmt.Errorf("%s: %w", kind.Tag(), err)
			}

			mu.Lock()
			stores[kind] = store
			mu.Unlock()

			logging.Info("Backend ready", "backend", kind.Tag())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, store := range stores {
			store.Close()
		}
		return nil, err
	}
	return stores, nil
}

func openBackend(ctx context.Context, cfg *config.Config, kind constants.BackendKind) (repositories.Store, error) {
	switch kind {
	case constants.BackendRelational:
		conn, err := db.ConnectPostgres(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		orm, err := db.OpenPostgresORM(conn.DB)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return migrated(orm, cfg.AutoMigrate)

	case constants.BackendEmbedded:
		orm, err := db.OpenSQLiteORM(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return migrated(orm, cfg.AutoMigrate)

	case constants.BackendWideColumn:
		bt, err := db.OpenBigtable(ctx, cfg.BigtableProject, cfg.BigtableInstance)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := db.EnsureBigtableSchema(ctx, bt.Admin); err != nil {
				bt.Close()
				return nil, err
			}
			if err := db.InitSequences(ctx, bt.Client); err != nil {
				bt.Close()
				return nil, err
			}
		}
		return repositories.NewBigtableStore(bt, cfg.BigtableAtomicSequences), nil
	}
	return nil, fmt.Errorf("unsupported backend %v", kind)
}

func migrated(orm *gorm.DB, autoMigrate bool) (repositories.Store, error) {
	store := repositories.NewGormStore(orm)
	if autoMigrate {
		if err := db.AutoMigrate(orm); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}
