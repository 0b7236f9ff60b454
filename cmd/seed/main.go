package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"campaign-lab/polystore/internal/config"
	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/db"
	"campaign-lab/polystore/internal/db/repositories"
	"campaign-lab/polystore/internal/logging"
	"campaign-lab/polystore/internal/seed"

	"github.com/jmoiron/sqlx"
)

func main() {
	backend := flag.String("backend", "", "backend tag to seed (default: every enabled backend)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	kinds, err := cfg.Backends()
	if err != nil {
		logging.Fatal("Invalid backend configuration", "error", err)
	}
	if *backend != "" {
		kind, ok := constants.ParseBackend(*backend)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown backend %q\n", *backend)
			os.Exit(2)
		}
		kinds = []constants.BackendKind{kind}
	}

	ctx := context.Background()
	data := seed.Default()
	for _, kind := range kinds {
		seeded, err := seedBackend(ctx, cfg, kind, data)
		if err != nil {
			logging.Fatal("Seed failed", "backend", kind.Tag(), "error", err)
		}
		logging.Info("Seed finished", "backend", kind.Tag(), "inserted", seeded)
	}
}

func seedBackend(ctx context.Context, cfg *config.Config, kind constants.BackendKind, data seed.Dataset) (bool, error) {
	switch kind {
	case constants.BackendRelational:
		conn, err := db.ConnectPostgres(ctx, cfg.PostgresDSN())
		if err != nil {
			return false, err
		}
		defer conn.Close()

		orm, err := db.OpenPostgresORM(conn.DB)
		if err != nil {
			return false, err
		}
		if err := db.AutoMigrate(orm); err != nil {
			return false, err
		}
		return seed.SQL(ctx, conn, data)

	case constants.BackendEmbedded:
		orm, err := db.OpenSQLiteORM(cfg.SQLitePath)
		if err != nil {
			return false, err
		}
		if err := db.AutoMigrate(orm); err != nil {
			return false, err
		}
		sqlDB, err := orm.DB()
		if err != nil {
			return false, err
		}
		defer sqlDB.Close()
		return seed.SQL(ctx, sqlx.NewDb(sqlDB, "sqlite3"), data)

	case constants.BackendWideColumn:
		bt, err := db.OpenBigtable(ctx, cfg.BigtableProject, cfg.BigtableInstance)
		if err != nil {
			return false, err
		}
		defer bt.Close()

		if err := db.EnsureBigtableSchema(ctx, bt.Admin); err != nil {
			return false, err
		}
		if err := db.InitSequences(ctx, bt.Client); err != nil {
			return false, err
		}
		return seed.Store(ctx, repositories.NewBigtableStore(bt, cfg.BigtableAtomicSequences), data)
	}
	return false, fmt.Errorf("unsupported backend %v", kind)
}
