package db

import (
	"context"
	"encoding/binary"
	"fmt"

	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/logging"

	"cloud.google.com/go/bigtable"
	"google.golang.org/api/option"
)

// Bigtable bundles the data and admin clients of one instance.
type Bigtable struct {
	Client *bigtable.Client
	Admin  *bigtable.AdminClient
}

// OpenBigtable connects to project/instance. Extra options (for instance a
// grpc connection to the emulator) are passed through to both clients.
func OpenBigtable(ctx context.Context, project, instance string, opts ...option.ClientOption) (*Bigtable, error) {
	admin, err := bigtable.NewAdminClient(ctx, project, instance, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bigtable admin client: %w", err)
	}

	client, err := bigtable.NewClientWithConfig(ctx, project, instance,
		bigtable.ClientConfig{MetricsProvider: bigtable.NoopMetricsProvider{}}, opts...)
	if err != nil {
		admin.Close()
		return nil, fmt.Errorf("failed to create bigtable client: %w", err)
	}

	logging.Info("Connected to Bigtable", "project", project, "instance", instance)
	return &Bigtable{Client: client, Admin: admin}, nil
}

func (b *Bigtable) Close() error {
	errClient := b.Client.Close()
	errAdmin := b.Admin.Close()
	if errClient != nil {
		return errClient
	}
	return errAdmin
}

// EnsureBigtableSchema creates missing tables and column families and keeps a
// single cell version per column. It does not touch the id counters.
func EnsureBigtableSchema(ctx context.Context, admin *bigtable.AdminClient) error {
	existing, err := admin.Tables(ctx)
	if err != nil {
		return fmt.Errorf("failed to list bigtable tables: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, t := range existing {
		have[t] = true
	}

	for _, table := range constants.BigtableTables {
		if !have[table] {
			if err := admin.CreateTable(ctx, table); err != nil {
				return fmt.Errorf("failed to create table %s: %w", table, err)
			}
			logging.Info("Created Bigtable table", "table", table)
		}

		info, err := admin.TableInfo(ctx, table)
		if err != nil {
			return fmt.Errorf("failed to describe table %s: %w", table, err)
		}
		if !containsString(info.Families, constants.BigtableFamily) {
			if err := admin.CreateColumnFamily(ctx, table, constants.BigtableFamily); err != nil {
				return fmt.Errorf("failed to create family on %s: %w", table, err)
			}
		}
		if err := admin.SetGCPolicy(ctx, table, constants.BigtableFamily, bigtable.MaxVersionsPolicy(1)); err != nil {
			return fmt.Errorf("failed to set gc policy on %s: %w", table, err)
		}
	}
	return nil
}

// InitSequences writes a zero into every counter cell that does not exist yet.
// Existing counters are left alone.
func InitSequences(ctx context.Context, client *bigtable.Client) error {
	tbl := client.Open(constants.TableSequences)

	for _, counter := range constants.SequenceCounters {
		init := bigtable.NewMutation()
		init.Set(constants.BigtableFamily, counter, bigtable.Now(), EncodeCounter(0))

		present := bigtable.ChainFilters(
			bigtable.FamilyFilter(constants.BigtableFamily),
			bigtable.ColumnFilter("^"+counter+"$"),
		)
		cond := bigtable.NewCondMutation(present, nil, init)
		if err := tbl.Apply(ctx, constants.SequenceRowKey, cond); err != nil {
			return fmt.Errorf("failed to initialize counter %s: %w", counter, err)
		}
	}
	return nil
}

// EncodeCounter stores counters as 8-byte big-endian integers, the format
// ReadModifyWrite increments operate on.
func EncodeCounter(v int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}

func DecodeCounter(b []byte) (int64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("counter cell has %d bytes, want 8", len(b))
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
