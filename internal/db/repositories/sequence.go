package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/db"

	"cloud.google.com/go/bigtable"
)

// ErrSequenceMissing is returned when the counter row has no cell for an
// entity type.
var ErrSequenceMissing = errors.New("sequence counter missing")

// idSequence hands out ids from the counter row of the sequence table.
// reserve returns the id for a new row; commit records it once the row has
// been written.
type idSequence interface {
	reserve(ctx context.Context, counter string) (int64, error)
	commit(ctx context.Context, counter string, id int64) error
}

// readWriteSequence reads the current counter, returns current+1 and writes
// that value back in commit. Nothing guards the window between the two calls,
// so concurrent creators can be handed the same id.
type readWriteSequence struct {
	tbl *bigtable.Table

	// afterRead runs between reading the counter and returning. Tests use
	// it to force two callers into the window.
	afterRead func(counter string)
}

func (s *readWriteSequence) reserve(ctx context.Context, counter string) (int64, error) {
	row, err := s.tbl.ReadRow(ctx, constants.SequenceRowKey, bigtable.RowFilter(
		bigtable.ChainFilters(
			bigtable.FamilyFilter(constants.BigtableFamily),
			bigtable.ColumnFilter(counter),
			bigtable.LatestNFilter(1),
		),
	))
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", counter, err)
	}

	items := row[constants.BigtableFamily]
	if len(items) == 0 {
		return 0, fmt.Errorf("failed to retrieve current %s id: %w", counterEntity(counter), ErrSequenceMissing)
	}
	current, err := db.DecodeCounter(items[0].Value)
	if err != nil {
		return 0, fmt.Errorf("failed to decode %s: %w", counter, err)
	}

	if s.afterRead != nil {
		s.afterRead(counter)
	}
	return current + 1, nil
}

func (s *readWriteSequence) commit(ctx context.Context, counter string, id int64) error {
	m := bigtable.NewMutation()
	m.Set(constants.BigtableFamily, counter, bigtable.Now(), db.EncodeCounter(id))
	if err := s.tbl.Apply(ctx, constants.SequenceRowKey, m); err != nil {
		return fmt.Errorf("failed to store %s: %w", counter, err)
	}
	return nil
}

// atomicSequence increments the counter server-side, so every call observes
// a value no other call has returned.
type atomicSequence struct {
	tbl *bigtable.Table
}

func (s *atomicSequence) reserve(ctx context.Context, counter string) (int64, error) {
	rmw := bigtable.NewReadModifyWrite()
	rmw.Increment(constants.BigtableFamily, counter, 1)

	row, err := s.tbl.ApplyReadModifyWrite(ctx, constants.SequenceRowKey, rmw)
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", counter, err)
	}

	column := constants.BigtableFamily + ":" + counter
	for _, item := range row[constants.BigtableFamily] {
		if item.Column == column {
			return db.DecodeCounter(item.Value)
		}
	}
	return 0, fmt.Errorf("failed to retrieve current %s id: %w", counterEntity(counter), ErrSequenceMissing)
}

func (s *atomicSequence) commit(context.Context, string, int64) error { return nil }

func counterEntity(counter string) string {
	return strings.TrimSuffix(counter, "_sequence")
}
