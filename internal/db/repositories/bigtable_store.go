package repositories

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/db"
	"campaign-lab/polystore/internal/logging"
	"campaign-lab/polystore/internal/models/entities"

	"cloud.google.com/go/bigtable"
	"go.uber.org/zap"
)

// BigtableStore implements Store on Bigtable. Every entity table has a
// single family; ids come from the counter row of the sequence table and
// secondary access paths are index tables keyed "<indexed id>#<row id>"
// that hold a full copy of the row.
//
// Nothing here is transactional: a failure halfway through a multi-row write
// leaves the rows written so far in place.
type BigtableStore struct {
	bt  *db.Bigtable
	seq idSequence
	log *zap.SugaredLogger
}

var _ Store = (*BigtableStore)(nil)

// NewBigtableStore creates a store on an open Bigtable connection. With
// atomicSequences set ids are taken with a server-side increment instead of
// the read-then-write counter.
func NewBigtableStore(bt *db.Bigtable, atomicSequences bool) *BigtableStore {
	seqTable := bt.Client.Open(constants.TableSequences)

	var seq idSequence = &readWriteSequence{tbl: seqTable}
	if atomicSequences {
		seq = &atomicSequence{tbl: seqTable}
	}

	return &BigtableStore{
		bt:  bt,
		seq: seq,
		log: logging.Named("bigtable_store"),
	}
}

func (s *BigtableStore) Ping(ctx context.Context) error {
	_, err := s.bt.Client.Open(constants.TableSequences).ReadRow(ctx, constants.SequenceRowKey)
	return err
}

func (s *BigtableStore) Close() error {
	return s.bt.Close()
}

// cells is one row: column qualifier to value. Integers are kept as decimal
// strings.
type cells map[string]string

func (c cells) intValue(col string) (int64, error) {
	v, ok := c[col]
	if !ok {
		return 0, fmt.Errorf("row is missing column %q", col)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", col, err)
	}
	return n, nil
}

// merged returns a copy of c overlaid with patch.
func (c cells) merged(patch cells) cells {
	out := make(cells, len(c)+len(patch))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

func (c cells) mutation() *bigtable.Mutation {
	m := bigtable.NewMutation()
	ts := bigtable.Now()
	for col, v := range c {
		m.Set(constants.BigtableFamily, col, ts, []byte(v))
	}
	return m
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// rowKey pads ids so lexicographic key order matches numeric order.
func rowKey(id int64) string { return fmt.Sprintf("%020d", id) }

func indexPrefix(indexed int64) string { return rowKey(indexed) + "#" }

func indexKey(indexed, id int64) string { return indexPrefix(indexed) + rowKey(id) }

func rowCells(row bigtable.Row) cells {
	out := cells{}
	prefix := constants.BigtableFamily + ":"
	for _, item := range row[constants.BigtableFamily] {
		col := strings.TrimPrefix(item.Column, prefix)
		if _, seen := out[col]; !seen {
			out[col] = string(item.Value)
		}
	}
	return out
}

var latestOnly = bigtable.RowFilter(bigtable.LatestNFilter(1))

// rowExists matches rows carrying an id cell.
var rowExists = bigtable.ChainFilters(
	bigtable.FamilyFilter(constants.BigtableFamily),
	bigtable.ColumnFilter("id"),
)

type rowRef struct {
	table string
	key   string
}

func (s *BigtableStore) writeRow(ctx context.Context, c cells, targets ...rowRef) error {
	for _, t := range targets {
		if err := s.bt.Client.Open(t.table).Apply(ctx, t.key, c.mutation()); err != nil {
			return fmt.Errorf("failed to write %s/%s: %w", t.table, t.key, err)
		}
	}
	return nil
}

// readRow returns nil cells when the row does not exist.
func (s *BigtableStore) readRow(ctx context.Context, table, key string) (cells, error) {
	row, err := s.bt.Client.Open(table).ReadRow(ctx, key, latestOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", table, key, err)
	}
	if len(row) == 0 {
		return nil, nil
	}
	return rowCells(row), nil
}

func (s *BigtableStore) scan(ctx context.Context, table string, rs bigtable.RowSet) ([]cells, error) {
	var rows []cells
	err := s.bt.Client.Open(table).ReadRows(ctx, rs, func(row bigtable.Row) bool {
		rows = append(rows, rowCells(row))
		return true
	}, latestOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", table, err)
	}
	return rows, nil
}

// updateIfExists applies patch only when the row is already there, so an
// update never creates a row. It reports whether the row existed.
func (s *BigtableStore) updateIfExists(ctx context.Context, table, key string, patch cells) (bool, error) {
	var matched bool
	cond := bigtable.NewCondMutation(rowExists, patch.mutation(), nil)
	err := s.bt.Client.Open(table).Apply(ctx, key, cond, bigtable.GetCondMutationResult(&matched))
	if err != nil {
		return false, fmt.Errorf("failed to update %s/%s: %w", table, key, err)
	}
	return matched, nil
}

func (s *BigtableStore) deleteRows(ctx context.Context, table string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	muts := make([]*bigtable.Mutation, len(keys))
	for i := range keys {
		muts[i] = bigtable.NewMutation()
		muts[i].DeleteRow()
	}

	errs, err := s.bt.Client.Open(table).ApplyBulk(ctx, keys, muts)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	for i, rowErr := range errs {
		if rowErr != nil {
			return fmt.Errorf("failed to delete %s/%s: %w", table, keys[i], rowErr)
		}
	}
	return nil
}

// create reserves an id for counter, writes the row built by build under it
// (plus its index copies) and commits the counter.
func (s *BigtableStore) create(ctx context.Context, counter string, build func(id int64) (cells, []rowRef)) (int64, error) {
	id, err := s.seq.reserve(ctx, counter)
	if err != nil {
		return 0, err
	}

	c, targets := build(id)
	if err := s.writeRow(ctx, c, targets...); err != nil {
		return 0, err
	}
	if err := s.seq.commit(ctx, counter, id); err != nil {
		return 0, err
	}

	s.log.Debugw("Row created", "counter", counter, "id", id)
	return id, nil
}

func sortByID[T any](items []T, id func(T) int64) {
	slices.SortFunc(items, func(a, b T) int {
		return cmp.Compare(id(a), id(b))
	})
}

func decodeUser(c cells) (*entities.User, error) {
	id, err := c.intValue("id")
	if err != nil {
		return nil, err
	}
	return &entities.User{
		ID:       id,
		Username: c["username"],
		Email:    c["email"],
		Password: c["password"],
	}, nil
}

func decodeOrganization(c cells) (*entities.Organization, error) {
	id, err := c.intValue("id")
	if err != nil {
		return nil, err
	}
	return &entities.Organization{ID: id, Name: c["name"]}, nil
}

func (s *BigtableStore) ListUsers(ctx context.Context) ([]entities.User, error) {
	rows, err := s.scan(ctx, constants.TableUsers, bigtable.InfiniteRange(""))
	if err != nil {
		return nil, err
	}

	users := make([]entities.User, 0, len(rows))
	for _, c := range rows {
		u, err := decodeUser(c)
		if err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, *u)
	}
	sortByID(users, func(u entities.User) int64 { return u.ID })
	return users, nil
}

func (s *BigtableStore) CreateUser(ctx context.Context, in entities.NewUser) (*entities.User, error) {
	id, err := s.create(ctx, constants.CounterUser, func(id int64) (cells, []rowRef) {
		return cells{
			"id":       formatID(id),
			"username": in.Username,
			"email":    in.Email,
			"password": in.Password,
		}, []rowRef{{constants.TableUsers, rowKey(id)}}
	})
	if err != nil {
		return nil, err
	}
	return s.getUser(ctx, id)
}

// UpdateUser returns nil for an empty patch and for an unknown id.
func (s *BigtableStore) UpdateUser(ctx context.Context, id int64, patch entities.UserPatch) (*entities.User, error) {
	c := cells{}
	if v, ok := patch.Username.Get(); ok {
		c["username"] = v
	}
	if v, ok := patch.Email.Get(); ok {
		c["email"] = v
	}
	if v, ok := patch.Password.Get(); ok {
		c["password"] = v
	}
	if len(c) == 0 {
		return nil, nil
	}

	found, err := s.updateIfExists(ctx, constants.TableUsers, rowKey(id), c)
	if err != nil || !found {
		return nil, err
	}
	return s.getUser(ctx, id)
}

func (s *BigtableStore) getUser(ctx context.Context, id int64) (*entities.User, error) {
	c, err := s.readRow(ctx, constants.TableUsers, rowKey(id))
	if err != nil || c == nil {
		return nil, err
	}
	return decodeUser(c)
}

func (s *BigtableStore) ListOrganizations(ctx context.Context) ([]entities.Organization, error) {
	rows, err := s.scan(ctx, constants.TableOrganizations, bigtable.InfiniteRange(""))
	if err != nil {
		return nil, err
	}

	orgs := make([]entities.Organization, 0, len(rows))
	for _, c := range rows {
		o, err := decodeOrganization(c)
		if err != nil {
			return nil, fmt.Errorf("failed to decode organization: %w", err)
		}
		orgs = append(orgs, *o)
	}
	sortByID(orgs, func(o entities.Organization) int64 { return o.ID })
	return orgs, nil
}

func (s *BigtableStore) CreateOrganization(ctx context.Context, in entities.NewOrganization) (*entities.Organization, error) {
	id, err := s.create(ctx, constants.CounterOrganization, func(id int64) (cells, []rowRef) {
		return cells{
			"id":   formatID(id),
			"name": in.Name,
		}, []rowRef{{constants.TableOrganizations, rowKey(id)}}
	})
	if err != nil {
		return nil, err
	}
	return s.getOrganization(ctx, id)
}

func (s *BigtableStore) UpdateOrganization(ctx context.Context, id int64, patch entities.OrganizationPatch) (*entities.Organization, error) {
	c := cells{}
	if v, ok := patch.Name.Get(); ok {
		c["name"] = v
	}
	if len(c) == 0 {
		return nil, nil
	}

	found, err := s.updateIfExists(ctx, constants.TableOrganizations, rowKey(id), c)
	if err != nil || !found {
		return nil, err
	}
	return s.getOrganization(ctx, id)
}

func (s *BigtableStore) getOrganization(ctx context.Context, id int64) (*entities.Organization, error) {
	c, err := s.readRow(ctx, constants.TableOrganizations, rowKey(id))
	if err != nil || c == nil {
		return nil, err
	}
	return decodeOrganization(c)
}
