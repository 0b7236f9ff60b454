package repositories

import (
	"context"
	"errors"
	"fmt"

	"campaign-lab/polystore/internal/models/entities"
	gormModels "campaign-lab/polystore/internal/models/gorm"

	"gorm.io/gorm"
)

// GormStore implements Store on a relational engine through GORM. The same
// implementation serves Postgres and the embedded SQLite database.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a new GORM-based store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ListUsers returns every user ordered by id
func (s *GormStore) ListUsers(ctx context.Context) ([]entities.User, error) {
	var rows []gormModels.User
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	users := make([]entities.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, *row.ToEntity())
	}
	return users, nil
}

func (s *GormStore) CreateUser(ctx context.Context, in entities.NewUser) (*entities.User, error) {
	row := gormModels.User{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return row.ToEntity(), nil
}

// UpdateUser applies the present fields of patch. An empty patch returns the
// stored user unchanged.
func (s *GormStore) UpdateUser(ctx context.Context, id int64, patch entities.UserPatch) (*entities.User, error) {
	var row gormModels.User
	found, err := s.first(ctx, &row, id)
	if err != nil || !found {
		return nil, err
	}

	updates := map[string]interface{}{}
	if v, ok := patch.Username.Get(); ok {
		updates["username"] = v
	}
	if v, ok := patch.Email.Get(); ok {
		updates["email"] = v
	}
	if v, ok := patch.Password.Get(); ok {
		updates["password"] = v
	}

	if err := s.apply(ctx, &row, id, updates); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return row.ToEntity(), nil
}

func (s *GormStore) ListOrganizations(ctx context.Context) ([]entities.Organization, error) {
	var rows []gormModels.Organization
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}

	orgs := make([]entities.Organization, 0, len(rows))
	for _, row := range rows {
		orgs = append(orgs, *row.ToEntity())
	}
	return orgs, nil
}

func (s *GormStore) CreateOrganization(ctx context.Context, in entities.NewOrganization) (*entities.Organization, error) {
	row := gormModels.Organization{Name: in.Name}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return row.ToEntity(), nil
}

func (s *GormStore) UpdateOrganization(ctx context.Context, id int64, patch entities.OrganizationPatch) (*entities.Organization, error) {
	var row gormModels.Organization
	found, err := s.first(ctx, &row, id)
	if err != nil || !found {
		return nil, err
	}

	updates := map[string]interface{}{}
	if v, ok := patch.Name.Get(); ok {
		updates["name"] = v
	}

	if err := s.apply(ctx, &row, id, updates); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return row.ToEntity(), nil
}

// first loads the row with the given primary key into dest. A missing row is
// reported as found == false with a nil error.
func (s *GormStore) first(ctx context.Context, dest interface{}, id int64) (bool, error) {
	err := s.db.WithContext(ctx).First(dest, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to fetch row %d: %w", id, err)
	}
	return true, nil
}

// apply writes updates to the row and reloads it into dest.
func (s *GormStore) apply(ctx context.Context, dest interface{}, id int64, updates map[string]interface{}) error {
	db := s.db.WithContext(ctx)
	if len(updates) > 0 {
		if err := db.Model(dest).Updates(updates).Error; err != nil {
			return err
		}
	}
	return db.First(dest, id).Error
}
