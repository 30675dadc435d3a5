package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

// Ensure OrganizationsStore implements store.OrganizationsStore
var _ store.OrganizationsStore = (*OrganizationsStore)(nil)

// OrganizationsStore implements store.OrganizationsStore using GORM
type OrganizationsStore struct {
	db *gorm.DB
}

// NewOrganizationsStore creates a new OrganizationsStore
func NewOrganizationsStore(db *gorm.DB) *OrganizationsStore {
	return &OrganizationsStore{db: db}
}

func (s *OrganizationsStore) List(ctx context.Context, scope store.Scope, page store.Page) ([]model.Organization, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.Organization{})
	if scope.OrganizationID != nil {
		q = q.Where("id = ?", *scope.OrganizationID)
	}

	var orgs []model.Organization
	total, err := findPage(q, page, "name", &orgs)
	if err != nil {
		return nil, 0, err
	}
	return orgs, total, nil
}

func (s *OrganizationsStore) Get(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	if err := s.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &org, nil
}

func (s *OrganizationsStore) Create(ctx context.Context, org *model.Organization) error {
	return translate(s.db.WithContext(ctx).Create(org).Error)
}

func (s *OrganizationsStore) Update(ctx context.Context, org *model.Organization) error {
	return checkAffected(s.db.WithContext(ctx).Model(org).
		Select("name", "slug", "industry", "active").
		Updates(org))
}

func (s *OrganizationsStore) Delete(ctx context.Context, id uuid.UUID) error {
	return checkAffected(s.db.WithContext(ctx).Delete(&model.Organization{}, "id = ?", id))
}
