package gorm

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

// Ensure AssetsStore implements store.AssetsStore
var _ store.AssetsStore = (*AssetsStore)(nil)

// AssetsStore implements store.AssetsStore using GORM
type AssetsStore struct {
	db *gorm.DB
}

// NewAssetsStore creates a new AssetsStore
func NewAssetsStore(db *gorm.DB) *AssetsStore {
	return &AssetsStore{db: db}
}

func (s *AssetsStore) List(ctx context.Context, filter store.AssetFilter) ([]model.Asset, int64, error) {
	q := applyScope(s.db.WithContext(ctx).Model(&model.Asset{}), filter.Scope, "assets")
	if filter.Type != 0 {
		q = q.Where("assets.type = ?", filter.Type)
	}
	if filter.TagID != nil {
		q = q.Where("assets.id IN (SELECT asset_id FROM asset_tags WHERE tag_id = ?)", *filter.TagID)
	}
	if filter.Search != "" {
		q = q.Where("lower(assets.name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var assets []model.Asset
	total, err := findPage(q, filter.Page, "assets.name", &assets, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Tags")
	})
	if err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

func (s *AssetsStore) Get(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	var a model.Asset
	err := s.db.WithContext(ctx).Preload("Tags").Preload("Endpoints").First(&a, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *AssetsStore) Create(ctx context.Context, a *model.Asset) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error)
}

func (s *AssetsStore) Update(ctx context.Context, a *model.Asset) error {
	return checkAffected(s.db.WithContext(ctx).Model(a).Omit(clause.Associations).
		Select("name", "description", "type", "criticality", "environment").
		Updates(a))
}

func (s *AssetsStore) Delete(ctx context.Context, id uuid.UUID) error {
	return checkAffected(s.db.WithContext(ctx).Delete(&model.Asset{}, "id = ?", id))
}

func (s *AssetsStore) SetTags(ctx context.Context, id uuid.UUID, tagIDs []uuid.UUID) error {
	db := s.db.WithContext(ctx)
	orgID, err := orgOf(db, "assets", id)
	if err != nil {
		return translate(err)
	}
	return translate(replaceLinks(db, "asset_tags", "asset_id", "tag_id", "tags", id, orgID, tagIDs))
}

// Ensure TagsStore implements store.TagsStore
var _ store.TagsStore = (*TagsStore)(nil)

// TagsStore implements store.TagsStore using GORM
type TagsStore struct {
	db *gorm.DB
}

// NewTagsStore creates a new TagsStore
func NewTagsStore(db *gorm.DB) *TagsStore {
	return &TagsStore{db: db}
}

func (s *TagsStore) List(ctx context.Context, scope store.Scope) ([]model.Tag, error) {
	q := s.db.WithContext(ctx).Model(&model.Tag{})
	if scope.OrganizationID != nil {
		q = q.Where("organization_id = ?", *scope.OrganizationID)
	}
	var tags []model.Tag
	if err := q.Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TagsStore) Get(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	var t model.Tag
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *TagsStore) Create(ctx context.Context, t *model.Tag) error {
	return translate(s.db.WithContext(ctx).Create(t).Error)
}

func (s *TagsStore) Delete(ctx context.Context, id uuid.UUID) error {
	return checkAffected(s.db.WithContext(ctx).Delete(&model.Tag{}, "id = ?", id))
}

// Ensure DiscoveredEndpointsStore implements store.DiscoveredEndpointsStore
var _ store.DiscoveredEndpointsStore = (*DiscoveredEndpointsStore)(nil)

// DiscoveredEndpointsStore implements store.DiscoveredEndpointsStore using GORM
type DiscoveredEndpointsStore struct {
	db *gorm.DB
}

// NewDiscoveredEndpointsStore creates a new DiscoveredEndpointsStore
func NewDiscoveredEndpointsStore(db *gorm.DB) *DiscoveredEndpointsStore {
	return &DiscoveredEndpointsStore{db: db}
}

func (s *DiscoveredEndpointsStore) List(ctx context.Context, filter store.EndpointFilter) ([]model.DiscoveredEndpoint, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.DiscoveredEndpoint{})
	if filter.Scope.OrganizationID != nil {
		q = q.Where("organization_id = ?", *filter.Scope.OrganizationID)
	}
	if filter.AssetID != nil {
		q = q.Where("asset_id = ?", *filter.AssetID)
	}

	var endpoints []model.DiscoveredEndpoint
	total, err := findPage(q, filter.Page, "host, path, method", &endpoints)
	if err != nil {
		return nil, 0, err
	}
	return endpoints, total, nil
}

func (s *DiscoveredEndpointsStore) Get(ctx context.Context, id uuid.UUID) (*model.DiscoveredEndpoint, error) {
	var e model.DiscoveredEndpoint
	if err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (s *DiscoveredEndpointsStore) CreateBatch(ctx context.Context, endpoints []model.DiscoveredEndpoint) (int64, error) {
	if len(endpoints) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&endpoints)
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

func (s *DiscoveredEndpointsStore) Delete(ctx context.Context, id uuid.UUID) error {
	return checkAffected(s.db.WithContext(ctx).Delete(&model.DiscoveredEndpoint{}, "id = ?", id))
}
