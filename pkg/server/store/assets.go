package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/model"
)

type AssetFilter struct {
	Scope  Scope
	Type   model.AssetType
	TagID  *uuid.UUID
	Search string
	Page   Page
}

// AssetsStore abstracts asset inventory storage
type AssetsStore interface {
	List(ctx context.Context, filter AssetFilter) ([]model.Asset, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Asset, error)
	Create(ctx context.Context, asset *model.Asset) error
	Update(ctx context.Context, asset *model.Asset) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SetTags replaces the asset's tags; tags must share its organization.
	SetTags(ctx context.Context, id uuid.UUID, tagIDs []uuid.UUID) error
}

// TagsStore abstracts tag storage. Names are unique per organization.
type TagsStore interface {
	List(ctx context.Context, scope Scope) ([]model.Tag, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	Create(ctx context.Context, tag *model.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type EndpointFilter struct {
	Scope   Scope
	AssetID *uuid.UUID
	Page    Page
}

// DiscoveredEndpointsStore abstracts discovered endpoint storage
type DiscoveredEndpointsStore interface {
	List(ctx context.Context, filter EndpointFilter) ([]model.DiscoveredEndpoint, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.DiscoveredEndpoint, error)

	// CreateBatch skips endpoints whose method, host and path already exist
	// in the organization and returns how many were inserted.
	CreateBatch(ctx context.Context, endpoints []model.DiscoveredEndpoint) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
