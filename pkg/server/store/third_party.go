package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/model"
)

type ThirdPartyReviewFilter struct {
	Scope  Scope
	Status model.ThirdPartyStatus
	Search string
	Page   Page
}

// ThirdPartyReviewsStore abstracts vendor review storage
type ThirdPartyReviewsStore interface {
	List(ctx context.Context, filter ThirdPartyReviewFilter) ([]model.ThirdPartyReview, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.ThirdPartyReview, error)
	Create(ctx context.Context, review *model.ThirdPartyReview) error
	Update(ctx context.Context, review *model.ThirdPartyReview) error
	Delete(ctx context.Context, id uuid.UUID) error
}
