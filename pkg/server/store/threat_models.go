package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/model"
)

type ThreatModelFilter struct {
	Scope           Scope
	Status          model.ThreatModelStatus
	TagID           *uuid.UUID
	IncludeFindings bool
	Page            Page
}

// ThreatModelsStore abstracts threat model storage
type ThreatModelsStore interface {
	List(ctx context.Context, filter ThreatModelFilter) ([]model.ThreatModel, int64, error)

	// Get loads assets and tags, and findings when includeFindings is set.
	Get(ctx context.Context, id uuid.UUID, includeFindings bool) (*model.ThreatModel, error)
	Create(ctx context.Context, tm *model.ThreatModel) error
	Update(ctx context.Context, tm *model.ThreatModel) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SetAssets and SetTags replace the associations. Every id must belong to
	// the threat model's organization, otherwise ErrInvalid.
	SetAssets(ctx context.Context, id uuid.UUID, assetIDs []uuid.UUID) error
	SetTags(ctx context.Context, id uuid.UUID, tagIDs []uuid.UUID) error
}

type FindingFilter struct {
	Scope         Scope
	ThreatModelID *uuid.UUID
	Severity      model.Severity
	Status        model.FindingStatus
	Page          Page
}

// FindingsStore abstracts finding storage. Every write recomputes the status
// of design reviews linked to the affected threat model in the same
// transaction.
type FindingsStore interface {
	List(ctx context.Context, filter FindingFilter) ([]model.Finding, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Finding, error)

	// Create inserts one or more findings of the same threat model.
	Create(ctx context.Context, findings ...*model.Finding) error
	Update(ctx context.Context, finding *model.Finding) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DesignReviewFilter struct {
	Scope         Scope
	ThreatModelID *uuid.UUID
	Status        model.DesignReviewStatus
	Page          Page
}

// DesignReviewsStore abstracts design review storage. Create and Update
// apply the findings-derived status when a threat model is linked.
type DesignReviewsStore interface {
	List(ctx context.Context, filter DesignReviewFilter) ([]model.DesignReview, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.DesignReview, error)
	Create(ctx context.Context, review *model.DesignReview) error
	Update(ctx context.Context, review *model.DesignReview) error
	Delete(ctx context.Context, id uuid.UUID) error
}
