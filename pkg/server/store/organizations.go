package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/model"
)

// OrganizationsStore abstracts tenant storage
type OrganizationsStore interface {
	// List returns organizations. A scoped OrganizationID limits the result to that one.
	List(ctx context.Context, scope Scope, page Page) ([]model.Organization, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Organization, error)

	// Create returns ErrConflict when the name or slug is taken.
	Create(ctx context.Context, org *model.Organization) error
	Update(ctx context.Context, org *model.Organization) error

	// Delete removes the organization and, by cascade, everything in it.
	Delete(ctx context.Context, id uuid.UUID) error
}
