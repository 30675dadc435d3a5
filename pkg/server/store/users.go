package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/model"
)

type UserFilter struct {
	Scope  Scope
	Role   model.Role
	Search string
	Page   Page
}

// UsersStore abstracts user storage
type UsersStore interface {
	List(ctx context.Context, filter UserFilter) ([]model.User, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// Create returns ErrConflict when the email is taken.
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// Delete reassigns every record owned by id to transferTo, then removes
	// the user and their sessions. Either all of it happens or none of it.
	Delete(ctx context.Context, id, transferTo uuid.UUID) (*OwnershipTransfer, error)
}

// OwnershipTransfer counts the records moved to the new owner, by table.
type OwnershipTransfer struct {
	From    uuid.UUID        `json:"from"`
	To      uuid.UUID        `json:"to"`
	Records map[string]int64 `json:"records"`
}

// SessionsStore abstracts login session storage
type SessionsStore interface {
	Create(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id uuid.UUID) (*model.Session, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteForUser revokes every session of a user except keep.
	DeleteForUser(ctx context.Context, userID uuid.UUID, keep uuid.UUID) (int64, error)
}
