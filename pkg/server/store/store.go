package store

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	ErrInvalid  = errors.New("invalid reference")
)

// Scope limits which rows a list or count query may see.
type Scope struct {
	OrganizationID *uuid.UUID
	OwnerID        *uuid.UUID
}

// Page is a limit/offset window. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}
