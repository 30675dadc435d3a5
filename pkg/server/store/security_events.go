package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/model"
)

type SecurityEventFilter struct {
	OrganizationID *uuid.UUID
	ActorID        *uuid.UUID
	MsgID          string
	// MaxSeverity keeps events at or above this RFC5424 severity (numerically <=).
	MaxSeverity *int
	Since       *time.Time
	Until       *time.Time
	Page        Page
}

// SecurityEventsStore reads the persisted activity log, newest first
type SecurityEventsStore interface {
	List(ctx context.Context, filter SecurityEventFilter) ([]model.SecurityEvent, int64, error)
}
