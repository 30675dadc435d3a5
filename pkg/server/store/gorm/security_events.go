package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

// Ensure SecurityEventsStore implements store.SecurityEventsStore
var _ store.SecurityEventsStore = (*SecurityEventsStore)(nil)

// SecurityEventsStore reads security_events rows written by the audit package
type SecurityEventsStore struct {
	db *gorm.DB
}

// NewSecurityEventsStore creates a new SecurityEventsStore
func NewSecurityEventsStore(db *gorm.DB) *SecurityEventsStore {
	return &SecurityEventsStore{db: db}
}

func (s *SecurityEventsStore) List(ctx context.Context, filter store.SecurityEventFilter) ([]model.SecurityEvent, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.SecurityEvent{})
	if filter.OrganizationID != nil {
		q = q.Where("organization_id = ?", *filter.OrganizationID)
	}
	if filter.ActorID != nil {
		q = q.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.MsgID != "" {
		q = q.Where("msgid = ?", filter.MsgID)
	}
	if filter.MaxSeverity != nil {
		q = q.Where("severity <= ?", *filter.MaxSeverity)
	}
	if filter.Since != nil {
		q = q.Where("timestamp >= ?", *filter.Since)
	}
	if filter.Until != nil {
		q = q.Where("timestamp < ?", *filter.Until)
	}

	var events []model.SecurityEvent
	total, err := findPage(q, filter.Page, "timestamp DESC, id DESC", &events)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
