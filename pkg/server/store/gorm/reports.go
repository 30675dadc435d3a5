package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

// Ensure ReportsStore implements store.ReportsStore
var _ store.ReportsStore = (*ReportsStore)(nil)

// ReportsStore implements store.ReportsStore using GORM
type ReportsStore struct {
	db *gorm.DB
}

// NewReportsStore creates a new ReportsStore
func NewReportsStore(db *gorm.DB) *ReportsStore {
	return &ReportsStore{db: db}
}

func (s *ReportsStore) List(ctx context.Context, filter store.ReportFilter) ([]model.Report, int64, error) {
	q := applyScope(s.db.WithContext(ctx).Model(&model.Report{}), filter.Scope, "reports")
	if filter.Kind != 0 {
		q = q.Where("kind = ?", filter.Kind)
	}

	var reports []model.Report
	total, err := findPage(q, filter.Page, "created_at DESC", &reports)
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (s *ReportsStore) Get(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var r model.Report
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *ReportsStore) Create(ctx context.Context, r *model.Report) error {
	return translate(s.db.WithContext(ctx).Create(r).Error)
}

func (s *ReportsStore) Delete(ctx context.Context, id uuid.UUID) error {
	return checkAffected(s.db.WithContext(ctx).Delete(&model.Report{}, "id = ?", id))
}
