package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

// Ensure DashboardStore implements store.DashboardStore
var _ store.DashboardStore = (*DashboardStore)(nil)

// DashboardStore computes dashboard counts with GROUP BY queries
type DashboardStore struct {
	db *gorm.DB
}

// NewDashboardStore creates a new DashboardStore
func NewDashboardStore(db *gorm.DB) *DashboardStore {
	return &DashboardStore{db: db}
}

func (s *DashboardStore) Summary(ctx context.Context, scope store.Scope) (*store.Dashboard, error) {
	db := s.db.WithContext(ctx)
	d := &store.Dashboard{}

	var err error
	if d.ThreatModelsByStatus, err = groupCount(db, scope, "threat_models", "status"); err != nil {
		return nil, err
	}
	if d.FindingsBySeverity, err = groupCount(db, scope, "findings", "severity"); err != nil {
		return nil, err
	}
	if d.FindingsByStatus, err = groupCount(db, scope, "findings", "status"); err != nil {
		return nil, err
	}
	if d.FindingsByStride, err = groupCount(db, scope, "findings", "stride_category"); err != nil {
		return nil, err
	}
	if d.DesignReviewsByStatus, err = groupCount(db, scope, "design_reviews", "status"); err != nil {
		return nil, err
	}
	if d.VendorReviewsByStatus, err = groupCount(db, scope, "third_party_reviews", "status"); err != nil {
		return nil, err
	}

	d.OpenFindings = d.FindingsByStatus[model.FindingOpen.String()] + d.FindingsByStatus[model.FindingInProgress.String()]
	for status, n := range d.DesignReviewsByStatus {
		if status != model.DesignReviewApproved.String() {
			d.OpenDesignReviews += n
		}
	}
	for status, n := range d.VendorReviewsByStatus {
		if status != model.ThirdPartyCompleted.String() {
			d.PendingVendorReviews += n
		}
	}

	if err := applyScope(db.Table("assets"), scope, "assets").Count(&d.Assets).Error; err != nil {
		return nil, err
	}
	uncovered := applyScope(db.Table("assets"), scope, "assets").
		Where("NOT EXISTS (SELECT 1 FROM threat_model_assets tma WHERE tma.asset_id = assets.id)")
	if err := uncovered.Count(&d.AssetsWithoutModel).Error; err != nil {
		return nil, err
	}

	return d, nil
}

func groupCount(db *gorm.DB, scope store.Scope, table, column string) (map[string]int64, error) {
	var rows []struct {
		Name  string
		Count int64
	}
	err := applyScope(db.Table(table), scope, table).
		Select(column + " AS name, count(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Name] = r.Count
	}
	return counts, nil
}
