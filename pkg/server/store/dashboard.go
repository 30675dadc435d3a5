package store

import "context"

// Dashboard is an at-a-glance summary of one organization, or of all of
// them for platform administrators.
type Dashboard struct {
	ThreatModelsByStatus  map[string]int64 `json:"threat_models_by_status"`
	FindingsBySeverity    map[string]int64 `json:"findings_by_severity"`
	FindingsByStatus      map[string]int64 `json:"findings_by_status"`
	FindingsByStride      map[string]int64 `json:"findings_by_stride"`
	OpenFindings          int64            `json:"open_findings"`
	Assets                int64            `json:"assets"`
	AssetsWithoutModel    int64            `json:"assets_without_threat_model"`
	OpenDesignReviews     int64            `json:"open_design_reviews"`
	DesignReviewsByStatus map[string]int64 `json:"design_reviews_by_status"`
	PendingVendorReviews  int64            `json:"pending_third_party_reviews"`
	VendorReviewsByStatus map[string]int64 `json:"third_party_reviews_by_status"`
}

// DashboardStore computes aggregate counts
type DashboardStore interface {
	Summary(ctx context.Context, scope Scope) (*Dashboard, error)
}
