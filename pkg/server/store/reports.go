package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/model"
)

type ReportFilter struct {
	Scope Scope
	Kind  model.ReportKind
	Page  Page
}

// ReportsStore abstracts report metadata storage. Artifacts themselves live
// in the report storage backend under Report.StorageKey.
type ReportsStore interface {
	List(ctx context.Context, filter ReportFilter) ([]model.Report, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Report, error)
	Create(ctx context.Context, report *model.Report) error
	Delete(ctx context.Context, id uuid.UUID) error
}
