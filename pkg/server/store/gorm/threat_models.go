package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

// Ensure ThreatModelsStore implements store.ThreatModelsStore
var _ store.ThreatModelsStore = (*ThreatModelsStore)(nil)

// ThreatModelsStore implements store.ThreatModelsStore using GORM
type ThreatModelsStore struct {
	db *gorm.DB
}

// NewThreatModelsStore creates a new ThreatModelsStore
func NewThreatModelsStore(db *gorm.DB) *ThreatModelsStore {
	return &ThreatModelsStore{db: db}
}

func (s *ThreatModelsStore) List(ctx context.Context, filter store.ThreatModelFilter) ([]model.ThreatModel, int64, error) {
	q := applyScope(s.db.WithContext(ctx).Model(&model.ThreatModel{}), filter.Scope, "threat_models")
	if filter.Status != 0 {
		q = q.Where("threat_models.status = ?", filter.Status)
	}
	if filter.TagID != nil {
		q = q.Where("threat_models.id IN (SELECT threat_model_id FROM threat_model_tags WHERE tag_id = ?)", *filter.TagID)
	}
	preload := func(db *gorm.DB) *gorm.DB {
		db = db.Preload("Tags")
		if filter.IncludeFindings {
			db = db.Preload("Findings", func(db *gorm.DB) *gorm.DB {
				if filter.Scope.OwnerID != nil {
					db = db.Where("owner_id = ?", *filter.Scope.OwnerID)
				}
				return orderByCreation(db)
			})
		}
		return db
	}

	var tms []model.ThreatModel
	total, err := findPage(q, filter.Page, "threat_models.updated_at DESC", &tms, preload)
	if err != nil {
		return nil, 0, err
	}
	return tms, total, nil
}

func (s *ThreatModelsStore) Get(ctx context.Context, id uuid.UUID, includeFindings bool) (*model.ThreatModel, error) {
	q := s.db.WithContext(ctx).Preload("Assets").Preload("Tags")
	if includeFindings {
		q = q.Preload("Findings", orderByCreation)
	}

	var tm model.ThreatModel
	if err := q.First(&tm, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &tm, nil
}

func orderByCreation(db *gorm.DB) *gorm.DB { return db.Order("created_at") }

func (s *ThreatModelsStore) Create(ctx context.Context, tm *model.ThreatModel) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(tm).Error)
}

func (s *ThreatModelsStore) Update(ctx context.Context, tm *model.ThreatModel) error {
	return checkAffected(s.db.WithContext(ctx).Model(tm).Omit(clause.Associations).
		Select("name", "description", "system_scope", "status").
		Updates(tm))
}

func (s *ThreatModelsStore) Delete(ctx context.Context, id uuid.UUID) error {
	return checkAffected(s.db.WithContext(ctx).Delete(&model.ThreatModel{}, "id = ?", id))
}

func (s *ThreatModelsStore) SetAssets(ctx context.Context, id uuid.UUID, assetIDs []uuid.UUID) error {
	return s.setLinks(ctx, id, "threat_model_assets", "asset_id", "assets", assetIDs)
}

func (s *ThreatModelsStore) SetTags(ctx context.Context, id uuid.UUID, tagIDs []uuid.UUID) error {
	return s.setLinks(ctx, id, "threat_model_tags", "tag_id", "tags", tagIDs)
}

func (s *ThreatModelsStore) setLinks(ctx context.Context, id uuid.UUID, joinTable, column, targetTable string, targets []uuid.UUID) error {
	db := s.db.WithContext(ctx)
	orgID, err := orgOf(db, "threat_models", id)
	if err != nil {
		return translate(err)
	}
	return translate(replaceLinks(db, joinTable, "threat_model_id", column, targetTable, id, orgID, targets))
}

// Ensure FindingsStore implements store.FindingsStore
var _ store.FindingsStore = (*FindingsStore)(nil)

// FindingsStore implements store.FindingsStore using GORM
type FindingsStore struct {
	db *gorm.DB
}

// NewFindingsStore creates a new FindingsStore
func NewFindingsStore(db *gorm.DB) *FindingsStore {
	return &FindingsStore{db: db}
}

func (s *FindingsStore) List(ctx context.Context, filter store.FindingFilter) ([]model.Finding, int64, error) {
	q := applyScope(s.db.WithContext(ctx).Model(&model.Finding{}), filter.Scope, "findings")
	if filter.ThreatModelID != nil {
		q = q.Where("threat_model_id = ?", *filter.ThreatModelID)
	}
	if filter.Severity != 0 {
		q = q.Where("severity = ?", filter.Severity)
	}
	if filter.Status != 0 {
		q = q.Where("status = ?", filter.Status)
	}

	var findings []model.Finding
	total, err := findPage(q, filter.Page, severityOrder+", created_at", &findings)
	if err != nil {
		return nil, 0, err
	}
	return findings, total, nil
}

// severityOrder sorts CRITICAL first.
const severityOrder = `CASE severity WHEN 'CRITICAL' THEN 0 WHEN 'HIGH' THEN 1 WHEN 'MEDIUM' THEN 2 WHEN 'LOW' THEN 3 ELSE 4 END`

func (s *FindingsStore) Get(ctx context.Context, id uuid.UUID) (*model.Finding, error) {
	var f model.Finding
	if err := s.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (s *FindingsStore) Create(ctx context.Context, findings ...*model.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(findings).Error; err != nil {
			return err
		}
		recomputed := make(map[uuid.UUID]bool)
		for _, f := range findings {
			if recomputed[f.ThreatModelID] {
				continue
			}
			recomputed[f.ThreatModelID] = true
			if err := syncDesignReviews(tx, f.ThreatModelID); err != nil {
				return err
			}
		}
		return nil
	})
	return translate(err)
}

func (s *FindingsStore) Update(ctx context.Context, f *model.Finding) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(f).
			Select("title", "description", "stride_category", "severity", "status", "remediation").
			Updates(f)
		if err := checkAffected(res); err != nil {
			return err
		}
		return syncDesignReviews(tx, f.ThreatModelID)
	})
	return translate(err)
}

func (s *FindingsStore) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f model.Finding
		if err := tx.Select("id", "threat_model_id").First(&f, "id = ?", id).Error; err != nil {
			return err
		}
		if err := checkAffected(tx.Delete(&model.Finding{}, "id = ?", id)); err != nil {
			return err
		}
		return syncDesignReviews(tx, f.ThreatModelID)
	})
	return translate(err)
}

type findingCounts struct {
	Total int64
	Open  int64
}

func countFindings(tx *gorm.DB, threatModelID uuid.UUID) (findingCounts, error) {
	var c findingCounts
	err := tx.Raw(`
		SELECT count(*) AS total,
		       count(*) FILTER (WHERE status IN (?, ?)) AS open
		FROM findings
		WHERE threat_model_id = ?
	`, model.FindingOpen, model.FindingInProgress, threatModelID).Scan(&c).Error
	return c, err
}

// syncDesignReviews applies the findings-derived status to every design
// review linked to the threat model.
func syncDesignReviews(tx *gorm.DB, threatModelID uuid.UUID) error {
	c, err := countFindings(tx, threatModelID)
	if err != nil {
		return err
	}
	if c.Total == 0 {
		return nil
	}
	status := model.DesignReviewStatusFor(0, c.Total, c.Open)
	return tx.Exec(
		`UPDATE design_reviews SET status = ?, updated_at = now() WHERE threat_model_id = ? AND status <> ?`,
		status, threatModelID, status,
	).Error
}

// Ensure DesignReviewsStore implements store.DesignReviewsStore
var _ store.DesignReviewsStore = (*DesignReviewsStore)(nil)

// DesignReviewsStore implements store.DesignReviewsStore using GORM
type DesignReviewsStore struct {
	db *gorm.DB
}

// NewDesignReviewsStore creates a new DesignReviewsStore
func NewDesignReviewsStore(db *gorm.DB) *DesignReviewsStore {
	return &DesignReviewsStore{db: db}
}

func (s *DesignReviewsStore) List(ctx context.Context, filter store.DesignReviewFilter) ([]model.DesignReview, int64, error) {
	q := applyScope(s.db.WithContext(ctx).Model(&model.DesignReview{}), filter.Scope, "design_reviews")
	if filter.ThreatModelID != nil {
		q = q.Where("threat_model_id = ?", *filter.ThreatModelID)
	}
	if filter.Status != 0 {
		q = q.Where("status = ?", filter.Status)
	}

	var reviews []model.DesignReview
	total, err := findPage(q, filter.Page, "updated_at DESC", &reviews)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *DesignReviewsStore) Get(ctx context.Context, id uuid.UUID) (*model.DesignReview, error) {
	var r model.DesignReview
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *DesignReviewsStore) Create(ctx context.Context, r *model.DesignReview) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyDerivedStatus(tx, r); err != nil {
			return err
		}
		return tx.Create(r).Error
	})
	return translate(err)
}

func (s *DesignReviewsStore) Update(ctx context.Context, r *model.DesignReview) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyDerivedStatus(tx, r); err != nil {
			return err
		}
		return checkAffected(tx.Model(r).
			Select("title", "description", "status", "threat_model_id", "reviewer_id").
			Updates(r))
	})
	return translate(err)
}

func (s *DesignReviewsStore) Delete(ctx context.Context, id uuid.UUID) error {
	return checkAffected(s.db.WithContext(ctx).Delete(&model.DesignReview{}, "id = ?", id))
}

// applyDerivedStatus overrides r.Status when its threat model has findings.
func applyDerivedStatus(tx *gorm.DB, r *model.DesignReview) error {
	if r.ThreatModelID == nil {
		return nil
	}
	c, err := countFindings(tx, *r.ThreatModelID)
	if err != nil {
		return err
	}
	r.Status = model.DesignReviewStatusFor(r.Status, c.Total, c.Open)
	return nil
}
