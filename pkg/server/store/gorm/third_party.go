package gorm

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

// Ensure ThirdPartyReviewsStore implements store.ThirdPartyReviewsStore
var _ store.ThirdPartyReviewsStore = (*ThirdPartyReviewsStore)(nil)

// ThirdPartyReviewsStore implements store.ThirdPartyReviewsStore using GORM
type ThirdPartyReviewsStore struct {
	db *gorm.DB
}

// NewThirdPartyReviewsStore creates a new ThirdPartyReviewsStore
func NewThirdPartyReviewsStore(db *gorm.DB) *ThirdPartyReviewsStore {
	return &ThirdPartyReviewsStore{db: db}
}

func (s *ThirdPartyReviewsStore) List(ctx context.Context, filter store.ThirdPartyReviewFilter) ([]model.ThirdPartyReview, int64, error) {
	q := applyScope(s.db.WithContext(ctx).Model(&model.ThirdPartyReview{}), filter.Scope, "third_party_reviews")
	if filter.Status != 0 {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		q = q.Where("lower(vendor_name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var reviews []model.ThirdPartyReview
	total, err := findPage(q, filter.Page, "vendor_name", &reviews)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *ThirdPartyReviewsStore) Get(ctx context.Context, id uuid.UUID) (*model.ThirdPartyReview, error) {
	var r model.ThirdPartyReview
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *ThirdPartyReviewsStore) Create(ctx context.Context, r *model.ThirdPartyReview) error {
	if r.Questionnaire == nil {
		r.Questionnaire = map[string]string{}
	}
	return translate(s.db.WithContext(ctx).Create(r).Error)
}

func (s *ThirdPartyReviewsStore) Update(ctx context.Context, r *model.ThirdPartyReview) error {
	if r.Questionnaire == nil {
		r.Questionnaire = map[string]string{}
	}
	return checkAffected(s.db.WithContext(ctx).Model(r).
		Select("vendor_name", "vendor_url", "data_classification", "risk_rating", "status", "questionnaire", "ai_assessment").
		Updates(r))
}

func (s *ThirdPartyReviewsStore) Delete(ctx context.Context, id uuid.UUID) error {
	return checkAffected(s.db.WithContext(ctx).Delete(&model.ThirdPartyReview{}, "id = ?", id))
}
