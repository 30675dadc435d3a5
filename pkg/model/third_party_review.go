package model

import "github.com/google/uuid"

type ThirdPartyReview struct {
	Base
	OrganizationID     uuid.UUID         `gorm:"column:organization_id;type:uuid" json:"organization_id"`
	OwnerID            uuid.UUID         `gorm:"column:owner_id;type:uuid" json:"owner_id"`
	VendorName         string            `gorm:"column:vendor_name" json:"vendor_name"`
	VendorURL          string            `gorm:"column:vendor_url" json:"vendor_url"`
	DataClassification string            `gorm:"column:data_classification" json:"data_classification"`
	RiskRating         string            `gorm:"column:risk_rating" json:"risk_rating"`
	Status             ThirdPartyStatus  `gorm:"column:status" json:"status"`
	Questionnaire      map[string]string `gorm:"column:questionnaire;type:jsonb;serializer:json" json:"questionnaire"`
	AIAssessment       string            `gorm:"column:ai_assessment" json:"ai_assessment"`
}

func (ThirdPartyReview) TableName() string {
	return "third_party_reviews"
}

func (r *ThirdPartyReview) OrgID() uuid.UUID       { return r.OrganizationID }
func (r *ThirdPartyReview) OwnerUserID() uuid.UUID { return r.OwnerID }
