package model

import "github.com/google/uuid"

type ThreatModel struct {
	Base
	OrganizationID uuid.UUID         `gorm:"column:organization_id;type:uuid" json:"organization_id"`
	OwnerID        uuid.UUID         `gorm:"column:owner_id;type:uuid" json:"owner_id"`
	Name           string            `gorm:"column:name" json:"name"`
	Description    string            `gorm:"column:description" json:"description"`
	SystemScope    string            `gorm:"column:system_scope" json:"system_scope"`
	Status         ThreatModelStatus `gorm:"column:status" json:"status"`

	Findings []Finding `gorm:"foreignKey:ThreatModelID" json:"findings,omitempty"`
	Assets   []Asset   `gorm:"many2many:threat_model_assets" json:"assets,omitempty"`
	Tags     []Tag     `gorm:"many2many:threat_model_tags" json:"tags,omitempty"`
}

func (ThreatModel) TableName() string {
	return "threat_models"
}

func (t *ThreatModel) OrgID() uuid.UUID       { return t.OrganizationID }
func (t *ThreatModel) OwnerUserID() uuid.UUID { return t.OwnerID }

type Finding struct {
	Base
	OrganizationID uuid.UUID      `gorm:"column:organization_id;type:uuid" json:"organization_id"`
	ThreatModelID  uuid.UUID      `gorm:"column:threat_model_id;type:uuid" json:"threat_model_id"`
	OwnerID        uuid.UUID      `gorm:"column:owner_id;type:uuid" json:"owner_id"`
	Title          string         `gorm:"column:title" json:"title"`
	Description    string         `gorm:"column:description" json:"description"`
	StrideCategory StrideCategory `gorm:"column:stride_category" json:"stride_category"`
	Severity       Severity       `gorm:"column:severity" json:"severity"`
	Status         FindingStatus  `gorm:"column:status" json:"status"`
	Remediation    string         `gorm:"column:remediation" json:"remediation"`
	Source         FindingSource  `gorm:"column:source" json:"source"`
}

func (Finding) TableName() string {
	return "findings"
}

func (f *Finding) OrgID() uuid.UUID       { return f.OrganizationID }
func (f *Finding) OwnerUserID() uuid.UUID { return f.OwnerID }

type DesignReview struct {
	Base
	OrganizationID uuid.UUID          `gorm:"column:organization_id;type:uuid" json:"organization_id"`
	OwnerID        uuid.UUID          `gorm:"column:owner_id;type:uuid" json:"owner_id"`
	ReviewerID     *uuid.UUID         `gorm:"column:reviewer_id;type:uuid" json:"reviewer_id"`
	ThreatModelID  *uuid.UUID         `gorm:"column:threat_model_id;type:uuid" json:"threat_model_id"`
	Title          string             `gorm:"column:title" json:"title"`
	Description    string             `gorm:"column:description" json:"description"`
	Status         DesignReviewStatus `gorm:"column:status" json:"status"`
}

func (DesignReview) TableName() string {
	return "design_reviews"
}

func (d *DesignReview) OrgID() uuid.UUID       { return d.OrganizationID }
func (d *DesignReview) OwnerUserID() uuid.UUID { return d.OwnerID }

// DesignReviewStatusFor derives a review status from the findings of its
// linked threat model. With no findings the current status is kept, since
// PENDING and IN_REVIEW are set by people.
func DesignReviewStatusFor(current DesignReviewStatus, total, open int64) DesignReviewStatus {
	switch {
	case open > 0:
		return DesignReviewChangesRequested
	case total > 0:
		return DesignReviewApproved
	default:
		return current
	}
}
