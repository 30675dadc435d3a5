package model

import "github.com/google/uuid"

type Report struct {
	Base
	OrganizationID uuid.UUID    `gorm:"column:organization_id;type:uuid" json:"organization_id"`
	OwnerID        uuid.UUID    `gorm:"column:owner_id;type:uuid" json:"owner_id"`
	SubjectID      *uuid.UUID   `gorm:"column:subject_id;type:uuid" json:"subject_id,omitempty"`
	Title          string       `gorm:"column:title" json:"title"`
	Kind           ReportKind   `gorm:"column:kind" json:"kind"`
	Format         ReportFormat `gorm:"column:format" json:"format"`
	Status         ReportStatus `gorm:"column:status" json:"status"`
	StorageKey     string       `gorm:"column:storage_key" json:"-"`
	ContentType    string       `gorm:"column:content_type" json:"content_type"`
	Size           int64        `gorm:"column:size" json:"size"`
	SHA256         string       `gorm:"column:sha256" json:"sha256"`
	Signature      string       `gorm:"column:signature" json:"-"`
	Error          string       `gorm:"column:error" json:"error,omitempty"`
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) OrgID() uuid.UUID       { return r.OrganizationID }
func (r *Report) OwnerUserID() uuid.UUID { return r.OwnerID }

// Signed reports whether a detached signature is stored with the report.
func (r *Report) Signed() bool { return r.Signature != "" }
