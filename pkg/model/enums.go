package model

import (
	"fmt"
	"strings"
)

// Enumerations start at one so the zero value means "not set". They are
// stored and exchanged as their upper snake case names.

//go:generate go run github.com/dmarkham/enumer -type Role -trimprefix Role -transform snake-upper -json -sql -text -output role.gen.go

type Role int

// Roles are declared from least to most privileged.
const (
	RoleUser Role = iota + 1
	RoleBusinessUser
	RoleBusinessAdmin
	RolePlatformAdmin
)

// Rank orders roles by privilege; higher is more privileged.
func (r Role) Rank() int {
	if !r.IsARole() {
		return 0
	}
	return int(r)
}

func ParseRole(s string) (Role, error) { return parse(s, RoleString, "role") }

//go:generate go run github.com/dmarkham/enumer -type Severity -trimprefix Severity -transform snake-upper -json -sql -text -output severity.gen.go

type Severity int

const (
	SeverityInfo Severity = iota + 1
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// Severities is ordered from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

func (s Severity) Rank() int {
	if !s.IsASeverity() {
		return 0
	}
	return int(s)
}

func ParseSeverity(s string) (Severity, error) { return parse(s, SeverityString, "severity") }

//go:generate go run github.com/dmarkham/enumer -type StrideCategory -trimprefix Stride -transform snake-upper -json -sql -text -output stride_category.gen.go

type StrideCategory int

const (
	StrideSpoofing StrideCategory = iota + 1
	StrideTampering
	StrideRepudiation
	StrideInformationDisclosure
	StrideDenialOfService
	StrideElevationOfPrivilege
)

// ParseStrideCategory also accepts the spaced and dashed spellings models
// tend to produce, e.g. "Information Disclosure" or "denial-of-service".
func ParseStrideCategory(s string) (StrideCategory, error) {
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(strings.TrimSpace(s))
	return parse(s, StrideCategoryString, "stride category")
}

//go:generate go run github.com/dmarkham/enumer -type FindingStatus -trimprefix Finding -transform snake-upper -json -sql -text -output finding_status.gen.go

type FindingStatus int

const (
	FindingOpen FindingStatus = iota + 1
	FindingInProgress
	FindingMitigated
	FindingAccepted
	FindingFalsePositive
)

// IsOpen reports whether the finding still needs work.
func (s FindingStatus) IsOpen() bool { return s == FindingOpen || s == FindingInProgress }

func ParseFindingStatus(s string) (FindingStatus, error) {
	return parse(s, FindingStatusString, "finding status")
}

//go:generate go run github.com/dmarkham/enumer -type FindingSource -trimprefix FindingSource -transform snake-upper -json -sql -text -output finding_source.gen.go

type FindingSource int

const (
	FindingSourceManual FindingSource = iota + 1
	FindingSourceAI
)

//go:generate go run github.com/dmarkham/enumer -type ThreatModelStatus -trimprefix ThreatModel -transform snake-upper -json -sql -text -output threat_model_status.gen.go

type ThreatModelStatus int

const (
	ThreatModelDraft ThreatModelStatus = iota + 1
	ThreatModelInProgress
	ThreatModelCompleted
	ThreatModelArchived
)

func ParseThreatModelStatus(s string) (ThreatModelStatus, error) {
	return parse(s, ThreatModelStatusString, "threat model status")
}

//go:generate go run github.com/dmarkham/enumer -type DesignReviewStatus -trimprefix DesignReview -transform snake-upper -json -sql -text -output design_review_status.gen.go

type DesignReviewStatus int

const (
	DesignReviewPending DesignReviewStatus = iota + 1
	DesignReviewInReview
	DesignReviewChangesRequested
	DesignReviewApproved
)

func ParseDesignReviewStatus(s string) (DesignReviewStatus, error) {
	return parse(s, DesignReviewStatusString, "design review status")
}

//go:generate go run github.com/dmarkham/enumer -type ThirdPartyStatus -trimprefix ThirdParty -transform snake-upper -json -sql -text -output third_party_status.gen.go

type ThirdPartyStatus int

const (
	ThirdPartyPending ThirdPartyStatus = iota + 1
	ThirdPartyInProgress
	ThirdPartyCompleted
)

func ParseThirdPartyStatus(s string) (ThirdPartyStatus, error) {
	return parse(s, ThirdPartyStatusString, "third-party review status")
}

//go:generate go run github.com/dmarkham/enumer -type AssetType -trimprefix Asset -transform snake-upper -json -sql -text -output asset_type.gen.go

type AssetType int

const (
	AssetApplication AssetType = iota + 1
	AssetService
	AssetDatabase
	AssetInfrastructure
	AssetVendor
	AssetDataStore
)

func ParseAssetType(s string) (AssetType, error) { return parse(s, AssetTypeString, "asset type") }

//go:generate go run github.com/dmarkham/enumer -type ReportKind -trimprefix Report -transform snake-upper -json -sql -text -output report_kind.gen.go

type ReportKind int

const (
	ReportThreatModel ReportKind = iota + 1
	ReportFindings
	ReportCompliance
)

func ParseReportKind(s string) (ReportKind, error) { return parse(s, ReportKindString, "report kind") }

//go:generate go run github.com/dmarkham/enumer -type ReportFormat -trimprefix Report -transform snake-upper -json -sql -text -output report_format.gen.go

type ReportFormat int

const (
	ReportPDF ReportFormat = iota + 1
	ReportXLSX
)

func ParseReportFormat(s string) (ReportFormat, error) {
	return parse(s, ReportFormatString, "report format")
}

//go:generate go run github.com/dmarkham/enumer -type ReportStatus -trimprefix Report -transform snake-upper -json -sql -text -output report_status.gen.go

type ReportStatus int

const (
	ReportReady ReportStatus = iota + 1
	ReportFailed
)

// parse wraps a generated lookup with an error message fit for API clients.
func parse[T any](s string, lookup func(string) (T, error), what string) (T, error) {
	v, err := lookup(strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("invalid %s %q", what, s)
	}
	return v, nil
}
