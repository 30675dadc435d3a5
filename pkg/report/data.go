package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

// Data is everything a report renders. Which fields are set depends on Kind:
// THREAT_MODEL sets ThreatModel, COMPLIANCE sets Dashboard and the review
// lists. Findings are set for every kind.
type Data struct {
	Title         string
	Kind          model.ReportKind
	Organization  *model.Organization
	GeneratedBy   string
	GeneratedAt   time.Time
	ThreatModel   *model.ThreatModel
	Findings      []model.Finding
	Dashboard     *store.Dashboard
	DesignReviews []model.DesignReview
	VendorReviews []model.ThirdPartyReview
	Summary       Summary
}

type Count struct {
	Label string
	Value int
}

// Summary holds finding counts in a fixed display order.
type Summary struct {
	Total      int
	Open       int
	BySeverity []Count
	ByStatus   []Count
	ByStride   []Count
}

// Summarize counts findings by severity, status and STRIDE category.
func Summarize(findings []model.Finding) Summary {
	severity := make(map[model.Severity]int)
	status := make(map[model.FindingStatus]int)
	stride := make(map[model.StrideCategory]int)

	s := Summary{Total: len(findings)}
	for _, f := range findings {
		severity[f.Severity]++
		status[f.Status]++
		stride[f.StrideCategory]++
		if f.Status.IsOpen() {
			s.Open++
		}
	}

	s.BySeverity = counts(model.Severities, severity)
	s.ByStatus = counts(model.FindingStatusValues(), status)
	s.ByStride = counts(model.StrideCategoryValues(), stride)
	return s
}

func counts[T interface {
	comparable
	fmt.Stringer
}](order []T, m map[T]int) []Count {
	out := make([]Count, 0, len(order))
	for _, k := range order {
		out = append(out, Count{Label: k.String(), Value: m[k]})
	}
	return out
}

// SortFindings orders findings by severity, most severe first. The sort is
// stable so equal severities keep their input order.
func SortFindings(findings []model.Finding) {
	slices.SortStableFunc(findings, func(a, b model.Finding) int {
		return b.Severity.Rank() - a.Severity.Rank()
	})
}
