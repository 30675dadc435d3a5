package llm

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/session"
)

const defaultMaxFindings = 15

// Analyzer renders prompts, calls the provider and parses the answers.
type Analyzer struct {
	provider    Provider
	prompts     *Prompts
	limiter     *session.Limiter
	MaxFindings int
}

// NewAnalyzer returns an Analyzer. A nil provider makes every call fail with
// ErrNotConfigured; a nil limiter disables rate limiting.
func NewAnalyzer(provider Provider, prompts *Prompts, limiter *session.Limiter) *Analyzer {
	return &Analyzer{
		provider:    provider,
		prompts:     prompts,
		limiter:     limiter,
		MaxFindings: defaultMaxFindings,
	}
}

// ProviderName returns the configured provider, or "" when there is none.
func (a *Analyzer) ProviderName() string {
	if a == nil || a.provider == nil {
		return ""
	}
	return a.provider.Name()
}

// ThreatModelInput is everything a threat model scan looks at.
type ThreatModelInput struct {
	ThreatModel *model.ThreatModel
	Assets      []model.Asset
	Endpoints   []model.DiscoveredEndpoint
	Existing    []model.Finding
}

type threatModelPrompt struct {
	ThreatModelInput
	MaxFindings int
	Categories  []string
	Severities  []string
}

// AnalyzeThreatModel asks the model for STRIDE threats. The returned
// findings are not persisted; they carry the organization and threat model
// of the input and source AI.
func (a *Analyzer) AnalyzeThreatModel(ctx context.Context, in ThreatModelInput) ([]model.Finding, error) {
	tm := in.ThreatModel
	if err := a.ready(tm.OrganizationID); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "llm.analyze_threat_model")
	defer span.End()
	span.SetAttributes(attribute.String("threat_model.id", tm.ID.String()))

	req, err := a.prompts.Render(PromptThreatModel, threatModelPrompt{
		ThreatModelInput: in,
		MaxFindings:      a.MaxFindings,
		Categories:       stringsOf(model.StrideCategoryValues()),
		Severities:       stringsOf(model.Severities),
	})
	if err != nil {
		return nil, err
	}

	completion, err := a.provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	findings, err := ParseFindings(completion.Text)
	if err != nil {
		return nil, err
	}
	if len(findings) > a.MaxFindings {
		findings = findings[:a.MaxFindings]
	}
	for i := range findings {
		findings[i].OrganizationID = tm.OrganizationID
		findings[i].ThreatModelID = tm.ID
	}
	span.SetAttributes(attribute.Int("llm.findings", len(findings)))
	return findings, nil
}

type questionAnswer struct {
	Question string
	Answer   string
}

type vendorPrompt struct {
	Review  *model.ThirdPartyReview
	Answers []questionAnswer
	Ratings []string
}

// AssessVendor asks the model for a risk assessment of a third-party vendor
// based on its questionnaire.
func (a *Analyzer) AssessVendor(ctx context.Context, review *model.ThirdPartyReview) (*Assessment, error) {
	if err := a.ready(review.OrganizationID); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "llm.assess_vendor")
	defer span.End()
	span.SetAttributes(attribute.String("third_party_review.id", review.ID.String()))

	questions := make([]string, 0, len(review.Questionnaire))
	for q := range review.Questionnaire {
		questions = append(questions, q)
	}
	slices.Sort(questions)
	answers := make([]questionAnswer, 0, len(questions))
	for _, q := range questions {
		answers = append(answers, questionAnswer{Question: q, Answer: review.Questionnaire[q]})
	}

	req, err := a.prompts.Render(PromptVendorAssessment, vendorPrompt{
		Review:  review,
		Answers: answers,
		Ratings: RiskRatings,
	})
	if err != nil {
		return nil, err
	}

	completion, err := a.provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	return ParseAssessment(completion.Text)
}

func (a *Analyzer) ready(orgID uuid.UUID) error {
	if a == nil || a.provider == nil {
		return ErrNotConfigured
	}
	if a.prompts == nil {
		return fmt.Errorf("%w: no prompts loaded", ErrNotConfigured)
	}
	if !a.limiter.Allow(orgID.String()) {
		return ErrRateLimited
	}
	return nil
}

func stringsOf[T fmt.Stringer](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}
