package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/session"
)

func TestAnthropicComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var body anthropicRequest
		require.NoError(t, json.UnmarshalRead(r.Body, &body))
		assert.Equal(t, "claude-test", body.Model)
		assert.Equal(t, "be brief", body.System)
		assert.Equal(t, defaultMaxTokens, body.MaxTokens)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "hello", body.Messages[0].Content)

		_, _ = io.WriteString(w, `{"model":"claude-test","content":[{"type":"text","text":"hi "},{"type":"text","text":"there"}],"usage":{"input_tokens":3,"output_tokens":2}}`)
	}))
	defer srv.Close()

	p, err := NewProvider(Config{Provider: ProviderAnthropic, Model: "claude-test", BaseURL: srv.URL + "/", APIKey: "secret"})
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), Request{System: "be brief", Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hi there", out.Text)
	assert.Equal(t, 3, out.InputTokens)
	assert.Equal(t, 2, out.OutputTokens)
}

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body chatRequest
		require.NoError(t, json.UnmarshalRead(r.Body, &body))
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "user", body.Messages[1].Role)

		_, _ = io.WriteString(w, `{"model":"gpt-test","choices":[{"message":{"role":"assistant","content":"[]"}}],"usage":{"prompt_tokens":5,"completion_tokens":1}}`)
	}))
	defer srv.Close()

	p, err := NewProvider(Config{Provider: ProviderOpenAI, BaseURL: srv.URL, APIKey: "secret"})
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), Request{System: "sys", Prompt: "user"})
	require.NoError(t, err)
	assert.Equal(t, "[]", out.Text)
	assert.Equal(t, "gpt-test", out.Model)
}

func TestProviderErrors(t *testing.T) {
	status := http.StatusTooManyRequests
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"overloaded_error","message":"try later"}}`)
	}))
	defer srv.Close()

	p, err := NewProvider(Config{BaseURL: srv.URL, APIKey: "secret"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrRateLimited)

	status = http.StatusInternalServerError
	_, err = p.Complete(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "try later")
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(Config{Provider: ProviderOpenAI})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewProvider(Config{Provider: "bard", APIKey: "k"})
	assert.Error(t, err)

	p, err := NewProvider(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, p.Name())
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[{"a":1}]`, `[{"a":1}]`},
		{"code fence", "Here you go:\n```json\n{\"a\": \"}\"}\n```\nThanks", `{"a": "}"}`},
		{"escaped quote", `noise {"a":"say \"hi\" ]"} tail`, `{"a":"say \"hi\" ]"}`},
		{"skips invalid", `[see below] {"ok":true}`, `{"ok":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}

	_, err := ExtractJSON("no json here")
	assert.ErrorIs(t, err, ErrNoAnswer)
}

func TestParseFindings(t *testing.T) {
	answer := "```json\n" + `[
		{"title":"Session fixation","description":"d","stride_category":"Spoofing","severity":"high","remediation":"rotate ids"},
		{"title":"Log tampering","category":"tampering","severity":"MEDIUM","recommendation":"append-only logs"},
		{"title":"Bad category","stride_category":"PHISHING","severity":"LOW"},
		{"title":"Bad severity","stride_category":"REPUDIATION","severity":"URGENT"},
		{"title":"","stride_category":"SPOOFING","severity":"LOW"}
	]` + "\n```"

	findings, err := ParseFindings(answer)
	require.NoError(t, err)
	require.Len(t, findings, 2)

	assert.Equal(t, model.StrideSpoofing, findings[0].StrideCategory)
	assert.Equal(t, model.SeverityHigh, findings[0].Severity)
	assert.Equal(t, model.FindingSourceAI, findings[0].Source)
	assert.Equal(t, model.FindingOpen, findings[0].Status)
	assert.Equal(t, "append-only logs", findings[1].Remediation)

	wrapped, err := ParseFindings(`{"findings":[{"title":"DoS","stride_category":"denial of service","severity":"low"}]}`)
	require.NoError(t, err)
	require.Len(t, wrapped, 1)
	assert.Equal(t, model.StrideDenialOfService, wrapped[0].StrideCategory)
}

func TestParseFindingsSkipsBracketedProse(t *testing.T) {
	answer := "Based on STRIDE (see [1]) and the notes {\"scope\":\"checkout\"}, the threats are:\n" +
		`[{"title":"Replay","stride_category":"SPOOFING","severity":"HIGH"}]`

	findings, err := ParseFindings(answer)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "Replay", findings[0].Title)

	_, err = ParseFindings("see [1] and [2]")
	assert.ErrorIs(t, err, ErrNoAnswer)
}

func TestParseAssessmentSkipsBracketedProse(t *testing.T) {
	a, err := ParseAssessment(`Per [1], the vendor scores: {"risk_rating":"LOW","summary":"Mature program."}`)
	require.NoError(t, err)
	assert.Equal(t, "LOW", a.RiskRating)
	assert.Equal(t, "Mature program.", a.Summary)
}

func TestParseAssessment(t *testing.T) {
	a, err := ParseAssessment(`Assessment: {"risk_rating":"high","summary":"Weak MFA.","concerns":["no SSO"],"recommendations":["require SAML"]}`)
	require.NoError(t, err)
	assert.Equal(t, "HIGH", a.RiskRating)
	assert.Equal(t, "Weak MFA.\n\n### Concerns\n\n- no SSO\n\n### Recommendations\n\n- require SAML", a.Narrative())

	_, err = ParseAssessment(`{"risk_rating":"spicy","summary":"x"}`)
	assert.ErrorIs(t, err, ErrNoAnswer)

	_, err = ParseAssessment(`{"risk_rating":"LOW","summary":" "}`)
	assert.ErrorIs(t, err, ErrNoAnswer)
}

func TestPromptsDefaults(t *testing.T) {
	p, err := LoadPrompts("")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{PromptThreatModel, PromptVendorAssessment}, p.Names())

	req, err := p.Render(PromptThreatModel, threatModelPrompt{
		ThreatModelInput: ThreatModelInput{
			ThreatModel: &model.ThreatModel{Name: "Payments API", Description: "Card processing"},
			Assets:      []model.Asset{{Name: "ledger-db", Type: model.AssetDatabase, Criticality: model.SeverityCritical}},
			Endpoints:   []model.DiscoveredEndpoint{{Method: "post", Host: "api.acme.test", Path: "/charge"}},
		},
		MaxFindings: 5,
		Categories:  stringsOf(model.StrideCategoryValues()),
		Severities:  stringsOf(model.Severities),
	})
	require.NoError(t, err)
	assert.Contains(t, req.System, "STRIDE")
	assert.Contains(t, req.Prompt, "Threat model: Payments API")
	assert.Contains(t, req.Prompt, "- ledger-db (DATABASE, criticality CRITICAL)")
	assert.Contains(t, req.Prompt, "- POST api.acme.test/charge (no authentication)")
	assert.Contains(t, req.Prompt, "up to 5 concrete threats")
	assert.Contains(t, req.Prompt, "SPOOFING, TAMPERING")
	assert.NotContains(t, req.Prompt, "define")

	_, err = p.Render("missing", nil)
	assert.Error(t, err)
}

func TestPromptsOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PromptVendorAssessment+promptExt)
	require.NoError(t, os.WriteFile(path, []byte(`Rate {{ .Review.VendorName | upper }}`), 0o600))

	p, err := LoadPrompts(dir)
	require.NoError(t, err)

	req, err := p.Render(PromptVendorAssessment, vendorPrompt{Review: &model.ThirdPartyReview{VendorName: "acme"}})
	require.NoError(t, err)
	assert.Equal(t, "Rate ACME", req.Prompt)
	assert.Empty(t, req.System)

	// A broken override keeps the previous set.
	require.NoError(t, os.WriteFile(path, []byte(`{{ .Broken`), 0o600))
	assert.Error(t, p.Reload())
	req, err = p.Render(PromptVendorAssessment, vendorPrompt{Review: &model.ThirdPartyReview{VendorName: "acme"}})
	require.NoError(t, err)
	assert.Equal(t, "Rate ACME", req.Prompt)
}

type fakeProvider struct {
	answer string
	err    error
	last   Request
	calls  int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, req Request) (*Completion, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &Completion{Text: f.answer}, nil
}

func TestAnalyzeThreatModel(t *testing.T) {
	prompts, err := LoadPrompts("")
	require.NoError(t, err)

	provider := &fakeProvider{answer: `[{"title":"Token replay","stride_category":"SPOOFING","severity":"HIGH"},{"title":"Quota abuse","stride_category":"DENIAL_OF_SERVICE","severity":"LOW"}]`}
	analyzer := NewAnalyzer(provider, prompts, session.NewLimiter(1))
	analyzer.MaxFindings = 1

	tm := &model.ThreatModel{Base: model.Base{ID: uuid.New()}, OrganizationID: uuid.New(), Name: "Login"}
	findings, err := analyzer.AnalyzeThreatModel(context.Background(), ThreatModelInput{
		ThreatModel: tm,
		Existing:    []model.Finding{{Title: "Credential stuffing", StrideCategory: model.StrideSpoofing}},
	})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, tm.ID, findings[0].ThreatModelID)
	assert.Equal(t, tm.OrganizationID, findings[0].OrganizationID)
	assert.Contains(t, provider.last.Prompt, "[SPOOFING] Credential stuffing")

	_, err = analyzer.AnalyzeThreatModel(context.Background(), ThreatModelInput{ThreatModel: tm})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, provider.calls)

	other := &model.ThreatModel{Base: model.Base{ID: uuid.New()}, OrganizationID: uuid.New(), Name: "Other org"}
	_, err = analyzer.AnalyzeThreatModel(context.Background(), ThreatModelInput{ThreatModel: other})
	assert.NoError(t, err)
}

func TestAssessVendor(t *testing.T) {
	prompts, err := LoadPrompts("")
	require.NoError(t, err)

	provider := &fakeProvider{answer: `{"risk_rating":"MEDIUM","summary":"Acceptable with MFA."}`}
	analyzer := NewAnalyzer(provider, prompts, nil)

	review := &model.ThirdPartyReview{
		OrganizationID: uuid.New(),
		VendorName:     "Acme Mail",
		Questionnaire:  map[string]string{"b: encryption at rest": "AES-256", "a: sso": ""},
	}
	a, err := analyzer.AssessVendor(context.Background(), review)
	require.NoError(t, err)
	assert.Equal(t, "MEDIUM", a.RiskRating)
	assert.Contains(t, provider.last.Prompt, "- a: sso: (no answer)\n- b: encryption at rest: AES-256")

	provider.err = errors.New("boom")
	_, err = analyzer.AssessVendor(context.Background(), review)
	assert.Error(t, err)
}

func TestAnalyzerNotConfigured(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil, nil)
	_, err := analyzer.AssessVendor(context.Background(), &model.ThirdPartyReview{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, "", analyzer.ProviderName())
}
