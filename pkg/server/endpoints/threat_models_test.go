package endpoints

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bguard/bguard-suite/pkg/llm"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
	"github.com/bguard/bguard-suite/pkg/session"
	"github.com/bguard/bguard-suite/pkg/telemetry"
)

// stubProvider answers every prompt with a canned completion.
type stubProvider struct {
	answer string
	err    error
	calls  int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(context.Context, llm.Request) (*llm.Completion, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Completion{Text: s.answer, Model: "stub-1"}, nil
}

func newAnalyzer(t *testing.T, provider llm.Provider, perMinute int) *llm.Analyzer {
	t.Helper()
	prompts, err := llm.LoadPrompts("")
	require.NoError(t, err)
	return llm.NewAnalyzer(provider, prompts, session.NewLimiter(perMinute))
}

func threatModelIn(org uuid.UUID, owner uuid.UUID) *model.ThreatModel {
	return &model.ThreatModel{
		Base:           model.Base{ID: uuid.New()},
		OrganizationID: org,
		OwnerID:        owner,
		Name:           "Checkout",
		Status:         model.ThreatModelDraft,
	}
}

func TestHandleCreateThreatModel(t *testing.T) {
	t.Run("links assets and tags", func(t *testing.T) {
		id := businessUser(orgA)
		assetID, tagID := uuid.New(), uuid.New()
		tms := &MockThreatModelsStore{}
		tms.On("Create", mock.Anything, mock.MatchedBy(func(tm *model.ThreatModel) bool {
			return tm.Name == "Checkout" && tm.OrganizationID == orgA && tm.OwnerID == id.UserID && tm.Status == model.ThreatModelDraft
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.ThreatModel).ID = uuid.New()
		}).Return(nil)
		tms.On("SetAssets", mock.Anything, mock.Anything, []uuid.UUID{assetID}).Return(nil)
		tms.On("SetTags", mock.Anything, mock.Anything, []uuid.UUID{tagID}).Return(nil)
		tms.On("Get", mock.Anything, mock.Anything, false).Return(threatModelIn(orgA, id.UserID), nil)

		body := map[string]any{"name": " Checkout ", "asset_ids": []uuid.UUID{assetID}, "tag_ids": []uuid.UUID{tagID}}
		w := httptest.NewRecorder()
		handleCreateThreatModel(tms)(w, requestWithIdentity(t, "POST", "/threat-models", body, id))

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		tms.AssertExpectations(t)
	})

	t.Run("asset from another organization", func(t *testing.T) {
		tms := &MockThreatModelsStore{}
		tms.On("Create", mock.Anything, mock.Anything).Return(nil)
		tms.On("SetAssets", mock.Anything, mock.Anything, mock.Anything).Return(store.ErrInvalid)

		body := map[string]any{"name": "Checkout", "asset_ids": []uuid.UUID{uuid.New()}}
		w := httptest.NewRecorder()
		handleCreateThreatModel(tms)(w, requestWithIdentity(t, "POST", "/threat-models", body, businessUser(orgA)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("foreign organization", func(t *testing.T) {
		body := map[string]any{"name": "Checkout", "organization_id": orgB}
		w := httptest.NewRecorder()
		handleCreateThreatModel(&MockThreatModelsStore{})(w, requestWithIdentity(t, "POST", "/threat-models", body, businessAdmin(orgA)))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleCreateThreatModel(&MockThreatModelsStore{})(w, requestWithIdentity(t, "POST", "/threat-models", `{"name":"x","owner_id":"y"}`, businessUser(orgA)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestThreatModelOwnership(t *testing.T) {
	owner := plainUser(orgA)
	other := plainUser(orgA)
	tm := threatModelIn(orgA, owner.UserID)

	tms := &MockThreatModelsStore{}
	tms.On("Get", mock.Anything, tm.ID, false).Return(tm, nil)

	w := httptest.NewRecorder()
	handleGetThreatModel(tms)(w, withID(requestWithIdentity(t, "GET", "/threat-models/x", nil, owner), tm.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handleGetThreatModel(tms)(w, withID(requestWithIdentity(t, "GET", "/threat-models/x", nil, other), tm.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	handleGetThreatModel(tms)(w, withID(requestWithIdentity(t, "GET", "/threat-models/x", nil, businessUser(orgA)), tm.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handleGetThreatModel(tms)(w, withID(requestWithIdentity(t, "GET", "/threat-models/x", nil, businessAdmin(orgB)), tm.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestThreatModelFindingsOwnerScope(t *testing.T) {
	owner := plainUser(orgA)
	tm := threatModelIn(orgA, owner.UserID)
	finding := func(owner uuid.UUID, title string) model.Finding {
		return model.Finding{
			Base:           model.Base{ID: uuid.New()},
			ThreatModelID:  tm.ID,
			OrganizationID: orgA,
			OwnerID:        owner,
			Title:          title,
			StrideCategory: model.StrideTampering,
			Severity:       model.SeverityMedium,
			Status:         model.FindingOpen,
			Source:         model.FindingSourceManual,
		}
	}
	mine, theirs := finding(owner.UserID, "Mine"), finding(uuid.New(), "Theirs")

	t.Run("list is limited to the user's findings", func(t *testing.T) {
		tms := &MockThreatModelsStore{}
		tms.On("Get", mock.Anything, tm.ID, false).Return(tm, nil)
		findings := &MockFindingsStore{}
		findings.On("List", mock.Anything, mock.MatchedBy(func(f store.FindingFilter) bool {
			return f.ThreatModelID != nil && *f.ThreatModelID == tm.ID &&
				f.Scope.OrganizationID != nil && *f.Scope.OrganizationID == orgA &&
				f.Scope.OwnerID != nil && *f.Scope.OwnerID == owner.UserID
		})).Return([]model.Finding{mine}, int64(1), nil)

		w := httptest.NewRecorder()
		handleListThreatModelFindings(tms, findings, 100)(w, withID(requestWithIdentity(t, "GET", "/threat-models/x/findings", nil, owner), tm.ID))

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		findings.AssertExpectations(t)
	})

	t.Run("business user lists every finding", func(t *testing.T) {
		tms := &MockThreatModelsStore{}
		tms.On("Get", mock.Anything, tm.ID, false).Return(tm, nil)
		findings := &MockFindingsStore{}
		findings.On("List", mock.Anything, mock.MatchedBy(func(f store.FindingFilter) bool {
			return f.Scope.OwnerID == nil && f.Scope.OrganizationID != nil && *f.Scope.OrganizationID == orgA
		})).Return([]model.Finding{mine, theirs}, int64(2), nil)

		w := httptest.NewRecorder()
		handleListThreatModelFindings(tms, findings, 100)(w, withID(requestWithIdentity(t, "GET", "/threat-models/x/findings", nil, businessUser(orgA)), tm.ID))

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		findings.AssertExpectations(t)
	})

	t.Run("include drops other owners' findings", func(t *testing.T) {
		withFindings := *tm
		withFindings.Findings = []model.Finding{mine, theirs}
		tms := &MockThreatModelsStore{}
		tms.On("Get", mock.Anything, tm.ID, true).Return(&withFindings, nil)

		w := httptest.NewRecorder()
		handleGetThreatModel(tms)(w, withID(requestWithIdentity(t, "GET", "/threat-models/x?include=findings", nil, owner), tm.ID))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decodeResponse[model.ThreatModel](t, w)
		require.Len(t, got.Findings, 1)
		assert.Equal(t, mine.ID, got.Findings[0].ID)
	})
}

func TestHandleCreateFinding(t *testing.T) {
	id := businessUser(orgA)
	tm := threatModelIn(orgA, id.UserID)

	t.Run("valid", func(t *testing.T) {
		tms := &MockThreatModelsStore{}
		findings := &MockFindingsStore{}
		tms.On("Get", mock.Anything, tm.ID, false).Return(tm, nil)
		findings.On("Create", mock.Anything, mock.MatchedBy(func(fs []*model.Finding) bool {
			f := fs[0]
			return len(fs) == 1 && f.ThreatModelID == tm.ID && f.Severity == model.SeverityHigh &&
				f.StrideCategory == model.StrideTampering && f.Source == model.FindingSourceManual && f.Status == model.FindingOpen
		})).Return(nil)

		body := map[string]any{"title": "Price manipulation", "stride_category": "tampering", "severity": "high"}
		w := httptest.NewRecorder()
		handleCreateFinding(tms, findings)(w, withID(requestWithIdentity(t, "POST", "/threat-models/x/findings", body, id), tm.ID))

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		findings.AssertExpectations(t)
	})

	t.Run("invalid severity", func(t *testing.T) {
		tms := &MockThreatModelsStore{}
		tms.On("Get", mock.Anything, tm.ID, false).Return(tm, nil)

		body := map[string]any{"title": "Price manipulation", "stride_category": "TAMPERING", "severity": "SEVERE"}
		w := httptest.NewRecorder()
		handleCreateFinding(tms, &MockFindingsStore{})(w, withID(requestWithIdentity(t, "POST", "/threat-models/x/findings", body, id), tm.ID))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleScanThreatModel(t *testing.T) {
	id := businessUser(orgA)
	asset := model.Asset{Base: model.Base{ID: uuid.New()}, OrganizationID: orgA, OwnerID: id.UserID, Name: "payments-api"}

	setup := func() (*MockThreatModelsStore, *MockFindingsStore, *MockDiscoveredEndpointsStore, *model.ThreatModel) {
		tm := threatModelIn(orgA, id.UserID)
		tm.Assets = []model.Asset{asset}
		tms := &MockThreatModelsStore{}
		tms.On("Get", mock.Anything, tm.ID, true).Return(tm, nil)
		endpoints := &MockDiscoveredEndpointsStore{}
		endpoints.On("List", mock.Anything, mock.MatchedBy(func(f store.EndpointFilter) bool {
			return f.AssetID != nil && *f.AssetID == asset.ID
		})).Return([]model.DiscoveredEndpoint{{Method: "POST", Host: "pay.acme.test", Path: "/charge"}}, int64(1), nil)
		return tms, &MockFindingsStore{}, endpoints, tm
	}

	t.Run("stores AI findings", func(t *testing.T) {
		tms, findings, endpoints, tm := setup()
		findings.On("Create", mock.Anything, mock.MatchedBy(func(fs []*model.Finding) bool {
			for _, f := range fs {
				if f.Source != model.FindingSourceAI || f.OwnerID != id.UserID || f.ThreatModelID != tm.ID {
					return false
				}
			}
			return len(fs) == 2
		})).Return(nil)

		provider := &stubProvider{answer: "Here you go:\n```json\n" +
			`[{"title":"Replay of charge requests","stride_category":"SPOOFING","severity":"HIGH","description":"No nonce."},` +
			`{"title":"Card data in logs","stride_category":"INFORMATION_DISCLOSURE","severity":"CRITICAL"}]` + "\n```"}
		metrics := telemetry.NewMetrics()
		w := httptest.NewRecorder()
		handler := handleScanThreatModel(tms, findings, endpoints, newAnalyzer(t, provider, 0), metrics)
		handler(w, withID(requestWithIdentity(t, "POST", "/threat-models/x/scan", nil, id), tm.ID))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decodeResponse[ScanResponse](t, w)
		assert.Equal(t, "stub", resp.Provider)
		assert.Len(t, resp.Findings, 2)
		assert.Equal(t, 1, provider.calls)
		findings.AssertExpectations(t)
		endpoints.AssertExpectations(t)
	})

	t.Run("rate limited per organization", func(t *testing.T) {
		tms, findings, endpoints, tm := setup()
		findings.On("Create", mock.Anything, mock.Anything).Return(nil)
		provider := &stubProvider{answer: `[]`}
		handler := handleScanThreatModel(tms, findings, endpoints, newAnalyzer(t, provider, 1), nil)

		w := httptest.NewRecorder()
		handler(w, withID(requestWithIdentity(t, "POST", "/threat-models/x/scan", nil, id), tm.ID))
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = httptest.NewRecorder()
		handler(w, withID(requestWithIdentity(t, "POST", "/threat-models/x/scan", nil, id), tm.ID))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, 1, provider.calls)
	})

	t.Run("no provider configured", func(t *testing.T) {
		tms, findings, endpoints, tm := setup()
		w := httptest.NewRecorder()
		handleScanThreatModel(tms, findings, endpoints, newAnalyzer(t, nil, 0), nil)(w, withID(requestWithIdentity(t, "POST", "/threat-models/x/scan", nil, id), tm.ID))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		findings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("upstream failure", func(t *testing.T) {
		tms, findings, endpoints, tm := setup()
		provider := &stubProvider{err: llm.ErrUpstream}
		w := httptest.NewRecorder()
		handleScanThreatModel(tms, findings, endpoints, newAnalyzer(t, provider, 0), nil)(w, withID(requestWithIdentity(t, "POST", "/threat-models/x/scan", nil, id), tm.ID))

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("read-only access is not enough", func(t *testing.T) {
		tms, findings, endpoints, tm := setup()
		w := httptest.NewRecorder()
		handleScanThreatModel(tms, findings, endpoints, newAnalyzer(t, &stubProvider{}, 0), nil)(w, withID(requestWithIdentity(t, "POST", "/threat-models/x/scan", nil, plainUser(orgA)), tm.ID))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
