package endpoints

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bguard/bguard-suite/pkg/model"
)

func vendorReview(owner uuid.UUID) *model.ThirdPartyReview {
	return &model.ThirdPartyReview{
		Base:           model.Base{ID: uuid.New()},
		OrganizationID: orgA,
		OwnerID:        owner,
		VendorName:     "Mailer Inc",
		Status:         model.ThirdPartyPending,
		Questionnaire: map[string]string{
			"Do you encrypt data at rest?": "Yes, AES-256.",
			"Do you have SOC 2?":           "Type I only.",
		},
	}
}

func TestHandleCreateThirdPartyReview(t *testing.T) {
	id := businessUser(orgA)

	t.Run("valid", func(t *testing.T) {
		reviews := &MockThirdPartyReviewsStore{}
		reviews.On("Create", mock.Anything, mock.MatchedBy(func(r *model.ThirdPartyReview) bool {
			return r.VendorName == "Mailer Inc" && r.Status == model.ThirdPartyPending && r.RiskRating == "HIGH" && r.OwnerID == id.UserID
		})).Return(nil)

		body := map[string]any{"vendor_name": "Mailer Inc", "vendor_url": "https://mailer.example", "risk_rating": "high"}
		w := httptest.NewRecorder()
		handleCreateThirdPartyReview(reviews)(w, requestWithIdentity(t, "POST", "/third-party-reviews", body, id))

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		reviews.AssertExpectations(t)
	})

	for name, body := range map[string]map[string]any{
		"missing vendor":   {"vendor_url": "https://mailer.example"},
		"bad url":          {"vendor_name": "Mailer Inc", "vendor_url": "ftp://mailer.example"},
		"bad risk rating":  {"vendor_name": "Mailer Inc", "risk_rating": "SPICY"},
		"bad status value": {"vendor_name": "Mailer Inc", "status": "DONE"},
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handleCreateThirdPartyReview(&MockThirdPartyReviewsStore{})(w, requestWithIdentity(t, "POST", "/third-party-reviews", body, id))

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleAssessThirdPartyReview(t *testing.T) {
	id := businessUser(orgA)

	t.Run("stores the assessment", func(t *testing.T) {
		tpr := vendorReview(id.UserID)
		reviews := &MockThirdPartyReviewsStore{}
		reviews.On("Get", mock.Anything, tpr.ID).Return(tpr, nil)
		reviews.On("Update", mock.Anything, mock.MatchedBy(func(r *model.ThirdPartyReview) bool {
			return r.RiskRating == "MEDIUM" && r.Status == model.ThirdPartyInProgress
		})).Return(nil)

		provider := &stubProvider{answer: `{"risk_rating":"MEDIUM","summary":"Reasonable controls.","concerns":["No SOC 2 Type II"],"recommendations":["Request a pentest report"]}`}
		w := httptest.NewRecorder()
		handleAssessThirdPartyReview(reviews, newAnalyzer(t, provider, 0), nil)(w, withID(requestWithIdentity(t, "POST", "/third-party-reviews/x/assess", nil, id), tpr.ID))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decodeResponse[model.ThirdPartyReview](t, w)
		assert.Contains(t, got.AIAssessment, "Reasonable controls.")
		assert.Contains(t, got.AIAssessment, "No SOC 2 Type II")
		reviews.AssertExpectations(t)
	})

	t.Run("empty questionnaire", func(t *testing.T) {
		tpr := vendorReview(id.UserID)
		tpr.Questionnaire = nil
		reviews := &MockThirdPartyReviewsStore{}
		reviews.On("Get", mock.Anything, tpr.ID).Return(tpr, nil)

		provider := &stubProvider{}
		w := httptest.NewRecorder()
		handleAssessThirdPartyReview(reviews, newAnalyzer(t, provider, 0), nil)(w, withID(requestWithIdentity(t, "POST", "/third-party-reviews/x/assess", nil, id), tpr.ID))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, provider.calls)
	})

	t.Run("unusable answer", func(t *testing.T) {
		tpr := vendorReview(id.UserID)
		reviews := &MockThirdPartyReviewsStore{}
		reviews.On("Get", mock.Anything, tpr.ID).Return(tpr, nil)

		provider := &stubProvider{answer: "I cannot help with that."}
		w := httptest.NewRecorder()
		handleAssessThirdPartyReview(reviews, newAnalyzer(t, provider, 0), nil)(w, withID(requestWithIdentity(t, "POST", "/third-party-reviews/x/assess", nil, id), tpr.ID))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
