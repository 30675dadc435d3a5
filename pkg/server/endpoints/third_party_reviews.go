package endpoints

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/authz"
	"github.com/bguard/bguard-suite/pkg/llm"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/store"
	"github.com/bguard/bguard-suite/pkg/telemetry"
)

const kindThirdPartyReview = "third-party-review"

type ThirdPartyReviewRequest struct {
	OrganizationID     *uuid.UUID              `json:"organization_id"`
	VendorName         *string                 `json:"vendor_name"`
	VendorURL          *string                 `json:"vendor_url"`
	DataClassification *string                 `json:"data_classification"`
	RiskRating         *string                 `json:"risk_rating"`
	Status             *model.ThirdPartyStatus `json:"status"`
	Questionnaire      map[string]string       `json:"questionnaire"`
}

func (req ThirdPartyReviewRequest) apply(tpr *model.ThirdPartyReview) error {
	trimmed(&tpr.VendorName, req.VendorName)
	trimmed(&tpr.VendorURL, req.VendorURL)
	trimmed(&tpr.DataClassification, req.DataClassification)
	if req.RiskRating != nil {
		rating := strings.ToUpper(strings.TrimSpace(*req.RiskRating))
		if rating != "" && !slices.Contains(llm.RiskRatings, rating) {
			return badRequest("risk_rating must be one of " + strings.Join(llm.RiskRatings, ", "))
		}
		tpr.RiskRating = rating
	}
	if req.Status != nil {
		if !req.Status.IsAThirdPartyStatus() {
			return badRequest("invalid status")
		}
		tpr.Status = *req.Status
	}
	if req.Questionnaire != nil {
		tpr.Questionnaire = req.Questionnaire
	}

	if tpr.VendorName == "" {
		return badRequest("vendor_name is required")
	}
	if tpr.VendorURL != "" {
		u, err := url.Parse(tpr.VendorURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return badRequest("vendor_url must be an http(s) URL")
		}
	}
	return nil
}

// RegisterThirdPartyReviewsEndpoints registers the vendor review endpoints
func RegisterThirdPartyReviewsEndpoints(s *server.Server) {
	reviews := s.ThirdPartyReviewsStore
	maxLimit := s.Config.ListLimitMax

	router := s.Router.PathPrefix("/third-party-reviews").Subrouter()
	router.Use(s.SessionMiddleware.Middleware)

	router.HandleFunc("", handleListThirdPartyReviews(reviews, maxLimit)).Methods("GET")
	router.HandleFunc("", handleCreateThirdPartyReview(reviews)).Methods("POST")
	router.HandleFunc("/{id}", handleGetThirdPartyReview(reviews)).Methods("GET")
	router.HandleFunc("/{id}", handleUpdateThirdPartyReview(reviews)).Methods("PUT", "PATCH")
	router.HandleFunc("/{id}", handleDeleteThirdPartyReview(reviews)).Methods("DELETE")
	router.HandleFunc("/{id}/assess", handleAssessThirdPartyReview(reviews, s.Analyzer, s.Metrics)).Methods("POST")
}

func handleListThirdPartyReviews(reviews store.ThirdPartyReviewsStore, maxLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		scope, ok := listScope(w, id, false)
		if !ok {
			return
		}
		page, err := parsePage(r, maxLimit)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		filter := store.ThirdPartyReviewFilter{Scope: scope, Page: page, Search: strings.TrimSpace(r.URL.Query().Get("search"))}
		if v := r.URL.Query().Get("status"); v != "" {
			if filter.Status, err = model.ParseThirdPartyStatus(v); err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		items, total, err := reviews.List(r.Context(), filter)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, newListResponse(items, total, page))
	}
}

func handleCreateThirdPartyReview(reviews store.ThirdPartyReviewsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		var req ThirdPartyReviewRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		orgID, ok := targetOrganization(w, id, req.OrganizationID, kindThirdPartyReview)
		if !ok {
			return
		}

		tpr := &model.ThirdPartyReview{
			OrganizationID: orgID,
			OwnerID:        id.UserID,
			Status:         model.ThirdPartyPending,
			Questionnaire:  map[string]string{},
		}
		if err := req.apply(tpr); err != nil {
			respondWithStoreError(w, r, err)
			return
		}

		err := reviews.Create(r.Context(), tpr)
		logRecord(id, "create", kindThirdPartyReview, tpr.ID, tpr.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, tpr)
	}
}

func handleGetThirdPartyReview(reviews store.ThirdPartyReviewsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, tpr, ok := loadRecord(w, r, kindThirdPartyReview, "read", reviews.Get, authz.CanRead)
		if !ok {
			return
		}
		respondWithJSON(w, http.StatusOK, tpr)
	}
}

func handleUpdateThirdPartyReview(reviews store.ThirdPartyReviewsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tpr, ok := loadRecord(w, r, kindThirdPartyReview, "update", reviews.Get, authz.CanWrite)
		if !ok {
			return
		}
		var req ThirdPartyReviewRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.OrganizationID != nil && *req.OrganizationID != tpr.OrganizationID {
			respondWithError(w, http.StatusBadRequest, "organization_id cannot be changed")
			return
		}
		if err := req.apply(tpr); err != nil {
			respondWithStoreError(w, r, err)
			return
		}

		err := reviews.Update(r.Context(), tpr)
		logRecord(id, "update", kindThirdPartyReview, tpr.ID, tpr.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, tpr)
	}
}

func handleDeleteThirdPartyReview(reviews store.ThirdPartyReviewsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tpr, ok := loadRecord(w, r, kindThirdPartyReview, "delete", reviews.Get, authz.CanDelete)
		if !ok {
			return
		}
		err := reviews.Delete(r.Context(), tpr.ID)
		logRecord(id, "delete", kindThirdPartyReview, tpr.ID, tpr.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleAssessThirdPartyReview runs the AI vendor assessment and stores the
// narrative and risk rating on the review. A review left PENDING moves to
// IN_PROGRESS.
func handleAssessThirdPartyReview(reviews store.ThirdPartyReviewsStore, analyzer *llm.Analyzer, metrics *telemetry.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tpr, ok := loadRecord(w, r, kindThirdPartyReview, "assess", reviews.Get, authz.CanWrite)
		if !ok {
			return
		}
		if len(tpr.Questionnaire) == 0 {
			respondWithError(w, http.StatusBadRequest, "questionnaire is empty")
			return
		}

		provider := analyzer.ProviderName()
		event := audit.ScanEvent{
			Actor:          audit.ActorFrom(id),
			Kind:           kindThirdPartyReview,
			SubjectID:      tpr.ID.String(),
			Provider:       provider,
			OrganizationID: &tpr.OrganizationID,
		}

		assessment, err := analyzer.AssessVendor(r.Context(), tpr)
		if err == nil {
			tpr.AIAssessment = assessment.Narrative()
			tpr.RiskRating = assessment.RiskRating
			if tpr.Status == model.ThirdPartyPending {
				tpr.Status = model.ThirdPartyInProgress
			}
			err = reviews.Update(r.Context(), tpr)
		}

		event.Success = err == nil
		event.ErrorMessage = errorMessage(err)
		audit.Log(event)
		metrics.ObserveScan(kindThirdPartyReview, provider, 0, err == nil)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, tpr)
	}
}
