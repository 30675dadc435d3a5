package endpoints

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/authz"
	"github.com/bguard/bguard-suite/pkg/identity"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

const kindDesignReview = "design-review"

type DesignReviewRequest struct {
	OrganizationID *uuid.UUID                `json:"organization_id"`
	Title          *string                   `json:"title"`
	Description    *string                   `json:"description"`
	Status         *model.DesignReviewStatus `json:"status"`
	ThreatModelID  optionalID                `json:"threat_model_id"`
	ReviewerID     optionalID                `json:"reviewer_id"`
}

// RegisterDesignReviewsEndpoints registers the design review endpoints
func RegisterDesignReviewsEndpoints(s *server.Server) {
	reviews := s.DesignReviewsStore
	refs := designReviewRefs{threatModels: s.ThreatModelsStore, users: s.UsersStore}
	maxLimit := s.Config.ListLimitMax

	router := s.Router.PathPrefix("/design-reviews").Subrouter()
	router.Use(s.SessionMiddleware.Middleware)

	router.HandleFunc("", handleListDesignReviews(reviews, maxLimit)).Methods("GET")
	router.HandleFunc("", handleCreateDesignReview(reviews, refs)).Methods("POST")
	router.HandleFunc("/{id}", handleGetDesignReview(reviews)).Methods("GET")
	router.HandleFunc("/{id}", handleUpdateDesignReview(reviews, refs)).Methods("PUT", "PATCH")
	router.HandleFunc("/{id}", handleDeleteDesignReview(reviews)).Methods("DELETE")
}

// designReviewRefs checks the records a design review points at
type designReviewRefs struct {
	threatModels store.ThreatModelsStore
	users        store.UsersStore
}

// apply copies the request onto dr. Linked records must live in the
// review's organization and be visible to the caller.
func (refs designReviewRefs) apply(ctx context.Context, id *identity.Identity, req DesignReviewRequest, dr *model.DesignReview) error {
	trimmed(&dr.Title, req.Title)
	trimmed(&dr.Description, req.Description)
	if req.Status != nil {
		if !req.Status.IsADesignReviewStatus() {
			return badRequest("invalid status")
		}
		dr.Status = *req.Status
	}
	if dr.Title == "" {
		return badRequest("title is required")
	}

	if req.ThreatModelID.Set {
		dr.ThreatModelID = req.ThreatModelID.Value
		if v := req.ThreatModelID.Value; v != nil {
			tm, err := refs.threatModels.Get(ctx, *v, false)
			if errors.Is(err, store.ErrNotFound) || (err == nil && (tm.OrganizationID != dr.OrganizationID || !authz.CanRead(id, tm))) {
				return badRequest("unknown threat model")
			}
			if err != nil {
				return err
			}
		}
	}
	if req.ReviewerID.Set {
		dr.ReviewerID = req.ReviewerID.Value
		if v := req.ReviewerID.Value; v != nil {
			reviewer, err := refs.users.Get(ctx, *v)
			if errors.Is(err, store.ErrNotFound) || (err == nil && !canReceiveRecords(reviewer, &model.User{OrganizationID: &dr.OrganizationID})) {
				return badRequest("reviewer must be an active member of the organization")
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func handleListDesignReviews(reviews store.DesignReviewsStore, maxLimit int) http.HandlerFunc {
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

		filter := store.DesignReviewFilter{Scope: scope, Page: page}
		if v := r.URL.Query().Get("status"); v != "" {
			if filter.Status, err = model.ParseDesignReviewStatus(v); err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if filter.ThreatModelID, err = queryID(r, "threat_model_id"); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		items, total, err := reviews.List(r.Context(), filter)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, newListResponse(items, total, page))
	}
}

func handleCreateDesignReview(reviews store.DesignReviewsStore, refs designReviewRefs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		var req DesignReviewRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		orgID, ok := targetOrganization(w, id, req.OrganizationID, kindDesignReview)
		if !ok {
			return
		}

		dr := &model.DesignReview{OrganizationID: orgID, OwnerID: id.UserID, Status: model.DesignReviewPending}
		if err := refs.apply(r.Context(), id, req, dr); err != nil {
			respondWithStoreError(w, r, err)
			return
		}

		err := reviews.Create(r.Context(), dr)
		logRecord(id, "create", kindDesignReview, dr.ID, dr.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, dr)
	}
}

func handleGetDesignReview(reviews store.DesignReviewsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, dr, ok := loadRecord(w, r, kindDesignReview, "read", reviews.Get, authz.CanRead)
		if !ok {
			return
		}
		respondWithJSON(w, http.StatusOK, dr)
	}
}

func handleUpdateDesignReview(reviews store.DesignReviewsStore, refs designReviewRefs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, dr, ok := loadRecord(w, r, kindDesignReview, "update", reviews.Get, authz.CanWrite)
		if !ok {
			return
		}
		var req DesignReviewRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.OrganizationID != nil && *req.OrganizationID != dr.OrganizationID {
			respondWithError(w, http.StatusBadRequest, "organization_id cannot be changed")
			return
		}
		if err := refs.apply(r.Context(), id, req, dr); err != nil {
			respondWithStoreError(w, r, err)
			return
		}

		err := reviews.Update(r.Context(), dr)
		logRecord(id, "update", kindDesignReview, dr.ID, dr.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, dr)
	}
}

func handleDeleteDesignReview(reviews store.DesignReviewsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, dr, ok := loadRecord(w, r, kindDesignReview, "delete", reviews.Get, authz.CanDelete)
		if !ok {
			return
		}
		err := reviews.Delete(r.Context(), dr.ID)
		logRecord(id, "delete", kindDesignReview, dr.ID, dr.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
