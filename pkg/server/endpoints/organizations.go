package endpoints

import (
	"net/http"
	"strings"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/authz"
	"github.com/bguard/bguard-suite/pkg/identity"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

type OrganizationRequest struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	Industry *string `json:"industry"`
	Active   *bool   `json:"active"`
}

// RegisterOrganizationsEndpoints registers the tenant management endpoints
func RegisterOrganizationsEndpoints(s *server.Server) {
	orgs := s.OrganizationsStore
	maxLimit := s.Config.ListLimitMax

	router := s.Router.PathPrefix("/organizations").Subrouter()
	router.Use(s.SessionMiddleware.Middleware)

	router.HandleFunc("", handleListOrganizations(orgs, maxLimit)).Methods("GET")
	router.HandleFunc("", handleCreateOrganization(orgs)).Methods("POST")
	router.HandleFunc("/{id}", handleGetOrganization(orgs)).Methods("GET")
	router.HandleFunc("/{id}", handleUpdateOrganization(orgs)).Methods("PUT", "PATCH")
	router.HandleFunc("/{id}", handleDeleteOrganization(orgs)).Methods("DELETE")
}

func logOrganization(id *identity.Identity, op string, org *model.Organization, err error) {
	audit.Log(audit.OrganizationEvent{
		Actor:          audit.ActorFrom(id),
		Operation:      op,
		OrganizationID: org.ID.String(),
		Name:           org.Name,
		Success:        err == nil,
		ErrorMessage:   errorMessage(err),
	})
}

func handleListOrganizations(orgs store.OrganizationsStore, maxLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		page, err := parsePage(r, maxLimit)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		scope, ok := authz.OrganizationScope(id)
		if !ok {
			respondWithJSON(w, http.StatusOK, newListResponse([]model.Organization{}, 0, page))
			return
		}

		items, total, err := orgs.List(r.Context(), scope, page)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, newListResponse(items, total, page))
	}
}

func handleCreateOrganization(orgs store.OrganizationsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		if !authz.CanCreateOrganization(id) {
			deny(w, id, "create", "organization", "", nil)
			return
		}

		var req OrganizationRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		org := &model.Organization{Active: true}
		if msg := req.apply(org); msg != "" {
			respondWithError(w, http.StatusBadRequest, msg)
			return
		}
		if org.Name == "" {
			respondWithError(w, http.StatusBadRequest, "name is required")
			return
		}

		err := orgs.Create(r.Context(), org)
		logOrganization(id, "create", org, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, org)
	}
}

// apply copies the set fields onto org and derives a missing slug.
func (req OrganizationRequest) apply(org *model.Organization) string {
	if req.Name != nil {
		org.Name = strings.TrimSpace(*req.Name)
		if org.Name == "" {
			return "name must not be empty"
		}
	}
	if req.Industry != nil {
		org.Industry = strings.TrimSpace(*req.Industry)
	}
	if req.Active != nil {
		org.Active = *req.Active
	}
	if req.Slug != nil {
		org.Slug = model.Slugify(*req.Slug)
	}
	if org.Slug == "" {
		org.Slug = model.Slugify(org.Name)
	}
	if org.Slug == "" && org.Name != "" {
		return "name must contain letters or digits"
	}
	return ""
}

func loadOrganization(w http.ResponseWriter, r *http.Request, orgs store.OrganizationsStore) (*identity.Identity, *model.Organization, bool) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return nil, nil, false
	}
	orgID, ok := pathID(w, r, "id")
	if !ok {
		return nil, nil, false
	}
	if !authz.CanAccessOrganization(id, orgID) {
		deny(w, id, "read", "organization", orgID.String(), &orgID)
		return nil, nil, false
	}
	org, err := orgs.Get(r.Context(), orgID)
	if err != nil {
		respondWithStoreError(w, r, err)
		return nil, nil, false
	}
	return id, org, true
}

func handleGetOrganization(orgs store.OrganizationsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, org, ok := loadOrganization(w, r, orgs)
		if !ok {
			return
		}
		respondWithJSON(w, http.StatusOK, org)
	}
}

func handleUpdateOrganization(orgs store.OrganizationsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, org, ok := loadOrganization(w, r, orgs)
		if !ok {
			return
		}
		if !authz.CanManageOrganization(id, org.ID) {
			deny(w, id, "update", "organization", org.ID.String(), &org.ID)
			return
		}

		var req OrganizationRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		// Suspending a tenant is a platform decision.
		if req.Active != nil && *req.Active != org.Active && !id.IsPlatformAdmin() {
			deny(w, id, "update", "organization", org.ID.String(), &org.ID)
			return
		}
		if msg := req.apply(org); msg != "" {
			respondWithError(w, http.StatusBadRequest, msg)
			return
		}

		err := orgs.Update(r.Context(), org)
		logOrganization(id, "update", org, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, org)
	}
}

func handleDeleteOrganization(orgs store.OrganizationsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		orgID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		if !authz.CanDeleteOrganization(id) {
			deny(w, id, "delete", "organization", orgID.String(), &orgID)
			return
		}

		org, err := orgs.Get(r.Context(), orgID)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		err = orgs.Delete(r.Context(), orgID)
		logOrganization(id, "delete", org, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
