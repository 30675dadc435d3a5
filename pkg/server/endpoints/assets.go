package endpoints

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/authz"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

const kindAsset = "asset"

type AssetRequest struct {
	OrganizationID *uuid.UUID       `json:"organization_id"`
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Type           *model.AssetType `json:"type"`
	Criticality    *model.Severity  `json:"criticality"`
	Environment    *string          `json:"environment"`
	TagIDs         *[]uuid.UUID     `json:"tag_ids"`
}

type TagIDsRequest struct {
	TagIDs []uuid.UUID `json:"tag_ids"`
}

// RegisterAssetsEndpoints registers the asset inventory endpoints
func RegisterAssetsEndpoints(s *server.Server) {
	assets := s.AssetsStore
	maxLimit := s.Config.ListLimitMax

	router := s.Router.PathPrefix("/assets").Subrouter()
	router.Use(s.SessionMiddleware.Middleware)

	router.HandleFunc("", handleListAssets(assets, maxLimit)).Methods("GET")
	router.HandleFunc("", handleCreateAsset(assets)).Methods("POST")
	router.HandleFunc("/{id}", handleGetAsset(assets)).Methods("GET")
	router.HandleFunc("/{id}", handleUpdateAsset(assets)).Methods("PUT", "PATCH")
	router.HandleFunc("/{id}", handleDeleteAsset(assets)).Methods("DELETE")
	router.HandleFunc("/{id}/tags", handleSetAssetTags(assets)).Methods("PUT")
}

func (req AssetRequest) apply(a *model.Asset) string {
	trimmed(&a.Name, req.Name)
	trimmed(&a.Description, req.Description)
	trimmed(&a.Environment, req.Environment)
	if req.Type != nil {
		a.Type = *req.Type
	}
	if req.Criticality != nil {
		a.Criticality = *req.Criticality
	}

	switch {
	case a.Name == "":
		return "name is required"
	case !a.Type.IsAAssetType():
		return "invalid asset type"
	case !a.Criticality.IsASeverity():
		return "invalid criticality"
	}
	return ""
}

func handleListAssets(assets store.AssetsStore, maxLimit int) http.HandlerFunc {
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

		q := r.URL.Query()
		filter := store.AssetFilter{Scope: scope, Search: q.Get("search"), Page: page}
		if v := q.Get("type"); v != "" {
			if filter.Type, err = model.ParseAssetType(v); err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if filter.TagID, err = queryID(r, "tag_id"); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		items, total, err := assets.List(r.Context(), filter)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, newListResponse(items, total, page))
	}
}

func handleCreateAsset(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		var req AssetRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		orgID, ok := targetOrganization(w, id, req.OrganizationID, kindAsset)
		if !ok {
			return
		}

		a := &model.Asset{OrganizationID: orgID, OwnerID: id.UserID, Criticality: model.SeverityMedium}
		if msg := req.apply(a); msg != "" {
			respondWithError(w, http.StatusBadRequest, msg)
			return
		}

		err := assets.Create(r.Context(), a)
		if err == nil && req.TagIDs != nil {
			err = assets.SetTags(r.Context(), a.ID, *req.TagIDs)
		}
		logRecord(id, "create", kindAsset, a.ID, a.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}

		created, err := assets.Get(r.Context(), a.ID)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, created)
	}
}

func handleGetAsset(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, a, ok := loadRecord(w, r, kindAsset, "read", assets.Get, authz.CanRead)
		if !ok {
			return
		}
		respondWithJSON(w, http.StatusOK, a)
	}
}

func handleUpdateAsset(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, a, ok := loadRecord(w, r, kindAsset, "update", assets.Get, authz.CanWrite)
		if !ok {
			return
		}
		var req AssetRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.OrganizationID != nil && *req.OrganizationID != a.OrganizationID {
			respondWithError(w, http.StatusBadRequest, "organization_id cannot be changed")
			return
		}
		if msg := req.apply(a); msg != "" {
			respondWithError(w, http.StatusBadRequest, msg)
			return
		}

		err := assets.Update(r.Context(), a)
		if err == nil && req.TagIDs != nil {
			err = assets.SetTags(r.Context(), a.ID, *req.TagIDs)
		}
		logRecord(id, "update", kindAsset, a.ID, a.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}

		updated, err := assets.Get(r.Context(), a.ID)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, updated)
	}
}

func handleDeleteAsset(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, a, ok := loadRecord(w, r, kindAsset, "delete", assets.Get, authz.CanDelete)
		if !ok {
			return
		}
		err := assets.Delete(r.Context(), a.ID)
		logRecord(id, "delete", kindAsset, a.ID, a.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleSetAssetTags replaces the asset's tags with the given set.
func handleSetAssetTags(assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, a, ok := loadRecord(w, r, kindAsset, "update", assets.Get, authz.CanWrite)
		if !ok {
			return
		}
		var req TagIDsRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		err := assets.SetTags(r.Context(), a.ID, req.TagIDs)
		logRecord(id, "update", kindAsset, a.ID, a.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}

		updated, err := assets.Get(r.Context(), a.ID)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, updated)
	}
}
