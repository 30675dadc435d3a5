package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/authz"
	"github.com/bguard/bguard-suite/pkg/identity"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

const (
	kindEndpoint     = "discovered-endpoint"
	maxEndpointBatch = 1000
)

type EndpointRequest struct {
	AssetID      *uuid.UUID `json:"asset_id"`
	Method       string     `json:"method"`
	Host         string     `json:"host"`
	Path         string     `json:"path"`
	Source       string     `json:"source"`
	AuthRequired bool       `json:"auth_required"`
}

type CreateEndpointsRequest struct {
	OrganizationID *uuid.UUID        `json:"organization_id"`
	Endpoints      []EndpointRequest `json:"endpoints"`
}

type CreateEndpointsResponse struct {
	Submitted int   `json:"submitted"`
	Created   int64 `json:"created"`
}

var httpMethods = map[string]bool{
	"GET": true, "HEAD": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "OPTIONS": true, "TRACE": true, "CONNECT": true,
}

// RegisterDiscoveredEndpointsEndpoints registers the discovered endpoint
// inventory. Endpoints are organization data; linking one to an asset
// requires write access to that asset.
func RegisterDiscoveredEndpointsEndpoints(s *server.Server) {
	endpoints := s.EndpointsStore
	assets := s.AssetsStore
	maxLimit := s.Config.ListLimitMax

	router := s.Router.PathPrefix("/discovered-endpoints").Subrouter()
	router.Use(s.SessionMiddleware.Middleware)

	router.HandleFunc("", handleListEndpoints(endpoints, maxLimit)).Methods("GET")
	router.HandleFunc("", handleCreateEndpoints(endpoints, assets)).Methods("POST")
	router.HandleFunc("/{id}", handleDeleteEndpoint(endpoints)).Methods("DELETE")
}

func handleListEndpoints(endpoints store.DiscoveredEndpointsStore, maxLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		scope, ok := listScope(w, id, true)
		if !ok {
			return
		}
		page, err := parsePage(r, maxLimit)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		filter := store.EndpointFilter{Scope: scope, Page: page}
		if filter.AssetID, err = queryID(r, "asset_id"); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		items, total, err := endpoints.List(r.Context(), filter)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, newListResponse(items, total, page))
	}
}

// handleCreateEndpoints stores a batch of endpoints. Entries already known
// by method, host and path are skipped, so importers can resubmit.
func handleCreateEndpoints(endpoints store.DiscoveredEndpointsStore, assets store.AssetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		var req CreateEndpointsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.Endpoints) == 0 {
			respondWithError(w, http.StatusBadRequest, "endpoints must not be empty")
			return
		}
		if len(req.Endpoints) > maxEndpointBatch {
			respondWithError(w, http.StatusBadRequest, "too many endpoints in one request")
			return
		}
		orgID, ok := targetOrganization(w, id, req.OrganizationID, kindEndpoint)
		if !ok {
			return
		}
		if !authz.CanManageTags(id, orgID) {
			deny(w, id, "create", kindEndpoint, "", &orgID)
			return
		}

		checked := make(map[uuid.UUID]bool)
		batch := make([]model.DiscoveredEndpoint, 0, len(req.Endpoints))
		seen := make(map[string]bool, len(req.Endpoints))
		for _, e := range req.Endpoints {
			ep, err := e.endpoint(orgID)
			if err != nil {
				respondWithStoreError(w, r, err)
				return
			}
			if ep.AssetID != nil && !checked[*ep.AssetID] {
				if err := checkEndpointAsset(r, assets, id, orgID, *ep.AssetID); err != nil {
					respondWithStoreError(w, r, err)
					return
				}
				checked[*ep.AssetID] = true
			}
			key := ep.Method + " " + ep.Host + ep.Path
			if seen[key] {
				continue
			}
			seen[key] = true
			batch = append(batch, ep)
		}

		created, err := endpoints.CreateBatch(r.Context(), batch)
		logRecord(id, "create", kindEndpoint, uuid.Nil, orgID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, CreateEndpointsResponse{Submitted: len(req.Endpoints), Created: created})
	}
}

func (e EndpointRequest) endpoint(orgID uuid.UUID) (model.DiscoveredEndpoint, error) {
	ep := model.DiscoveredEndpoint{
		OrganizationID: orgID,
		AssetID:        e.AssetID,
		Method:         strings.ToUpper(strings.TrimSpace(e.Method)),
		Host:           strings.ToLower(strings.TrimSpace(e.Host)),
		Path:           strings.TrimSpace(e.Path),
		Source:         strings.TrimSpace(e.Source),
		AuthRequired:   e.AuthRequired,
	}
	if !httpMethods[ep.Method] {
		return ep, badRequest("invalid method " + e.Method)
	}
	if ep.Host == "" {
		return ep, badRequest("host is required")
	}
	if !strings.HasPrefix(ep.Path, "/") {
		return ep, badRequest("path must start with /")
	}
	if ep.Source == "" {
		ep.Source = "manual"
	}
	return ep, nil
}

func checkEndpointAsset(r *http.Request, assets store.AssetsStore, id *identity.Identity, orgID, assetID uuid.UUID) error {
	asset, err := assets.Get(r.Context(), assetID)
	if errors.Is(err, store.ErrNotFound) {
		return badRequest("unknown asset " + assetID.String())
	}
	if err != nil {
		return err
	}
	if asset.OrganizationID != orgID || !authz.CanWrite(id, asset) {
		return badRequest("unknown asset " + assetID.String())
	}
	return nil
}

func handleDeleteEndpoint(endpoints store.DiscoveredEndpointsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		epID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		ep, err := endpoints.Get(r.Context(), epID)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if !authz.CanManageTags(id, ep.OrganizationID) {
			deny(w, id, "delete", kindEndpoint, ep.ID.String(), &ep.OrganizationID)
			return
		}

		err = endpoints.Delete(r.Context(), ep.ID)
		logRecord(id, "delete", kindEndpoint, ep.ID, ep.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
