package endpoints

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/authz"
	"github.com/bguard/bguard-suite/pkg/llm"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/store"
	"github.com/bguard/bguard-suite/pkg/telemetry"
)

const kindThreatModel = "threat-model"

type ThreatModelRequest struct {
	OrganizationID *uuid.UUID               `json:"organization_id"`
	Name           *string                  `json:"name"`
	Description    *string                  `json:"description"`
	SystemScope    *string                  `json:"system_scope"`
	Status         *model.ThreatModelStatus `json:"status"`
	AssetIDs       *[]uuid.UUID             `json:"asset_ids"`
	TagIDs         *[]uuid.UUID             `json:"tag_ids"`
}

// ScanResponse is returned by the AI scan endpoints.
type ScanResponse struct {
	Provider string          `json:"provider"`
	Findings []model.Finding `json:"findings"`
}

// RegisterThreatModelsEndpoints registers threat model CRUD, the nested
// findings collection and the AI scan.
func RegisterThreatModelsEndpoints(s *server.Server) {
	tms := s.ThreatModelsStore
	findings := s.FindingsStore
	maxLimit := s.Config.ListLimitMax

	router := s.Router.PathPrefix("/threat-models").Subrouter()
	router.Use(s.SessionMiddleware.Middleware)

	router.HandleFunc("", handleListThreatModels(tms, maxLimit)).Methods("GET")
	router.HandleFunc("", handleCreateThreatModel(tms)).Methods("POST")
	router.HandleFunc("/{id}", handleGetThreatModel(tms)).Methods("GET")
	router.HandleFunc("/{id}", handleUpdateThreatModel(tms)).Methods("PUT", "PATCH")
	router.HandleFunc("/{id}", handleDeleteThreatModel(tms)).Methods("DELETE")
	router.HandleFunc("/{id}/findings", handleListThreatModelFindings(tms, findings, maxLimit)).Methods("GET")
	router.HandleFunc("/{id}/findings", handleCreateFinding(tms, findings)).Methods("POST")
	router.HandleFunc("/{id}/scan", handleScanThreatModel(tms, findings, s.EndpointsStore, s.Analyzer, s.Metrics)).Methods("POST")
}

func threatModelGetter(tms store.ThreatModelsStore, includeFindings bool) func(context.Context, uuid.UUID) (*model.ThreatModel, error) {
	return func(ctx context.Context, id uuid.UUID) (*model.ThreatModel, error) {
		return tms.Get(ctx, id, includeFindings)
	}
}

func handleListThreatModels(tms store.ThreatModelsStore, maxLimit int) http.HandlerFunc {
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
		filter := store.ThreatModelFilter{
			Scope:           scope,
			IncludeFindings: q.Get("include") == "findings",
			Page:            page,
		}
		if v := q.Get("status"); v != "" {
			if filter.Status, err = model.ParseThreatModelStatus(v); err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if filter.TagID, err = queryID(r, "tag_id"); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		items, total, err := tms.List(r.Context(), filter)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, newListResponse(items, total, page))
	}
}

func (req ThreatModelRequest) apply(tm *model.ThreatModel) string {
	trimmed(&tm.Name, req.Name)
	trimmed(&tm.Description, req.Description)
	trimmed(&tm.SystemScope, req.SystemScope)
	if req.Status != nil {
		if !req.Status.IsAThreatModelStatus() {
			return "invalid status"
		}
		tm.Status = *req.Status
	}
	if tm.Name == "" {
		return "name is required"
	}
	return ""
}

// setThreatModelLinks replaces assets and tags when the request names them.
func setThreatModelLinks(ctx context.Context, tms store.ThreatModelsStore, tmID uuid.UUID, req ThreatModelRequest) error {
	if req.AssetIDs != nil {
		if err := tms.SetAssets(ctx, tmID, *req.AssetIDs); err != nil {
			return err
		}
	}
	if req.TagIDs != nil {
		if err := tms.SetTags(ctx, tmID, *req.TagIDs); err != nil {
			return err
		}
	}
	return nil
}

func handleCreateThreatModel(tms store.ThreatModelsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		var req ThreatModelRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		orgID, ok := targetOrganization(w, id, req.OrganizationID, kindThreatModel)
		if !ok {
			return
		}

		tm := &model.ThreatModel{OrganizationID: orgID, OwnerID: id.UserID, Status: model.ThreatModelDraft}
		if msg := req.apply(tm); msg != "" {
			respondWithError(w, http.StatusBadRequest, msg)
			return
		}

		err := tms.Create(r.Context(), tm)
		if err == nil {
			err = setThreatModelLinks(r.Context(), tms, tm.ID, req)
		}
		logRecord(id, "create", kindThreatModel, tm.ID, tm.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}

		created, err := tms.Get(r.Context(), tm.ID, false)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, created)
	}
}

func handleGetThreatModel(tms store.ThreatModelsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		include := r.URL.Query().Get("include") == "findings"
		id, tm, ok := loadRecord(w, r, kindThreatModel, "read", threatModelGetter(tms, include), authz.CanRead)
		if !ok {
			return
		}
		if include {
			scope, ok := listScope(w, id, false)
			if !ok {
				return
			}
			tm.Findings = inScope(scope, tm.Findings)
		}
		respondWithJSON(w, http.StatusOK, tm)
	}
}

func handleUpdateThreatModel(tms store.ThreatModelsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tm, ok := loadRecord(w, r, kindThreatModel, "update", threatModelGetter(tms, false), authz.CanWrite)
		if !ok {
			return
		}
		var req ThreatModelRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.OrganizationID != nil && *req.OrganizationID != tm.OrganizationID {
			respondWithError(w, http.StatusBadRequest, "organization_id cannot be changed")
			return
		}
		if msg := req.apply(tm); msg != "" {
			respondWithError(w, http.StatusBadRequest, msg)
			return
		}

		err := tms.Update(r.Context(), tm)
		if err == nil {
			err = setThreatModelLinks(r.Context(), tms, tm.ID, req)
		}
		logRecord(id, "update", kindThreatModel, tm.ID, tm.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}

		updated, err := tms.Get(r.Context(), tm.ID, false)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, updated)
	}
}

func handleDeleteThreatModel(tms store.ThreatModelsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tm, ok := loadRecord(w, r, kindThreatModel, "delete", threatModelGetter(tms, false), authz.CanDelete)
		if !ok {
			return
		}
		err := tms.Delete(r.Context(), tm.ID)
		logRecord(id, "delete", kindThreatModel, tm.ID, tm.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleListThreatModelFindings(tms store.ThreatModelsStore, findings store.FindingsStore, maxLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tm, ok := loadRecord(w, r, kindThreatModel, "read", threatModelGetter(tms, false), authz.CanRead)
		if !ok {
			return
		}
		filter, ok := findingFilter(w, r, maxLimit)
		if !ok {
			return
		}
		if filter.Scope, ok = listScope(w, id, false); !ok {
			return
		}
		filter.ThreatModelID = &tm.ID

		items, total, err := findings.List(r.Context(), filter)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, newListResponse(items, total, filter.Page))
	}
}

// inScope keeps the findings a list under scope would return.
func inScope(scope store.Scope, findings []model.Finding) []model.Finding {
	if scope.OwnerID == nil {
		return findings
	}
	kept := findings[:0:0]
	for _, f := range findings {
		if f.OwnerID == *scope.OwnerID {
			kept = append(kept, f)
		}
	}
	return kept
}

func handleCreateFinding(tms store.ThreatModelsStore, findings store.FindingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tm, ok := loadRecord(w, r, kindThreatModel, "update", threatModelGetter(tms, false), authz.CanWrite)
		if !ok {
			return
		}
		var req FindingRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		f := &model.Finding{
			OrganizationID: tm.OrganizationID,
			ThreatModelID:  tm.ID,
			OwnerID:        id.UserID,
			Status:         model.FindingOpen,
			Source:         model.FindingSourceManual,
		}
		if msg := req.apply(f); msg != "" {
			respondWithError(w, http.StatusBadRequest, msg)
			return
		}

		err := findings.Create(r.Context(), f)
		logRecord(id, "create", kindFinding, f.ID, f.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, f)
	}
}

// handleScanThreatModel asks the LLM for STRIDE threats of a threat model
// and its assets and stores the answer as AI findings.
func handleScanThreatModel(
	tms store.ThreatModelsStore,
	findings store.FindingsStore,
	endpoints store.DiscoveredEndpointsStore,
	analyzer *llm.Analyzer,
	metrics *telemetry.Metrics,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, tm, ok := loadRecord(w, r, kindThreatModel, "scan", threatModelGetter(tms, true), authz.CanWrite)
		if !ok {
			return
		}

		in := llm.ThreatModelInput{ThreatModel: tm, Assets: tm.Assets, Existing: tm.Findings}
		for _, asset := range tm.Assets {
			eps, _, err := endpoints.List(r.Context(), store.EndpointFilter{
				AssetID: &asset.ID,
				Page:    store.Page{Limit: 50},
			})
			if err != nil {
				respondWithStoreError(w, r, err)
				return
			}
			in.Endpoints = append(in.Endpoints, eps...)
		}

		provider := analyzer.ProviderName()
		fail := func(err error) {
			audit.Log(audit.ScanEvent{
				Actor:          audit.ActorFrom(id),
				Kind:           kindThreatModel,
				SubjectID:      tm.ID.String(),
				Provider:       provider,
				ErrorMessage:   errorMessage(err),
				OrganizationID: &tm.OrganizationID,
			})
			metrics.ObserveScan(kindThreatModel, provider, 0, false)
			respondWithStoreError(w, r, err)
		}

		found, err := analyzer.AnalyzeThreatModel(r.Context(), in)
		if err != nil {
			fail(err)
			return
		}
		if found == nil {
			found = []model.Finding{}
		}
		created := make([]*model.Finding, len(found))
		for i := range found {
			found[i].OwnerID = id.UserID
			created[i] = &found[i]
		}
		if err := findings.Create(r.Context(), created...); err != nil {
			fail(err)
			return
		}

		audit.Log(audit.ScanEvent{
			Actor:          audit.ActorFrom(id),
			Kind:           kindThreatModel,
			SubjectID:      tm.ID.String(),
			Provider:       provider,
			Findings:       len(found),
			Success:        true,
			OrganizationID: &tm.OrganizationID,
		})
		metrics.ObserveScan(kindThreatModel, provider, len(found), true)
		respondWithJSON(w, http.StatusCreated, ScanResponse{Provider: provider, Findings: found})
	}
}
