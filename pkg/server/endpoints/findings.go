package endpoints

import (
	"net/http"

	"github.com/bguard/bguard-suite/pkg/authz"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

const kindFinding = "finding"

type FindingRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	StrideCategory *string `json:"stride_category"`
	Severity       *string `json:"severity"`
	Status         *string `json:"status"`
	Remediation    *string `json:"remediation"`
}

// RegisterFindingsEndpoints registers the organization-wide findings list
// and single finding operations. Findings are created under their threat
// model.
func RegisterFindingsEndpoints(s *server.Server) {
	findings := s.FindingsStore
	maxLimit := s.Config.ListLimitMax

	router := s.Router.PathPrefix("/findings").Subrouter()
	router.Use(s.SessionMiddleware.Middleware)

	router.HandleFunc("", handleListFindings(findings, maxLimit)).Methods("GET")
	router.HandleFunc("/{id}", handleGetFinding(findings)).Methods("GET")
	router.HandleFunc("/{id}", handleUpdateFinding(findings)).Methods("PUT", "PATCH")
	router.HandleFunc("/{id}", handleDeleteFinding(findings)).Methods("DELETE")
}

func (req FindingRequest) apply(f *model.Finding) string {
	var err error
	trimmed(&f.Title, req.Title)
	trimmed(&f.Description, req.Description)
	trimmed(&f.Remediation, req.Remediation)
	if req.StrideCategory != nil {
		if f.StrideCategory, err = model.ParseStrideCategory(*req.StrideCategory); err != nil {
			return err.Error()
		}
	}
	if req.Severity != nil {
		if f.Severity, err = model.ParseSeverity(*req.Severity); err != nil {
			return err.Error()
		}
	}
	if req.Status != nil {
		if f.Status, err = model.ParseFindingStatus(*req.Status); err != nil {
			return err.Error()
		}
	}

	switch {
	case f.Title == "":
		return "title is required"
	case !f.StrideCategory.IsAStrideCategory():
		return "stride_category is required"
	case !f.Severity.IsASeverity():
		return "severity is required"
	}
	return ""
}

// findingFilter reads severity, status and pagination from the query.
func findingFilter(w http.ResponseWriter, r *http.Request, maxLimit int) (store.FindingFilter, bool) {
	var filter store.FindingFilter
	var err error
	if filter.Page, err = parsePage(r, maxLimit); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return filter, false
	}

	q := r.URL.Query()
	if v := q.Get("severity"); v != "" {
		if filter.Severity, err = model.ParseSeverity(v); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return filter, false
		}
	}
	if v := q.Get("status"); v != "" {
		if filter.Status, err = model.ParseFindingStatus(v); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return filter, false
		}
	}
	return filter, true
}

func handleListFindings(findings store.FindingsStore, maxLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		scope, ok := listScope(w, id, false)
		if !ok {
			return
		}
		filter, ok := findingFilter(w, r, maxLimit)
		if !ok {
			return
		}
		filter.Scope = scope

		var err error
		if filter.ThreatModelID, err = queryID(r, "threat_model_id"); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		items, total, err := findings.List(r.Context(), filter)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, newListResponse(items, total, filter.Page))
	}
}

func handleGetFinding(findings store.FindingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, f, ok := loadRecord(w, r, kindFinding, "read", findings.Get, authz.CanRead)
		if !ok {
			return
		}
		respondWithJSON(w, http.StatusOK, f)
	}
}

func handleUpdateFinding(findings store.FindingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, f, ok := loadRecord(w, r, kindFinding, "update", findings.Get, authz.CanWrite)
		if !ok {
			return
		}
		var req FindingRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if msg := req.apply(f); msg != "" {
			respondWithError(w, http.StatusBadRequest, msg)
			return
		}

		err := findings.Update(r.Context(), f)
		logRecord(id, "update", kindFinding, f.ID, f.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, f)
	}
}

func handleDeleteFinding(findings store.FindingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, f, ok := loadRecord(w, r, kindFinding, "delete", findings.Get, authz.CanDelete)
		if !ok {
			return
		}
		err := findings.Delete(r.Context(), f.ID)
		logRecord(id, "delete", kindFinding, f.ID, f.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
