package endpoints

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/authz"
	"github.com/bguard/bguard-suite/pkg/identity"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/report"
	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/store"
	"github.com/bguard/bguard-suite/pkg/telemetry"
)

const kindReport = "report"

type GenerateReportRequest struct {
	Kind           model.ReportKind   `json:"kind"`
	Format         model.ReportFormat `json:"format"`
	Title          string             `json:"title"`
	OrganizationID *uuid.UUID         `json:"organization_id"`
	SubjectID      *uuid.UUID         `json:"subject_id"`
}

// reportSources are the stores a report reads its content from
type reportSources struct {
	organizations store.OrganizationsStore
	threatModels  store.ThreatModelsStore
	findings      store.FindingsStore
	designReviews store.DesignReviewsStore
	vendorReviews store.ThirdPartyReviewsStore
	dashboard     store.DashboardStore
}

// RegisterReportsEndpoints registers the report endpoints
func RegisterReportsEndpoints(s *server.Server) {
	reports := s.ReportsStore
	sources := reportSources{
		organizations: s.OrganizationsStore,
		threatModels:  s.ThreatModelsStore,
		findings:      s.FindingsStore,
		designReviews: s.DesignReviewsStore,
		vendorReviews: s.ThirdPartyReviewsStore,
		dashboard:     s.DashboardStore,
	}
	maxLimit := s.Config.ListLimitMax

	router := s.Router.PathPrefix("/reports").Subrouter()
	router.Use(s.SessionMiddleware.Middleware)

	router.HandleFunc("", handleListReports(reports, maxLimit)).Methods("GET")
	router.HandleFunc("", handleGenerateReport(reports, sources, s.Reports, s.Metrics)).Methods("POST")
	router.HandleFunc("/{id}", handleGetReport(reports)).Methods("GET")
	router.HandleFunc("/{id}/download", handleDownloadReport(reports, s.Reports)).Methods("GET")
	router.HandleFunc("/{id}/signature", handleReportSignature(reports)).Methods("GET")
	router.HandleFunc("/{id}", handleDeleteReport(reports, s.Reports)).Methods("DELETE")
}

func logReport(id *identity.Identity, operation string, r *model.Report, err error) {
	audit.Log(audit.ReportEvent{
		Actor:          audit.ActorFrom(id),
		Operation:      operation,
		ReportID:       r.ID.String(),
		Kind:           r.Kind.String(),
		Format:         r.Format.String(),
		Success:        err == nil,
		ErrorMessage:   errorMessage(err),
		OrganizationID: orgRef(r.OrganizationID),
	})
}

func handleListReports(reports store.ReportsStore, maxLimit int) http.HandlerFunc {
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

		filter := store.ReportFilter{Scope: scope, Page: page}
		if v := r.URL.Query().Get("kind"); v != "" {
			if filter.Kind, err = model.ParseReportKind(v); err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		items, total, err := reports.List(r.Context(), filter)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, newListResponse(items, total, page))
	}
}

// reportsEnabled answers 503 when the server runs without a report
// generator, e.g. because its storage could not be set up.
func reportsEnabled(w http.ResponseWriter, generator *report.Generator) bool {
	if generator == nil {
		respondWithError(w, http.StatusServiceUnavailable, "report generation is not configured")
		return false
	}
	return true
}

// handleGenerateReport renders a report synchronously. A report whose
// rendering failed is still saved, with status FAILED, and answered with
// 201 so the caller can see the failure on the record.
func handleGenerateReport(reports store.ReportsStore, sources reportSources, generator *report.Generator, metrics *telemetry.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok || !reportsEnabled(w, generator) {
			return
		}
		var req GenerateReportRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		kind := req.Kind
		if !kind.IsAReportKind() {
			respondWithError(w, http.StatusBadRequest, "kind is required")
			return
		}
		format := req.Format
		if format == 0 {
			format = model.ReportPDF
		}

		rep := &model.Report{
			OwnerID:   id.UserID,
			SubjectID: req.SubjectID,
			Title:     strings.TrimSpace(req.Title),
			Kind:      kind,
			Format:    format,
		}

		var (
			data *report.Data
			err  error
		)
		if kind == model.ReportThreatModel {
			if req.SubjectID == nil {
				respondWithError(w, http.StatusBadRequest, "subject_id is required for THREAT_MODEL reports")
				return
			}
			tm, err := sources.threatModels.Get(r.Context(), *req.SubjectID, true)
			if err != nil {
				respondWithStoreError(w, r, err)
				return
			}
			if !authz.CanRead(id, tm) {
				deny(w, id, "report", kindThreatModel, tm.ID.String(), &tm.OrganizationID)
				return
			}
			rep.OrganizationID = tm.OrganizationID
			data = &report.Data{ThreatModel: tm, Findings: tm.Findings}
		} else {
			if rep.OrganizationID, ok = targetOrganization(w, id, req.OrganizationID, kindReport); !ok {
				return
			}
			if data, err = sources.collect(r.Context(), id, rep); err != nil {
				respondWithStoreError(w, r, err)
				return
			}
		}

		if data.Organization, err = sources.organizations.Get(r.Context(), rep.OrganizationID); err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if rep.Title == "" {
			rep.Title = defaultReportTitle(rep, data)
		}
		data.GeneratedBy = audit.ActorFrom(id).Name()

		genErr := generator.Generate(r.Context(), rep, data)
		if genErr != nil {
			log.Printf("report %s: %v", rep.ID, genErr)
		}
		metrics.ObserveReport(rep.Kind.String(), rep.Format.String(), genErr == nil)

		if err := reports.Create(r.Context(), rep); err != nil {
			logReport(id, "generate", rep, err)
			respondWithStoreError(w, r, err)
			return
		}
		logReport(id, "generate", rep, genErr)
		respondWithJSON(w, http.StatusCreated, rep)
	}
}

// collect loads the content of org-wide reports. The caller's list scope
// applies, so a USER only reports on their own records.
func (s reportSources) collect(ctx context.Context, id *identity.Identity, rep *model.Report) (*report.Data, error) {
	scope, ok := authz.ListScope(id)
	if !ok {
		return nil, badRequest("no organization to report on")
	}
	scope.OrganizationID = &rep.OrganizationID

	data := &report.Data{}
	var err error
	data.Findings, _, err = s.findings.List(ctx, store.FindingFilter{Scope: scope, ThreatModelID: rep.SubjectID})
	if err != nil {
		return nil, err
	}
	if rep.Kind != model.ReportCompliance {
		return data, nil
	}

	if data.Dashboard, err = s.dashboard.Summary(ctx, scope); err != nil {
		return nil, err
	}
	if data.DesignReviews, _, err = s.designReviews.List(ctx, store.DesignReviewFilter{Scope: scope}); err != nil {
		return nil, err
	}
	if data.VendorReviews, _, err = s.vendorReviews.List(ctx, store.ThirdPartyReviewFilter{Scope: scope}); err != nil {
		return nil, err
	}
	return data, nil
}

func defaultReportTitle(rep *model.Report, data *report.Data) string {
	switch rep.Kind {
	case model.ReportThreatModel:
		return "Threat model: " + data.ThreatModel.Name
	case model.ReportCompliance:
		return "Compliance summary: " + data.Organization.Name
	default:
		return "Findings: " + data.Organization.Name
	}
}

func handleGetReport(reports store.ReportsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, rep, ok := loadRecord(w, r, kindReport, "read", reports.Get, authz.CanRead)
		if !ok {
			return
		}
		respondWithJSON(w, http.StatusOK, rep)
	}
}

// handleDownloadReport redirects to a presigned URL when the storage
// backend offers one and streams the artifact otherwise.
func handleDownloadReport(reports store.ReportsStore, generator *report.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !reportsEnabled(w, generator) {
			return
		}
		id, rep, ok := loadRecord(w, r, kindReport, "download", reports.Get, authz.CanRead)
		if !ok {
			return
		}
		if rep.Status != model.ReportReady {
			respondWithError(w, http.StatusConflict, "report is not ready")
			return
		}

		url, err := generator.DownloadURL(r.Context(), rep)
		if err != nil {
			logReport(id, "download", rep, err)
			respondWithStoreError(w, r, err)
			return
		}
		if url != "" {
			logReport(id, "download", rep, nil)
			http.Redirect(w, r, url, http.StatusFound)
			return
		}

		body, err := generator.Open(r.Context(), rep)
		logReport(id, "download", rep, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		defer body.Close()

		w.Header().Set("Content-Type", rep.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(rep)))
		if rep.Size > 0 {
			w.Header().Set("Content-Length", fmt.Sprint(rep.Size))
		}
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, body); err != nil {
			log.Printf("report %s: download interrupted: %v", rep.ID, err)
		}
	}
}

func handleReportSignature(reports store.ReportsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, rep, ok := loadRecord(w, r, kindReport, "download", reports.Get, authz.CanRead)
		if !ok {
			return
		}
		if !rep.Signed() {
			respondWithError(w, http.StatusNotFound, "report is not signed")
			return
		}
		w.Header().Set("Content-Type", report.ContentTypeSignature)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(rep)+".asc"))
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, rep.Signature)
	}
}

func handleDeleteReport(reports store.ReportsStore, generator *report.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !reportsEnabled(w, generator) {
			return
		}
		id, rep, ok := loadRecord(w, r, kindReport, "delete", reports.Get, authz.CanDelete)
		if !ok {
			return
		}
		err := reports.Delete(r.Context(), rep.ID)
		if err == nil {
			if rmErr := generator.Remove(r.Context(), rep); rmErr != nil && !errors.Is(rmErr, report.ErrArtifactNotFound) {
				log.Printf("report %s: removing artifact: %v", rep.ID, rmErr)
			}
		}
		logReport(id, "delete", rep, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
