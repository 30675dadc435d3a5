package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/authz"
	"github.com/bguard/bguard-suite/pkg/identity"
	"github.com/bguard/bguard-suite/pkg/llm"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/report"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

const (
	defaultPageLimit = 50
	maxBodyBytes     = 1 << 20
)

// ListResponse is the envelope of every paginated listing.
type ListResponse[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func newListResponse[T any](items []T, total int64, page store.Page) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}
}

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithStoreError maps domain errors to a status code. Anything it
// does not recognise is logged and answered with a generic 500.
func respondWithStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var br badRequest
	switch {
	case errors.As(err, &br):
		respondWithError(w, http.StatusBadRequest, br.Error())
	case errors.Is(err, store.ErrNotFound), errors.Is(err, report.ErrArtifactNotFound):
		respondWithError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		respondWithError(w, http.StatusConflict, "already exists")
	case errors.Is(err, store.ErrInvalid):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, llm.ErrRateLimited):
		respondWithError(w, http.StatusTooManyRequests, "AI scan rate limit exceeded, try again later")
	case errors.Is(err, llm.ErrNotConfigured):
		respondWithError(w, http.StatusServiceUnavailable, "AI provider is not configured")
	case errors.Is(err, llm.ErrUpstream), errors.Is(err, llm.ErrNoAnswer):
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		respondWithError(w, http.StatusBadGateway, "AI provider request failed")
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// badRequest is a validation failure whose message is safe to return.
type badRequest string

func (e badRequest) Error() string { return string(e) }

// errorMessage is what goes into security events; store details stay in the
// process log.
func errorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, store.ErrNotFound):
		return "not found"
	case errors.Is(err, store.ErrConflict):
		return "already exists"
	case errors.As(err, new(badRequest)), errors.Is(err, store.ErrInvalid),
		errors.Is(err, llm.ErrRateLimited), errors.Is(err, llm.ErrNotConfigured):
		return err.Error()
	default:
		return "internal error"
	}
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (*identity.Identity, bool) {
	id, ok := identity.Get(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authorization missing")
		return nil, false
	}
	return id, true
}

// listScope answers 403 for identities that cannot see business records.
func listScope(w http.ResponseWriter, id *identity.Identity, shared bool) (store.Scope, bool) {
	scope, ok := authz.ListScope(id)
	if shared {
		scope, ok = authz.OrganizationScope(id)
	}
	if !ok {
		respondWithError(w, http.StatusForbidden, "forbidden")
	}
	return scope, ok
}

// deny answers 403 and records the refusal under org, the organization of
// the record involved, when it is known.
func deny(w http.ResponseWriter, id *identity.Identity, operation, kind, recordID string, org *uuid.UUID) {
	audit.Log(audit.AccessDeniedEvent{
		Actor:          audit.ActorFrom(id),
		Operation:      operation,
		Kind:           kind,
		RecordID:       recordID,
		OrganizationID: org,
	})
	respondWithError(w, http.StatusForbidden, "forbidden")
}

func logRecord(id *identity.Identity, operation, kind string, recordID, orgID uuid.UUID, err error) {
	event := audit.RecordEvent{
		Actor:          audit.ActorFrom(id),
		Operation:      operation,
		Kind:           kind,
		Success:        err == nil,
		ErrorMessage:   errorMessage(err),
		OrganizationID: orgRef(orgID),
	}
	if recordID != uuid.Nil {
		event.RecordID = recordID.String()
	}
	audit.Log(event)
}

// orgRef turns a record's organization into an event reference; uuid.Nil
// means unknown.
func orgRef(orgID uuid.UUID) *uuid.UUID {
	if orgID == uuid.Nil {
		return nil
	}
	return &orgID
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

func queryID(r *http.Request, name string) (*uuid.UUID, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &id, nil
}

// parsePage reads limit and offset. The limit defaults to 50 and is capped
// at maxLimit.
func parsePage(r *http.Request, maxLimit int) (store.Page, error) {
	page := store.Page{Limit: defaultPageLimit}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}

	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return page, errors.New("limit must be a positive integer")
		}
		page.Limit = limit
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return page, errors.New("offset must be a non-negative integer")
		}
		page.Offset = offset
	}
	return page, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// targetOrganization picks the organization a new record goes into. Members
// always create in their own organization; platform administrators have to
// name one.
func targetOrganization(w http.ResponseWriter, id *identity.Identity, requested *uuid.UUID, kind string) (uuid.UUID, bool) {
	var orgID uuid.UUID
	switch {
	case requested != nil:
		orgID = *requested
	case id.OrganizationID != nil:
		orgID = *id.OrganizationID
	default:
		respondWithError(w, http.StatusBadRequest, "organization_id is required")
		return uuid.Nil, false
	}
	if !authz.CanCreateIn(id, orgID) {
		deny(w, id, "create", kind, "", &orgID)
		return uuid.Nil, false
	}
	return orgID, true
}

// loadRecord resolves the {id} path variable, fetches the record and checks
// that the caller may perform op on it. It has answered the request when it
// returns false.
func loadRecord[T model.Owned](
	w http.ResponseWriter,
	r *http.Request,
	kind, op string,
	get func(context.Context, uuid.UUID) (T, error),
	allowed func(*identity.Identity, model.Owned) bool,
) (*identity.Identity, T, bool) {
	var zero T
	id, ok := requireIdentity(w, r)
	if !ok {
		return nil, zero, false
	}
	recordID, ok := pathID(w, r, "id")
	if !ok {
		return nil, zero, false
	}
	rec, err := get(r.Context(), recordID)
	if err != nil {
		respondWithStoreError(w, r, err)
		return nil, zero, false
	}
	if !allowed(id, rec) {
		deny(w, id, op, kind, recordID.String(), orgRef(rec.OrgID()))
		return nil, zero, false
	}
	return id, rec, true
}

func trimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// optionalID tells a missing field apart from an explicit null, so updates
// can clear a link.
type optionalID struct {
	Set   bool
	Value *uuid.UUID
}

func (o *optionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}
