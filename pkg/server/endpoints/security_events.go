package endpoints

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/authz"
	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

const kindSecurityEvent = "security-event"

// RegisterSecurityEventsEndpoints registers the activity log endpoint
func RegisterSecurityEventsEndpoints(s *server.Server) {
	events := s.SecurityEventsStore
	maxLimit := s.Config.ListLimitMax

	router := s.Router.PathPrefix("/security-events").Subrouter()
	router.Use(s.SessionMiddleware.Middleware)

	router.HandleFunc("", handleListSecurityEvents(events, maxLimit)).Methods("GET")
}

// handleListSecurityEvents lists the activity log, newest first. Business
// admins only see their own organization.
//
// Query parameters: msgid, severity (name or number, keeps that level and
// worse), actor_id, since and until (RFC 3339), limit, offset.
func handleListSecurityEvents(events store.SecurityEventsStore, maxLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		if !authz.CanViewSecurityEvents(id) {
			deny(w, id, "read", kindSecurityEvent, "", nil)
			return
		}
		page, err := parsePage(r, maxLimit)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		q := r.URL.Query()
		filter := store.SecurityEventFilter{MsgID: q.Get("msgid"), Page: page}
		if filter.ActorID, err = queryID(r, "actor_id"); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if id.IsPlatformAdmin() {
			if filter.OrganizationID, err = queryID(r, "organization_id"); err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
		} else {
			org := *id.OrganizationID
			filter.OrganizationID = &org
		}
		if v := q.Get("severity"); v != "" {
			sev, err := audit.ParseSeverity(v)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			level := int(sev)
			filter.MaxSeverity = &level
		}
		if filter.Since, err = queryTime(r, "since"); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if filter.Until, err = queryTime(r, "until"); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if filter.Since != nil && filter.Until != nil && filter.Until.Before(*filter.Since) {
			respondWithError(w, http.StatusBadRequest, "until is before since")
			return
		}

		items, total, err := events.List(r.Context(), filter)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, newListResponse(items, total, page))
	}
}

func queryTime(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: expected RFC 3339 timestamp", name)
	}
	return &t, nil
}
