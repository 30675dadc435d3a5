package endpoints

import (
	"net/http"

	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

// RegisterDashboardEndpoints registers the dashboard summary
func RegisterDashboardEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/dashboard").Subrouter()
	router.Use(s.SessionMiddleware.Middleware)

	router.HandleFunc("", handleDashboard(s.DashboardStore)).Methods("GET")
}

// handleDashboard summarizes the caller's organization. Platform admins get
// every organization unless they pass organization_id.
func handleDashboard(dashboard store.DashboardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		scope, ok := listScope(w, id, true)
		if !ok {
			return
		}
		if id.IsPlatformAdmin() {
			orgID, err := queryID(r, "organization_id")
			if err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			scope.OrganizationID = orgID
		}

		summary, err := dashboard.Summary(r.Context(), scope)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, summary)
	}
}
