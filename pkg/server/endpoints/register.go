package endpoints

import (
	"github.com/bguard/bguard-suite/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterAuthEndpoints(srv)
	RegisterOrganizationsEndpoints(srv)
	RegisterUsersEndpoints(srv)
	RegisterThreatModelsEndpoints(srv)
	RegisterFindingsEndpoints(srv)
	RegisterDesignReviewsEndpoints(srv)
	RegisterAssetsEndpoints(srv)
	RegisterTagsEndpoints(srv)
	RegisterDiscoveredEndpointsEndpoints(srv)
	RegisterThirdPartyReviewsEndpoints(srv)
	RegisterReportsEndpoints(srv)
	RegisterSecurityEventsEndpoints(srv)
	RegisterDashboardEndpoints(srv)
}
