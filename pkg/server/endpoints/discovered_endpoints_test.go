package endpoints

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/identity"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

func TestHandleCreateEndpoints(t *testing.T) {
	id := businessUser(orgA)
	asset := &model.Asset{Base: model.Base{ID: uuid.New()}, OrganizationID: orgA, OwnerID: id.UserID, Name: "payments-api"}

	t.Run("normalizes and deduplicates", func(t *testing.T) {
		endpoints := &MockDiscoveredEndpointsStore{}
		assets := &MockAssetsStore{}
		assets.On("Get", mock.Anything, asset.ID).Return(asset, nil).Once()
		endpoints.On("CreateBatch", mock.Anything, mock.MatchedBy(func(eps []model.DiscoveredEndpoint) bool {
			return len(eps) == 2 &&
				eps[0].Method == "GET" && eps[0].Host == "pay.acme.test" && eps[0].Source == "manual" &&
				eps[1].Source == "openapi" && *eps[1].AssetID == asset.ID
		})).Return(int64(1), nil)

		body := CreateEndpointsRequest{Endpoints: []EndpointRequest{
			{Method: "get", Host: "Pay.Acme.test", Path: "/health"},
			{Method: "GET", Host: "pay.acme.test", Path: "/health"},
			{Method: "POST", Host: "pay.acme.test", Path: "/charge", Source: "openapi", AssetID: &asset.ID, AuthRequired: true},
		}}
		w := httptest.NewRecorder()
		handleCreateEndpoints(endpoints, assets)(w, requestWithIdentity(t, "POST", "/discovered-endpoints", body, id))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decodeResponse[CreateEndpointsResponse](t, w)
		assert.Equal(t, 3, resp.Submitted)
		assert.Equal(t, int64(1), resp.Created)
		endpoints.AssertExpectations(t)
		assets.AssertExpectations(t)
	})

	t.Run("rejects invalid entries", func(t *testing.T) {
		for name, ep := range map[string]EndpointRequest{
			"method":   {Method: "FETCH", Host: "a.test", Path: "/"},
			"host":     {Method: "GET", Path: "/"},
			"relative": {Method: "GET", Host: "a.test", Path: "health"},
		} {
			t.Run(name, func(t *testing.T) {
				w := httptest.NewRecorder()
				body := CreateEndpointsRequest{Endpoints: []EndpointRequest{ep}}
				handleCreateEndpoints(&MockDiscoveredEndpointsStore{}, &MockAssetsStore{})(w, requestWithIdentity(t, "POST", "/discovered-endpoints", body, id))

				assert.Equal(t, http.StatusBadRequest, w.Code)
			})
		}
	})

	t.Run("asset of another organization", func(t *testing.T) {
		foreign := &model.Asset{Base: model.Base{ID: uuid.New()}, OrganizationID: orgB}
		assets := &MockAssetsStore{}
		assets.On("Get", mock.Anything, foreign.ID).Return(foreign, nil)

		body := CreateEndpointsRequest{Endpoints: []EndpointRequest{{Method: "GET", Host: "a.test", Path: "/", AssetID: &foreign.ID}}}
		w := httptest.NewRecorder()
		handleCreateEndpoints(&MockDiscoveredEndpointsStore{}, assets)(w, requestWithIdentity(t, "POST", "/discovered-endpoints", body, id))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown asset")
	})

	t.Run("empty batch", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleCreateEndpoints(&MockDiscoveredEndpointsStore{}, &MockAssetsStore{})(w, requestWithIdentity(t, "POST", "/discovered-endpoints", CreateEndpointsRequest{}, id))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleCreateEndpointsRoles(t *testing.T) {
	tests := []struct {
		name string
		id   *identity.Identity
		want int
	}{
		{"user", plainUser(orgA), http.StatusForbidden},
		{"business user", businessUser(orgA), http.StatusCreated},
		{"business admin", businessAdmin(orgA), http.StatusCreated},
		{"other organization", businessAdmin(orgB), http.StatusForbidden},
	}

	body := map[string]any{
		"organization_id": orgA,
		"endpoints":       []map[string]any{{"method": "GET", "host": "api.acme.test", "path": "/x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			audit.DefaultLogger.SetWriter(&buf)
			defer audit.DefaultLogger.SetWriter(io.Discard)

			endpoints := &MockDiscoveredEndpointsStore{}
			endpoints.On("CreateBatch", mock.Anything, mock.Anything).Return(int64(1), nil)

			w := httptest.NewRecorder()
			handleCreateEndpoints(endpoints, &MockAssetsStore{})(w, requestWithIdentity(t, "POST", "/discovered-endpoints", body, tt.id))

			assert.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want == http.StatusForbidden {
				endpoints.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
				assert.Contains(t, buf.String(), " access-denied ")
				assert.Contains(t, buf.String(), orgA.String())
			}
		})
	}
}

func TestHandleListEndpoints(t *testing.T) {
	assetID := uuid.New()
	endpoints := &MockDiscoveredEndpointsStore{}
	endpoints.On("List", mock.Anything, mock.MatchedBy(func(f store.EndpointFilter) bool {
		return *f.Scope.OrganizationID == orgA && *f.AssetID == assetID && f.Page.Limit == 10
	})).Return([]model.DiscoveredEndpoint{{Method: "GET", Host: "a.test", Path: "/"}}, int64(11), nil)

	w := httptest.NewRecorder()
	handleListEndpoints(endpoints, 100)(w, requestWithIdentity(t, "GET", "/discovered-endpoints?asset_id="+assetID.String()+"&limit=10", nil, plainUser(orgA)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse[ListResponse[model.DiscoveredEndpoint]](t, w)
	assert.Equal(t, int64(11), resp.Total)
	assert.Equal(t, 10, resp.Limit)
}
