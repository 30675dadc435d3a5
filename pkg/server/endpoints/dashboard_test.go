package endpoints

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

func TestHandleDashboard(t *testing.T) {
	summary := &store.Dashboard{
		FindingsBySeverity: map[string]int64{"HIGH": 2},
		OpenFindings:       2,
		Assets:             5,
	}

	t.Run("members get their organization", func(t *testing.T) {
		dashboard := &MockDashboardStore{}
		dashboard.On("Summary", mock.Anything, mock.MatchedBy(func(s store.Scope) bool {
			return s.OrganizationID != nil && *s.OrganizationID == orgA && s.OwnerID == nil
		})).Return(summary, nil)

		w := httptest.NewRecorder()
		handleDashboard(dashboard)(w, requestWithIdentity(t, "GET", "/dashboard?organization_id="+orgB.String(), nil, plainUser(orgA)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"open_findings":2`)
		dashboard.AssertExpectations(t)
	})

	t.Run("platform admins see everything by default", func(t *testing.T) {
		dashboard := &MockDashboardStore{}
		dashboard.On("Summary", mock.Anything, store.Scope{}).Return(summary, nil)

		w := httptest.NewRecorder()
		handleDashboard(dashboard)(w, requestWithIdentity(t, "GET", "/dashboard", nil, platformAdmin()))

		assert.Equal(t, http.StatusOK, w.Code)
		dashboard.AssertExpectations(t)
	})

	t.Run("no organization", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleDashboard(&MockDashboardStore{})(w, requestWithIdentity(t, "GET", "/dashboard", nil, newIdentity(model.RoleBusinessUser, nil)))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
