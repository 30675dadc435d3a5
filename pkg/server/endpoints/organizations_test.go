package endpoints

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

func TestHandleCreateOrganization(t *testing.T) {
	t.Run("derives the slug", func(t *testing.T) {
		orgs := &MockOrganizationsStore{}
		orgs.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Organization) bool {
			return o.Name == "Acme Corp." && o.Slug == "acme-corp" && o.Active
		})).Return(nil)

		w := httptest.NewRecorder()
		handleCreateOrganization(orgs)(w, requestWithIdentity(t, "POST", "/organizations", map[string]any{"name": "Acme Corp."}, platformAdmin()))

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		orgs.AssertExpectations(t)
	})

	t.Run("only platform admins", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleCreateOrganization(&MockOrganizationsStore{})(w, requestWithIdentity(t, "POST", "/organizations", map[string]any{"name": "Evil"}, businessAdmin(orgA)))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("name taken", func(t *testing.T) {
		orgs := &MockOrganizationsStore{}
		orgs.On("Create", mock.Anything, mock.Anything).Return(store.ErrConflict)

		w := httptest.NewRecorder()
		handleCreateOrganization(orgs)(w, requestWithIdentity(t, "POST", "/organizations", map[string]any{"name": "Acme"}, platformAdmin()))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("punctuation only", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleCreateOrganization(&MockOrganizationsStore{})(w, requestWithIdentity(t, "POST", "/organizations", map[string]any{"name": "!!!"}, platformAdmin()))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleUpdateOrganization(t *testing.T) {
	current := func() *model.Organization {
		return &model.Organization{Base: model.Base{ID: orgA}, Name: "Acme", Slug: "acme", Active: true}
	}

	t.Run("business admin renames", func(t *testing.T) {
		orgs := &MockOrganizationsStore{}
		orgs.On("Get", mock.Anything, orgA).Return(current(), nil)
		orgs.On("Update", mock.Anything, mock.MatchedBy(func(o *model.Organization) bool {
			return o.Name == "Acme Labs" && o.Slug == "acme"
		})).Return(nil)

		w := httptest.NewRecorder()
		handleUpdateOrganization(orgs)(w, withID(requestWithIdentity(t, "PATCH", "/organizations/x", map[string]any{"name": "Acme Labs"}, businessAdmin(orgA)), orgA))

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		orgs.AssertExpectations(t)
	})

	t.Run("business admin cannot suspend", func(t *testing.T) {
		orgs := &MockOrganizationsStore{}
		orgs.On("Get", mock.Anything, orgA).Return(current(), nil)

		w := httptest.NewRecorder()
		handleUpdateOrganization(orgs)(w, withID(requestWithIdentity(t, "PATCH", "/organizations/x", map[string]any{"active": false}, businessAdmin(orgA)), orgA))

		assert.Equal(t, http.StatusForbidden, w.Code)
		orgs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("business user cannot rename", func(t *testing.T) {
		orgs := &MockOrganizationsStore{}
		orgs.On("Get", mock.Anything, orgA).Return(current(), nil)

		w := httptest.NewRecorder()
		handleUpdateOrganization(orgs)(w, withID(requestWithIdentity(t, "PATCH", "/organizations/x", map[string]any{"name": "Mine"}, businessUser(orgA)), orgA))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHandleListOrganizations(t *testing.T) {
	t.Run("members see their own organization", func(t *testing.T) {
		orgs := &MockOrganizationsStore{}
		orgs.On("List", mock.Anything, mock.MatchedBy(func(s store.Scope) bool {
			return s.OrganizationID != nil && *s.OrganizationID == orgA
		}), mock.Anything).Return([]model.Organization{{Base: model.Base{ID: orgA}, Name: "Acme"}}, int64(1), nil)

		w := httptest.NewRecorder()
		handleListOrganizations(orgs, 100)(w, requestWithIdentity(t, "GET", "/organizations", nil, plainUser(orgA)))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse[ListResponse[model.Organization]](t, w)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Acme", resp.Items[0].Name)
	})

	t.Run("users without organization see nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleListOrganizations(&MockOrganizationsStore{}, 100)(w, requestWithIdentity(t, "GET", "/organizations", nil, newIdentity(model.RoleUser, nil)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"items":[],"total":0,"limit":50,"offset":0}`, w.Body.String())
	})
}

func TestHandleDeleteOrganization(t *testing.T) {
	orgs := &MockOrganizationsStore{}
	orgs.On("Get", mock.Anything, orgA).Return(&model.Organization{Base: model.Base{ID: orgA}, Name: "Acme"}, nil)
	orgs.On("Delete", mock.Anything, orgA).Return(nil)

	w := httptest.NewRecorder()
	handleDeleteOrganization(orgs)(w, withID(requestWithIdentity(t, "DELETE", "/organizations/x", nil, businessAdmin(orgA)), orgA))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	handleDeleteOrganization(orgs)(w, withID(requestWithIdentity(t, "DELETE", "/organizations/x", nil, platformAdmin()), orgA))
	assert.Equal(t, http.StatusNoContent, w.Code)
	orgs.AssertNumberOfCalls(t, "Delete", 1)
}
