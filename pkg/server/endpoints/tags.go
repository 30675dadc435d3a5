package endpoints

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/authz"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

const (
	kindTag      = "tag"
	defaultColor = "#6b7280"
)

var colorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type TagRequest struct {
	OrganizationID *uuid.UUID `json:"organization_id"`
	Name           string     `json:"name"`
	Color          string     `json:"color"`
}

// RegisterTagsEndpoints registers the tag endpoints. Tags are shared by
// everyone in an organization.
func RegisterTagsEndpoints(s *server.Server) {
	tags := s.TagsStore

	router := s.Router.PathPrefix("/tags").Subrouter()
	router.Use(s.SessionMiddleware.Middleware)

	router.HandleFunc("", handleListTags(tags)).Methods("GET")
	router.HandleFunc("", handleCreateTag(tags)).Methods("POST")
	router.HandleFunc("/{id}", handleDeleteTag(tags)).Methods("DELETE")
}

func handleListTags(tags store.TagsStore) http.HandlerFunc {
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

		items, err := tags.List(r.Context(), scope)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if items == nil {
			items = []model.Tag{}
		}
		respondWithJSON(w, http.StatusOK, items)
	}
}

func handleCreateTag(tags store.TagsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		var req TagRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		orgID, ok := targetOrganization(w, id, req.OrganizationID, kindTag)
		if !ok {
			return
		}
		if !authz.CanManageTags(id, orgID) {
			deny(w, id, "create", kindTag, "", &orgID)
			return
		}

		tag := &model.Tag{OrganizationID: orgID, Name: strings.TrimSpace(req.Name), Color: req.Color}
		if tag.Name == "" {
			respondWithError(w, http.StatusBadRequest, "name is required")
			return
		}
		if tag.Color == "" {
			tag.Color = defaultColor
		}
		if !colorRegex.MatchString(tag.Color) {
			respondWithError(w, http.StatusBadRequest, "color must look like #RRGGBB")
			return
		}

		err := tags.Create(r.Context(), tag)
		logRecord(id, "create", kindTag, tag.ID, tag.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, tag)
	}
}

func handleDeleteTag(tags store.TagsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		tagID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		tag, err := tags.Get(r.Context(), tagID)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if !authz.CanManageTags(id, tag.OrganizationID) {
			deny(w, id, "delete", kindTag, tag.ID.String(), &tag.OrganizationID)
			return
		}

		err = tags.Delete(r.Context(), tag.ID)
		logRecord(id, "delete", kindTag, tag.ID, tag.OrganizationID, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
