package endpoints

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/authz"
	"github.com/bguard/bguard-suite/pkg/identity"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/store"
	"github.com/bguard/bguard-suite/pkg/session"
)

type CreateUserRequest struct {
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Password       string     `json:"password"`
	Role           model.Role `json:"role"`
	OrganizationID *uuid.UUID `json:"organization_id"`
}

type UpdateUserRequest struct {
	Name   *string     `json:"name"`
	Role   *model.Role `json:"role"`
	Active *bool       `json:"active"`
}

// RegisterUsersEndpoints registers the user management endpoints
func RegisterUsersEndpoints(s *server.Server) {
	users := s.UsersStore
	sessions := s.SessionsStore
	maxLimit := s.Config.ListLimitMax

	router := s.Router.PathPrefix("/users").Subrouter()
	router.Use(s.SessionMiddleware.Middleware)

	router.HandleFunc("", handleListUsers(users, maxLimit)).Methods("GET")
	router.HandleFunc("", handleCreateUser(users)).Methods("POST")
	router.HandleFunc("/{id}", handleGetUser(users)).Methods("GET")
	router.HandleFunc("/{id}", handleUpdateUser(users, sessions)).Methods("PUT", "PATCH")
	router.HandleFunc("/{id}", handleDeleteUser(users)).Methods("DELETE")
}

func logUser(id *identity.Identity, op string, u *model.User, transferTo string, err error) {
	audit.Log(audit.UserEvent{
		Actor:          audit.ActorFrom(id),
		Operation:      op,
		TargetID:       u.ID.String(),
		TargetEmail:    u.Email,
		Role:           u.Role.String(),
		TransferTo:     transferTo,
		Success:        err == nil,
		ErrorMessage:   errorMessage(err),
		OrganizationID: u.OrganizationID,
	})
}

// requiresOrganization reports whether users with role must belong to an
// organization.
func requiresOrganization(role model.Role) bool {
	return role == model.RoleBusinessAdmin || role == model.RoleBusinessUser
}

func handleListUsers(users store.UsersStore, maxLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		page, err := parsePage(r, maxLimit)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		filter := store.UserFilter{Search: r.URL.Query().Get("search"), Page: page}
		if v := r.URL.Query().Get("role"); v != "" {
			if filter.Role, err = model.ParseRole(v); err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		orgID, err := queryID(r, "organization_id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		switch {
		case id.IsPlatformAdmin():
			filter.Scope.OrganizationID = orgID
		case id.OrganizationID != nil && authz.CanManageUsers(id, *id.OrganizationID):
			if orgID != nil && *orgID != *id.OrganizationID {
				deny(w, id, "list", "user", "", nil)
				return
			}
			filter.Scope.OrganizationID = id.OrganizationID
		default:
			deny(w, id, "list", "user", "", nil)
			return
		}

		items, total, err := users.List(r.Context(), filter)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, newListResponse(items, total, page))
	}
}

func handleCreateUser(users store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}

		var req CreateUserRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if !strings.Contains(req.Email, "@") {
			respondWithError(w, http.StatusBadRequest, "a valid email is required")
			return
		}
		if req.Role == 0 {
			req.Role = model.RoleBusinessUser
		}
		if !req.Role.IsARole() {
			respondWithError(w, http.StatusBadRequest, "invalid role")
			return
		}
		if req.OrganizationID == nil && !id.IsPlatformAdmin() {
			req.OrganizationID = id.OrganizationID
		}
		if req.OrganizationID == nil && requiresOrganization(req.Role) {
			respondWithError(w, http.StatusBadRequest, "organization_id is required for this role")
			return
		}
		if !authz.CanAssignRole(id, req.OrganizationID, req.Role) {
			deny(w, id, "create", "user", req.Email, req.OrganizationID)
			return
		}

		hash, err := session.HashPassword(req.Password)
		if errors.Is(err, session.ErrWeakPassword) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}

		user := &model.User{
			OrganizationID: req.OrganizationID,
			Email:          req.Email,
			Name:           strings.TrimSpace(req.Name),
			PasswordHash:   hash,
			Role:           req.Role,
			Active:         true,
		}
		err = users.Create(r.Context(), user)
		logUser(id, "create", user, "", err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, user)
	}
}

func loadUser(w http.ResponseWriter, r *http.Request, users store.UsersStore, op string, allowed func(*identity.Identity, *model.User) bool) (*identity.Identity, *model.User, bool) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return nil, nil, false
	}
	userID, ok := pathID(w, r, "id")
	if !ok {
		return nil, nil, false
	}
	user, err := users.Get(r.Context(), userID)
	if err != nil {
		respondWithStoreError(w, r, err)
		return nil, nil, false
	}
	if !allowed(id, user) {
		deny(w, id, op, "user", user.ID.String(), user.OrganizationID)
		return nil, nil, false
	}
	return id, user, true
}

func handleGetUser(users store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, user, ok := loadUser(w, r, users, "read", authz.CanViewUser)
		if !ok {
			return
		}
		respondWithJSON(w, http.StatusOK, user)
	}
}

func handleUpdateUser(users store.UsersStore, sessions store.SessionsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, user, ok := loadUser(w, r, users, "update", authz.CanModifyUser)
		if !ok {
			return
		}

		var req UpdateUserRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		self := user.ID == id.UserID
		if req.Role != nil && *req.Role != user.Role {
			if self {
				respondWithError(w, http.StatusBadRequest, "you cannot change your own role")
				return
			}
			if !req.Role.IsARole() {
				respondWithError(w, http.StatusBadRequest, "invalid role")
				return
			}
			if user.OrganizationID == nil && requiresOrganization(*req.Role) {
				respondWithError(w, http.StatusBadRequest, "role requires an organization")
				return
			}
			if !authz.CanAssignRole(id, user.OrganizationID, *req.Role) {
				deny(w, id, "update", "user", user.ID.String(), user.OrganizationID)
				return
			}
			user.Role = *req.Role
		}

		deactivated := false
		if req.Active != nil && *req.Active != user.Active {
			if self {
				respondWithError(w, http.StatusBadRequest, "you cannot deactivate yourself")
				return
			}
			deactivated = !*req.Active
			user.Active = *req.Active
		}
		if req.Name != nil {
			user.Name = strings.TrimSpace(*req.Name)
		}

		err := users.Update(r.Context(), user)
		logUser(id, "update", user, "", err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}

		if deactivated {
			if _, err := sessions.DeleteForUser(r.Context(), user.ID, uuid.Nil); err != nil {
				log.Printf("failed to revoke sessions of deactivated user %s: %v", user.ID, err)
			}
		}
		respondWithJSON(w, http.StatusOK, user)
	}
}

// handleDeleteUser removes a user after handing everything they own to the
// user named by ?transfer_to, or to the acting administrator.
func handleDeleteUser(users store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, user, ok := loadUser(w, r, users, "delete", authz.CanDeleteUser)
		if !ok {
			return
		}

		transferID := id.UserID
		if v := r.URL.Query().Get("transfer_to"); v != "" {
			parsed, err := uuid.Parse(v)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "invalid transfer_to")
				return
			}
			transferID = parsed
		}
		if transferID == user.ID {
			respondWithError(w, http.StatusBadRequest, "records cannot be transferred to the deleted user")
			return
		}

		transferee, err := users.Get(r.Context(), transferID)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(w, http.StatusBadRequest, "transfer_to user does not exist")
			return
		}
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if !canReceiveRecords(transferee, user) {
			respondWithError(w, http.StatusBadRequest, "transfer_to must be an active user of the same organization")
			return
		}
		if !authz.CanViewUser(id, transferee) {
			deny(w, id, "delete", "user", user.ID.String(), user.OrganizationID)
			return
		}

		transfer, err := users.Delete(r.Context(), user.ID, transferee.ID)
		logUser(id, "delete", user, transferee.Email, err)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, transfer)
	}
}

// canReceiveRecords keeps records inside their organization: the new owner
// must be active and either a member of the same organization or a
// platform administrator.
func canReceiveRecords(transferee, deleted *model.User) bool {
	if !transferee.Active {
		return false
	}
	if transferee.Role == model.RolePlatformAdmin {
		return true
	}
	return deleted.OrganizationID != nil && transferee.BelongsTo(*deleted.OrganizationID)
}
