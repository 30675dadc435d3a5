package endpoints

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/config"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/middleware"
	"github.com/bguard/bguard-suite/pkg/server/store"
	"github.com/bguard/bguard-suite/pkg/session"
	"github.com/bguard/bguard-suite/pkg/telemetry"
)

const invalidCredentials = "invalid email or password"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

type SessionResponse struct {
	SessionID uuid.UUID   `json:"session_id"`
	User      *model.User `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// authService groups what the login flow needs
type authService struct {
	users         store.UsersStore
	organizations store.OrganizationsStore
	sessions      store.SessionsStore
	tokens        *session.Tokens
	limiter       *session.Limiter
	metrics       *telemetry.Metrics
	cfg           *config.BGuardConfig
	now           func() time.Time
}

// RegisterAuthEndpoints registers login, logout, session and password endpoints
func RegisterAuthEndpoints(s *server.Server) {
	svc := &authService{
		users:         s.UsersStore,
		organizations: s.OrganizationsStore,
		sessions:      s.SessionsStore,
		tokens:        s.Tokens,
		limiter:       s.LoginLimiter,
		metrics:       s.Metrics,
		cfg:           s.Config,
		now:           time.Now,
	}

	s.Router.HandleFunc("/auth/login", handleLogin(svc)).Methods("POST")

	authRouter := s.Router.PathPrefix("/auth").Subrouter()
	authRouter.Use(s.SessionMiddleware.Middleware)
	authRouter.HandleFunc("/logout", handleLogout(svc)).Methods("POST")
	authRouter.HandleFunc("/session", handleSession(svc.users)).Methods("GET")
	authRouter.HandleFunc("/password", handleChangePassword(svc)).Methods("PUT")
}

func handleLogin(svc *authService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := middleware.ClientIP(r, svc.cfg)
		actor := audit.Actor{ClientIP: clientIP}

		var req LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || req.Password == "" {
			respondWithError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		fail := func(code int, msg, auditMsg string) {
			audit.Log(audit.AuthenticateEvent{Actor: actor, Email: email, ErrorMessage: auditMsg})
			svc.metrics.ObserveLogin(false)
			respondWithError(w, code, msg)
		}

		if !svc.limiter.Allow(clientIP + "|" + email) {
			fail(http.StatusTooManyRequests, "too many login attempts, try again later", "rate limited")
			return
		}

		user, err := svc.users.GetByEmail(r.Context(), email)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			respondWithStoreError(w, r, err)
			return
		}

		var hash string
		if user != nil {
			hash = user.PasswordHash
		}
		if !session.CheckPasswordOrDummy(hash, req.Password) {
			fail(http.StatusUnauthorized, invalidCredentials, invalidCredentials)
			return
		}
		if !user.Active {
			fail(http.StatusUnauthorized, invalidCredentials, "user is inactive")
			return
		}
		active, err := middleware.OrganizationActive(r.Context(), svc.organizations, user)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if !active {
			fail(http.StatusUnauthorized, "organization is suspended", "organization is suspended")
			return
		}

		now := svc.now()
		sess := &model.Session{
			ID:         uuid.New(),
			UserID:     user.ID,
			IP:         clientIP,
			UserAgent:  r.UserAgent(),
			LastSeenAt: now,
			ExpiresAt:  now.Add(svc.cfg.SessionLifetime()),
		}
		if err := svc.sessions.Create(r.Context(), sess); err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		token, err := svc.tokens.Issue(sess.ID, user.ID, sess.ExpiresAt)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if err := svc.users.RecordLogin(r.Context(), user.ID, now); err != nil {
			log.Printf("failed to record login for %s: %v", user.ID, err)
		}
		user.LastLoginAt = &now

		actor.UserID = user.ID
		actor.Email = user.Email
		actor.OrganizationID = user.OrganizationID
		audit.Log(audit.AuthenticateEvent{Actor: actor, Email: email, Success: true})
		svc.metrics.ObserveLogin(true)

		middleware.SetSessionCookie(w, token, sess.ExpiresAt, svc.cfg.SecureCookies())
		respondWithJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: sess.ExpiresAt, User: user})
	}
}

func handleLogout(svc *authService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}

		if err := svc.sessions.Delete(r.Context(), id.SessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
			respondWithStoreError(w, r, err)
			return
		}
		audit.Log(audit.LogoutEvent{Actor: audit.ActorFrom(id), SessionID: id.SessionID.String()})

		middleware.ClearSessionCookie(w, svc.cfg.SecureCookies())
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSession(usersStore store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}

		user, err := usersStore.Get(r.Context(), id.UserID)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, SessionResponse{SessionID: id.SessionID, User: user})
	}
}

func handleChangePassword(svc *authService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireIdentity(w, r)
		if !ok {
			return
		}

		var req ChangePasswordRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		fail := func(code int, msg string) {
			audit.Log(audit.PasswordEvent{Actor: audit.ActorFrom(id), TargetUserID: id.UserID.String(), ErrorMessage: msg})
			respondWithError(w, code, msg)
		}

		user, err := svc.users.Get(r.Context(), id.UserID)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if !session.CheckPassword(user.PasswordHash, req.CurrentPassword) {
			fail(http.StatusForbidden, "current password is incorrect")
			return
		}

		hash, err := session.HashPassword(req.NewPassword)
		if errors.Is(err, session.ErrWeakPassword) {
			fail(http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if err := svc.users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
			respondWithStoreError(w, r, err)
			return
		}

		revoked, err := svc.sessions.DeleteForUser(r.Context(), user.ID, id.SessionID)
		if err != nil {
			log.Printf("failed to revoke sessions of %s: %v", user.ID, err)
		}
		audit.Log(audit.PasswordEvent{
			Actor:         audit.ActorFrom(id),
			TargetUserID:  user.ID.String(),
			RevokedOthers: revoked,
			Success:       true,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
