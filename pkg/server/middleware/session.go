package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/config"
	"github.com/bguard/bguard-suite/pkg/identity"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
	"github.com/bguard/bguard-suite/pkg/session"
)

// CookieName is the name of the cookie holding the session token.
const CookieName = "bguard_session"

// SessionAuthenticator is middleware that resolves the session token of a
// request into an Identity.
type SessionAuthenticator struct {
	Tokens        *session.Tokens
	Sessions      store.SessionsStore
	Users         store.UsersStore
	Organizations store.OrganizationsStore
	Config        *config.BGuardConfig

	now func() time.Time
}

// NewSessionAuthenticator creates a new session authenticator middleware
func NewSessionAuthenticator(tokens *session.Tokens, sessions store.SessionsStore, users store.UsersStore, orgs store.OrganizationsStore, cfg *config.BGuardConfig) *SessionAuthenticator {
	return &SessionAuthenticator{
		Tokens:        tokens,
		Sessions:      sessions,
		Users:         users,
		Organizations: orgs,
		Config:        cfg,
		now:           time.Now,
	}
}

// Middleware returns an HTTP middleware that requires a valid session
func (a *SessionAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientIP := ClientIP(r, a.Config)

		token := tokenFromRequest(r)
		if token == "" {
			a.reject(w, clientIP, "Authorization missing")
			return
		}

		sessionID, userID, err := a.Tokens.Parse(token)
		if err != nil {
			a.reject(w, clientIP, "Invalid session token")
			return
		}

		sess, err := a.Sessions.Get(ctx, sessionID)
		if errors.Is(err, store.ErrNotFound) {
			a.reject(w, clientIP, "Session not found")
			return
		}
		if err != nil {
			log.Printf("session lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		now := a.now()
		if sess.UserID != userID {
			a.reject(w, clientIP, "Session does not match token")
			return
		}
		if sess.Expired(now, a.Config.IdleTimeout()) {
			if err := a.Sessions.Delete(ctx, sess.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
				log.Printf("failed to delete expired session %s: %v", sess.ID, err)
			}
			a.reject(w, clientIP, "Session expired")
			return
		}

		user, err := a.Users.Get(ctx, userID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Printf("user lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if user == nil || !user.Active {
			a.reject(w, clientIP, "User is inactive")
			return
		}
		active, err := OrganizationActive(ctx, a.Organizations, user)
		if err != nil {
			log.Printf("organization lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !active {
			a.reject(w, clientIP, "Organization is suspended")
			return
		}

		if err := a.Sessions.Touch(ctx, sess.ID, now); err != nil {
			log.Printf("failed to touch session %s: %v", sess.ID, err)
		}

		id := identity.FromUser(user, sess.ID).WithRemoteIP(net.ParseIP(clientIP))
		next.ServeHTTP(w, r.WithContext(identity.Set(ctx, id)))
	})
}

// OrganizationActive reports whether the organization of user may use the
// service. Users without an organization are never suspended; an
// organization that no longer exists counts as suspended.
func OrganizationActive(ctx context.Context, orgs store.OrganizationsStore, user *model.User) (bool, error) {
	if user.OrganizationID == nil {
		return true, nil
	}
	org, err := orgs.Get(ctx, *user.OrganizationID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return org.Active, nil
}

func (a *SessionAuthenticator) reject(w http.ResponseWriter, clientIP, msg string) {
	audit.Log(audit.SessionEvent{
		Actor:        audit.Actor{ClientIP: clientIP},
		ErrorMessage: msg,
	})
	writeError(w, http.StatusUnauthorized, msg)
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// ClientIP returns the address of the client. X-Forwarded-For is only
// honoured when the direct peer is a trusted proxy, and then the right-most
// hop that is not itself a trusted proxy wins.
func ClientIP(r *http.Request, cfg *config.BGuardConfig) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if cfg == nil || !cfg.IsTrustedProxy(host) {
		return host
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !cfg.IsTrustedProxy(hop) {
			return hop
		}
		host = hop
	}
	return host
}

// SetSessionCookie stores token in an HttpOnly cookie that expires with the
// session.
func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
