package identity

import (
	"context"
	"net"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated user behind a request.
// It combines the session with request-specific context.
type Identity struct {
	UserID         uuid.UUID
	OrganizationID *uuid.UUID
	Role           model.Role
	Email          string
	SessionID      uuid.UUID

	// Request context
	RemoteIP net.IP
}

// FromUser creates an Identity for a user and the session they hold.
func FromUser(u *model.User, sessionID uuid.UUID) *Identity {
	return &Identity{
		UserID:         u.ID,
		OrganizationID: u.OrganizationID,
		Role:           u.Role,
		Email:          u.Email,
		SessionID:      sessionID,
	}
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// IsPlatformAdmin returns true for platform administrators.
func (i *Identity) IsPlatformAdmin() bool {
	return i.Role == model.RolePlatformAdmin
}

// InOrganization reports whether the identity is a member of orgID.
func (i *Identity) InOrganization(orgID uuid.UUID) bool {
	return i.OrganizationID != nil && *i.OrganizationID == orgID
}

// ClientIP returns the remote IP as a string, or "" when unknown.
func (i *Identity) ClientIP() string {
	if i.RemoteIP == nil {
		return ""
	}
	return i.RemoteIP.String()
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
