// Package identity carries the authenticated user through a request.
//
// The session middleware resolves the session token, loads the user and
// stores an Identity in the request context. Handlers read it back to make
// authorization decisions and to attribute security events.
//
//	id := identity.FromUser(user, session.ID).WithRemoteIP(clientIP)
//	ctx = identity.Set(ctx, id)
//
//	id, ok := identity.Get(ctx)
package identity
