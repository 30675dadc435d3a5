// Package session implements password login sessions.
//
// A login creates a row in the sessions table and hands the client an
// HS256 token whose jti is that row's id. The token proves the client holds
// the session; the row decides whether the session is still alive, so
// logging out or changing a password revokes tokens immediately.
package session
