// Package store provides storage abstractions for the BGuard server.
//
// Endpoints depend on these interfaces rather than on GORM so they can be
// tested with mocks. The GORM implementations live in the gorm subpackage.
//
// # Errors
//
// Implementations translate database failures into the sentinel errors
// below so handlers can pick a status code without knowing the driver:
//
//   - ErrNotFound: the record does not exist (or is outside the scope)
//   - ErrConflict: a uniqueness constraint was violated
//   - ErrInvalid: the request references something that cannot be used
//
// # Scoping
//
// List operations take a Scope. A nil OrganizationID means every
// organization (platform administrators); a non-nil OwnerID restricts the
// result to records owned by that user.
package store
