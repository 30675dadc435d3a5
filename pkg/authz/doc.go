// Package authz decides what an authenticated identity may do.
//
// There is no policy engine: each decision is a small function over the
// caller's role, organization and the record's owner.
//
//   - PLATFORM_ADMIN: everything, in every organization
//   - BUSINESS_ADMIN: everything inside their own organization, including
//     user management, but never granting PLATFORM_ADMIN
//   - BUSINESS_USER: read and write business records of their organization;
//     delete only what they own; no user management
//   - USER: only the records they own inside their organization
package authz
