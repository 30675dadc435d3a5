// Package model defines the GORM models for BGuard.
//
// Tables are created by the SQL migrations in db/migrations; the models
// only describe them. Every business record carries an organization_id
// (the tenant) and an owner_id (the user who owns it).
//
// # Core Models
//
//   - Organization, User, Session: tenancy and authentication
//   - ThreatModel, Finding, DesignReview: STRIDE threat modeling
//   - Asset, Tag, DiscoveredEndpoint: asset inventory
//   - ThirdPartyReview: vendor security reviews
//   - Report: generated PDF/XLSX artifacts
//   - SecurityEvent: persisted activity log
package model
