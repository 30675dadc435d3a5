// Package audit provides the security-event (activity) log for BGuard.
//
// Events are written as RFC5424 syslog lines to stdout and persisted to the
// security_events table, where the /security-events API reads them.
//
// # Event Types
//
//   - authn, logout, session, password: authentication
//   - user, organization: account lifecycle
//   - record: create/update/delete of business records
//   - access-denied: requests refused by an authorization check
//   - ai-scan: LLM threat scans and vendor assessments
//   - report: report generation, download and deletion
//
// Failures are logged at Warning severity, successes at Info.
//
// # Usage
//
//	audit.Log(audit.RecordEvent{
//	    Actor:     audit.ActorFrom(id),
//	    Operation: "create",
//	    Kind:      "asset",
//	    RecordID:  asset.ID.String(),
//	    Success:   true,
//	})
//
// Set BGUARD_AUDIT_ENABLED=false to turn logging off.
package audit
