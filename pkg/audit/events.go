package audit

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func severity(success bool) Severity {
	if success {
		return SeverityInfo
	}
	return SeverityWarning
}

func withError(msg, errMsg string) string {
	if errMsg != "" {
		return msg + ": " + errMsg
	}
	return msg
}

// base fills the structured data every attributed event shares.
func base(a Actor, operation string, success bool) map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": a.Name(),
		},
		SDIDClient: {
			"ip": a.ClientIP,
		},
		SDIDAction: {
			"operation": operation,
			"result":    result(success),
		},
	}
	if a.OrganizationID != nil {
		sd[SDIDTenant] = map[string]string{"organization": a.OrganizationID.String()}
	}
	return sd
}

// scoped files the structured data under the subject's organization when
// it is known.
func scoped(sd map[string]map[string]string, org *uuid.UUID) map[string]map[string]string {
	if org != nil {
		sd[SDIDTenant] = map[string]string{"organization": org.String()}
	}
	return sd
}

// AuthenticateEvent records a login attempt.
type AuthenticateEvent struct {
	Actor        Actor
	Email        string
	Success      bool
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string { return "authn" }

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated", e.Email)
	}
	return withError(fmt.Sprintf("%s failed to authenticate", e.Email), e.ErrorMessage)
}

func (e AuthenticateEvent) Severity() Severity { return severity(e.Success) }
func (e AuthenticateEvent) Facility() int      { return FacilityAuthPriv }
func (e AuthenticateEvent) EventActor() Actor  { return e.Actor }

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	sd := base(e.Actor, "login", e.Success)
	sd[SDIDAuth]["user"] = e.Email
	sd[SDIDAuth]["method"] = "password"
	return sd
}

// LogoutEvent records the end of a session.
type LogoutEvent struct {
	Actor     Actor
	SessionID string
}

func (e LogoutEvent) MessageID() string  { return "logout" }
func (e LogoutEvent) Message() string    { return fmt.Sprintf("%s logged out", e.Actor.Name()) }
func (e LogoutEvent) Severity() Severity { return SeverityInfo }
func (e LogoutEvent) Facility() int      { return FacilityAuthPriv }
func (e LogoutEvent) EventActor() Actor  { return e.Actor }

func (e LogoutEvent) StructuredData() map[string]map[string]string {
	sd := base(e.Actor, "logout", true)
	sd[SDIDSubject] = map[string]string{"session": e.SessionID}
	return sd
}

// SessionEvent records a rejected session token or cookie.
type SessionEvent struct {
	Actor        Actor
	ErrorMessage string
}

func (e SessionEvent) MessageID() string { return "session" }

func (e SessionEvent) Message() string {
	return withError(fmt.Sprintf("%s presented an invalid session", e.Actor.Name()), e.ErrorMessage)
}

func (e SessionEvent) Severity() Severity { return SeverityWarning }
func (e SessionEvent) Facility() int      { return FacilityAuthPriv }
func (e SessionEvent) EventActor() Actor  { return e.Actor }

func (e SessionEvent) StructuredData() map[string]map[string]string {
	return base(e.Actor, "verify-session", false)
}

// PasswordEvent records a password change.
type PasswordEvent struct {
	Actor         Actor
	TargetUserID  string
	RevokedOthers int64
	Success       bool
	ErrorMessage  string
}

func (e PasswordEvent) MessageID() string { return "password" }

func (e PasswordEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s changed their password", e.Actor.Name())
	}
	return withError(fmt.Sprintf("%s failed to change their password", e.Actor.Name()), e.ErrorMessage)
}

func (e PasswordEvent) Severity() Severity { return severity(e.Success) }
func (e PasswordEvent) Facility() int      { return FacilityAuthPriv }
func (e PasswordEvent) EventActor() Actor  { return e.Actor }

func (e PasswordEvent) StructuredData() map[string]map[string]string {
	sd := base(e.Actor, "change-password", e.Success)
	sd[SDIDSubject] = map[string]string{"user": e.TargetUserID}
	if e.Success {
		sd[SDIDAction]["revoked_sessions"] = strconv.FormatInt(e.RevokedOthers, 10)
	}
	return sd
}

// UserEvent records user lifecycle changes.
type UserEvent struct {
	Actor        Actor
	Operation    string // "create", "update", "delete"
	TargetID     string
	TargetEmail  string
	Role         string
	TransferTo   string
	Success      bool
	ErrorMessage string

	// OrganizationID is the organization of the affected record.
	OrganizationID *uuid.UUID
}

func (e UserEvent) MessageID() string { return "user" }

func (e UserEvent) Message() string {
	target := e.TargetEmail
	if target == "" {
		target = e.TargetID
	}
	if e.Success {
		msg := fmt.Sprintf("%s %sd user %s", e.Actor.Name(), e.Operation, target)
		if e.TransferTo != "" {
			msg += fmt.Sprintf(", records transferred to %s", e.TransferTo)
		}
		return msg
	}
	return withError(fmt.Sprintf("%s tried to %s user %s", e.Actor.Name(), e.Operation, target), e.ErrorMessage)
}

func (e UserEvent) Severity() Severity { return severity(e.Success) }
func (e UserEvent) Facility() int      { return FacilityAuthPriv }
func (e UserEvent) EventActor() Actor  { return e.Actor }

func (e UserEvent) EventOrganization() *uuid.UUID { return e.OrganizationID }

func (e UserEvent) StructuredData() map[string]map[string]string {
	sd := base(e.Actor, e.Operation+"-user", e.Success)
	subject := map[string]string{"user": e.TargetID}
	if e.Role != "" {
		subject["role"] = e.Role
	}
	if e.TransferTo != "" {
		subject["transfer_to"] = e.TransferTo
	}
	sd[SDIDSubject] = subject
	return scoped(sd, e.OrganizationID)
}

// OrganizationEvent records organization lifecycle changes.
type OrganizationEvent struct {
	Actor          Actor
	Operation      string
	OrganizationID string
	Name           string
	Success        bool
	ErrorMessage   string
}

func (e OrganizationEvent) MessageID() string { return "organization" }

func (e OrganizationEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %sd organization %s", e.Actor.Name(), e.Operation, e.Name)
	}
	return withError(fmt.Sprintf("%s tried to %s organization %s", e.Actor.Name(), e.Operation, e.Name), e.ErrorMessage)
}

func (e OrganizationEvent) Severity() Severity { return severity(e.Success) }
func (e OrganizationEvent) Facility() int      { return FacilityAuthPriv }
func (e OrganizationEvent) EventActor() Actor  { return e.Actor }

func (e OrganizationEvent) EventOrganization() *uuid.UUID {
	id, err := uuid.Parse(e.OrganizationID)
	if err != nil {
		return nil
	}
	return &id
}

func (e OrganizationEvent) StructuredData() map[string]map[string]string {
	sd := base(e.Actor, e.Operation+"-organization", e.Success)
	sd[SDIDSubject] = map[string]string{"organization": e.OrganizationID}
	return scoped(sd, e.EventOrganization())
}

// RecordEvent records a change to a business record, e.g. a threat model
// or an asset.
type RecordEvent struct {
	Actor        Actor
	Operation    string // "create", "update", "delete"
	Kind         string // "threat-model", "finding", "asset", ...
	RecordID     string
	Success      bool
	ErrorMessage string

	// OrganizationID is the organization of the affected record.
	OrganizationID *uuid.UUID
}

func (e RecordEvent) MessageID() string { return "record" }

func (e RecordEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %sd %s %s", e.Actor.Name(), e.Operation, e.Kind, e.RecordID)
	}
	return withError(fmt.Sprintf("%s tried to %s %s %s", e.Actor.Name(), e.Operation, e.Kind, e.RecordID), e.ErrorMessage)
}

func (e RecordEvent) Severity() Severity { return severity(e.Success) }
func (e RecordEvent) Facility() int      { return FacilityLocal0 }
func (e RecordEvent) EventActor() Actor  { return e.Actor }

func (e RecordEvent) EventOrganization() *uuid.UUID { return e.OrganizationID }

func (e RecordEvent) StructuredData() map[string]map[string]string {
	sd := base(e.Actor, e.Operation, e.Success)
	sd[SDIDSubject] = map[string]string{"kind": e.Kind, "id": e.RecordID}
	return scoped(sd, e.OrganizationID)
}

// AccessDeniedEvent records a request refused by an authorization check.
type AccessDeniedEvent struct {
	Actor     Actor
	Operation string
	Kind      string
	RecordID  string

	// OrganizationID is the organization of the affected record.
	OrganizationID *uuid.UUID
}

func (e AccessDeniedEvent) MessageID() string { return "access-denied" }

func (e AccessDeniedEvent) Message() string {
	target := e.Kind
	if e.RecordID != "" {
		target += " " + e.RecordID
	}
	return fmt.Sprintf("%s was denied %s on %s", e.Actor.Name(), e.Operation, target)
}

func (e AccessDeniedEvent) Severity() Severity { return SeverityWarning }
func (e AccessDeniedEvent) Facility() int      { return FacilityAuthPriv }
func (e AccessDeniedEvent) EventActor() Actor  { return e.Actor }

func (e AccessDeniedEvent) EventOrganization() *uuid.UUID { return e.OrganizationID }

func (e AccessDeniedEvent) StructuredData() map[string]map[string]string {
	sd := base(e.Actor, e.Operation, false)
	sd[SDIDSubject] = map[string]string{"kind": e.Kind, "id": e.RecordID}
	return scoped(sd, e.OrganizationID)
}

// ScanEvent records an AI scan or vendor assessment.
type ScanEvent struct {
	Actor        Actor
	Kind         string // "threat-model" or "third-party-review"
	SubjectID    string
	Provider     string
	Model        string
	Findings     int
	Success      bool
	ErrorMessage string

	// OrganizationID is the organization of the affected record.
	OrganizationID *uuid.UUID
}

func (e ScanEvent) MessageID() string { return "ai-scan" }

func (e ScanEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s scanned %s %s with %s (%d findings)", e.Actor.Name(), e.Kind, e.SubjectID, e.Provider, e.Findings)
	}
	return withError(fmt.Sprintf("%s failed to scan %s %s", e.Actor.Name(), e.Kind, e.SubjectID), e.ErrorMessage)
}

func (e ScanEvent) Severity() Severity { return severity(e.Success) }
func (e ScanEvent) Facility() int      { return FacilityLocal0 }
func (e ScanEvent) EventActor() Actor  { return e.Actor }

func (e ScanEvent) EventOrganization() *uuid.UUID { return e.OrganizationID }

func (e ScanEvent) StructuredData() map[string]map[string]string {
	sd := base(e.Actor, "ai-scan", e.Success)
	sd[SDIDSubject] = map[string]string{
		"kind":     e.Kind,
		"id":       e.SubjectID,
		"provider": e.Provider,
		"model":    e.Model,
		"findings": strconv.Itoa(e.Findings),
	}
	return scoped(sd, e.OrganizationID)
}

// ReportEvent records report generation, download and deletion.
type ReportEvent struct {
	Actor        Actor
	Operation    string // "generate", "download", "delete"
	ReportID     string
	Kind         string
	Format       string
	Success      bool
	ErrorMessage string

	// OrganizationID is the organization of the affected record.
	OrganizationID *uuid.UUID
}

func (e ReportEvent) MessageID() string { return "report" }

func (e ReportEvent) Message() string {
	what := fmt.Sprintf("%s %s report %s", e.Kind, e.Format, e.ReportID)
	if e.Success {
		return fmt.Sprintf("%s %s: %s", e.Actor.Name(), e.Operation, what)
	}
	return withError(fmt.Sprintf("%s failed to %s %s", e.Actor.Name(), e.Operation, what), e.ErrorMessage)
}

func (e ReportEvent) Severity() Severity { return severity(e.Success) }
func (e ReportEvent) Facility() int      { return FacilityLocal0 }
func (e ReportEvent) EventActor() Actor  { return e.Actor }

func (e ReportEvent) EventOrganization() *uuid.UUID { return e.OrganizationID }

func (e ReportEvent) StructuredData() map[string]map[string]string {
	sd := base(e.Actor, e.Operation+"-report", e.Success)
	sd[SDIDSubject] = map[string]string{"report": e.ReportID, "kind": e.Kind, "format": e.Format}
	return scoped(sd, e.OrganizationID)
}
