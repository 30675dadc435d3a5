package audit

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bguard/bguard-suite/pkg/identity"
)

// SDID constants for structured data IDs (RFC5424). 32473 is the IANA
// enterprise number reserved for documentation (RFC 5612); deployments
// that own a PEN can override it at build time.
const (
	BGuardPEN   = 32473
	SDIDAuth    = "auth@32473"
	SDIDSubject = "subject@32473"
	SDIDAction  = "action@32473"
	SDIDClient  = "client@32473"
	SDIDTenant  = "tenant@32473"
)

// Syslog facility constants
const (
	FacilityAuth     = 4  // LOG_AUTH - security/authorization messages
	FacilityAuthPriv = 10 // LOG_AUTHPRIV - security/authorization messages (private)
	FacilityLocal0   = 16 // LOG_LOCAL0 - application activity
)

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota // 0
	SeverityAlert                     // 1
	SeverityCritical                  // 2
	SeverityError                     // 3
	SeverityWarning                   // 4
	SeverityNotice                    // 5
	SeverityInfo                      // 6
	SeverityDebug                     // 7
)

// ParseSeverity accepts a syslog keyword such as "warning" or a number 0-7.
func ParseSeverity(s string) (Severity, error) {
	names := []string{"emergency", "alert", "critical", "error", "warning", "notice", "info", "debug"}
	for i, n := range names {
		if strings.EqualFold(s, n) || s == fmt.Sprint(i) {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("invalid severity %q", s)
}

// Event represents an audit event
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Facility() int
	StructuredData() map[string]map[string]string
}

// Actor identifies who caused an event and from where.
type Actor struct {
	UserID         uuid.UUID
	Email          string
	OrganizationID *uuid.UUID
	ClientIP       string
}

// ActorFrom builds an Actor from a request identity. A nil identity yields
// an anonymous actor.
func ActorFrom(id *identity.Identity) Actor {
	if id == nil {
		return Actor{}
	}
	return Actor{
		UserID:         id.UserID,
		Email:          id.Email,
		OrganizationID: id.OrganizationID,
		ClientIP:       id.ClientIP(),
	}
}

// Name is how the actor appears in messages.
func (a Actor) Name() string {
	switch {
	case a.Email != "":
		return a.Email
	case a.UserID != uuid.Nil:
		return a.UserID.String()
	default:
		return "anonymous"
	}
}

// Attributed is implemented by events that know their actor; the store
// uses it to fill the actor and tenant columns.
type Attributed interface {
	EventActor() Actor
}

// Scoped is implemented by events about a record of a known organization.
// That organization wins over the actor's, so a platform administrator
// acting inside a tenant is visible to the tenant's administrators.
type Scoped interface {
	EventOrganization() *uuid.UUID
}

// tenantOf is the organization an event is filed under.
func tenantOf(event Event) *uuid.UUID {
	if s, ok := event.(Scoped); ok {
		if org := s.EventOrganization(); org != nil {
			return org
		}
	}
	if a, ok := event.(Attributed); ok {
		return a.EventActor().OrganizationID
	}
	return nil
}

// Logger handles audit logging in RFC5424 syslog format
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	hostname string
	appName  string
	pid      int
}

// NewLogger creates a new audit logger
func NewLogger() *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		writer:   os.Stdout,
		hostname: hostname,
		appName:  "bguard",
		pid:      os.Getpid(),
	}
}

// SetWriter sets the output writer for the logger
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	l.writer = w
	l.mu.Unlock()
}

// Log writes an audit event in RFC5424 syslog format
// Format: <PRI>VERSION TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG
func (l *Logger) Log(event Event) {
	pri := event.Facility()*8 + int(event.Severity())

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	sd := formatStructuredData(event.StructuredData())
	if sd == "" {
		sd = "-"
	}

	hostname := l.hostname
	if hostname == "" {
		hostname = "-"
	}

	logLine := fmt.Sprintf("<%d>1 %s %s %s %d %s %s %s\n",
		pri,
		timestamp,
		hostname,
		l.appName,
		l.pid,
		event.MessageID(),
		sd,
		event.Message(),
	)

	l.mu.Lock()
	_, _ = l.writer.Write([]byte(logLine))
	l.mu.Unlock()
}

// formatStructuredData formats the structured data according to RFC5424
// Format: [sdid param1="value1" param2="value2"][sdid2 ...]
func formatStructuredData(sd map[string]map[string]string) string {
	if len(sd) == 0 {
		return ""
	}

	var parts []string
	for _, sdid := range sortedKeys(sd) {
		params := sd[sdid]
		paramParts := []string{sdid}
		for _, key := range sortedKeys(params) {
			paramParts = append(paramParts, fmt.Sprintf("%s=%s", key, escapeSDValue(params[key])))
		}
		parts = append(parts, "["+strings.Join(paramParts, " ")+"]")
	}
	return strings.Join(parts, "")
}

// escapeSDValue escapes special characters in structured data values per RFC5424
func escapeSDValue(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "]", "\\]")
	return "\"" + value + "\""
}

// Default logger instance
var DefaultLogger = NewLogger()

// DefaultStore persists events; nil until SetStore is called or the first
// Log call opens one from the environment.
var (
	DefaultStore *Store
	storeMu      sync.Mutex
	storeInit    bool
)

// Audit enabled state defaults to true and can be turned off with
// BGUARD_AUDIT_ENABLED=false.
var (
	auditEnabled     = true
	auditEnabledOnce sync.Once
)

// IsEnabled returns whether audit logging is enabled
func IsEnabled() bool {
	auditEnabledOnce.Do(func() {
		if env := os.Getenv("BGUARD_AUDIT_ENABLED"); env != "" {
			auditEnabled = env != "false" && env != "0" && env != "no"
		}
	})
	return auditEnabled
}

// SetEnabled allows programmatic control of audit logging
func SetEnabled(enabled bool) {
	auditEnabledOnce.Do(func() {})
	auditEnabled = enabled
}

// SetStore installs the store events are persisted to. Passing nil stops
// persistence.
func SetStore(s *Store) {
	storeMu.Lock()
	DefaultStore = s
	storeInit = true
	storeMu.Unlock()
}

func currentStore() *Store {
	storeMu.Lock()
	defer storeMu.Unlock()
	if !storeInit {
		storeInit = true
		s, err := NewStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "audit: failed to connect to audit database: %v\n", err)
		}
		DefaultStore = s
	}
	return DefaultStore
}

// Log writes an event to the default logger and store (if audit is enabled)
func Log(event Event) {
	if !IsEnabled() {
		return
	}
	DefaultLogger.Log(event)

	if s := currentStore(); s != nil {
		if err := s.Save(event); err != nil {
			fmt.Fprintf(os.Stderr, "audit: failed to save event: %v\n", err)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
