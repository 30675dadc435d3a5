package audit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bguard/bguard-suite/pkg/identity"
)

var testActor = Actor{UserID: uuid.MustParse("6f1c1e0e-3c1b-4d0a-9d55-1f2f0a3b4c5d"), Email: "admin@acme.test", ClientIP: "10.0.0.1"}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	logger.Log(AuthenticateEvent{Actor: Actor{ClientIP: "192.168.1.1"}, Email: "alice@acme.test", Success: true})

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "<86>1 "), "PRI should be authpriv.info: %s", output)
	assert.Contains(t, output, " bguard ")
	assert.Contains(t, output, " authn ")
	assert.Contains(t, output, `ip="192.168.1.1"`)
	assert.Contains(t, output, "alice@acme.test successfully authenticated")
}

func TestFormatStructuredData(t *testing.T) {
	sd := map[string]map[string]string{
		"b@1": {"z": "1", "a": `quo"te]`},
		"a@1": {"k": `back\slash`},
	}
	assert.Equal(t, `[a@1 k="back\\slash"][b@1 a="quo\"te\]" z="1"]`, formatStructuredData(sd))
	assert.Equal(t, "", formatStructuredData(nil))
}

func TestEvents(t *testing.T) {
	tests := []struct {
		name      string
		event     Event
		wantMsg   string
		wantSev   Severity
		wantMsgID string
	}{
		{"login failure", AuthenticateEvent{Actor: testActor, Email: "x@y.z", ErrorMessage: "invalid credentials"}, "x@y.z failed to authenticate: invalid credentials", SeverityWarning, "authn"},
		{"logout", LogoutEvent{Actor: testActor}, "admin@acme.test logged out", SeverityInfo, "logout"},
		{"bad session", SessionEvent{Actor: Actor{ClientIP: "1.1.1.1"}, ErrorMessage: "expired"}, "anonymous presented an invalid session: expired", SeverityWarning, "session"},
		{"user delete", UserEvent{Actor: testActor, Operation: "delete", TargetEmail: "bob@acme.test", TransferTo: "admin@acme.test", Success: true}, "admin@acme.test deleted user bob@acme.test, records transferred to admin@acme.test", SeverityInfo, "user"},
		{"org create failed", OrganizationEvent{Actor: testActor, Operation: "create", Name: "Acme", ErrorMessage: "already exists"}, "admin@acme.test tried to create organization Acme: already exists", SeverityWarning, "organization"},
		{"record update", RecordEvent{Actor: testActor, Operation: "update", Kind: "asset", RecordID: "a1", Success: true}, "admin@acme.test updated asset a1", SeverityInfo, "record"},
		{"denied", AccessDeniedEvent{Actor: testActor, Operation: "delete", Kind: "user", RecordID: "u1"}, "admin@acme.test was denied delete on user u1", SeverityWarning, "access-denied"},
		{"scan", ScanEvent{Actor: testActor, Kind: "threat-model", SubjectID: "t1", Provider: "anthropic", Findings: 3, Success: true}, "admin@acme.test scanned threat-model t1 with anthropic (3 findings)", SeverityInfo, "ai-scan"},
		{"report", ReportEvent{Actor: testActor, Operation: "generate", ReportID: "r1", Kind: "COMPLIANCE", Format: "PDF", Success: true}, "admin@acme.test generate: COMPLIANCE PDF report r1", SeverityInfo, "report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.event.Message())
			assert.Equal(t, tt.wantSev, tt.event.Severity())
			assert.Equal(t, tt.wantMsgID, tt.event.MessageID())

			sd := tt.event.StructuredData()
			require.Contains(t, sd, SDIDAction)
			want := "success"
			if tt.wantSev == SeverityWarning {
				want = "failure"
			}
			assert.Equal(t, want, sd[SDIDAction]["result"])
		})
	}
}

func TestTenantStructuredData(t *testing.T) {
	org := uuid.New()
	a := testActor
	a.OrganizationID = &org

	sd := RecordEvent{Actor: a, Operation: "create", Kind: "tag", Success: true}.StructuredData()
	assert.Equal(t, org.String(), sd[SDIDTenant]["organization"])

	sd = RecordEvent{Actor: testActor, Operation: "create", Kind: "tag", Success: true}.StructuredData()
	assert.NotContains(t, sd, SDIDTenant)
}

func TestSubjectOrganization(t *testing.T) {
	own, subject := uuid.New(), uuid.New()
	a := testActor
	a.OrganizationID = &own

	sd := ReportEvent{Actor: a, Operation: "delete", ReportID: "r1", Success: true, OrganizationID: &subject}.StructuredData()
	assert.Equal(t, subject.String(), sd[SDIDTenant]["organization"])
	assert.Equal(t, &subject, tenantOf(ReportEvent{Actor: a, OrganizationID: &subject}))
	assert.Equal(t, &own, tenantOf(ReportEvent{Actor: a}))
	assert.Nil(t, tenantOf(LogoutEvent{Actor: testActor}))

	org := OrganizationEvent{Actor: testActor, Operation: "update", OrganizationID: subject.String(), Name: "Acme", Success: true}
	assert.Equal(t, &subject, tenantOf(org))
	assert.Nil(t, OrganizationEvent{Actor: testActor, Operation: "create", Name: "Acme"}.EventOrganization())
}

func TestActorFrom(t *testing.T) {
	assert.Equal(t, "anonymous", ActorFrom(nil).Name())

	id := &identity.Identity{UserID: uuid.New()}
	assert.Equal(t, id.UserID.String(), ActorFrom(id).Name())

	id.Email = "carol@acme.test"
	assert.Equal(t, "carol@acme.test", ActorFrom(id).Name())
}

func TestParseSeverity(t *testing.T) {
	s, err := ParseSeverity("warning")
	require.NoError(t, err)
	assert.Equal(t, SeverityWarning, s)

	s, err = ParseSeverity("6")
	require.NoError(t, err)
	assert.Equal(t, SeverityInfo, s)

	_, err = ParseSeverity("loud")
	assert.Error(t, err)
}

func TestLogDisabled(t *testing.T) {
	var buf bytes.Buffer
	DefaultLogger.SetWriter(&buf)
	SetStore(nil)
	SetEnabled(false)
	defer SetEnabled(true)

	Log(LogoutEvent{Actor: testActor})
	assert.Empty(t, buf.String())

	SetEnabled(true)
	Log(LogoutEvent{Actor: testActor})
	assert.Contains(t, buf.String(), "logged out")
}
