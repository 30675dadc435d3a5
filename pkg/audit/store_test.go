package audit

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStoreWithDB(db)

	org := uuid.New()
	actor := testActor
	actor.OrganizationID = &org

	mock.ExpectExec(`INSERT INTO security_events`).
		WithArgs(
			FacilityLocal0,        // facility
			int(SeverityInfo),     // severity
			sqlmock.AnyArg(),      // timestamp
			sqlmock.AnyArg(),      // hostname
			"bguard",              // appname
			sqlmock.AnyArg(),      // procid
			"record",              // msgid
			actor.UserID.String(), // actor_id
			org.String(),          // organization_id
			"10.0.0.1",            // ip
			sqlmock.AnyArg(),      // sdata (JSON)
			sqlmock.AnyArg(),      // message
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(RecordEvent{Actor: actor, Operation: "create", Kind: "asset", RecordID: "a1", Success: true})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSaveSubjectOrganization(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStoreWithDB(db)

	// A platform administrator has no organization of their own; the event
	// is filed under the organization of the user they deleted.
	tenant := uuid.New()
	mock.ExpectExec(`INSERT INTO security_events`).
		WithArgs(
			FacilityAuthPriv,
			int(SeverityInfo),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"bguard",
			sqlmock.AnyArg(),
			"user",
			testActor.UserID.String(),
			tenant.String(),
			"10.0.0.1",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(UserEvent{
		Actor:          testActor,
		Operation:      "delete",
		TargetEmail:    "bob@acme.test",
		Success:        true,
		OrganizationID: &tenant,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSaveSubjectOrganizationWins(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	own, other := uuid.New(), uuid.New()
	actor := testActor
	actor.OrganizationID = &own

	mock.ExpectExec(`INSERT INTO security_events`).
		WithArgs(
			FacilityAuthPriv,
			int(SeverityWarning),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"bguard",
			sqlmock.AnyArg(),
			"access-denied",
			actor.UserID.String(),
			other.String(),
			"10.0.0.1",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewStoreWithDB(db).Save(AccessDeniedEvent{Actor: actor, Operation: "read", Kind: "asset", RecordID: "a1", OrganizationID: &other})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSaveAnonymous(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStoreWithDB(db)

	mock.ExpectExec(`INSERT INTO security_events`).
		WithArgs(
			FacilityAuthPriv,
			int(SeverityWarning),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"bguard",
			sqlmock.AnyArg(),
			"authn",
			nil,
			nil,
			"192.168.1.1",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(AuthenticateEvent{Actor: Actor{ClientIP: "192.168.1.1"}, Email: "nobody@acme.test"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO security_events`).WillReturnError(errors.New("connection refused"))

	err = NewStoreWithDB(db).Save(LogoutEvent{Actor: testActor})
	assert.EqualError(t, err, "connection refused")
}

func TestStoreNilDB(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Save(LogoutEvent{}))
	assert.NoError(t, s.Close())
}

func TestNewStoreWithoutURL(t *testing.T) {
	t.Setenv("BGUARD_AUDIT_DATABASE_URL", "")
	s, err := NewStore()
	assert.NoError(t, err)
	assert.Nil(t, s)
}
