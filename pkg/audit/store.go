package audit

import (
	"database/sql"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Store persists security events to the security_events table
type Store struct {
	db *sql.DB
}

// NewStore opens a store from BGUARD_AUDIT_DATABASE_URL.
// Returns nil if it is not set; the server installs a store sharing its
// own connection pool with SetStore instead.
func NewStore() (*Store, error) {
	dbURL := os.Getenv("BGUARD_AUDIT_DATABASE_URL")
	if dbURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// NewStoreWithDB creates a store with an existing database connection
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists an audit event to the database
func (s *Store) Save(event Event) error {
	if s.db == nil {
		return nil
	}

	hostname, _ := os.Hostname()

	sdataJSON, err := json.Marshal(event.StructuredData())
	if err != nil {
		return err
	}

	var actorID *uuid.UUID
	var ip string
	if a, ok := event.(Attributed); ok {
		actor := a.EventActor()
		if actor.UserID != uuid.Nil {
			id := actor.UserID
			actorID = &id
		}
		ip = actor.ClientIP
	}
	orgID := tenantOf(event)

	_, err = s.db.Exec(`
		INSERT INTO security_events (facility, severity, timestamp, hostname, appname, procid, msgid, actor_id, organization_id, ip, sdata, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		event.Facility(),
		int(event.Severity()),
		time.Now().UTC(),
		hostname,
		"bguard",
		strconv.Itoa(os.Getpid()),
		event.MessageID(),
		nullableUUID(actorID),
		nullableUUID(orgID),
		ip,
		sdataJSON,
		event.Message(),
	)

	return err
}

func nullableUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}

// DB returns the underlying database connection (for testing)
func (s *Store) DB() *sql.DB {
	return s.db
}
