// Package db provides database connection utilities for BGuard.
//
// Connections are PostgreSQL through GORM. The schema itself is owned by
// the SQL migrations in the top-level db directory, never by AutoMigrate.
//
//	database, err := db.Connect(db.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string (required)
//   - BGUARD_LOG_LEVEL: "debug" logs every statement, "warn" slow queries
//     and errors, "error" errors only
//   - BGUARD_DB_MAX_OPEN_CONNS: pool size (default 25)
//   - BGUARD_DB_MAX_IDLE_CONNS: idle connections kept (default 5)
//   - BGUARD_DB_CONN_MAX_LIFETIME: connection recycle age (default 30m)
package db
