// Command bguardctl runs and administers the BGuard Suite API server.
//
// # Quick Start
//
//	# Generate a session signing key
//	export BGUARD_SESSION_KEY=$(head -c 32 /dev/urandom | base64)
//
//	# Run database migrations
//	bguardctl db migrate
//
//	# Create a tenant and the first platform administrator
//	bguardctl organization create "Acme Corp"
//	bguardctl user create --email admin@acme.test --role PLATFORM_ADMIN
//
//	# Start the server
//	bguardctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - BGUARD_SESSION_KEY: Base64-encoded key (at least 32 bytes) signing session tokens
//   - BGUARD_AI_API_KEY: API key of the configured AI provider; scans answer 503 without it
//   - BGUARD_CONFIG_PATH: Directory holding bguard.yml (default: /etc/bguard)
//   - BGUARD_LOG_LEVEL: debug, warn or error sets GORM SQL logging
//   - BGUARD_DB_MAX_OPEN_CONNS, BGUARD_DB_MAX_IDLE_CONNS, BGUARD_DB_CONN_MAX_LIFETIME: pool sizing
//   - BGUARD_AUDIT_ENABLED: false disables the security event log
//   - PORT, BIND_ADDRESS: listen address of the server
//
// Every attribute of bguard.yml can also be set as BGUARD_<ATTRIBUTE>; see
// bguardctl configuration show.
package main
