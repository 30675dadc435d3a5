// Package config provides configuration management for BGuard.
//
// Configuration is layered: built-in defaults, then an optional YAML file
// ($BGUARD_CONFIG_PATH/bguard.yml, default /etc/bguard/bguard.yml), then
// BGUARD_* environment variables. Every attribute remembers which layer
// set it so `bguardctl configuration show` can report it.
//
// Secrets never live in the file:
//
//   - DATABASE_URL: database connection
//   - BGUARD_SESSION_KEY: session token signing key
//   - BGUARD_AI_API_KEY: LLM provider API key
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: report bucket credentials
package config
