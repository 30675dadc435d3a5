// Package server provides the HTTP server for the BGuard API.
//
// It uses gorilla/mux for routing, wraps the router with the gorilla/handlers
// access log and, when origins are configured, CORS. Every matched route is
// traced and counted by the telemetry middleware.
//
// # Server Setup
//
//	srv := server.NewServer(db, cfg, tokens, "0.0.0.0", "8080")
//	srv.Analyzer = analyzer
//	srv.Reports = generator
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Router: HTTP request router
//   - DB: Database connection
//   - The GORM-backed stores, one per resource
//   - SessionMiddleware: session token validation
//   - LoginLimiter: login attempts per client IP and email
//   - Analyzer: the LLM client used for scans and vendor assessments
//   - Reports: the PDF and XLSX report generator
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(srv)
//
// Only /, /status, /metrics and /auth/login are public; everything else
// requires a session.
package server
