// Package telemetry holds the Prometheus metrics and OpenTelemetry tracing
// setup of the API server.
package telemetry
