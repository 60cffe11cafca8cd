// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: Process is running (no dependency checks)
//   - Readiness: All dependencies are available
//   - NoContent: Returns 204 for minimal overhead
//
// Usage:
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("GET /health/live", health.Liveness)
//	mux.Handle("GET /health/ready", health.Readiness(
//		logger,
//		responsesJanitor.Healthcheck,
//		resultsJanitor.Healthcheck,
//	))
//	mux.HandleFunc("GET /ping", health.NoContent)
//
// Dependency checks must follow func(context.Context) error signature.
package health
