// Package server provides the administrative HTTP server of the fsmon daemon.
//
// The server carries the system routes every daemon exposes and any
// application routes passed in through WithHandler:
//
//	GET /health   liveness, always 200
//	GET /ready    200 once the listener is up, 503 otherwise
//	GET /metrics  Prometheus exposition
//	GET /         name, version and the list of routes
//
// Application routes run behind a middleware chain that records metrics,
// negotiates the API version (Accept: application/vnd.nvidia.fsmon.v1+json),
// assigns an X-Request-Id, recovers panics and applies a token bucket rate
// limit. Rejected requests get 429 with Retry-After.
//
// Errors are written as a single JSON shape:
//
//	{
//	  "code": "IO",
//	  "message": "failed to create scratch file",
//	  "details": {"dir": "/tmp", "error": "no space left on device"},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2026-01-02T12:00:00Z",
//	  "retryable": true
//	}
//
// Usage:
//
//	s := server.New(
//	    server.WithName("fsmond"),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/snapshot": h.HandleSnapshot,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// PORT and SHUTDOWN_TIMEOUT_SECONDS override the listen port and the
// graceful shutdown timeout.
package server
