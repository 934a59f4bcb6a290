// Package tracing provides OpenTelemetry tracing integration.
//
// The HTTP middleware extracts incoming W3C Trace Context headers, opens a
// server span per request, and echoes the trace ID back to the caller in the
// X-Trace-Id response header so a failed request can be correlated with its
// log entries and spans.
//
// Features:
//   - Automatic HTTP request tracing
//   - Cross-service trace propagation
//   - Trace ID exposure for client-side correlation
//
// Example usage:
//
//	import "medgenie/internal/observability/tracing"
//
//	handler := tracing.Middleware(mux)
//
//	func processRequest(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "process-request")
//	    defer span.End()
//	    // ... process request ...
//	}
package tracing
