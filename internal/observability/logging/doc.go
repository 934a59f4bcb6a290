// Package logging builds the slog loggers the service writes through and
// attaches request IDs to them.
//
// Output is JSON by default (text for local work), level set by LOG_LEVEL.
// Every log line emitted while serving a request should carry the same
// request_id, which is what WithRequestID and FromContext are for. Visit
// text and diagnoses never appear in log fields; only identifiers and
// outcomes do.
//
// Example usage:
//
//	import "medgenie/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started", slog.String("version", "1.0"))
//	}
//
//	func handleRequest(ctx context.Context) {
//	    logger := logging.WithRequestID(ctx, slog.Default())
//	    logger.Info("processing request")
//	}
package logging
