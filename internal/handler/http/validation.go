package http

import (
	"net/http"

	"medgenie/internal/handler/http/requestid"
)

// InputValidation returns middleware that enforces request-line hygiene
// before any handler runs. It enforces limits on:
// - URI path length (2KB)
// - X-Request-ID header size (128 bytes)
//
// Request body size is limited separately by LimitRequestBody.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Path length limit (2KB)
			// Patient identifiers are short opaque strings, so anything
			// near this size is garbage and gets rejected up front.
			if len(r.URL.Path) > 2048 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestURITooLong)
				_, _ = w.Write([]byte(`{"error":"URI too long"}`))
				return
			}

			// The request ID is echoed into the response header and every
			// log line. An oversized client-supplied value is dropped here
			// so the requestid middleware generates a fresh one instead.
			if len(r.Header.Get(requestid.RequestIDHeader)) > 128 {
				r.Header.Del(requestid.RequestIDHeader)
			}

			next.ServeHTTP(w, r)
		})
	}
}
