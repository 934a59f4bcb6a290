package http

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout returns middleware that enforces an overall request deadline.
// Requests that outlive the duration get 504 Gateway Timeout and their
// context canceled so downstream work stops. Summarization is the slow
// path here: the model call can take several seconds, so the deadline
// must sit well above the summarizer client's own timeout.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()

			gw := &gatedWriter{ResponseWriter: w}
			done := make(chan struct{})

			go func() {
				next.ServeHTTP(gw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case <-done:
			case <-ctx.Done():
				gw.timeout()
			}
		})
	}
}

// gatedWriter serializes writes between the handler goroutine and the
// timeout path. Whichever side writes first wins; the loser's writes
// are dropped.
type gatedWriter struct {
	http.ResponseWriter

	mu       sync.Mutex
	written  bool
	timedOut bool
}

func (g *gatedWriter) WriteHeader(statusCode int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timedOut || g.written {
		return
	}
	g.written = true
	g.ResponseWriter.WriteHeader(statusCode)
}

func (g *gatedWriter) Write(data []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !g.written {
		g.written = true
		g.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return g.ResponseWriter.Write(data)
}

// timeout writes the 504 response unless the handler got there first.
func (g *gatedWriter) timeout() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.timedOut = true
	if g.written {
		return
	}
	g.written = true
	g.ResponseWriter.Header().Set("Content-Type", "application/json")
	g.ResponseWriter.WriteHeader(http.StatusGatewayTimeout)
	_, _ = g.ResponseWriter.Write([]byte(`{"error":"request timeout"}`))
}
