// Package responsewriter lets middleware observe what a handler wrote.
// The access log and the metrics middleware both need the final status
// code and body size after the handler returns, so they share one wrapper
// instead of each carrying their own.
package responsewriter

import "net/http"

// Recorder wraps an http.ResponseWriter and records the status code and
// the number of body bytes written through it.
type Recorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

// Wrap returns a Recorder for w. The recorded status starts at 200
// because handlers that never call WriteHeader respond with 200.
func Wrap(w http.ResponseWriter) *Recorder {
	return &Recorder{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the first status code and forwards it. Later calls
// are dropped, matching net/http treating them as superfluous.
func (rec *Recorder) WriteHeader(code int) {
	if rec.wroteHeader {
		return
	}
	rec.status = code
	rec.wroteHeader = true
	rec.ResponseWriter.WriteHeader(code)
}

// Write forwards the body bytes and adds the written count to the total.
func (rec *Recorder) Write(b []byte) (int, error) {
	if !rec.wroteHeader {
		rec.WriteHeader(http.StatusOK)
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

// Status returns the recorded status code.
func (rec *Recorder) Status() int { return rec.status }

// Bytes returns how many body bytes the handler wrote.
func (rec *Recorder) Bytes() int { return rec.bytes }

// Unwrap exposes the underlying writer to http.ResponseController.
func (rec *Recorder) Unwrap() http.ResponseWriter { return rec.ResponseWriter }
