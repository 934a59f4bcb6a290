package pathutil

import (
	"errors"
	"strings"
)

// ErrInvalidPath is returned when a patient history path cannot be parsed.
var ErrInvalidPath = errors.New("invalid path")

// ExtractPatientID extracts the patient identifier from a history URL path.
// The path must have the form "/patient/{patient_id}/history" where the
// identifier is a single non-empty path segment. Identifiers are opaque
// strings, so no further validation is applied.
//
// Parameters:
//   - path: The full URL path (e.g., "/patient/P12345/history")
//
// Returns:
//   - string: The patient identifier
//   - error: ErrInvalidPath if the path does not match the expected form
//
// Example:
//
//	id, err := ExtractPatientID("/patient/P12345/history")
//	// Returns: "P12345", nil
func ExtractPatientID(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "/patient/")
	if !ok {
		return "", ErrInvalidPath
	}

	id, ok := strings.CutSuffix(rest, "/history")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", ErrInvalidPath
	}

	return id, nil
}
