package summarizer

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// Window bounds the length of a generated summary. The bounds are handed to
// hosted models as generation limits in model units (tokens for the Inference
// API, a word target for chat models). Locally, word count is the closest
// observable proxy and is what compliance checks measure.
type Window struct {
	// MinLength is the lower bound for the generated summary.
	MinLength int

	// MaxLength is the upper bound for the generated summary.
	// Valid range: above MinLength, at most 1024.
	MaxLength int
}

// SummarizerConfig is a common interface for summarizer provider
// configuration. Implementations expose their length window and validate
// themselves so providers can be constructed uniformly.
type SummarizerConfig interface {
	// GetWindow returns the summary length window.
	// The window should satisfy ValidateWindow.
	GetWindow() Window

	// Validate validates the configuration and returns an error if invalid.
	// This should check all configuration fields for validity.
	Validate() error
}

// maxWindowLength is the largest allowed upper bound for a summary window.
// Hosted summarization models reject generation limits beyond their output
// capacity, so anything larger is a configuration mistake.
const maxWindowLength = 1024

// DefaultWindow returns the summary length window the service ships with.
// The bounds are the generation parameters bart-large-cnn is usually run
// with (min_length=30, max_length=130).
func DefaultWindow() Window {
	return Window{MinLength: 30, MaxLength: 130}
}

// ValidateWindow validates that a summary window is usable: both bounds
// positive, the minimum strictly below the maximum, and the maximum no
// larger than 1024.
//
// Parameters:
//   - w: The window to validate
//
// Returns:
//   - nil if the window is valid
//   - error describing the first violated bound otherwise
//
// Example:
//
//	err := ValidateWindow(Window{MinLength: 30, MaxLength: 130})  // nil (valid)
//	err := ValidateWindow(Window{MinLength: 0, MaxLength: 130})   // error: "summary min length must be positive, got 0"
//	err := ValidateWindow(Window{MinLength: 30, MaxLength: 2000}) // error: "summary max length 2000 exceeds maximum 1024"
func ValidateWindow(w Window) error {
	if w.MinLength <= 0 {
		return fmt.Errorf("summary min length must be positive, got %d", w.MinLength)
	}
	if w.MaxLength <= w.MinLength {
		return fmt.Errorf("summary max length %d must exceed min length %d", w.MaxLength, w.MinLength)
	}
	if w.MaxLength > maxWindowLength {
		return fmt.Errorf("summary max length %d exceeds maximum %d", w.MaxLength, maxWindowLength)
	}
	return nil
}

// LoadWindowFromEnv reads the summary window from environment variables with
// fallback to defaults. Invalid or out-of-range values fall back to the
// default window with a warning log.
//
// Environment variables:
//   - SUMMARY_MIN_LENGTH: Lower bound (default: 30)
//   - SUMMARY_MAX_LENGTH: Upper bound (default: 130, max: 1024)
//
// Returns the validated window.
func LoadWindowFromEnv() Window {
	window := DefaultWindow()

	if envMin := os.Getenv("SUMMARY_MIN_LENGTH"); envMin != "" {
		parsed, err := strconv.Atoi(envMin)
		if err != nil {
			slog.Warn("Invalid SUMMARY_MIN_LENGTH format, using default",
				slog.String("value", envMin),
				slog.Int("default", window.MinLength),
				slog.String("error", err.Error()))
		} else {
			window.MinLength = parsed
		}
	}

	if envMax := os.Getenv("SUMMARY_MAX_LENGTH"); envMax != "" {
		parsed, err := strconv.Atoi(envMax)
		if err != nil {
			slog.Warn("Invalid SUMMARY_MAX_LENGTH format, using default",
				slog.String("value", envMax),
				slog.Int("default", window.MaxLength),
				slog.String("error", err.Error()))
		} else {
			window.MaxLength = parsed
		}
	}

	if err := ValidateWindow(window); err != nil {
		slog.Warn("Summary window out of valid range, using defaults",
			slog.Int("min_length", window.MinLength),
			slog.Int("max_length", window.MaxLength),
			slog.Int("default_min", DefaultWindow().MinLength),
			slog.Int("default_max", DefaultWindow().MaxLength),
			slog.String("error", err.Error()))
		return DefaultWindow()
	}

	return window
}
