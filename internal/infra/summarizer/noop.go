// Package summarizer provides model-backed text summarization implementations.
package summarizer

import (
	"context"

	"medgenie/internal/utils/text"
)

// NoOp is a summarizer that returns the original text without calling any
// model. This is useful for testing and keyless development.
type NoOp struct{}

// NewNoOp creates a new NoOp summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Summarize returns the original text truncated to the first 200 characters,
// mirroring the shape of the degraded summary the service produces when a
// provider fails.
func (n *NoOp) Summarize(_ context.Context, input string) (string, error) {
	const maxLength = 200
	if text.CountRunes(input) <= maxLength {
		return input, nil
	}
	return text.TruncateRunes(input, maxLength) + "...", nil
}
