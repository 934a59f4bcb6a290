// Package text provides utilities for text processing and analysis.
// This package includes reusable functions for cleaning model output and
// counting characters that are shared across summarization providers and
// the visit usecase.
package text

import "strings"

// artifactMarkers are the boundary tokens transformer models leak into
// generated text: the BERT-style bracket pair and the BART/RoBERTa-style
// angle-bracket pair.
var artifactMarkers = []string{"[CLS]", "[SEP]", "<s>", "</s>"}

// CleanModelArtifacts removes all occurrences of the known artifact markers
// from s, collapses every run of whitespace into a single space, and trims
// leading and trailing whitespace. It is a pure function and never fails.
//
// Examples:
//
//	CleanModelArtifacts("[CLS] patient stable [SEP]")  // "patient stable"
//	CleanModelArtifacts("<s>fever  and\n\tcough</s>")  // "fever and cough"
//	CleanModelArtifacts("   ")                         // ""
func CleanModelArtifacts(s string) string {
	for _, marker := range artifactMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	// Fields splits on any Unicode whitespace and drops empty segments,
	// so joining with a single space both collapses and trims.
	return strings.Join(strings.Fields(s), " ")
}

// TruncateRunes returns the first limit runes of s. Strings at or under the
// limit are returned unchanged. Counting runes instead of bytes keeps
// multi-byte characters intact at the cut point.
func TruncateRunes(s string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
