package text

import "strings"

// CountRunes counts the number of Unicode characters (runes) in the given
// text. Counting runes instead of bytes correctly handles multi-byte
// characters such as Japanese, accented letters, and emoji.
//
// The summarization providers share this function so that input caps and
// length windows are measured the same way everywhere.
//
// Examples:
//
//	CountRunes("hello")     // returns 5 (ASCII text)
//	CountRunes("こんにちは")  // returns 5 (Japanese text)
//	CountRunes("")          // returns 0 (empty string)
func CountRunes(text string) int {
	return len([]rune(text))
}

// CountWords counts whitespace-separated words in the given text. The
// summary length window is expressed in model generation units; word count
// is the closest proxy observable on this side of the API, so compliance
// checks use it.
//
// Examples:
//
//	CountWords("patient reports mild fever")  // returns 4
//	CountWords("  spaced   out  ")            // returns 2
//	CountWords("")                            // returns 0
func CountWords(text string) int {
	return len(strings.Fields(text))
}
