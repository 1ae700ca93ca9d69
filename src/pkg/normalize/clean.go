package normalize

import (
	"regexp"
	"strings"
)

var (
	nonASCIIPattern   = regexp.MustCompile(`[^\x00-\x7F]+`)
	lineBreakPattern  = regexp.MustCompile(`[\n\t]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CleanExtractedText flattens OCR output into one ASCII paragraph with single spaces.
func CleanExtractedText(text string) string {
	text = nonASCIIPattern.ReplaceAllString(text, "")
	text = lineBreakPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
