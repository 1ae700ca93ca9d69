/*
Package normalize turns raw, line-oriented OCR output into a small markdown-like
document: headings, bullet items, and plain lines, with a table of known
recognition errors repaired along the way.

Every function here is total. Any string, including the empty one, yields a
well-formed (possibly empty) result.
*/
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const DefaultMinHeadingLength = 3

/*
Options controls FormatText.

CorrectSpelling is accepted so callers can already pass it, but supplementary
spell correction is not yet implemented and the flag has no effect.
*/
type Options struct {
	CorrectSpelling bool
	// MinHeadingLength is the length an all-caps line must exceed to become a
	// heading. Zero means DefaultMinHeadingLength.
	MinHeadingLength int
	// Corrections defaults to DefaultCorrectionTable.
	Corrections *CorrectionTable
}

var (
	punctuationReplacer = strings.NewReplacer("—", "-", "–", "-", "_", " ")
	artifactPattern     = regexp.MustCompile(`[|~•*]`)
	dashRunPattern      = regexp.MustCompile(`[-=]{2,}`)
	spaceRunPattern     = regexp.MustCompile(`[^\S\n]{2,}`)
	newlineRunPattern   = regexp.MustCompile(`\n{2,}`)
	paddingRunPattern   = regexp.MustCompile(`\n{3,}`)
)

// keptBulletGlyphs are artifact characters that still mark a list item when
// they open a line.
var keptBulletGlyphs = []string{"*", "•"}

/*
FormatText cleans and structures raw OCR text.

The text passes through, in order: punctuation normalization, artifact
stripping, run collapsing, dictionary correction over the whole text, and
per-line classification. Classification sees the corrected text, so a
correction can decide whether a line is a heading.
*/
func FormatText(text string, opts Options) string {
	minHeadingLength := opts.MinHeadingLength
	if minHeadingLength == 0 {
		minHeadingLength = DefaultMinHeadingLength
	}
	table := opts.Corrections
	if table == nil {
		table = defaultTable
	}

	text = normalizePunctuation(text)
	text = stripArtifacts(text)
	text = collapseRuns(text)
	text = table.Apply(text)

	lines := Structure(text, minHeadingLength)
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Kind == KindHeading {
			// Title casing can bring back a capitalized known error.
			line.Text = table.Apply(line.Text)
		}
		rendered = append(rendered, line.Render())
	}
	return reassemble(rendered)
}

// Structure classifies every line of text and drops the empty ones.
func Structure(text string, minHeadingLength int) []Line {
	var lines []Line
	for _, raw := range strings.Split(text, "\n") {
		line := Classify(raw, minHeadingLength)
		if line.Kind == KindEmpty {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func normalizePunctuation(text string) string {
	return punctuationReplacer.Replace(norm.NFC.String(text))
}

/*
stripArtifacts removes stray OCR symbols. A '*' or '•' that opens a line
(after indentation and border noise) and is followed by whitespace is a
bullet, not noise, and survives. "**bold**" loses all of its stars.
*/
func stripArtifacts(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		body := strings.TrimLeft(line, " \t\r\f\v|~")
		lead := artifactPattern.ReplaceAllString(line[:len(line)-len(body)], "")
		marker := ""
		for _, glyph := range keptBulletGlyphs {
			rest, found := strings.CutPrefix(body, glyph)
			if found && startsWithSpace(rest) {
				marker, body = glyph, rest
				break
			}
		}
		lines[i] = lead + marker + artifactPattern.ReplaceAllString(body, "")
	}
	return strings.Join(lines, "\n")
}

func startsWithSpace(s string) bool {
	return s != "" && (s[0] == ' ' || s[0] == '\t')
}

// collapseRuns squeezes dash/equals runs, horizontal whitespace runs, and blank lines.
func collapseRuns(text string) string {
	text = dashRunPattern.ReplaceAllString(text, "-")
	text = spaceRunPattern.ReplaceAllString(text, " ")
	return newlineRunPattern.ReplaceAllString(text, "\n")
}

func reassemble(rendered []string) string {
	out := strings.Join(rendered, "\n")
	out = paddingRunPattern.ReplaceAllString(out, "\n\n")
	return strings.Trim(out, "\n")
}
