package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind tags a classified line.
type Kind int

const (
	KindEmpty Kind = iota
	KindPlain
	KindHeading
	KindBullet
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindHeading:
		return "heading"
	case KindBullet:
		return "bullet"
	default:
		return "empty"
	}
}

const (
	// HeadingMarker opens a rendered heading. A line that already starts with
	// it stays a heading, so formatting formatted text changes nothing.
	HeadingMarker = "### "
	BulletPrefix  = "- "
)

// bulletMarkers are the first characters that turn a line into a list item.
// The dots are what OCR tends to produce for a hand-drawn bullet.
var bulletMarkers = map[rune]bool{
	'-': true,
	'+': true,
	'*': true,
	'•': true,
	'·': true,
	'▪': true,
	'●': true,
}

// Line is one classified output line. Text holds the content without markers.
type Line struct {
	Kind Kind
	Text string
}

// Render returns the line as it appears in the formatted document.
// Headings carry their own blank-line padding.
func (l Line) Render() string {
	switch l.Kind {
	case KindHeading:
		return "\n" + HeadingMarker + l.Text + "\n"
	case KindBullet:
		return BulletPrefix + l.Text
	case KindPlain:
		return l.Text
	default:
		return ""
	}
}

/*
Classify decides what a single line becomes. Checks run in order:

  - blank after trimming: KindEmpty
  - already starts with HeadingMarker: KindHeading, text kept as is
  - all uppercase and more than minHeadingLength characters: KindHeading,
    text title-cased
  - first character is a bullet marker: KindBullet, marker dropped, empty items
    become KindEmpty
  - anything else: KindPlain

The heading test runs before the bullet test, so "- TODO LIST" is a heading.
A leading '*' or '•' is stripped from heading text, since those glyphs are
only meaningful as bullet markers.
*/
func Classify(line string, minHeadingLength int) Line {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Line{Kind: KindEmpty}
	}

	if strings.HasPrefix(trimmed, HeadingMarker) {
		return Line{Kind: KindHeading, Text: strings.TrimSpace(trimmed[len(HeadingMarker):])}
	}

	if isAllUpper(trimmed) && utf8.RuneCountInString(trimmed) > minHeadingLength {
		return Line{Kind: KindHeading, Text: titleCase(dropArtifactGlyph(trimmed))}
	}

	first, size := utf8.DecodeRuneInString(trimmed)
	if bulletMarkers[first] {
		item := strings.TrimSpace(trimmed[size:])
		if item == "" {
			return Line{Kind: KindEmpty}
		}
		return Line{Kind: KindBullet, Text: item}
	}

	return Line{Kind: KindPlain, Text: trimmed}
}

func dropArtifactGlyph(s string) string {
	for _, glyph := range keptBulletGlyphs {
		if rest, found := strings.CutPrefix(s, glyph); found {
			return strings.TrimSpace(rest)
		}
	}
	return s
}

// isAllUpper requires at least one cased letter and no lowercase or titlecase ones.
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// A Caser keeps state, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
