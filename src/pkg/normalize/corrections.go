package normalize

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
	"gopkg.in/yaml.v3"
)

/*
Correction replaces a recurring recognition error with its intended text.

Matching is a case-sensitive literal substring search unless WholeWord is
set, in which case Wrong only matches between word boundaries. Short rules
such as "te" -> "to" need WholeWord, otherwise they rewrite the inside of
ordinary words ("items").
*/
type Correction struct {
	Wrong     string `yaml:"wrong" json:"wrong"`
	Right     string `yaml:"right" json:"right"`
	WholeWord bool   `yaml:"whole_word,omitempty" json:"whole_word,omitempty"`
}

// CorrectionTable is an ordered, immutable list of corrections.
type CorrectionTable struct {
	rules []correctionRule
}

type correctionRule struct {
	Correction
	pattern *regexp.Regexp // nil for literal rules
}

// DefaultCorrections returns the built-in table, in application order.
func DefaultCorrections() []Correction {
	return []Correction{
		{Wrong: "Improoved", Right: "Improved"},
		{Wrong: "Nowe", Right: "Noise"},
		{Wrong: "etrective", Right: "Effective"},
		{Wrong: "monsuntfonn handiwrie", Right: "non-uniform handwriting"},
		{Wrong: "handiwrie", Right: "handwriting"},
		{Wrong: "multple", Right: "multiple"},
		{Wrong: "te", Right: "to", WholeWord: true},
		{Wrong: "etye", Right: "style"},
		{Wrong: "bettor", Right: "better"},
	}
}

var defaultTable = mustCorrectionTable(DefaultCorrections())

// DefaultCorrectionTable returns the table FormatText uses when none is given.
func DefaultCorrectionTable() *CorrectionTable {
	return defaultTable
}

// NewCorrectionTable validates corrections and keeps their order.
func NewCorrectionTable(corrections []Correction) (table *CorrectionTable, e *xerr.Error) {
	table = &CorrectionTable{rules: make([]correctionRule, 0, len(corrections))}
	for i, correction := range corrections {
		if correction.Wrong == "" {
			err := fmt.Errorf("correction #%d has an empty 'wrong' value", i+1)
			e = xerr.NewError(err, "build correction table", fmt.Sprintf("right='%s'", correction.Right))
			return nil, e
		}
		rule := correctionRule{Correction: correction}
		if correction.WholeWord {
			rule.pattern = regexp.MustCompile(`\b` + regexp.QuoteMeta(correction.Wrong) + `\b`)
		}
		table.rules = append(table.rules, rule)
	}
	return table, e
}

func mustCorrectionTable(corrections []Correction) *CorrectionTable {
	table, e := NewCorrectionTable(corrections)
	if e != nil {
		panic(e)
	}
	return table
}

// Apply runs every rule once over the whole text, in table order.
func (t *CorrectionTable) Apply(text string) string {
	for _, rule := range t.rules {
		if rule.pattern != nil {
			text = rule.pattern.ReplaceAllLiteralString(text, rule.Right)
			continue
		}
		text = strings.ReplaceAll(text, rule.Wrong, rule.Right)
	}
	return text
}

// Corrections returns a copy of the rules in application order.
func (t *CorrectionTable) Corrections() []Correction {
	corrections := make([]Correction, len(t.rules))
	for i, rule := range t.rules {
		corrections[i] = rule.Correction
	}
	return corrections
}

func (t *CorrectionTable) Len() int { return len(t.rules) }

/*
LoadCorrections reads a correction table from a YAML (or JSON) file.

Two layouts are accepted, and both keep file order:

	# list form, supports whole_word
	- {wrong: multple, right: multiple}
	- {wrong: te, right: to, whole_word: true}

	# mapping form, literal rules only
	multple: multiple
	bettor: better
*/
func LoadCorrections(path string) (table *CorrectionTable, e *xerr.Error) {
	fileBytes, readErr := os.ReadFile(path)
	if readErr != nil {
		e = xerr.NewError(readErr, "read corrections file", path)
		return nil, e
	}

	corrections, e := parseCorrections(path, fileBytes)
	if e != nil {
		return nil, e
	}

	table, e = NewCorrectionTable(corrections)
	if e != nil {
		return nil, e
	}

	tl.Log(tl.Info1, palette.Green, "Loaded '%d' corrections from '%s'", table.Len(), path)
	return table, e
}

func parseCorrections(path string, fileBytes []byte) (corrections []Correction, e *xerr.Error) {
	var document yaml.Node
	unmarshalErr := yaml.Unmarshal(fileBytes, &document)
	if unmarshalErr != nil {
		e = xerr.NewError(unmarshalErr, "parse corrections file", path)
		return nil, e
	}
	if document.Kind == 0 || len(document.Content) == 0 {
		return nil, e
	}

	root := document.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		decodeErr := root.Decode(&corrections)
		if decodeErr != nil {
			e = xerr.NewError(decodeErr, "decode corrections list", path)
			return nil, e
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			corrections = append(corrections, Correction{
				Wrong: root.Content[i].Value,
				Right: root.Content[i+1].Value,
			})
		}
	default:
		err := fmt.Errorf("expected a list or a mapping, got yaml kind %d", root.Kind)
		e = xerr.NewError(err, "decode corrections file", path)
		return nil, e
	}
	return corrections, e
}
