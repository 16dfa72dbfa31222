// Package strip removes boolean flag lines (by default `recommended: true` and
// `recommended: false`) from a source file and repairs the comma artifacts the
// removal leaves behind.
//
// The edit is a blind text edit: three regular-expression substitutions over
// the whole file, with no knowledge of the target language. Inputs that the
// substitutions only partially repair (three or more commas in a row) stay
// partially repaired.
package strip

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultField is the flag name stripped when no Rules are given.
const DefaultField = "recommended"

// DefaultValues are the flag values stripped when no Rules are given.
var DefaultValues = []string{"true", "false"}

// space is full Unicode whitespace: RE2's \s plus vertical tab, the ASCII
// information separators 0x1c-0x1f, NEL and the Unicode Z categories.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	// ",\s*," -> ","
	commaPairPattern = regexp.MustCompile(`,` + space + `*,`)
	// ",\s*}" -> "\s*}"
	trailingCommaPattern = regexp.MustCompile(`,(` + space + `*})`)
)

// Rules selects which flag lines are removed.
type Rules struct {
	Field  string
	Values []string
}

// DefaultRules returns the rules for `recommended: true|false`.
func DefaultRules() Rules {
	values := make([]string, len(DefaultValues))
	copy(values, DefaultValues)
	return Rules{Field: DefaultField, Values: values}
}

// Stats counts how often each substitution fired.
type Stats struct {
	RemovedLines    int // flag-line matches removed (a match may swallow adjacent blank lines)
	CollapsedCommas int // ",," pairs collapsed to ","
	TrailingCommas  int // commas dropped before "}"
}

// Result is the transformed text plus the substitution counts.
type Result struct {
	Text  string
	Stats Stats
}

// Changed reports whether any substitution fired.
func (r Result) Changed() bool {
	return r.Stats.RemovedLines+r.Stats.CollapsedCommas+r.Stats.TrailingCommas > 0
}

// Stripper applies a compiled set of Rules.
type Stripper struct {
	rules       Rules
	linePattern *regexp.Regexp
}

// New compiles rules into a Stripper.
func New(rules Rules) (*Stripper, error) {
	field := strings.TrimSpace(rules.Field)
	if field == "" {
		return nil, fmt.Errorf("flag field is required")
	}
	if len(rules.Values) == 0 {
		return nil, fmt.Errorf("at least one flag value is required")
	}

	values := make([]string, 0, len(rules.Values))
	quoted := make([]string, 0, len(rules.Values))
	for _, v := range rules.Values {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, fmt.Errorf("empty flag value for field %q", field)
		}
		values = append(values, v)
		quoted = append(quoted, regexp.QuoteMeta(v))
	}

	// space matches newlines too, so whitespace-only lines touching a flag
	// line are removed along with it. A flag on an unterminated last line is
	// kept.
	expr := `(?m)^` + space + `*` + regexp.QuoteMeta(field) + `:` + space + `*(?:` +
		strings.Join(quoted, "|") + `),?` + space + `*$\n`
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile flag pattern: %w", err)
	}

	return &Stripper{
		rules:       Rules{Field: field, Values: values},
		linePattern: re,
	}, nil
}

var defaultStripper = mustDefault()

func mustDefault() *Stripper {
	s, err := New(DefaultRules())
	if err != nil {
		panic(err)
	}
	return s
}

// Rules returns the rules the Stripper was built with.
func (s *Stripper) Rules() Rules {
	return s.rules
}

// Transform applies the three substitutions in order: flag-line removal,
// comma-pair collapse, trailing-comma removal before "}".
func (s *Stripper) Transform(src string) Result {
	var stats Stats

	stats.RemovedLines = len(s.linePattern.FindAllStringIndex(src, -1))
	out := s.linePattern.ReplaceAllLiteralString(src, "")

	stats.CollapsedCommas = len(commaPairPattern.FindAllStringIndex(out, -1))
	out = commaPairPattern.ReplaceAllLiteralString(out, ",")

	stats.TrailingCommas = len(trailingCommaPattern.FindAllStringIndex(out, -1))
	out = trailingCommaPattern.ReplaceAllString(out, "${1}")

	return Result{Text: out, Stats: stats}
}

// Transform strips `recommended: true|false` lines from src.
func Transform(src string) Result {
	return defaultStripper.Transform(src)
}

var newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeNewlines converts "\r\n" and lone "\r" to "\n".
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	return newlineReplacer.Replace(s)
}
