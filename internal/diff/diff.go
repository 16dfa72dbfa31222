// Package diff computes line diffs between a file's text before and after
// stripping, using the sergi/go-diff library for the line matching.
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of unchanged lines kept around each change.
const DefaultContext = 3

// LineType represents the type of diff line
type LineType int

const (
	LineContext LineType = iota // Unchanged context line
	LineRemoved                 // Removed line
	LineAdded                   // Added line
)

// Line is a single line of a hunk. OldNum and NewNum are 1-based and zero
// when the line does not exist on that side.
type Line struct {
	Type    LineType
	OldNum  int
	NewNum  int
	Content string
}

// Hunk represents a group of changes with surrounding context.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// FileDiff is the set of hunks for one path.
type FileDiff struct {
	Path  string
	Hunks []Hunk
}

// Empty reports whether the diff has no changes.
func (d *FileDiff) Empty() bool {
	return d == nil || len(d.Hunks) == 0
}

// Counts returns the number of removed and added lines.
func (d *FileDiff) Counts() (removed, added int) {
	if d == nil {
		return 0, 0
	}
	for _, h := range d.Hunks {
		for _, l := range h.Lines {
			switch l.Type {
			case LineRemoved:
				removed++
			case LineAdded:
				added++
			}
		}
	}
	return removed, added
}

// Engine computes line diffs.
type Engine struct {
	dmp *diffmatchpatch.DiffMatchPatch
	// Context is the number of unchanged lines around each change.
	Context int
}

// NewEngine creates a diff engine with DefaultContext lines of context.
func NewEngine() *Engine {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // exact diffs; inputs are single source files
	return &Engine{dmp: dmp, Context: DefaultContext}
}

// Compute returns the line diff between before and after.
func (e *Engine) Compute(path, before, after string) *FileDiff {
	fd := &FileDiff{Path: path}
	if before == after {
		return fd
	}

	// Line-level reduction: every line becomes one rune, so the diff never
	// splits a line. No semantic cleanup: it would fold short unchanged runs
	// between two removed flag lines into the edit.
	a, b, lineArray := e.dmp.DiffLinesToChars(before, after)
	diffs := e.dmp.DiffMain(a, b, false)
	diffs = e.dmp.DiffCharsToLines(diffs, lineArray)

	fd.Hunks = groupHunks(toLines(diffs), max(e.Context, 0))
	return fd
}

// Compute is a convenience wrapper around a fresh Engine.
func Compute(path, before, after string) *FileDiff {
	return NewEngine().Compute(path, before, after)
}

// toLines flattens diffmatchpatch chunks into numbered lines.
func toLines(diffs []diffmatchpatch.Diff) []Line {
	var out []Line
	oldNum, newNum := 0, 0

	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldNum++
				newNum++
				out = append(out, Line{Type: LineContext, OldNum: oldNum, NewNum: newNum, Content: text})
			case diffmatchpatch.DiffDelete:
				oldNum++
				out = append(out, Line{Type: LineRemoved, OldNum: oldNum, Content: text})
			case diffmatchpatch.DiffInsert:
				newNum++
				out = append(out, Line{Type: LineAdded, NewNum: newNum, Content: text})
			}
		}
	}
	return out
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\n")
	}
	return lines
}

// groupHunks cuts lines into hunks. Changes separated by at most 2*context
// unchanged lines share a hunk.
func groupHunks(lines []Line, context int) []Hunk {
	var hunks []Hunk

	i := 0
	for i < len(lines) {
		if lines[i].Type == LineContext {
			i++
			continue
		}

		start := max(i-context, 0)
		last := i
		for j := i; j < len(lines); j++ {
			if lines[j].Type != LineContext {
				last = j
				continue
			}
			if j-last > 2*context {
				break
			}
		}
		stop := min(last+context+1, len(lines))

		hunks = append(hunks, newHunk(lines, start, stop))
		i = stop
	}
	return hunks
}

func newHunk(all []Line, start, stop int) Hunk {
	h := Hunk{Lines: append([]Line(nil), all[start:stop]...)}

	// Number of old/new lines that precede the hunk.
	oldBefore, newBefore := 0, 0
	for _, l := range all[:start] {
		if l.Type != LineAdded {
			oldBefore++
		}
		if l.Type != LineRemoved {
			newBefore++
		}
	}

	for _, l := range h.Lines {
		if l.Type != LineAdded {
			h.OldCount++
		}
		if l.Type != LineRemoved {
			h.NewCount++
		}
	}

	h.OldStart = oldBefore
	if h.OldCount > 0 {
		h.OldStart++
	}
	h.NewStart = newBefore
	if h.NewCount > 0 {
		h.NewStart++
	}
	return h
}
