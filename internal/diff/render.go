package diff

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles colours rendered diff lines.
type Styles struct {
	Header  lipgloss.Style
	Hunk    lipgloss.Style
	Removed lipgloss.Style
	Added   lipgloss.Style
	Context lipgloss.Style

	plain bool
}

// DefaultStyles uses the destructive/success/info colours of the CLI palette.
func DefaultStyles() Styles {
	base := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return Styles{
		Header:  base.Bold(true),
		Hunk:    base.Foreground(lipgloss.Color("#2196F3")),
		Removed: base.Foreground(lipgloss.Color("#e53935")),
		Added:   base.Foreground(lipgloss.Color("#8BC34A")),
		Context: base,
	}
}

// PlainStyles writes lines verbatim, for pipes and files.
func PlainStyles() Styles {
	return Styles{plain: true}
}

// Render writes d as a unified diff. Nothing is written for an empty diff.
func Render(w io.Writer, d *FileDiff, styles Styles) error {
	if d.Empty() {
		return nil
	}

	bw := bufio.NewWriter(w)
	writeLine := func(style lipgloss.Style, s string) {
		if !styles.plain {
			s = style.Render(s)
		}
		bw.WriteString(s)
		bw.WriteByte('\n')
	}

	writeLine(styles.Header, "--- a/"+d.Path)
	writeLine(styles.Header, "+++ b/"+d.Path)
	for _, h := range d.Hunks {
		writeLine(styles.Hunk, fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount))
		for _, l := range h.Lines {
			switch l.Type {
			case LineRemoved:
				writeLine(styles.Removed, "-"+l.Content)
			case LineAdded:
				writeLine(styles.Added, "+"+l.Content)
			default:
				writeLine(styles.Context, " "+l.Content)
			}
		}
	}
	return bw.Flush()
}
