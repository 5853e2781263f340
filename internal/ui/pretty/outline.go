package pretty

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// defaultWidth is used when the output width cannot be detected.
const defaultWidth = 80

// OutlineEntry is one heading in a document outline.
type OutlineEntry struct {
	// Level is the heading level, 1 through 6.
	Level int

	// Text is the flattened heading text.
	Text string

	// Anchor is the generated fragment identifier.
	Anchor string

	// Line is the 0-based source line of the heading.
	Line int
}

// FormatOutline renders a document outline, one heading per row, indented by
// level, with the anchor and source line dimmed on the right.
func (s *Styles) FormatOutline(docPath string, entries []OutlineEntry, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var sb strings.Builder
	sb.WriteString(s.Title.Render(docPath))
	sb.WriteString("\n")

	if len(entries) == 0 {
		sb.WriteString(s.Dim.Render("  (no headings)"))
		sb.WriteString("\n")
		return sb.String()
	}

	for _, entry := range entries {
		indent := strings.Repeat("  ", entry.Level-1)
		text := truncate(entry.Text, width-len(indent)-20)

		row := indent + s.headingStyle(entry.Level).Render(text)
		detail := fmt.Sprintf(" #%s :%d", entry.Anchor, entry.Line+1)
		sb.WriteString(row)
		sb.WriteString(s.Anchor.Render(detail))
		sb.WriteString("\n")
	}

	summary := fmt.Sprintf("%d headings", len(entries))
	if len(entries) == 1 {
		summary = "1 heading"
	}
	sb.WriteString(s.Dim.Render(summary))
	sb.WriteString("\n")
	return sb.String()
}

func (s *Styles) headingStyle(level int) lipgloss.Style {
	switch level {
	case 1:
		return s.Heading1
	case 2:
		return s.Heading2
	default:
		return s.Heading
	}
}

// truncate shortens text to at most max runes, appending an ellipsis.
func truncate(text string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}

// Width returns the terminal width of the writer, or defaultWidth when the
// writer is not a terminal.
func Width(writer io.Writer) int {
	f, ok := writer.(*os.File)
	if !ok {
		return defaultWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
