package pretty_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wudragonfly/mdview/internal/ui/pretty"
)

func TestFormatOutline(t *testing.T) {
	styles := pretty.NewStyles(false)
	entries := []pretty.OutlineEntry{
		{Level: 1, Text: "Guide", Anchor: "guide", Line: 0},
		{Level: 2, Text: "Setup", Anchor: "setup", Line: 4},
		{Level: 3, Text: "Linux", Anchor: "linux", Line: 8},
	}

	out := styles.FormatOutline("docs/guide.md", entries, 80)

	assert.Contains(t, out, "docs/guide.md")
	assert.Contains(t, out, "Guide #guide :1")
	assert.Contains(t, out, "  Setup #setup :5")
	assert.Contains(t, out, "    Linux #linux :9")
	assert.Contains(t, out, "3 headings")
}

func TestFormatOutlineEmpty(t *testing.T) {
	styles := pretty.NewStyles(false)

	out := styles.FormatOutline("docs/empty.md", nil, 80)
	assert.Contains(t, out, "(no headings)")
}

func TestFormatOutlineSingularSummary(t *testing.T) {
	styles := pretty.NewStyles(false)
	entries := []pretty.OutlineEntry{{Level: 1, Text: "Only", Anchor: "only", Line: 0}}

	out := styles.FormatOutline("a.md", entries, 80)
	assert.Contains(t, out, "1 heading\n")
	assert.NotContains(t, out, "1 headings")
}

func TestFormatOutlineTruncatesLongHeadings(t *testing.T) {
	styles := pretty.NewStyles(false)
	entries := []pretty.OutlineEntry{
		{Level: 1, Text: strings.Repeat("very long heading ", 10), Anchor: "h", Line: 0},
	}

	out := styles.FormatOutline("a.md", entries, 40)
	assert.Contains(t, out, "...")
}

func TestWidthNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 80, pretty.Width(&buf))
}
