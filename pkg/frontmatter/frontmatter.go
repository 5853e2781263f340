// Package frontmatter detects and strips a leading YAML metadata block from
// a document, reporting the number of lines it occupied so source positions
// in the remaining body can be corrected.
package frontmatter

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// blockPattern matches a metadata block at the start of the document: a line
// of three dashes, arbitrary content, and a closing line of three dashes or
// three dots. The content match is greedy, so the block runs until the last
// matching closer; a dash line inside the metadata cannot terminate it early.
var blockPattern = regexp.MustCompile(`(?s)^---[ \t]*\r?\n(.*\r?\n)?(---|\.\.\.)[ \t]*(\r?\n|$)`)

// Split separates a leading metadata block from the document body.
//
// It returns the raw block (empty when no block is present), the body text,
// and the number of newline-delimited lines the block occupied. When the
// document has no metadata block, body equals raw and the offset is 0.
func Split(raw string) (matter string, body string, lineOffset int) {
	loc := blockPattern.FindStringIndex(raw)
	if loc == nil {
		return "", raw, 0
	}

	matter = raw[:loc[1]]
	body = raw[loc[1]:]

	lineOffset = strings.Count(matter, "\n")
	if !strings.HasSuffix(matter, "\n") {
		// Block terminated by end of document, no trailing newline.
		lineOffset++
	}

	return matter, body, lineOffset
}

// Decode parses the metadata block returned by Split into a key/value map.
// The fence lines are stripped before decoding. An empty block decodes to an
// empty map.
func Decode(matter string) (map[string]any, error) {
	trimmed := strings.TrimSpace(matter)
	trimmed = strings.TrimPrefix(trimmed, "---")
	trimmed = strings.TrimSuffix(trimmed, "...")
	trimmed = strings.TrimSuffix(trimmed, "---")

	meta := make(map[string]any)
	if err := yaml.Unmarshal([]byte(trimmed), &meta); err != nil {
		return nil, fmt.Errorf("decode front matter: %w", err)
	}
	return meta, nil
}

// Title returns the "title" metadata value when present and a string.
func Title(meta map[string]any) (string, bool) {
	v, ok := meta["title"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
