package highlight

import (
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Chroma is a Highlighter backed by the chroma lexer registry.
// It emits class-annotated spans so styling stays in an external stylesheet.
type Chroma struct {
	style     string
	formatter *chromahtml.Formatter
}

// NewChroma creates a Chroma highlighter using the named chroma style.
// An empty or unknown style name falls back to chroma's default style.
func NewChroma(style string) *Chroma {
	return &Chroma{
		style: style,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// Supports implements Highlighter.
func (c *Chroma) Supports(language string) bool {
	return lexers.Get(language) != nil
}

// Highlight implements Highlighter.
func (c *Chroma) Highlight(language, code string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return "", fmt.Errorf("unknown language %q", language)
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %s code: %w", language, err)
	}

	var sb strings.Builder
	if err := c.formatter.Format(&sb, styles.Get(c.style), iterator); err != nil {
		return "", fmt.Errorf("format %s code: %w", language, err)
	}

	return sb.String(), nil
}
