// Package highlight provides syntax highlighting for fenced code blocks.
//
// The engine treats highlighting as an injectable function: any Highlighter
// implementation can be plugged in, and every failure mode (unknown
// language, highlighter error, panic) degrades to escaped plain code rather
// than aborting the render.
package highlight

import (
	"html"
	"strings"
)

// Highlighter turns code text into annotated markup for a given language.
type Highlighter interface {
	// Supports reports whether the language id is known to the highlighter.
	Supports(language string) bool

	// Highlight returns annotated markup for the code. The returned markup
	// is the inner content only; the caller owns the surrounding <pre><code>
	// wrapper. Implementations may return an error or panic; callers are
	// expected to degrade to Escape.
	Highlight(language, code string) (string, error)
}

// aliases maps language hints to the highlighter ids the engine feeds to the
// highlighter. The table is owned by the engine, not the highlighter, so all
// implementations see canonical ids.
var aliases = map[string]string{
	"tsx":             "jsx",
	"typescriptreact": "jsx",
	"json5":           "json",
	"jsonc":           "json",
	"c#":              "cs",
	"csharp":          "cs",
}

// NormalizeLanguage applies the language-alias table to a fence info hint.
// Unrecognized hints are returned lower-cased but otherwise unchanged.
func NormalizeLanguage(hint string) string {
	lang := strings.ToLower(strings.TrimSpace(hint))
	if canonical, ok := aliases[lang]; ok {
		return canonical
	}
	return lang
}

// Escape returns the code as escaped plain text, the fallback used whenever
// highlighting is unavailable or fails.
func Escape(code string) string {
	return html.EscapeString(code)
}
