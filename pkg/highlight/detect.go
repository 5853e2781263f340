package highlight

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// detectCandidates limits the classifier to languages commonly found in
// fenced code blocks; unconstrained classification is too noisy for short
// snippets.
var detectCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Dockerfile",
}

// Detect guesses the language of a code block that carries no info string.
// Returns the empty string when no confident guess can be made.
func Detect(code string) string {
	content := []byte(code)
	if len(strings.TrimSpace(code)) == 0 {
		return ""
	}

	// A shebang line is the most reliable signal.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return NormalizeLanguage(lang)
	}

	if lang, safe := enry.GetLanguageByClassifier(content, detectCandidates); safe && lang != "" {
		return NormalizeLanguage(lang)
	}

	return ""
}
