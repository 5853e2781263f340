// Package slug converts heading text into URL-safe anchor identifiers and
// guarantees their uniqueness within a single document render.
package slug

import (
	"strconv"
	"strings"
	"unicode"
)

// Slugifier turns arbitrary heading text into a URL-safe anchor token.
// Implementations must be deterministic: equal input yields equal output.
type Slugifier interface {
	Slug(text string) string
}

// GitHub produces GitHub-style slugs: case-folded, whitespace collapsed to
// hyphens, punctuation stripped except hyphens and underscores.
type GitHub struct{}

// Slug implements Slugifier.
func (GitHub) Slug(text string) string {
	var sb strings.Builder
	lastHyphen := false

	for _, r := range strings.TrimSpace(text) {
		switch {
		case unicode.IsSpace(r):
			if !lastHyphen {
				sb.WriteRune('-')
				lastHyphen = true
			}
		case r == '-' || r == '_':
			sb.WriteRune(r)
			lastHyphen = r == '-'
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(unicode.ToLower(r))
			lastHyphen = false
		default:
			// Punctuation and symbols are dropped.
		}
	}

	return sb.String()
}

// UniqueSet allocates slugs that are unique for the lifetime of the set.
// The first occurrence of a slug is returned unchanged; the n-th duplicate
// gets a "-<n>" suffix which is re-slugified as a whole, so suffixed slugs
// themselves participate in collision detection.
//
// A UniqueSet is scoped to one render call and is not safe for concurrent
// use.
type UniqueSet struct {
	slugifier Slugifier
	counts    map[string]int
}

// NewUniqueSet creates a UniqueSet using the given slugifier.
// A nil slugifier defaults to GitHub.
func NewUniqueSet(s Slugifier) *UniqueSet {
	if s == nil {
		s = GitHub{}
	}
	return &UniqueSet{
		slugifier: s,
		counts:    make(map[string]int),
	}
}

// FromHeading returns the unique slug for the given heading text.
func (u *UniqueSet) FromHeading(text string) string {
	value := u.slugifier.Slug(text)

	n, seen := u.counts[value]
	if seen {
		u.counts[value] = n + 1
		value = u.slugifier.Slug(value + "-" + strconv.Itoa(n))
	}
	u.counts[value]++

	return value
}
