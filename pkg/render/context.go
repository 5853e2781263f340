// Package render turns a token stream into final markup through an ordered
// set of per-token-type render rules. Rules compose as middleware chains:
// each transform wraps the previous rule for a token type and may delegate
// to it, with the generic token renderer as the innermost fallback.
package render

import "github.com/wudragonfly/mdview/pkg/slug"

// Context carries the per-call render state: the identity of the document
// being rendered, the line offset introduced by stripped front matter, and
// the slug allocation table.
//
// A Context is constructed fresh for every render call and is never stored
// on the engine, so repeated renders of the same tokens produce identical
// markup.
type Context struct {
	// Document is the URI or path of the document being rendered.
	Document string

	// WorkspaceRoot is the root directory absolute local links resolve
	// against. Empty when no workspace applies.
	WorkspaceRoot string

	// LineOffset is added to every source-mapped line number, correcting
	// positions of documents whose front matter was stripped before
	// tokenization.
	LineOffset int

	// Breaks renders single line breaks as hard breaks.
	Breaks bool

	// Slugifier is the plain slugification strategy, used for fragment
	// rewriting where no collision counting applies.
	Slugifier slug.Slugifier

	// Slugs allocates unique heading anchors for this render.
	Slugs *slug.UniqueSet
}

// NewContext creates a render context for one document render.
// A nil slugifier defaults to the GitHub strategy.
func NewContext(document, workspaceRoot string, lineOffset int, breaks bool, slugifier slug.Slugifier) *Context {
	if slugifier == nil {
		slugifier = slug.GitHub{}
	}
	return &Context{
		Document:      document,
		WorkspaceRoot: workspaceRoot,
		LineOffset:    lineOffset,
		Breaks:        breaks,
		Slugifier:     slugifier,
		Slugs:         slug.NewUniqueSet(slugifier),
	}
}
