package engine

import "github.com/wudragonfly/mdview/pkg/mdtoken"

// documentCache is a single-slot token cache. It holds the tokenization of
// exactly one document version; rendering a different document or a newer
// version of the same document evicts the previous entry.
//
// The slot is keyed on (identity, version), never on content: a document
// that reports the same version is assumed unchanged.
type documentCache struct {
	identity   string
	version    int
	tokens     []*mdtoken.Token
	lineOffset int
	valid      bool
}

// get returns the cached tokens and front-matter offset when the slot holds
// the given document version.
func (c *documentCache) get(identity string, version int) ([]*mdtoken.Token, int, bool) {
	if !c.valid || c.identity != identity || c.version != version {
		return nil, 0, false
	}
	return c.tokens, c.lineOffset, true
}

// put replaces the slot contents.
func (c *documentCache) put(identity string, version int, tokens []*mdtoken.Token, lineOffset int) {
	c.identity = identity
	c.version = version
	c.tokens = tokens
	c.lineOffset = lineOffset
	c.valid = true
}

// invalidate empties the slot.
func (c *documentCache) invalidate() {
	*c = documentCache{}
}
