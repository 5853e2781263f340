// Package mdtoken defines the token stream produced by parsing a Markdown
// document. Tokens carry a type tag, an optional source line range, an
// ordered attribute list, and (for container tokens) inline children.
package mdtoken

// Nesting values describe how a token relates to the element tree.
const (
	// NestingOpen marks a token that opens an element (e.g. heading_open).
	NestingOpen = 1

	// NestingSelf marks a self-contained token (e.g. fence, image, hr).
	NestingSelf = 0

	// NestingClose marks a token that closes an element.
	NestingClose = -1
)

// Well-known token types. Render rules are keyed on these strings so that
// pipeline transforms can target individual token kinds.
const (
	TypeHeadingOpen     = "heading_open"
	TypeHeadingClose    = "heading_close"
	TypeParagraphOpen   = "paragraph_open"
	TypeParagraphClose  = "paragraph_close"
	TypeBlockquoteOpen  = "blockquote_open"
	TypeBlockquoteClose = "blockquote_close"
	TypeBulletListOpen  = "bullet_list_open"
	TypeBulletListClose = "bullet_list_close"
	TypeOrderedOpen     = "ordered_list_open"
	TypeOrderedClose    = "ordered_list_close"
	TypeListItemOpen    = "list_item_open"
	TypeListItemClose   = "list_item_close"
	TypeFence           = "fence"
	TypeCodeBlock       = "code_block"
	TypeHTMLBlock       = "html_block"
	TypeHr              = "hr"
	TypeInline          = "inline"

	TypeText       = "text"
	TypeCodeInline = "code_inline"
	TypeLinkOpen   = "link_open"
	TypeLinkClose  = "link_close"
	TypeImage      = "image"
	TypeEmOpen     = "em_open"
	TypeEmClose    = "em_close"
	TypeStrongOpen = "strong_open"
	TypeStrongClose = "strong_close"
	TypeStrikeOpen  = "s_open"
	TypeStrikeClose = "s_close"
	TypeSoftbreak   = "softbreak"
	TypeHardbreak   = "hardbreak"
	TypeHTMLInline  = "html_inline"

	TypeTableOpen  = "table_open"
	TypeTableClose = "table_close"
	TypeTheadOpen  = "thead_open"
	TypeTheadClose = "thead_close"
	TypeTbodyOpen  = "tbody_open"
	TypeTbodyClose = "tbody_close"
	TypeTrOpen     = "tr_open"
	TypeTrClose    = "tr_close"
	TypeThOpen     = "th_open"
	TypeThClose    = "th_close"
	TypeTdOpen     = "td_open"
	TypeTdClose    = "td_close"
)

// LineRange is a half-open [Start, End) range of 0-based line numbers in the
// parsed body text. For documents with stripped front matter the range is
// relative to the stripped body, not the original text.
type LineRange struct {
	Start int
	End   int
}

// Len returns the number of lines covered by the range.
func (r LineRange) Len() int {
	return r.End - r.Start
}

// Token is one node of the parsed document.
//
// A token stream is flat: container elements appear as open/close pairs, and
// inline content is carried by a single TypeInline token whose Children hold
// the inline tokens. Tokens are produced once per tokenization and are
// mutated in place by pipeline stages; the pipeline exclusively owns the
// stream for the duration of one render.
type Token struct {
	// Type is the token kind tag (one of the Type* constants).
	Type string

	// Tag is the HTML tag the generic renderer emits for this token.
	// Empty for tokens rendered by a dedicated rule.
	Tag string

	// Nesting is NestingOpen, NestingSelf, or NestingClose.
	Nesting int

	// Map is the source line range of the token, or nil when the token has
	// no direct source position (close tokens, synthesized tokens).
	Map *LineRange

	// Attrs is the ordered attribute list rendered onto the HTML element.
	Attrs []Attr

	// Children holds inline tokens for TypeInline tokens, and the alt text
	// tokens for TypeImage. Nil otherwise.
	Children []*Token

	// Content is the literal content for text, code and fence tokens.
	Content string

	// Info is the fence info string (language hint) for TypeFence.
	Info string

	// Block reports whether the token belongs to a block-level element.
	Block bool
}

// Attr is a single name/value attribute pair.
type Attr struct {
	Name  string
	Value string
}

// AttrGet returns the value of the named attribute and whether it is set.
func (t *Token) AttrGet(name string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrSet sets the named attribute, replacing an existing value.
func (t *Token) AttrSet(name, value string) {
	for i, a := range t.Attrs {
		if a.Name == name {
			t.Attrs[i].Value = value
			return
		}
	}
	t.Attrs = append(t.Attrs, Attr{Name: name, Value: value})
}

// AttrJoin appends value to the named attribute, separated by a single
// space, or sets it when absent. Used for class-like attributes where
// duplicate names are joined rather than replaced.
func (t *Token) AttrJoin(name, value string) {
	for i, a := range t.Attrs {
		if a.Name == name {
			t.Attrs[i].Value = a.Value + " " + value
			return
		}
	}
	t.Attrs = append(t.Attrs, Attr{Name: name, Value: value})
}
