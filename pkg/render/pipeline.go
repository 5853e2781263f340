package render

import (
	"net/url"
	"strings"

	"github.com/wudragonfly/mdview/pkg/highlight"
	"github.com/wudragonfly/mdview/pkg/mdtoken"
)

// Rule renders the token at tokens[idx] into w.
type Rule func(ctx *Context, tokens []*mdtoken.Token, idx int, w *strings.Builder) error

// Middleware wraps a render rule, receiving the previous rule for the same
// token type as its continuation.
type Middleware func(next Rule) Rule

// NormalizeFunc rewrites a link destination before it is emitted.
type NormalizeFunc func(ctx *Context, link string) string

// ValidateFunc reports whether a link destination may be emitted.
type ValidateFunc func(ctx *Context, link string) bool

// Transform augments a pipeline and returns it. Transforms are the unit of
// composition for both the built-in render stages and externally supplied
// extensions; a transform that fails leaves the pipeline unchanged.
type Transform func(p *Pipeline) (*Pipeline, error)

// Pipeline holds the per-token-type rule chains and the link hooks layered
// over the generic token renderer.
//
// A Pipeline carries no per-document state; everything scoped to one render
// lives on the Context.
type Pipeline struct {
	highlighter highlight.Highlighter

	middlewares map[string][]Middleware
	normalize   NormalizeFunc
	validate    ValidateFunc

	// resolved caches composed rules; invalidated whenever a chain or hook
	// changes.
	resolved map[string]Rule
}

// NewPipeline creates a pipeline with the base render rules and hooks.
// The highlighter may be nil, in which case fenced code is always emitted as
// escaped plain text.
func NewPipeline(h highlight.Highlighter) *Pipeline {
	return &Pipeline{
		highlighter: h,
		middlewares: make(map[string][]Middleware),
		normalize:   baseNormalizeLink,
		validate:    baseValidateLink,
	}
}

// Wrap layers a middleware over the rule chain for the given token type.
// Later registrations wrap earlier ones: composition order is registration
// order, outermost last.
func (p *Pipeline) Wrap(tokenType string, mw Middleware) {
	p.middlewares[tokenType] = append(p.middlewares[tokenType], mw)
	p.resolved = nil
}

// WrapNormalizeLink layers a middleware over the link normalization hook.
func (p *Pipeline) WrapNormalizeLink(mw func(next NormalizeFunc) NormalizeFunc) {
	p.normalize = mw(p.normalize)
}

// WrapValidateLink layers a middleware over the link validity hook.
func (p *Pipeline) WrapValidateLink(mw func(next ValidateFunc) ValidateFunc) {
	p.validate = mw(p.validate)
}

// NormalizeLink runs the composed link normalization hook.
func (p *Pipeline) NormalizeLink(ctx *Context, link string) string {
	return p.normalize(ctx, link)
}

// ValidateLink runs the composed link validity hook.
func (p *Pipeline) ValidateLink(ctx *Context, link string) bool {
	return p.validate(ctx, link)
}

// Render produces the markup for a token stream.
func (p *Pipeline) Render(ctx *Context, tokens []*mdtoken.Token) (string, error) {
	var sb strings.Builder
	if err := p.renderTokens(ctx, tokens, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (p *Pipeline) renderTokens(ctx *Context, tokens []*mdtoken.Token, w *strings.Builder) error {
	for i := range tokens {
		if err := p.rule(tokens[i].Type)(ctx, tokens, i, w); err != nil {
			return err
		}
	}
	return nil
}

// rule returns the composed rule for a token type, building and caching the
// chain on first use.
func (p *Pipeline) rule(tokenType string) Rule {
	if p.resolved == nil {
		p.resolved = make(map[string]Rule)
	}
	if r, ok := p.resolved[tokenType]; ok {
		return r
	}

	r := p.baseRule(tokenType)
	for _, mw := range p.middlewares[tokenType] {
		r = mw(r)
	}
	p.resolved[tokenType] = r
	return r
}

// baseNormalizeLink is the default normalization: parse and re-encode the
// link, leaving it untouched when it does not parse.
func baseNormalizeLink(_ *Context, link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	return u.String()
}

// blockedSchemes are rejected by the base validator. Local file links are
// re-permitted by the link validation transform.
var blockedSchemes = []string{"javascript:", "vbscript:", "data:", "file:"}

func baseValidateLink(_ *Context, link string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(link))
	for _, scheme := range blockedSchemes {
		if strings.HasPrefix(trimmed, scheme) {
			return false
		}
	}
	return true
}
