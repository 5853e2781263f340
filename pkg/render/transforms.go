package render

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wudragonfly/mdview/pkg/mdtoken"
)

// lineTaggedTypes are the token types that carry a data-line attribute so a
// viewer can map rendered elements back to source lines.
var lineTaggedTypes = []string{
	mdtoken.TypeParagraphOpen,
	mdtoken.TypeHeadingOpen,
	mdtoken.TypeImage,
	mdtoken.TypeCodeBlock,
	mdtoken.TypeFence,
	mdtoken.TypeBlockquoteOpen,
	mdtoken.TypeListItemOpen,
}

// LineNumbers tags block-level tokens with their source line so rendered
// output can be synchronized with the document. The front-matter offset is
// added back so lines refer to the full original text.
func LineNumbers() Transform {
	return func(p *Pipeline) (*Pipeline, error) {
		for _, tokenType := range lineTaggedTypes {
			p.Wrap(tokenType, func(next Rule) Rule {
				return func(ctx *Context, tokens []*mdtoken.Token, idx int, w *strings.Builder) error {
					tok := tokens[idx]
					if tok.Map != nil {
						tok.AttrSet("data-line", strconv.Itoa(ctx.LineOffset+tok.Map.Start))
						joinClass(tok, "code-line")
					}
					return next(ctx, tokens, idx, w)
				}
			})
		}
		return p, nil
	}
}

// ImageStabilizer gives every image a deterministic identity derived from
// its raw destination, and marks it for lazy loading. The identity survives
// re-renders, so a viewer can keep scroll position while images load.
func ImageStabilizer() Transform {
	return func(p *Pipeline) (*Pipeline, error) {
		p.Wrap(mdtoken.TypeImage, func(next Rule) Rule {
			return func(ctx *Context, tokens []*mdtoken.Token, idx int, w *strings.Builder) error {
				tok := tokens[idx]
				joinClass(tok, "loading")
				if src, ok := tok.AttrGet("src"); ok && src != "" {
					sum := sha256.Sum256([]byte(src))
					tok.AttrSet("id", "image-hash-"+hex.EncodeToString(sum[:]))
				}
				return next(ctx, tokens, idx, w)
			}
		})
		return p, nil
	}
}

// FenceAnnotator marks fenced code blocks that originate from document
// source with the hljs class expected by highlight stylesheets.
func FenceAnnotator() Transform {
	return func(p *Pipeline) (*Pipeline, error) {
		p.Wrap(mdtoken.TypeFence, func(next Rule) Rule {
			return func(ctx *Context, tokens []*mdtoken.Token, idx int, w *strings.Builder) error {
				tok := tokens[idx]
				if tok.Map != nil {
					joinClass(tok, "hljs")
				}
				return next(ctx, tokens, idx, w)
			}
		})
		return p, nil
	}
}

// knownExternalSchemes pass straight through to the next normalizer; only
// links without one of these prefixes are treated as workspace-local.
var knownExternalSchemes = []string{"http:", "https:", "mailto:", "ftp:"}

// LinkNormalizer resolves workspace-local link destinations against the
// document's location and slugifies bare fragments so they match generated
// heading anchors. External links are handed to the next normalizer
// untouched.
func LinkNormalizer() Transform {
	return func(p *Pipeline) (*Pipeline, error) {
		p.WrapNormalizeLink(func(next NormalizeFunc) NormalizeFunc {
			return func(ctx *Context, link string) string {
				resolved, handled := resolveLocalLink(ctx, link)
				if handled {
					return resolved
				}
				return next(ctx, link)
			}
		})
		return p, nil
	}
}

// resolveLocalLink rewrites a workspace-local destination. The second return
// reports whether the link was handled here; external and unparseable links
// fall through to the next normalizer.
func resolveLocalLink(ctx *Context, link string) (string, bool) {
	lower := strings.ToLower(link)
	for _, scheme := range knownExternalSchemes {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}

	// A bare fragment points at a heading in this document; slugify it so
	// it matches the generated anchor ids.
	if u.Path == "" && u.Fragment != "" {
		return "#" + ctx.Slugifier.Slug(u.Fragment), true
	}
	if u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}

	var resolved string
	if filepath.IsAbs(u.Path) {
		resolved = filepath.Join(ctx.WorkspaceRoot, u.Path)
	} else {
		resolved = filepath.Join(filepath.Dir(ctx.Document), u.Path)
	}
	if u.Fragment != "" {
		resolved += "#" + ctx.Slugifier.Slug(u.Fragment)
	}
	return resolved, true
}

// LinkValidator re-permits file: links on top of the base validator, which
// blocks them along with script and data schemes.
func LinkValidator() Transform {
	return func(p *Pipeline) (*Pipeline, error) {
		p.WrapValidateLink(func(next ValidateFunc) ValidateFunc {
			return func(ctx *Context, link string) bool {
				if next(ctx, link) {
					return true
				}
				return strings.HasPrefix(strings.ToLower(strings.TrimSpace(link)), "file:")
			}
		})
		return p, nil
	}
}

// HeadingAnchors assigns each heading a unique id derived from its text so
// fragment links can target it. Ids come from the per-render slug set, which
// keeps them stable for a given document regardless of cache state.
func HeadingAnchors() Transform {
	return func(p *Pipeline) (*Pipeline, error) {
		p.Wrap(mdtoken.TypeHeadingOpen, func(next Rule) Rule {
			return func(ctx *Context, tokens []*mdtoken.Token, idx int, w *strings.Builder) error {
				tok := tokens[idx]
				if idx+1 < len(tokens) && tokens[idx+1].Type == mdtoken.TypeInline {
					text := mdtoken.FlattenText(tokens[idx+1].Children)
					tok.AttrSet("id", ctx.Slugs.FromHeading(text))
				}
				return next(ctx, tokens, idx, w)
			}
		})
		return p, nil
	}
}

// joinClass appends a class to the token's class attribute unless it is
// already present. Cached token streams are rendered repeatedly, so class
// tagging has to be idempotent.
func joinClass(tok *mdtoken.Token, class string) {
	current, ok := tok.AttrGet("class")
	if !ok || current == "" {
		tok.AttrSet("class", class)
		return
	}
	for _, existing := range strings.Fields(current) {
		if existing == class {
			return
		}
	}
	tok.AttrSet("class", current+" "+class)
}
