package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/wudragonfly/mdview/pkg/highlight"
	"github.com/wudragonfly/mdview/pkg/mdtoken"
)

// baseRule returns the innermost rule for a token type: a dedicated rule
// where one exists, otherwise the generic token renderer.
func (p *Pipeline) baseRule(tokenType string) Rule {
	switch tokenType {
	case mdtoken.TypeInline:
		return p.renderInline
	case mdtoken.TypeText:
		return renderText
	case mdtoken.TypeCodeInline:
		return renderCodeInline
	case mdtoken.TypeFence:
		return p.renderFence
	case mdtoken.TypeCodeBlock:
		return renderCodeBlock
	case mdtoken.TypeImage:
		return p.renderImage
	case mdtoken.TypeLinkOpen:
		return p.renderLinkOpen
	case mdtoken.TypeSoftbreak:
		return renderSoftbreak
	case mdtoken.TypeHardbreak:
		return renderHardbreak
	case mdtoken.TypeHTMLBlock, mdtoken.TypeHTMLInline:
		return renderHTML
	default:
		return renderToken
	}
}

// renderToken is the generic renderer: it emits the token's tag and
// attributes according to its nesting.
func renderToken(_ *Context, tokens []*mdtoken.Token, idx int, w *strings.Builder) error {
	tok := tokens[idx]
	if tok.Tag == "" {
		return nil
	}

	if tok.Nesting == mdtoken.NestingClose {
		w.WriteString("</")
		w.WriteString(tok.Tag)
		w.WriteString(">")
		if tok.Block {
			w.WriteString("\n")
		}
		return nil
	}

	w.WriteString("<")
	w.WriteString(tok.Tag)
	writeAttrs(w, tok.Attrs)
	w.WriteString(">")

	// Block openers get a newline unless inline content follows directly.
	if tok.Block {
		switch {
		case tok.Nesting == mdtoken.NestingSelf:
			w.WriteString("\n")
		case idx+1 < len(tokens) && tokens[idx+1].Type != mdtoken.TypeInline:
			w.WriteString("\n")
		}
	}
	return nil
}

func (p *Pipeline) renderInline(ctx *Context, tokens []*mdtoken.Token, idx int, w *strings.Builder) error {
	return p.renderTokens(ctx, tokens[idx].Children, w)
}

func renderText(_ *Context, tokens []*mdtoken.Token, idx int, w *strings.Builder) error {
	w.WriteString(html.EscapeString(tokens[idx].Content))
	return nil
}

func renderCodeInline(_ *Context, tokens []*mdtoken.Token, idx int, w *strings.Builder) error {
	tok := tokens[idx]
	w.WriteString("<code")
	writeAttrs(w, tok.Attrs)
	w.WriteString(">")
	w.WriteString(html.EscapeString(tok.Content))
	w.WriteString("</code>")
	return nil
}

// renderFence emits a fenced code block, asking the highlighter for
// annotated markup and falling back to escaped plain code when the language
// is unknown or highlighting fails.
func (p *Pipeline) renderFence(_ *Context, tokens []*mdtoken.Token, idx int, w *strings.Builder) error {
	tok := tokens[idx]

	lang := highlight.NormalizeLanguage(fenceLanguage(tok.Info))
	if lang == "" {
		lang = highlight.Detect(tok.Content)
	}

	markup, highlighted := p.highlightCode(lang, tok.Content)

	w.WriteString("<pre")
	writeAttrs(w, tok.Attrs)
	w.WriteString("><code")
	if lang != "" {
		w.WriteString(` class="language-`)
		writeEscaped(w, lang)
		w.WriteString(`"`)
	}
	w.WriteString(">")
	if highlighted {
		w.WriteString(markup)
	} else {
		// Escaped fallback stays wrapped in a neutral container so the
		// output is always well-formed.
		w.WriteString("<div>")
		w.WriteString(markup)
		w.WriteString("</div>")
	}
	w.WriteString("</code></pre>\n")
	return nil
}

// highlightCode runs the injected highlighter, degrading any failure
// (unknown language, error, panic) to escaped plain code.
func (p *Pipeline) highlightCode(lang, code string) (markup string, highlighted bool) {
	if lang == "" || p.highlighter == nil || !p.highlighter.Supports(lang) {
		return highlight.Escape(code), false
	}

	markup, err := p.safeHighlight(lang, code)
	if err != nil {
		return highlight.Escape(code), false
	}
	return markup, true
}

func (p *Pipeline) safeHighlight(lang, code string) (markup string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	return p.highlighter.Highlight(lang, code)
}

// panicError adapts a recovered panic value into an error.
type panicError struct{ value any }

func (e *panicError) Error() string { return fmt.Sprintf("highlighter panic: %v", e.value) }

// fenceLanguage extracts the language hint from an info string: the first
// whitespace-delimited word.
func fenceLanguage(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func renderCodeBlock(_ *Context, tokens []*mdtoken.Token, idx int, w *strings.Builder) error {
	tok := tokens[idx]
	w.WriteString("<pre")
	writeAttrs(w, tok.Attrs)
	w.WriteString("><code>")
	w.WriteString(html.EscapeString(tok.Content))
	w.WriteString("</code></pre>\n")
	return nil
}

// renderImage emits an <img> element. The src attribute passes through the
// link hooks at write time; the token itself keeps the raw destination so
// cached token streams render identically on every pass.
func (p *Pipeline) renderImage(ctx *Context, tokens []*mdtoken.Token, idx int, w *strings.Builder) error {
	tok := tokens[idx]

	w.WriteString("<img")
	for _, attr := range tok.Attrs {
		if attr.Name == "src" {
			if !p.validate(ctx, attr.Value) {
				continue
			}
			attr.Value = p.normalize(ctx, attr.Value)
		}
		writeAttr(w, attr)
	}
	writeAttr(w, mdtoken.Attr{Name: "alt", Value: mdtoken.FlattenText(tok.Children)})
	w.WriteString(">")
	return nil
}

// renderLinkOpen emits an <a> element, passing href through the link hooks
// at write time without mutating the token.
func (p *Pipeline) renderLinkOpen(ctx *Context, tokens []*mdtoken.Token, idx int, w *strings.Builder) error {
	tok := tokens[idx]

	w.WriteString("<a")
	for _, attr := range tok.Attrs {
		if attr.Name == "href" {
			if !p.validate(ctx, attr.Value) {
				continue
			}
			attr.Value = p.normalize(ctx, attr.Value)
		}
		writeAttr(w, attr)
	}
	w.WriteString(">")
	return nil
}

func renderSoftbreak(ctx *Context, _ []*mdtoken.Token, _ int, w *strings.Builder) error {
	if ctx.Breaks {
		w.WriteString("<br>\n")
	} else {
		w.WriteString("\n")
	}
	return nil
}

func renderHardbreak(_ *Context, _ []*mdtoken.Token, _ int, w *strings.Builder) error {
	w.WriteString("<br>\n")
	return nil
}

func renderHTML(_ *Context, tokens []*mdtoken.Token, idx int, w *strings.Builder) error {
	w.WriteString(tokens[idx].Content)
	return nil
}

func writeAttrs(w *strings.Builder, attrs []mdtoken.Attr) {
	for _, attr := range attrs {
		writeAttr(w, attr)
	}
}

func writeAttr(w *strings.Builder, attr mdtoken.Attr) {
	w.WriteString(" ")
	w.WriteString(attr.Name)
	w.WriteString(`="`)
	writeEscaped(w, attr.Value)
	w.WriteString(`"`)
}

func writeEscaped(w *strings.Builder, s string) {
	w.WriteString(html.EscapeString(s))
}
