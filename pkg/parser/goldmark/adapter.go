// Package goldmark wraps the goldmark tokenizer behind the engine's parser
// adapter contract: global parser configuration plus a Parse function that
// turns document text into a token stream with source line maps.
package goldmark

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/wudragonfly/mdview/pkg/mdtoken"
)

// Options holds the global parser flags. They are sourced from per-document
// configuration and re-applied on every render, so the adapter must be cheap
// to reconfigure when nothing changed.
type Options struct {
	// Breaks treats single line breaks as hard breaks. The flag is applied
	// by the render stage (softbreak rule); it is carried here because it is
	// part of the per-document parser configuration surface.
	Breaks bool

	// Linkify autodetects bare URLs and turns them into links.
	Linkify bool
}

// Adapter wraps a configured goldmark instance.
//
// Parse is pure given fixed configuration: equal input text yields an equal
// token stream, and no I/O is performed.
type Adapter struct {
	opts Options
	md   goldmark.Markdown
}

// New creates an adapter with the given options.
func New(opts Options) *Adapter {
	a := &Adapter{}
	a.Configure(opts)
	return a
}

// Configure applies global parser flags, rebuilding the underlying goldmark
// instance only when the options actually changed.
func (a *Adapter) Configure(opts Options) {
	if a.md != nil && opts == a.opts {
		return
	}
	a.opts = opts
	a.md = newGoldmarkInstance(opts)
}

// Options returns the currently applied options.
func (a *Adapter) Options() Options {
	return a.opts
}

// Parse tokenizes the given body text into a flat token stream with
// 0-based source line maps relative to the body.
func (a *Adapter) Parse(source string) (tokens []*mdtoken.Token, err error) {
	// Tokenizer-level failures are not recovered into degraded output; they
	// surface as an error for this call only.
	defer func() {
		if r := recover(); r != nil {
			tokens = nil
			err = fmt.Errorf("tokenize document: %v", r)
		}
	}()

	content := []byte(source)
	doc := a.md.Parser().Parse(text.NewReader(content))

	return newMapper(content).mapDocument(doc), nil
}

// newGoldmarkInstance builds the goldmark instance for the given options.
// The GFM pieces are enabled individually so Linkify can be toggled without
// losing tables, strikethrough, and task lists.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(opts Options) goldmark.Markdown {
	exts := []goldmark.Extender{
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
	}
	if opts.Linkify {
		exts = append(exts, extension.Linkify)
	}

	return goldmark.New(goldmark.WithExtensions(exts...))
}
