// Package engine is the rendering facade: it owns the parser adapter, the
// single-slot token cache, the extension registry, and the render pipeline,
// and exposes Render and Parse over documents.
package engine

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/wudragonfly/mdview/internal/logging"
	"github.com/wudragonfly/mdview/pkg/frontmatter"
	"github.com/wudragonfly/mdview/pkg/highlight"
	"github.com/wudragonfly/mdview/pkg/mdtoken"
	parser "github.com/wudragonfly/mdview/pkg/parser/goldmark"
	"github.com/wudragonfly/mdview/pkg/render"
	"github.com/wudragonfly/mdview/pkg/slug"
)

// Document is the unit the engine renders. Version must increase whenever
// Text changes; the engine trusts it and never diffs content.
type Document interface {
	// URI identifies the document, typically its file path.
	URI() string

	// Version is a monotonically increasing change counter.
	Version() int

	// Text returns the full document text including any front matter.
	Text() string
}

// TextDocument is an in-memory Document.
type TextDocument struct {
	DocURI     string
	DocVersion int
	Content    string
}

func (d TextDocument) URI() string  { return d.DocURI }
func (d TextDocument) Version() int { return d.DocVersion }
func (d TextDocument) Text() string { return d.Content }

// Stats counts engine work, mostly for tests and debug logging.
type Stats struct {
	// Tokenizations is the number of full parses performed.
	Tokenizations int

	// CacheHits is the number of renders served from cached tokens.
	CacheHits int
}

// Engine ties the parser, cache, pipeline, and extensions together.
//
// An Engine serializes its own use: it is intended for one render call at a
// time (an editor preview loop), and is not safe for concurrent use.
type Engine struct {
	adapter       *parser.Adapter
	cache         documentCache
	registry      *Registry
	config        ConfigProvider
	highlighter   highlight.Highlighter
	workspaceRoot string
	slugifier     slug.Slugifier
	logger        *log.Logger

	pipeline      *render.Pipeline
	builtSettings Settings
	built         bool

	stats Stats
}

// Option configures an Engine.
type Option func(*Engine)

// WithHighlighter overrides the syntax highlighter. By default the engine
// builds a chroma highlighter from the configured theme.
func WithHighlighter(h highlight.Highlighter) Option {
	return func(e *Engine) { e.highlighter = h }
}

// WithConfigProvider sets the settings source consulted on every render.
func WithConfigProvider(p ConfigProvider) Option {
	return func(e *Engine) { e.config = p }
}

// WithWorkspaceRoot sets the directory absolute local links resolve against.
func WithWorkspaceRoot(root string) Option {
	return func(e *Engine) { e.workspaceRoot = root }
}

// WithSlugifier overrides the heading anchor slug strategy.
func WithSlugifier(s slug.Slugifier) Option {
	return func(e *Engine) { e.slugifier = s }
}

// WithExtensions registers extensions at construction time.
func WithExtensions(exts ...Extension) Option {
	return func(e *Engine) {
		for _, ext := range exts {
			e.registry.Register(ext)
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine with default settings and the built-in pipeline
// stages.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: &Registry{},
		config:   StaticConfig{Value: DefaultSettings()},
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	settings := e.config.Settings()
	e.adapter = parser.New(parser.Options{
		Breaks:  settings.Breaks,
		Linkify: settings.Linkify,
	})
	return e
}

// Register adds an extension after construction. The pipeline is rebuilt on
// the next render.
func (e *Engine) Register(ext Extension) {
	e.registry.Register(ext)
	e.built = false
}

// ExtensionFailures returns the extension errors collected while building
// the current pipeline.
func (e *Engine) ExtensionFailures() []error {
	return e.registry.Failures()
}

// Stats returns a copy of the engine counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Render produces the final markup for a document.
func (e *Engine) Render(ctx context.Context, doc Document) (string, error) {
	tokens, lineOffset, settings, err := e.tokens(ctx, doc)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	pipe := e.ensurePipeline(settings)
	rctx := render.NewContext(doc.URI(), e.workspaceRoot, lineOffset, settings.Breaks, e.slugifier)

	out, err := pipe.Render(rctx, tokens)
	if err != nil {
		return "", err
	}

	e.logger.Debug("rendered document",
		logging.FieldDocument, doc.URI(),
		logging.FieldDocVersion, doc.Version(),
		logging.FieldTokens, len(tokens),
		logging.FieldBytesOut, len(out))
	return out, nil
}

// Parse returns the token stream for a document plus the line offset its
// stripped front matter introduced. Parse shares the cache with Render.
func (e *Engine) Parse(ctx context.Context, doc Document) ([]*mdtoken.Token, int, error) {
	tokens, lineOffset, _, err := e.tokens(ctx, doc)
	return tokens, lineOffset, err
}

// Invalidate drops the cached tokenization.
func (e *Engine) Invalidate() {
	e.cache.invalidate()
}

// tokens returns the document's token stream, tokenizing only when the
// cache does not already hold this document version under the current
// parser configuration.
func (e *Engine) tokens(ctx context.Context, doc Document) ([]*mdtoken.Token, int, Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, Settings{}, err
	}

	settings := e.config.Settings()

	// Parser flag changes make cached tokens stale.
	popts := parser.Options{Breaks: settings.Breaks, Linkify: settings.Linkify}
	if popts != e.adapter.Options() {
		e.adapter.Configure(popts)
		e.cache.invalidate()
	}

	if tokens, lineOffset, ok := e.cache.get(doc.URI(), doc.Version()); ok {
		e.stats.CacheHits++
		e.logger.Debug("token cache hit",
			logging.FieldDocument, doc.URI(),
			logging.FieldDocVersion, doc.Version())
		return tokens, lineOffset, settings, nil
	}

	_, body, lineOffset := frontmatter.Split(doc.Text())

	tokens, err := e.adapter.Parse(body)
	if err != nil {
		return nil, 0, Settings{}, err
	}
	e.stats.Tokenizations++

	e.cache.put(doc.URI(), doc.Version(), tokens, lineOffset)
	e.logger.Debug("tokenized document",
		logging.FieldDocument, doc.URI(),
		logging.FieldDocVersion, doc.Version(),
		logging.FieldTokens, len(tokens),
		logging.FieldLineOffset, lineOffset)
	return tokens, lineOffset, settings, nil
}

// ensurePipeline builds the render pipeline for the given settings, reusing
// the previous build when nothing relevant changed.
func (e *Engine) ensurePipeline(settings Settings) *render.Pipeline {
	if e.built && e.builtSettings == settings {
		return e.pipeline
	}

	h := e.highlighter
	if h == nil {
		h = highlight.NewChroma(settings.Theme)
	}

	pipe := render.NewPipeline(h)
	for _, tr := range []render.Transform{
		render.LineNumbers(),
		render.ImageStabilizer(),
		render.FenceAnnotator(),
		render.LinkNormalizer(),
		render.LinkValidator(),
		render.HeadingAnchors(),
	} {
		pipe, _ = tr(pipe)
	}
	pipe = e.registry.Apply(pipe)

	for _, err := range e.registry.Failures() {
		e.logger.Warn("extension failed to apply", logging.FieldError, err)
	}

	e.pipeline = pipe
	e.builtSettings = settings
	e.built = true
	return pipe
}
