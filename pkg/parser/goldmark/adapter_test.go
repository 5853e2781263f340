package goldmark_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudragonfly/mdview/pkg/mdtoken"
	goldmark "github.com/wudragonfly/mdview/pkg/parser/goldmark"
)

func parse(t *testing.T, source string) []*mdtoken.Token {
	t.Helper()

	adapter := goldmark.New(goldmark.Options{Linkify: true})
	tokens, err := adapter.Parse(source)
	require.NoError(t, err)
	return tokens
}

func types(tokens []*mdtoken.Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestParseHeadingAndParagraph(t *testing.T) {
	t.Parallel()

	tokens := parse(t, "# Title\n\nSome text.\n")

	assert.Equal(t, []string{
		mdtoken.TypeHeadingOpen,
		mdtoken.TypeInline,
		mdtoken.TypeHeadingClose,
		mdtoken.TypeParagraphOpen,
		mdtoken.TypeInline,
		mdtoken.TypeParagraphClose,
	}, types(tokens))

	assert.Equal(t, "h1", tokens[0].Tag)
	require.NotNil(t, tokens[0].Map)
	assert.Equal(t, 0, tokens[0].Map.Start)

	require.NotNil(t, tokens[3].Map)
	assert.Equal(t, 2, tokens[3].Map.Start)
	assert.Equal(t, "Some text.", mdtoken.FlattenText(tokens[4].Children))
}

func TestParseHeadingLevels(t *testing.T) {
	t.Parallel()

	tokens := parse(t, "### Deep\n")
	assert.Equal(t, "h3", tokens[0].Tag)
}

func TestParseFence(t *testing.T) {
	t.Parallel()

	tokens := parse(t, "intro\n\n```go\nfunc main() {}\n```\n")

	var fence *mdtoken.Token
	for _, tok := range tokens {
		if tok.Type == mdtoken.TypeFence {
			fence = tok
		}
	}

	require.NotNil(t, fence)
	assert.Equal(t, "go", fence.Info)
	assert.Equal(t, "func main() {}\n", fence.Content)
	require.NotNil(t, fence.Map)
	// Map starts at the opening fence line, not the first content line.
	assert.Equal(t, 2, fence.Map.Start)
	assert.Equal(t, 5, fence.Map.End)
}

func TestParseFenceWithoutInfo(t *testing.T) {
	t.Parallel()

	tokens := parse(t, "```\nplain\n```\n")

	require.Equal(t, mdtoken.TypeFence, tokens[0].Type)
	assert.Empty(t, tokens[0].Info)
	require.NotNil(t, tokens[0].Map)
	assert.Equal(t, 0, tokens[0].Map.Start)
}

func TestParseHTMLContent(t *testing.T) {
	t.Parallel()

	tokens := parse(t, "<div class=\"note\">\nraw\n</div>\n\nbefore <span>mid</span> after\n")

	require.Equal(t, mdtoken.TypeHTMLBlock, tokens[0].Type)
	assert.Equal(t, "<div class=\"note\">\nraw\n</div>\n", tokens[0].Content)

	inline := tokens[2]
	require.Equal(t, mdtoken.TypeInline, inline.Type)

	var spans []string
	for _, child := range inline.Children {
		if child.Type == mdtoken.TypeHTMLInline {
			spans = append(spans, child.Content)
		}
	}
	assert.Equal(t, []string{"<span>", "</span>"}, spans)
}

func TestParseBlockquoteAndList(t *testing.T) {
	t.Parallel()

	tokens := parse(t, "> quoted\n\n- one\n- two\n")

	got := types(tokens)
	assert.Contains(t, got, mdtoken.TypeBlockquoteOpen)
	assert.Contains(t, got, mdtoken.TypeBulletListOpen)
	assert.Contains(t, got, mdtoken.TypeListItemOpen)

	for _, tok := range tokens {
		if tok.Type == mdtoken.TypeBlockquoteOpen {
			require.NotNil(t, tok.Map)
			assert.Equal(t, 0, tok.Map.Start)
		}
		if tok.Type == mdtoken.TypeBulletListOpen {
			require.NotNil(t, tok.Map)
			assert.Equal(t, 2, tok.Map.Start)
			assert.Equal(t, 4, tok.Map.End)
		}
	}
}

func TestParseOrderedListStart(t *testing.T) {
	t.Parallel()

	tokens := parse(t, "3. three\n4. four\n")

	require.Equal(t, mdtoken.TypeOrderedOpen, tokens[0].Type)
	start, ok := tokens[0].AttrGet("start")
	require.True(t, ok)
	assert.Equal(t, "3", start)
}

func TestParseInlineMarkup(t *testing.T) {
	t.Parallel()

	tokens := parse(t, "a *b* **c** `d` [e](https://example.com)\n")

	require.Equal(t, mdtoken.TypeInline, tokens[1].Type)
	children := types(tokens[1].Children)

	assert.Contains(t, children, mdtoken.TypeEmOpen)
	assert.Contains(t, children, mdtoken.TypeStrongOpen)
	assert.Contains(t, children, mdtoken.TypeCodeInline)
	assert.Contains(t, children, mdtoken.TypeLinkOpen)

	for _, child := range tokens[1].Children {
		if child.Type == mdtoken.TypeLinkOpen {
			href, ok := child.AttrGet("href")
			require.True(t, ok)
			assert.Equal(t, "https://example.com", href)
		}
	}
}

func TestParseImage(t *testing.T) {
	t.Parallel()

	tokens := parse(t, "![alt text](img.png \"a title\")\n")

	var img *mdtoken.Token
	for _, child := range tokens[1].Children {
		if child.Type == mdtoken.TypeImage {
			img = child
		}
	}

	require.NotNil(t, img)
	src, _ := img.AttrGet("src")
	assert.Equal(t, "img.png", src)
	title, _ := img.AttrGet("title")
	assert.Equal(t, "a title", title)
	assert.Equal(t, "alt text", mdtoken.FlattenText(img.Children))
}

func TestParseLinkify(t *testing.T) {
	t.Parallel()

	hasLink := func(tokens []*mdtoken.Token) bool {
		found := false
		_ = mdtoken.Walk(tokens, func(tok *mdtoken.Token) error {
			if tok.Type == mdtoken.TypeLinkOpen {
				found = true
			}
			return nil
		})
		return found
	}

	withLinkify := goldmark.New(goldmark.Options{Linkify: true})
	tokens, err := withLinkify.Parse("visit https://example.com today\n")
	require.NoError(t, err)
	assert.True(t, hasLink(tokens))

	withoutLinkify := goldmark.New(goldmark.Options{Linkify: false})
	tokens, err = withoutLinkify.Parse("visit https://example.com today\n")
	require.NoError(t, err)
	assert.False(t, hasLink(tokens))
}

func TestConfigureReappliesOptions(t *testing.T) {
	t.Parallel()

	adapter := goldmark.New(goldmark.Options{Linkify: false})
	adapter.Configure(goldmark.Options{Linkify: true})
	assert.True(t, adapter.Options().Linkify)

	tokens, err := adapter.Parse("https://example.com\n")
	require.NoError(t, err)

	found := false
	_ = mdtoken.Walk(tokens, func(tok *mdtoken.Token) error {
		if tok.Type == mdtoken.TypeLinkOpen {
			found = true
		}
		return nil
	})
	assert.True(t, found)
}

func TestParseDeterministic(t *testing.T) {
	t.Parallel()

	adapter := goldmark.New(goldmark.Options{Linkify: true})

	source := "# A\n\ntext with [link](./other.md)\n\n```go\ncode\n```\n"
	first, err := adapter.Parse(source)
	require.NoError(t, err)
	second, err := adapter.Parse(source)
	require.NoError(t, err)

	assert.Equal(t, types(first), types(second))
}

func TestParseTable(t *testing.T) {
	t.Parallel()

	tokens := parse(t, "| a | b |\n|---|---|\n| c | d |\n")

	got := types(tokens)
	assert.Contains(t, got, mdtoken.TypeTableOpen)
	assert.Contains(t, got, mdtoken.TypeTheadOpen)
	assert.Contains(t, got, mdtoken.TypeThOpen)
	assert.Contains(t, got, mdtoken.TypeTdOpen)
}

func TestParseHardAndSoftBreaks(t *testing.T) {
	t.Parallel()

	tokens := parse(t, "one\ntwo  \nthree\n")

	children := types(tokens[1].Children)
	assert.Contains(t, children, mdtoken.TypeSoftbreak)
	assert.Contains(t, children, mdtoken.TypeHardbreak)
}

func TestParseEmptyDocument(t *testing.T) {
	t.Parallel()

	tokens := parse(t, "")
	assert.Empty(t, tokens)
}
