package mdtoken_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudragonfly/mdview/pkg/mdtoken"
)

func TestAttrSet(t *testing.T) {
	t.Parallel()

	tok := &mdtoken.Token{Type: mdtoken.TypeHeadingOpen, Tag: "h1"}

	tok.AttrSet("id", "intro")
	v, ok := tok.AttrGet("id")
	require.True(t, ok)
	assert.Equal(t, "intro", v)

	// Setting again replaces, preserving position.
	tok.AttrSet("class", "code-line")
	tok.AttrSet("id", "overview")
	v, _ = tok.AttrGet("id")
	assert.Equal(t, "overview", v)
	assert.Equal(t, "id", tok.Attrs[0].Name)
	assert.Len(t, tok.Attrs, 2)
}

func TestAttrJoin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		initial  []mdtoken.Attr
		join     [2]string
		expected string
	}{
		{
			name:     "absent attribute is created",
			initial:  nil,
			join:     [2]string{"class", "loading"},
			expected: "loading",
		},
		{
			name:     "existing attribute is joined with a space",
			initial:  []mdtoken.Attr{{Name: "class", Value: "code-line"}},
			join:     [2]string{"class", "hljs"},
			expected: "code-line hljs",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tok := &mdtoken.Token{Attrs: testCase.initial}
			tok.AttrJoin(testCase.join[0], testCase.join[1])

			v, ok := tok.AttrGet(testCase.join[0])
			require.True(t, ok)
			assert.Equal(t, testCase.expected, v)
		})
	}
}

func TestAttrGetMissing(t *testing.T) {
	t.Parallel()

	tok := &mdtoken.Token{}
	_, ok := tok.AttrGet("href")
	assert.False(t, ok)
}

func TestFlattenText(t *testing.T) {
	t.Parallel()

	inline := []*mdtoken.Token{
		{Type: mdtoken.TypeText, Content: "Hello "},
		{Type: mdtoken.TypeEmOpen},
		{Type: mdtoken.TypeText, Content: "brave"},
		{Type: mdtoken.TypeEmClose},
		{Type: mdtoken.TypeText, Content: " "},
		{Type: mdtoken.TypeCodeInline, Content: "new"},
		{Type: mdtoken.TypeText, Content: " world"},
	}

	assert.Equal(t, "Hello brave new world", mdtoken.FlattenText(inline))
}

func TestFlattenTextNested(t *testing.T) {
	t.Parallel()

	inline := []*mdtoken.Token{
		{Type: mdtoken.TypeLinkOpen},
		{Type: mdtoken.TypeImage, Children: []*mdtoken.Token{
			{Type: mdtoken.TypeText, Content: "alt text"},
		}},
		{Type: mdtoken.TypeLinkClose},
	}

	assert.Equal(t, "alt text", mdtoken.FlattenText(inline))
}

func TestWalkStopsOnError(t *testing.T) {
	t.Parallel()

	tokens := []*mdtoken.Token{
		{Type: mdtoken.TypeParagraphOpen},
		{Type: mdtoken.TypeInline, Children: []*mdtoken.Token{
			{Type: mdtoken.TypeText, Content: "a"},
			{Type: mdtoken.TypeText, Content: "b"},
		}},
		{Type: mdtoken.TypeParagraphClose},
	}

	var visited []string
	err := mdtoken.Walk(tokens, func(tok *mdtoken.Token) error {
		visited = append(visited, tok.Type)
		if tok.Content == "a" {
			return assert.AnError
		}
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, []string{
		mdtoken.TypeParagraphOpen,
		mdtoken.TypeInline,
		mdtoken.TypeText,
	}, visited)
}

func TestHeadings(t *testing.T) {
	t.Parallel()

	tokens := []*mdtoken.Token{
		{Type: mdtoken.TypeHeadingOpen, Tag: "h1"},
		{Type: mdtoken.TypeInline, Children: []*mdtoken.Token{
			{Type: mdtoken.TypeText, Content: "Title"},
		}},
		{Type: mdtoken.TypeHeadingClose, Tag: "h1"},
		{Type: mdtoken.TypeParagraphOpen, Tag: "p"},
		{Type: mdtoken.TypeInline},
		{Type: mdtoken.TypeParagraphClose, Tag: "p"},
	}

	opens, inlines := mdtoken.Headings(tokens)
	require.Len(t, opens, 1)
	require.Len(t, inlines, 1)
	assert.Equal(t, "Title", mdtoken.FlattenText(inlines[0].Children))
}

func TestLineRangeLen(t *testing.T) {
	t.Parallel()

	r := mdtoken.LineRange{Start: 2, End: 5}
	assert.Equal(t, 3, r.Len())
}
