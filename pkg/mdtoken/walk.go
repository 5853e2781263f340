package mdtoken

import "strings"

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(t *Token) error

// Walk visits every token in the stream in order, descending into Children.
// If fn returns a non-nil error the walk stops immediately and returns it.
func Walk(tokens []*Token, fn WalkFunc) error {
	for _, tok := range tokens {
		if err := fn(tok); err != nil {
			return err
		}
		if len(tok.Children) > 0 {
			if err := Walk(tok.Children, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// FlattenText concatenates the textual content of a token's children,
// ignoring markup tokens. Used to derive heading anchor text and image alt
// text.
func FlattenText(tokens []*Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		switch tok.Type {
		case TypeText, TypeCodeInline:
			sb.WriteString(tok.Content)
		default:
			if len(tok.Children) > 0 {
				sb.WriteString(FlattenText(tok.Children))
			}
		}
	}
	return sb.String()
}

// Headings returns the inline token carrying the text of each heading in the
// stream, keyed by the heading_open token. The slices are parallel: entry i
// of both results describes the i-th heading.
func Headings(tokens []*Token) (opens []*Token, inlines []*Token) {
	for i, tok := range tokens {
		if tok.Type != TypeHeadingOpen {
			continue
		}
		opens = append(opens, tok)
		if i+1 < len(tokens) && tokens[i+1].Type == TypeInline {
			inlines = append(inlines, tokens[i+1])
		} else {
			inlines = append(inlines, nil)
		}
	}
	return opens, inlines
}
