package goldmark

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/wudragonfly/mdview/pkg/mdtoken"
)

// mapper converts a goldmark AST into the flat token stream the render
// pipeline consumes. Block elements become open/close pairs, inline content
// becomes a single inline token carrying child tokens.
type mapper struct {
	source []byte
	lines  *lineIndex
	tokens []*mdtoken.Token
}

func newMapper(source []byte) *mapper {
	return &mapper{
		source: source,
		lines:  newLineIndex(source),
	}
}

func (m *mapper) mapDocument(doc ast.Node) []*mdtoken.Token {
	m.tokens = make([]*mdtoken.Token, 0, 32)
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		m.mapBlock(child)
	}
	return m.tokens
}

func (m *mapper) emit(tok *mdtoken.Token) *mdtoken.Token {
	m.tokens = append(m.tokens, tok)
	return tok
}

// mapBlock appends the tokens for one block-level node.
func (m *mapper) mapBlock(n ast.Node) {
	switch node := n.(type) {
	case *ast.Heading:
		tag := "h" + strconv.Itoa(node.Level)
		m.emit(&mdtoken.Token{
			Type:    mdtoken.TypeHeadingOpen,
			Tag:     tag,
			Nesting: mdtoken.NestingOpen,
			Map:     m.blockRange(node),
			Block:   true,
		})
		m.emitInline(node)
		m.emit(&mdtoken.Token{
			Type:    mdtoken.TypeHeadingClose,
			Tag:     tag,
			Nesting: mdtoken.NestingClose,
			Block:   true,
		})

	case *ast.Paragraph:
		m.openClose(node, mdtoken.TypeParagraphOpen, mdtoken.TypeParagraphClose, "p", func() {
			m.emitInline(node)
		})

	case *ast.TextBlock:
		// Tight list items carry bare text blocks with no paragraph wrapper.
		m.emitInline(node)

	case *ast.Blockquote:
		m.openClose(node, mdtoken.TypeBlockquoteOpen, mdtoken.TypeBlockquoteClose, "blockquote", func() {
			m.mapChildren(node)
		})

	case *ast.List:
		m.mapList(node)

	case *ast.ListItem:
		m.openClose(node, mdtoken.TypeListItemOpen, mdtoken.TypeListItemClose, "li", func() {
			m.mapChildren(node)
		})

	case *ast.FencedCodeBlock:
		m.mapFence(node)

	case *ast.CodeBlock:
		m.emit(&mdtoken.Token{
			Type:    mdtoken.TypeCodeBlock,
			Tag:     "code",
			Nesting: mdtoken.NestingSelf,
			Map:     m.blockRange(node),
			Content: m.segmentsText(node.Lines()),
			Block:   true,
		})

	case *ast.ThematicBreak:
		m.emit(&mdtoken.Token{
			Type:    mdtoken.TypeHr,
			Tag:     "hr",
			Nesting: mdtoken.NestingSelf,
			Block:   true,
		})

	case *ast.HTMLBlock:
		m.mapHTMLBlock(node)

	case *east.Table:
		m.mapTable(node)

	default:
		// Unknown block kinds contribute their children only.
		if n.Type() == ast.TypeBlock {
			m.mapChildren(n)
		}
	}
}

// openClose emits an open token, runs body, and emits the matching close.
func (m *mapper) openClose(n ast.Node, openType, closeType, tag string, body func()) {
	m.emit(&mdtoken.Token{
		Type:    openType,
		Tag:     tag,
		Nesting: mdtoken.NestingOpen,
		Map:     m.blockRange(n),
		Block:   true,
	})
	body()
	m.emit(&mdtoken.Token{
		Type:    closeType,
		Tag:     tag,
		Nesting: mdtoken.NestingClose,
		Block:   true,
	})
}

func (m *mapper) mapChildren(n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		m.mapBlock(child)
	}
}

func (m *mapper) mapList(list *ast.List) {
	openType, closeType, tag := mdtoken.TypeBulletListOpen, mdtoken.TypeBulletListClose, "ul"
	var attrs []mdtoken.Attr
	if list.IsOrdered() {
		openType, closeType, tag = mdtoken.TypeOrderedOpen, mdtoken.TypeOrderedClose, "ol"
		if list.Start != 1 {
			attrs = append(attrs, mdtoken.Attr{Name: "start", Value: strconv.Itoa(list.Start)})
		}
	}

	m.emit(&mdtoken.Token{
		Type:    openType,
		Tag:     tag,
		Nesting: mdtoken.NestingOpen,
		Map:     m.blockRange(list),
		Attrs:   attrs,
		Block:   true,
	})
	m.mapChildren(list)
	m.emit(&mdtoken.Token{
		Type:    closeType,
		Tag:     tag,
		Nesting: mdtoken.NestingClose,
		Block:   true,
	})
}

func (m *mapper) mapFence(fence *ast.FencedCodeBlock) {
	info := ""
	if fence.Info != nil {
		info = string(fence.Info.Segment.Value(m.source))
	}

	m.emit(&mdtoken.Token{
		Type:    mdtoken.TypeFence,
		Tag:     "code",
		Nesting: mdtoken.NestingSelf,
		Map:     m.fenceRange(fence),
		Content: m.segmentsText(fence.Lines()),
		Info:    info,
		Block:   true,
	})
}

func (m *mapper) mapHTMLBlock(block *ast.HTMLBlock) {
	content := m.segmentsText(block.Lines())
	if block.HasClosure() {
		content += string(block.ClosureLine.Value(m.source))
	}

	m.emit(&mdtoken.Token{
		Type:    mdtoken.TypeHTMLBlock,
		Nesting: mdtoken.NestingSelf,
		Map:     m.blockRange(block),
		Content: content,
		Block:   true,
	})
}

func (m *mapper) mapTable(table *east.Table) {
	m.emit(&mdtoken.Token{
		Type:    mdtoken.TypeTableOpen,
		Tag:     "table",
		Nesting: mdtoken.NestingOpen,
		Map:     m.blockRange(table),
		Block:   true,
	})

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		switch r := row.(type) {
		case *east.TableHeader:
			m.wrap(mdtoken.TypeTheadOpen, mdtoken.TypeTheadClose, "thead", func() {
				m.mapTableRow(r, "th", mdtoken.TypeThOpen, mdtoken.TypeThClose)
			})
		case *east.TableRow:
			m.mapTableRow(r, "td", mdtoken.TypeTdOpen, mdtoken.TypeTdClose)
		}
	}

	m.emit(&mdtoken.Token{
		Type:    mdtoken.TypeTableClose,
		Tag:     "table",
		Nesting: mdtoken.NestingClose,
		Block:   true,
	})
}

func (m *mapper) wrap(openType, closeType, tag string, body func()) {
	m.emit(&mdtoken.Token{Type: openType, Tag: tag, Nesting: mdtoken.NestingOpen, Block: true})
	body()
	m.emit(&mdtoken.Token{Type: closeType, Tag: tag, Nesting: mdtoken.NestingClose, Block: true})
}

func (m *mapper) mapTableRow(row ast.Node, cellTag, openType, closeType string) {
	m.wrap(mdtoken.TypeTrOpen, mdtoken.TypeTrClose, "tr", func() {
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			tc, ok := cell.(*east.TableCell)
			if !ok {
				continue
			}

			var attrs []mdtoken.Attr
			if align := alignmentStyle(tc.Alignment); align != "" {
				attrs = append(attrs, mdtoken.Attr{Name: "style", Value: align})
			}

			m.emit(&mdtoken.Token{
				Type:    openType,
				Tag:     cellTag,
				Nesting: mdtoken.NestingOpen,
				Attrs:   attrs,
				Block:   true,
			})
			m.emitInline(tc)
			m.emit(&mdtoken.Token{
				Type:    closeType,
				Tag:     cellTag,
				Nesting: mdtoken.NestingClose,
				Block:   true,
			})
		}
	})
}

func alignmentStyle(a east.Alignment) string {
	switch a {
	case east.AlignLeft:
		return "text-align:left"
	case east.AlignCenter:
		return "text-align:center"
	case east.AlignRight:
		return "text-align:right"
	default:
		return ""
	}
}

// emitInline emits the inline token carrying the inline children of a block
// node.
func (m *mapper) emitInline(parent ast.Node) {
	m.emit(&mdtoken.Token{
		Type:     mdtoken.TypeInline,
		Map:      m.blockRange(parent),
		Children: m.mapInlines(parent),
		Block:    false,
	})
}

// mapInlines converts the inline children of a node into inline tokens.
func (m *mapper) mapInlines(parent ast.Node) []*mdtoken.Token {
	var out []*mdtoken.Token

	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			out = append(out, &mdtoken.Token{
				Type:    mdtoken.TypeText,
				Content: string(node.Segment.Value(m.source)),
			})
			switch {
			case node.HardLineBreak():
				out = append(out, &mdtoken.Token{Type: mdtoken.TypeHardbreak})
			case node.SoftLineBreak():
				out = append(out, &mdtoken.Token{Type: mdtoken.TypeSoftbreak})
			}

		case *ast.String:
			out = append(out, &mdtoken.Token{
				Type:    mdtoken.TypeText,
				Content: string(node.Value),
			})

		case *ast.CodeSpan:
			out = append(out, &mdtoken.Token{
				Type:    mdtoken.TypeCodeInline,
				Tag:     "code",
				Content: m.inlineText(node),
			})

		case *ast.Emphasis:
			openType, closeType, tag := mdtoken.TypeEmOpen, mdtoken.TypeEmClose, "em"
			if node.Level == 2 {
				openType, closeType, tag = mdtoken.TypeStrongOpen, mdtoken.TypeStrongClose, "strong"
			}
			out = append(out, &mdtoken.Token{Type: openType, Tag: tag, Nesting: mdtoken.NestingOpen})
			out = append(out, m.mapInlines(node)...)
			out = append(out, &mdtoken.Token{Type: closeType, Tag: tag, Nesting: mdtoken.NestingClose})

		case *east.Strikethrough:
			out = append(out, &mdtoken.Token{Type: mdtoken.TypeStrikeOpen, Tag: "del", Nesting: mdtoken.NestingOpen})
			out = append(out, m.mapInlines(node)...)
			out = append(out, &mdtoken.Token{Type: mdtoken.TypeStrikeClose, Tag: "del", Nesting: mdtoken.NestingClose})

		case *ast.Link:
			open := &mdtoken.Token{Type: mdtoken.TypeLinkOpen, Tag: "a", Nesting: mdtoken.NestingOpen}
			open.AttrSet("href", string(node.Destination))
			if len(node.Title) > 0 {
				open.AttrSet("title", string(node.Title))
			}
			out = append(out, open)
			out = append(out, m.mapInlines(node)...)
			out = append(out, &mdtoken.Token{Type: mdtoken.TypeLinkClose, Tag: "a", Nesting: mdtoken.NestingClose})

		case *ast.AutoLink:
			out = append(out, m.mapAutoLink(node)...)

		case *ast.Image:
			img := &mdtoken.Token{
				Type:     mdtoken.TypeImage,
				Tag:      "img",
				Nesting:  mdtoken.NestingSelf,
				Children: m.mapInlines(node),
			}
			img.AttrSet("src", string(node.Destination))
			if len(node.Title) > 0 {
				img.AttrSet("title", string(node.Title))
			}
			out = append(out, img)

		case *ast.RawHTML:
			out = append(out, &mdtoken.Token{
				Type:    mdtoken.TypeHTMLInline,
				Content: m.rawHTMLText(node),
			})

		case *east.TaskCheckBox:
			content := `<input disabled="" type="checkbox">`
			if node.IsChecked {
				content = `<input checked="" disabled="" type="checkbox">`
			}
			out = append(out, &mdtoken.Token{
				Type:    mdtoken.TypeHTMLInline,
				Content: content + " ",
			})

		default:
			out = append(out, m.mapInlines(child)...)
		}
	}

	return out
}

func (m *mapper) mapAutoLink(node *ast.AutoLink) []*mdtoken.Token {
	url := string(node.URL(m.source))
	label := string(node.Label(m.source))

	href := url
	if node.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(href, "mailto:") {
		href = "mailto:" + href
	}

	open := &mdtoken.Token{Type: mdtoken.TypeLinkOpen, Tag: "a", Nesting: mdtoken.NestingOpen}
	open.AttrSet("href", href)

	return []*mdtoken.Token{
		open,
		{Type: mdtoken.TypeText, Content: label},
		{Type: mdtoken.TypeLinkClose, Tag: "a", Nesting: mdtoken.NestingClose},
	}
}

// inlineText concatenates the text segments beneath an inline node.
func (m *mapper) inlineText(n ast.Node) string {
	var sb strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			sb.Write(t.Segment.Value(m.source))
		}
	}
	return sb.String()
}

func (m *mapper) rawHTMLText(n *ast.RawHTML) string {
	var sb strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		sb.Write(seg.Value(m.source))
	}
	return sb.String()
}

// segmentsText concatenates the source text of a block's line segments.
func (m *mapper) segmentsText(lines *text.Segments) string {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(m.source))
	}
	return sb.String()
}

// blockRange computes the 0-based [start, end) line range of a block node,
// or nil when the node has no resolvable source position. Containers derive
// their range from their descendants.
func (m *mapper) blockRange(n ast.Node) *mdtoken.LineRange {
	start, stop, ok := m.byteRange(n)
	if !ok {
		return nil
	}

	last := stop - 1
	if last < start {
		last = start
	}
	return &mdtoken.LineRange{
		Start: m.lines.lineOf(start),
		End:   m.lines.lineOf(last) + 1,
	}
}

// fenceRange computes the line range of a fenced code block including the
// opening fence line. The info string segment sits on the fence line itself;
// without one the range falls back to the line above the first content line.
func (m *mapper) fenceRange(fence *ast.FencedCodeBlock) *mdtoken.LineRange {
	lines := fence.Lines()

	var startLine int
	switch {
	case fence.Info != nil:
		startLine = m.lines.lineOf(fence.Info.Segment.Start)
	case lines.Len() > 0:
		startLine = m.lines.lineOf(lines.At(0).Start) - 1
		if startLine < 0 {
			startLine = 0
		}
	default:
		return nil
	}

	endLine := startLine + 1
	if lines.Len() > 0 {
		endLine = m.lines.lineOf(lines.At(lines.Len()-1).Stop-1) + 1
	}
	// Account for the closing fence line when it exists within the source.
	if endLine < len(m.lines.starts) {
		endLine++
	}

	return &mdtoken.LineRange{Start: startLine, End: endLine}
}

// byteRange resolves the source byte span of a block node.
func (m *mapper) byteRange(n ast.Node) (int, int, bool) {
	if n.Type() != ast.TypeBlock {
		return 0, 0, false
	}

	if lines := n.Lines(); lines.Len() > 0 {
		return lines.At(0).Start, lines.At(lines.Len()-1).Stop, true
	}

	// Containers have no own lines; aggregate over children.
	start, stop := 0, 0
	found := false
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		cs, cstop, ok := m.byteRange(child)
		if !ok {
			continue
		}
		if !found || cs < start {
			start = cs
		}
		if !found || cstop > stop {
			stop = cstop
		}
		found = true
	}
	return start, stop, found
}
