package normalize

import (
	"bytes"
	"io"
	"strings"

	"github.com/leadlaw/contractengine/internal/docmodel"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownImporter handles Markdown templates using goldmark.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (*docmodel.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)

	doc := docmodel.NewDoc()
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		appendMarkdownBlock(doc, n, src)
	}
	return doc, nil
}

func appendMarkdownBlock(dst *docmodel.Node, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Heading:
		if t := extractMarkdownText(node, src); t != "" {
			dst.Content = append(dst.Content, docmodel.NewHeading(node.Level, docmodel.NewText(t)))
		}

	case *ast.List:
		listType := docmodel.TypeBulletList
		if node.IsOrdered() {
			listType = docmodel.TypeOrderedList
		}
		list := &docmodel.Node{Type: listType}
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			if t := extractMarkdownText(item, src); t != "" {
				li := &docmodel.Node{Type: docmodel.TypeListItem}
				li.Content = append(li.Content, docmodel.NewParagraph(docmodel.NewText(t)))
				list.Content = append(list.Content, li)
			}
		}
		if len(list.Content) > 0 {
			dst.Content = append(dst.Content, list)
		}

	case *ast.Blockquote:
		quote := &docmodel.Node{Type: docmodel.TypeBlockquote}
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			appendMarkdownBlock(quote, c, src)
		}
		if len(quote.Content) > 0 {
			dst.Content = append(dst.Content, quote)
		}

	case *ast.ThematicBreak:
		dst.Content = append(dst.Content, &docmodel.Node{Type: docmodel.TypeHorizontalRule})

	default:
		if t := extractMarkdownText(n, src); t != "" {
			dst.Content = append(dst.Content, docmodel.NewParagraph(docmodel.NewText(t)))
		}
	}
}

// extractMarkdownText gets the plain text content of a goldmark AST node.
func extractMarkdownText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(extractMarkdownText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
