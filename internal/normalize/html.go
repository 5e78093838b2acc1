package normalize

import (
	"strings"

	"github.com/leadlaw/contractengine/internal/docmodel"
	"golang.org/x/net/html"
)

// ConvertHTML converts an HTML string into the canonical document tree.
// It never fails: unparseable markup degrades to an empty document plus a
// warning.
func ConvertHTML(s string) (*docmodel.Node, []string) {
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return docmodel.NewDoc(), []string{"unparseable html content; dropped"}
	}

	doc := docmodel.NewDoc()
	body := findBody(root)
	if body == nil {
		body = root
	}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		appendBlocks(doc, c)
	}
	return doc, nil
}

// appendBlocks translates one HTML node into block nodes appended to dst.
func appendBlocks(dst *docmodel.Node, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		// Stray text at block level wraps into its own paragraph.
		if strings.TrimSpace(n.Data) != "" {
			dst.Content = append(dst.Content, docmodel.NewParagraph(docmodel.NewText(n.Data)))
		}
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.Data {
	case "script", "style", "head", "nav", "header", "footer":
		return

	case "h1", "h2", "h3", "h4", "h5", "h6":
		block := docmodel.NewHeading(int(n.Data[1] - '0'))
		block.Content = collectInline(n, nil)
		applyAlign(block, n)
		dst.Content = append(dst.Content, block)

	case "p", "div":
		block := docmodel.NewParagraph(collectInline(n, nil)...)
		applyAlign(block, n)
		dst.Content = append(dst.Content, block)

	case "ul", "ol":
		listType := docmodel.TypeBulletList
		if n.Data == "ol" {
			listType = docmodel.TypeOrderedList
		}
		list := &docmodel.Node{Type: listType}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "li" {
				item := &docmodel.Node{Type: docmodel.TypeListItem}
				item.Content = append(item.Content, docmodel.NewParagraph(collectInline(c, nil)...))
				list.Content = append(list.Content, item)
			}
		}
		dst.Content = append(dst.Content, list)

	case "blockquote":
		quote := &docmodel.Node{Type: docmodel.TypeBlockquote}
		hasBlockChild := false
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				hasBlockChild = true
			}
		}
		if hasBlockChild {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				appendBlocks(quote, c)
			}
		} else {
			quote.Content = append(quote.Content, docmodel.NewParagraph(collectInline(n, nil)...))
		}
		dst.Content = append(dst.Content, quote)

	case "hr":
		dst.Content = append(dst.Content, &docmodel.Node{Type: docmodel.TypeHorizontalRule})

	default:
		// Unknown container: recurse into its children.
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			appendBlocks(dst, c)
		}
	}
}

// collectInline flattens the inline content of an element into text and
// hardBreak nodes, accumulating marks down the inline tree.
func collectInline(n *html.Node, marks []docmodel.Mark) []*docmodel.Node {
	var out []*docmodel.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			out = append(out, docmodel.NewText(c.Data, marks...))
		case html.ElementNode:
			switch c.Data {
			case "br":
				out = append(out, &docmodel.Node{Type: docmodel.TypeHardBreak})
			case "b", "strong":
				out = append(out, collectInline(c, withMark(marks, docmodel.MarkBold))...)
			case "i", "em":
				out = append(out, collectInline(c, withMark(marks, docmodel.MarkItalic))...)
			case "u":
				out = append(out, collectInline(c, withMark(marks, docmodel.MarkUnderline))...)
			case "s", "del", "strike":
				out = append(out, collectInline(c, withMark(marks, docmodel.MarkStrike))...)
			case "script", "style":
				// skip
			default:
				out = append(out, collectInline(c, marks)...)
			}
		}
	}
	return out
}

func withMark(marks []docmodel.Mark, t string) []docmodel.Mark {
	for _, m := range marks {
		if m.Type == t {
			return marks
		}
	}
	out := make([]docmodel.Mark, len(marks), len(marks)+1)
	copy(out, marks)
	return append(out, docmodel.Mark{Type: t})
}

// applyAlign lifts an inline text-align style onto the block's textAlign
// attr, which renderers use verbatim; otherwise alignment stays inferred
// from script direction downstream.
func applyAlign(block *docmodel.Node, n *html.Node) {
	for _, attr := range n.Attr {
		if attr.Key != "style" {
			continue
		}
		for _, decl := range strings.Split(attr.Val, ";") {
			k, v, ok := strings.Cut(decl, ":")
			if !ok || strings.TrimSpace(k) != "text-align" {
				continue
			}
			align := strings.TrimSpace(v)
			switch align {
			case "left", "right", "center", "justify":
				if block.Attrs == nil {
					block.Attrs = map[string]any{}
				}
				block.Attrs["textAlign"] = align
			}
		}
	}
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
