// Package docmodel defines the canonical recursive document tree that every
// engine pass consumes and produces. The JSON shape matches the rich-text
// editor's document format (type/attrs/content/marks/text).
package docmodel

import "strings"

// Node types.
const (
	TypeDoc            = "doc"
	TypeParagraph      = "paragraph"
	TypeHeading        = "heading"
	TypeBulletList     = "bulletList"
	TypeOrderedList    = "orderedList"
	TypeListItem       = "listItem"
	TypeBlockquote     = "blockquote"
	TypeHorizontalRule = "horizontalRule"
	TypeHardBreak      = "hardBreak"
	TypeText           = "text"
)

// Mark types.
const (
	MarkBold      = "bold"
	MarkItalic    = "italic"
	MarkUnderline = "underline"
	MarkStrike    = "strike"
)

// Mark is a text decoration on a text node.
type Mark struct {
	Type string `json:"type"`
}

// Node is one node of the document tree. Only text nodes carry Text and
// Marks; every other type owns an ordered Content sequence. Attrs holds
// per-type attributes such as the heading level and textAlign.
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// NewDoc returns a doc root owning the given children.
func NewDoc(children ...*Node) *Node {
	return &Node{Type: TypeDoc, Content: children}
}

// NewParagraph returns a paragraph owning the given children.
func NewParagraph(children ...*Node) *Node {
	return &Node{Type: TypeParagraph, Content: children}
}

// NewHeading returns a heading node. Levels outside [1,6] are clamped.
func NewHeading(level int, children ...*Node) *Node {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return &Node{
		Type:    TypeHeading,
		Attrs:   map[string]any{"level": level},
		Content: children,
	}
}

// NewText returns a text node with optional marks.
func NewText(text string, marks ...Mark) *Node {
	return &Node{Type: TypeText, Text: text, Marks: marks}
}

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool {
	return n != nil && n.Type == TypeText
}

// HeadingLevel returns the heading level attr, or 0 for non-headings.
func (n *Node) HeadingLevel() int {
	if n == nil || n.Type != TypeHeading || n.Attrs == nil {
		return 0
	}
	switch v := n.Attrs["level"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Clone returns a deep copy of the node. Passes operate on clones so that
// the input tree is never mutated in place.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Type: n.Type, Text: n.Text}
	if n.Attrs != nil {
		out.Attrs = make(map[string]any, len(n.Attrs))
		for k, v := range n.Attrs {
			out.Attrs[k] = v
		}
	}
	if n.Marks != nil {
		out.Marks = make([]Mark, len(n.Marks))
		copy(out.Marks, n.Marks)
	}
	if n.Content != nil {
		out.Content = make([]*Node, 0, len(n.Content))
		for _, c := range n.Content {
			out.Content = append(out.Content, c.Clone())
		}
	}
	return out
}

// WalkText visits every text node in left-to-right, depth-first document
// order. Returning false from fn stops the walk.
func (n *Node) WalkText(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if n.IsText() {
		return fn(n)
	}
	for _, c := range n.Content {
		if !c.WalkText(fn) {
			return false
		}
	}
	return true
}

// FlattenText concatenates the text of every text node in document order.
func (n *Node) FlattenText() string {
	var b strings.Builder
	n.WalkText(func(t *Node) bool {
		b.WriteString(t.Text)
		return true
	})
	return b.String()
}

// EnsureDoc guards against a catastrophic tree shape: anything that is not
// a doc root is replaced by an empty doc.
func EnsureDoc(n *Node) *Node {
	if n == nil || n.Type != TypeDoc {
		return NewDoc()
	}
	if n.Content == nil {
		n.Content = []*Node{}
	}
	return n
}
