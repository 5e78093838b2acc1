// Package normalize ingests heterogeneous template content and produces
// the canonical document tree. Every branch is total: no input, however
// malformed, escapes as an error — unusable content degrades to an empty
// document plus a recorded warning.
package normalize

import (
	"encoding/json"

	"github.com/leadlaw/contractengine/internal/docmodel"
)

// Normalize coerces any accepted template shape into a doc root:
// a canonical tree, a bare node array, a single node, a JSON string of any
// of those, an HTML string, or a legacy {html, delta} wrapper (only the
// accompanying html is interpreted).
func Normalize(raw any) (*docmodel.Node, []string) {
	var warnings []string

	switch v := raw.(type) {
	case nil:
		warnings = append(warnings, "empty template content")
		return docmodel.NewDoc(), warnings

	case *docmodel.Node:
		if v == nil {
			warnings = append(warnings, "empty template content")
			return docmodel.NewDoc(), warnings
		}
		return wrapNode(v.Clone()), warnings

	case []*docmodel.Node:
		doc := docmodel.NewDoc()
		for _, n := range v {
			if n != nil {
				doc.Content = append(doc.Content, n.Clone())
			}
		}
		return doc, warnings

	case []byte:
		return normalizeString(string(v))

	case json.RawMessage:
		return normalizeString(string(v))

	case string:
		return normalizeString(v)

	case []any:
		doc := docmodel.NewDoc()
		for _, item := range v {
			if n := nodeFromAny(item); n != nil {
				doc.Content = append(doc.Content, n)
			}
		}
		return doc, warnings

	case map[string]any:
		return normalizeMap(v)
	}

	warnings = append(warnings, "unrecognized template content shape")
	return docmodel.NewDoc(), warnings
}

// normalizeString tries JSON first; anything that fails to parse is
// treated as HTML.
func normalizeString(s string) (*docmodel.Node, []string) {
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err == nil {
		switch decoded.(type) {
		case map[string]any, []any:
			return Normalize(decoded)
		}
		// A JSON scalar is not a document; fall through to HTML.
	}
	return ConvertHTML(s)
}

func normalizeMap(m map[string]any) (*docmodel.Node, []string) {
	// Legacy rich-text wrapper: the delta itself is never interpreted,
	// only its accompanying html.
	if h, ok := m["html"].(string); ok {
		return ConvertHTML(h)
	}
	if _, ok := m["delta"]; ok {
		return docmodel.NewDoc(), []string{"legacy delta content without html; dropped"}
	}

	if t, _ := m["type"].(string); t == docmodel.TypeDoc {
		doc := docmodel.NewDoc()
		if content, ok := m["content"].([]any); ok {
			for _, item := range content {
				if n := nodeFromAny(item); n != nil {
					doc.Content = append(doc.Content, n)
				}
			}
		}
		return doc, nil
	}

	// A single node with type and content wraps as a one-child doc.
	if _, hasType := m["type"]; hasType {
		if _, hasContent := m["content"]; hasContent {
			if n := nodeFromAny(m); n != nil {
				return docmodel.NewDoc(n), nil
			}
		}
	}

	return docmodel.NewDoc(), []string{"unrecognized template object shape"}
}

func wrapNode(n *docmodel.Node) *docmodel.Node {
	if n.Type == docmodel.TypeDoc {
		return docmodel.EnsureDoc(n)
	}
	return docmodel.NewDoc(n)
}

// nodeFromAny rebuilds one node from decoded JSON. Unusable values yield
// nil rather than an error.
func nodeFromAny(v any) *docmodel.Node {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	t, _ := m["type"].(string)
	if t == "" {
		return nil
	}
	n := &docmodel.Node{Type: t}
	if text, ok := m["text"].(string); ok {
		n.Text = text
	}
	if attrs, ok := m["attrs"].(map[string]any); ok && len(attrs) > 0 {
		n.Attrs = attrs
	}
	if marks, ok := m["marks"].([]any); ok {
		for _, mk := range marks {
			if mm, ok := mk.(map[string]any); ok {
				if mt, _ := mm["type"].(string); mt != "" {
					n.Marks = append(n.Marks, docmodel.Mark{Type: mt})
				}
			}
		}
	}
	if content, ok := m["content"].([]any); ok {
		for _, item := range content {
			if c := nodeFromAny(item); c != nil {
				n.Content = append(n.Content, c)
			}
		}
	}
	return n
}
