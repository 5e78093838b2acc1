package resolve

import (
	"strings"

	"github.com/leadlaw/contractengine/internal/docmodel"
	"github.com/leadlaw/contractengine/internal/placeholder"
)

// Cleanup removes text nodes whose content is empty or whitespace-only,
// then paragraphs left with zero children. Runs after every resolution
// pass. Nodes still carrying an addressable field token are kept even when
// visually empty; their content is rendered externally.
func Cleanup(doc *docmodel.Node) *docmodel.Node {
	out := doc.Clone()
	cleanNode(out)
	return docmodel.EnsureDoc(out)
}

func cleanNode(n *docmodel.Node) {
	if n == nil || n.IsText() {
		return
	}
	kept := make([]*docmodel.Node, 0, len(n.Content))
	for _, c := range n.Content {
		if c.IsText() {
			if strings.TrimSpace(c.Text) == "" && !placeholder.HasAddressable(c.Text) {
				continue
			}
			kept = append(kept, c)
			continue
		}
		cleanNode(c)
		if c.Type == docmodel.TypeParagraph && len(c.Content) == 0 {
			continue
		}
		kept = append(kept, c)
	}
	n.Content = kept
}
