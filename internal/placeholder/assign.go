package placeholder

import (
	"fmt"
	"regexp"

	"github.com/leadlaw/contractengine/internal/docmodel"
)

// bareRe matches only the id-less interactive forms. Already-addressed
// tokens ({{text:text-3}}) never match, which makes AssignIDs a no-op on
// its own output.
var bareRe = regexp.MustCompile(`\{\{(text|signature)\}\}`)

// AssignIDs rewrites every bare {{text}} / {{signature}} token into an
// addressable {{text:text-N}} / {{signature:signature-N}} token. One counter
// is shared across the entire traversal and advances in left-to-right,
// depth-first document order, so the Nth interactive field of a template
// receives the same id on every ingestion of that template.
//
// Runs once, at template load. The returned tree is a new copy; the input
// is not mutated.
func AssignIDs(doc *docmodel.Node) *docmodel.Node {
	out := doc.Clone()
	n := 0
	out.WalkText(func(t *docmodel.Node) bool {
		t.Text = bareRe.ReplaceAllStringFunc(t.Text, func(m string) string {
			kind := m[2 : len(m)-2]
			n++
			return fmt.Sprintf("{{%s:%s-%d}}", kind, kind, n)
		})
		return true
	})
	return out
}
