package docmodel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClone_DeepCopy(t *testing.T) {
	doc := NewDoc(
		NewHeading(2, NewText("Agreement")),
		NewParagraph(NewText("Hello", Mark{Type: MarkBold})),
	)
	clone := doc.Clone()

	if diff := cmp.Diff(doc, clone); diff != "" {
		t.Fatalf("clone differs from original (-want +got):\n%s", diff)
	}

	clone.Content[1].Content[0].Text = "changed"
	clone.Content[1].Content[0].Marks[0].Type = MarkItalic
	if doc.Content[1].Content[0].Text != "Hello" {
		t.Error("mutating clone text leaked into original")
	}
	if doc.Content[1].Content[0].Marks[0].Type != MarkBold {
		t.Error("mutating clone marks leaked into original")
	}
}

func TestWalkText_DocumentOrder(t *testing.T) {
	doc := NewDoc(
		NewParagraph(NewText("a"), NewText("b")),
		&Node{Type: TypeBulletList, Content: []*Node{
			{Type: TypeListItem, Content: []*Node{NewParagraph(NewText("c"))}},
		}},
		NewParagraph(NewText("d")),
	)

	var got []string
	doc.WalkText(func(n *Node) bool {
		got = append(got, n.Text)
		return true
	})

	want := []string{"a", "b", "c", "d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong visit order (-want +got):\n%s", diff)
	}
}

func TestWalkText_StopsEarly(t *testing.T) {
	doc := NewDoc(NewParagraph(NewText("a"), NewText("b"), NewText("c")))
	var visited int
	doc.WalkText(func(n *Node) bool {
		visited++
		return n.Text != "b"
	})
	if visited != 2 {
		t.Errorf("expected 2 visits, got %d", visited)
	}
}

func TestFlattenText(t *testing.T) {
	doc := NewDoc(
		NewParagraph(NewText("For 2 applicants- ")),
		NewParagraph(NewText("price here")),
	)
	want := "For 2 applicants- price here"
	if got := doc.FlattenText(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEnsureDoc(t *testing.T) {
	if got := EnsureDoc(nil); got.Type != TypeDoc || len(got.Content) != 0 {
		t.Errorf("nil did not reset to empty doc: %+v", got)
	}
	if got := EnsureDoc(NewParagraph()); got.Type != TypeDoc {
		t.Errorf("non-doc root did not reset: %+v", got)
	}
	doc := NewDoc(NewParagraph(NewText("x")))
	if got := EnsureDoc(doc); got != doc {
		t.Error("valid doc was replaced")
	}
}

func TestHeadingLevel(t *testing.T) {
	if got := NewHeading(3).HeadingLevel(); got != 3 {
		t.Errorf("expected level 3, got %d", got)
	}
	// Decoded JSON carries levels as float64.
	n := &Node{Type: TypeHeading, Attrs: map[string]any{"level": float64(2)}}
	if got := n.HeadingLevel(); got != 2 {
		t.Errorf("expected level 2, got %d", got)
	}
	if got := NewHeading(9).HeadingLevel(); got != 6 {
		t.Errorf("expected clamp to 6, got %d", got)
	}
	if got := NewParagraph().HeadingLevel(); got != 0 {
		t.Errorf("expected 0 for paragraph, got %d", got)
	}
}
