package normalize

import (
	"strings"
	"testing"

	"github.com/leadlaw/contractengine/internal/docmodel"
)

func TestForFile(t *testing.T) {
	cases := []struct {
		filename string
		want     any
	}{
		{"contract.html", &HTMLImporter{}},
		{"CONTRACT.HTM", &HTMLImporter{}},
		{"terms.md", &MarkdownImporter{}},
		{"notes.txt", &TextImporter{}},
		{"agreement.docx", &DOCXImporter{}},
		{"scan.pdf", &PDFImporter{}},
	}
	for _, c := range cases {
		imp, err := ForFile(c.filename)
		if err != nil {
			t.Errorf("ForFile(%q): %v", c.filename, err)
			continue
		}
		if imp == nil {
			t.Errorf("ForFile(%q) returned nil importer", c.filename)
		}
	}
	if _, err := ForFile("image.png"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("a.DOCX") || IsSupportedExtension("a.png") {
		t.Error("extension check wrong")
	}
}

func TestTextImporter_BlankLineParagraphs(t *testing.T) {
	in := "Service Agreement\n\nFirst clause\nsecond line\n\n\nLast clause\n"
	doc, err := (&TextImporter{}).Import(strings.NewReader(in), "a.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Content) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(doc.Content))
	}
	if doc.Content[1].Content[0].Text != "First clause\nsecond line" {
		t.Errorf("paragraph 2: %q", doc.Content[1].Content[0].Text)
	}
}

func TestMarkdownImporter_Blocks(t *testing.T) {
	in := "## Terms\n\nPay on time.\n\n- one\n- two\n\n---\n\n1. first\n"
	doc, err := (&MarkdownImporter{}).Import(strings.NewReader(in), "a.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Content) != 5 {
		t.Fatalf("expected 5 blocks, got %d: %+v", len(doc.Content), doc.Content)
	}

	if h := doc.Content[0]; h.Type != docmodel.TypeHeading || h.Content[0].Text != "Terms" {
		t.Errorf("heading: %+v", h)
	}
	if p := doc.Content[1]; p.Content[0].Text != "Pay on time." {
		t.Errorf("paragraph: %+v", p)
	}
	if l := doc.Content[2]; l.Type != docmodel.TypeBulletList || len(l.Content) != 2 {
		t.Errorf("bullet list: %+v", l)
	}
	if doc.Content[3].Type != docmodel.TypeHorizontalRule {
		t.Errorf("rule: %+v", doc.Content[3])
	}
	if l := doc.Content[4]; l.Type != docmodel.TypeOrderedList {
		t.Errorf("ordered list: %+v", l)
	}
}

func TestMarkdownImporter_NoDuplicatedText(t *testing.T) {
	doc, err := (&MarkdownImporter{}).Import(strings.NewReader("plain paragraph\n"), "a.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Content[0].Content[0].Text; got != "plain paragraph" {
		t.Errorf("got %q", got)
	}
}

func TestHTMLImporter(t *testing.T) {
	doc, err := (&HTMLImporter{}).Import(strings.NewReader("<p>Hi</p>"), "a.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Content[0].Content[0].Text != "Hi" {
		t.Errorf("tree: %+v", doc)
	}
}
