package normalize

import (
	"bufio"
	"io"
	"strings"

	"github.com/leadlaw/contractengine/internal/docmodel"
)

// TextImporter handles plain text templates: blank-line separated blocks
// become paragraphs.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*docmodel.Node, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := docmodel.NewDoc()
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			doc.Content = append(doc.Content, docmodel.NewParagraph(docmodel.NewText(current.String())))
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}
