package normalize

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/leadlaw/contractengine/internal/docmodel"
)

// Importer converts an uploaded template file into the canonical tree.
type Importer interface {
	Import(r io.Reader, filename string) (*docmodel.Node, error)
}

// SupportedExtensions lists the template file types the import pipeline
// can handle.
var SupportedExtensions = map[string]bool{
	".html": true,
	".htm":  true,
	".md":   true,
	".txt":  true,
	".docx": true,
	".pdf":  true,
}

// ForFile returns the importer for a filename.
func ForFile(filename string) (Importer, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".txt":
		return &TextImporter{}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	case ".pdf":
		return &PDFImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported template type: %s", filepath.Ext(filename))
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// HTMLImporter handles HTML template files.
type HTMLImporter struct{}

func (p *HTMLImporter) Import(r io.Reader, filename string) (*docmodel.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	doc, _ := ConvertHTML(string(src))
	return doc, nil
}
