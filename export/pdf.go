package export

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// SavePDF renders Markdown-ish content into a PDF and returns the file
// path. Headings and bullets are enough for the plans the assistant writes;
// anything fancier stays Markdown.
func (m *Manager) SavePDF(content string) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimRight(raw, " \t")
		text := line
		style, size := "", 11.0

		switch {
		case strings.HasPrefix(line, "### "):
			text, style, size = strings.TrimPrefix(line, "### "), "B", 12
		case strings.HasPrefix(line, "## "):
			text, style, size = strings.TrimPrefix(line, "## "), "B", 14
		case strings.HasPrefix(line, "# "):
			text, style, size = strings.TrimPrefix(line, "# "), "B", 16
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			text = "  \x95 " + line[2:]
		}

		text = strings.ReplaceAll(text, "**", "")
		pdf.SetFont("Helvetica", style, size)
		pdf.MultiCell(0, 6, tr(text), "", "L", false)
	}

	path := m.newPath(".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf file: %w", err)
	}
	return path, nil
}
