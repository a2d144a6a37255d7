package shoppinglist

import (
	"fmt"
	"strings"

	"foodgram/domain"
)

// Exporter renders a consolidated shopping list into a downloadable document.
type Exporter interface {
	ContentType() string
	FileName() string
	Render(title string, lines []domain.ShoppingListLine) ([]byte, error)
}

// NewExporter picks the exporter for format. An empty format means PDF.
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", domain.ExportFormatPDF:
		return pdfExporter{}, nil
	case domain.ExportFormatPNG:
		return pngExporter{}, nil
	case domain.ExportFormatText:
		return textExporter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedExportFormat, format)
	}
}

// FormatLine is the textual form of a line shared by every exporter.
func FormatLine(line domain.ShoppingListLine) string {
	return fmt.Sprintf("%s (%s) — %d", line.Name, line.MeasurementUnit, line.Amount)
}

const emptyListText = "Nothing to buy yet."

type textExporter struct{}

func (textExporter) ContentType() string { return "text/plain; charset=utf-8" }

func (textExporter) FileName() string { return "shopping_cart.txt" }

func (textExporter) Render(title string, lines []domain.ShoppingListLine) ([]byte, error) {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	if len(lines) == 0 {
		b.WriteString(emptyListText)
		b.WriteString("\n")
	}
	for _, line := range lines {
		b.WriteString(FormatLine(line))
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}
