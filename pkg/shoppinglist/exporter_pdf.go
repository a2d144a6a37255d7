package shoppinglist

import (
	"bytes"
	"fmt"

	"foodgram/domain"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/goregular"
)

const pdfFontFamily = "goregular"

type pdfExporter struct{}

func (pdfExporter) ContentType() string { return "application/pdf" }

func (pdfExporter) FileName() string { return "shopping_cart.pdf" }

func (pdfExporter) Render(title string, lines []domain.ShoppingListLine) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// the embedded UTF-8 font covers Cyrillic ingredient names
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", goregular.TTF)
	pdf.SetTitle(title, true)
	pdf.SetCreator("Foodgram", true)
	pdf.AddPage()

	pdf.SetFont(pdfFontFamily, "", 20)
	pdf.CellFormat(0, 14, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(pdfFontFamily, "", 12)
	if len(lines) == 0 {
		pdf.CellFormat(0, 8, emptyListText, "", 1, "L", false, 0, "")
	}
	for i, line := range lines {
		pdf.MultiCell(0, 8, fmt.Sprintf("%d. %s", i+1, FormatLine(line)), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
