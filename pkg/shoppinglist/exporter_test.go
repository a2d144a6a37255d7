package shoppinglist

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"foodgram/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleLines = []domain.ShoppingListLine{
	{Name: "сахар", MeasurementUnit: "г", Amount: 300},
	{Name: "sugar", MeasurementUnit: "tsp", Amount: 2},
}

func TestNewExporter(t *testing.T) {
	for format, want := range map[string]string{
		"":    "shopping_cart.pdf",
		"pdf": "shopping_cart.pdf",
		"PNG": "shopping_cart.png",
		"txt": "shopping_cart.txt",
	} {
		exporter, err := NewExporter(format)
		require.NoError(t, err, format)
		assert.Equal(t, want, exporter.FileName())
	}

	_, err := NewExporter("docx")
	assert.ErrorIs(t, err, domain.ErrUnsupportedExportFormat)
}

func TestTextExporter(t *testing.T) {
	out, err := textExporter{}.Render(domain.ShoppingListTitle, sampleLines)
	require.NoError(t, err)
	assert.Equal(t, "Shopping list\n\nсахар (г) — 300\nsugar (tsp) — 2\n", string(out))

	empty, err := textExporter{}.Render(domain.ShoppingListTitle, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(empty), emptyListText+"\n"))
}

func TestPDFExporterProducesDocument(t *testing.T) {
	out, err := pdfExporter{}.Render(domain.ShoppingListTitle, sampleLines)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%%EOF")
}

func TestPNGExporterProducesImage(t *testing.T) {
	out, err := pngExporter{}.Render(domain.ShoppingListTitle, sampleLines)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, pngWidth, img.Bounds().Dx())
	assert.Greater(t, img.Bounds().Dy(), int(pngMargin*2))
}
