package shoppinglist

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"foodgram/domain"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	pngWidth      = 800
	pngMargin     = 40.0
	pngTitleSize  = 32.0
	pngLineSize   = 20.0
	pngLineHeight = 32.0
)

var (
	pngFontOnce sync.Once
	pngFont     *truetype.Font
	pngFontErr  error
)

func loadPNGFont() (*truetype.Font, error) {
	pngFontOnce.Do(func() {
		pngFont, pngFontErr = truetype.Parse(goregular.TTF)
	})
	return pngFont, pngFontErr
}

func pngFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		Hinting: font.HintingNone,
	})
}

type pngExporter struct{}

func (pngExporter) ContentType() string { return "image/png" }

func (pngExporter) FileName() string { return "shopping_cart.png" }

func (pngExporter) Render(title string, lines []domain.ShoppingListLine) ([]byte, error) {
	f, err := loadPNGFont()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	texts := make([]string, 0, len(lines))
	for i, line := range lines {
		texts = append(texts, fmt.Sprintf("%d. %s", i+1, FormatLine(line)))
	}
	if len(texts) == 0 {
		texts = append(texts, emptyListText)
	}

	height := int(pngMargin*2 + pngTitleSize + pngLineHeight + float64(len(texts))*pngLineHeight)
	dc := gg.NewContext(pngWidth, height)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(color.Black)
	dc.SetFontFace(pngFace(f, pngTitleSize))
	dc.DrawStringAnchored(title, pngWidth/2, pngMargin+pngTitleSize/2, 0.5, 0.5)

	dc.SetFontFace(pngFace(f, pngLineSize))
	y := pngMargin + pngTitleSize + pngLineHeight
	for _, text := range texts {
		dc.DrawString(text, pngMargin, y+pngLineSize)
		y += pngLineHeight
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
