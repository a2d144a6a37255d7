package storage

import (
	"encoding/base64"
	"slices"
	"strings"

	"foodgram/domain"
)

type DecodedImage struct {
	Ext         string
	ContentType string
	Data        []byte
}

// DecodeBase64Image parses a data URI such as "data:image/png;base64,...".
// The extension derived from the MIME subtype must be in allow.
func DecodeBase64Image(raw string, allow ...string) (DecodedImage, error) {
	header, payload, ok := strings.Cut(raw, ";base64,")
	if !ok || !strings.HasPrefix(header, "data:image/") {
		return DecodedImage{}, domain.ErrInvalidImageFormat
	}

	subtype := strings.ToLower(strings.TrimPrefix(header, "data:image/"))
	ext := "." + subtype
	if len(allow) > 0 && !slices.Contains(allow, ext) {
		return DecodedImage{}, domain.ErrInvalidImageFormat
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return DecodedImage{}, domain.ErrInvalidImageFormat
	}

	return DecodedImage{
		Ext:         ext,
		ContentType: "image/" + subtype,
		Data:        data,
	}, nil
}
