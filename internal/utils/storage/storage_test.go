package storage

import (
	"encoding/base64"
	"testing"

	"foodgram/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64Image(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))

	img, err := DecodeBase64Image("data:image/png;base64,"+payload, AllowImage...)
	require.NoError(t, err)
	assert.Equal(t, ".png", img.Ext)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, []byte("fake-png-bytes"), img.Data)
}

func TestDecodeBase64ImageRejectsBadInput(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("x"))

	cases := map[string]string{
		"no data uri":      payload,
		"not an image":     "data:text/plain;base64," + payload,
		"disallowed ext":   "data:image/tiff;base64," + payload,
		"broken base64":    "data:image/png;base64,!!!",
		"empty payload":    "data:image/png;base64,",
		"missing encoding": "data:image/png," + payload,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeBase64Image(raw, AllowImage...)
			assert.ErrorIs(t, err, domain.ErrInvalidImageFormat)
		})
	}
}

func TestPublicLinkRoundTrip(t *testing.T) {
	link := publicLink("", "media", "eu-west-1", "recipes/abc.png")
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com/recipes/abc.png", link)
	assert.Equal(t, "recipes/abc.png", objectKeyFromLink("", "media", "eu-west-1", link))

	custom := publicLink("http://localhost:9000", "media", "", "recipes/abc.png")
	assert.Equal(t, "http://localhost:9000/media/recipes/abc.png", custom)
	assert.Equal(t, "recipes/abc.png", objectKeyFromLink("http://localhost:9000", "media", "", custom))

	assert.Empty(t, objectKeyFromLink("", "media", "eu-west-1", "https://elsewhere.example/x.png"))
}
