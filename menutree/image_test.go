package menutree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 24)...)

func TestEncodeImage(t *testing.T) {
	uri, err := EncodeImage(pngBytes)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	mime, data, err := ParseImageDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, pngBytes, data)
}

func TestEncodeImage_RejectsNonImages(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("hello, plain text"), []byte("%PDF-1.4 ...")} {
		_, err := EncodeImage(data)
		assert.ErrorIs(t, err, ErrNotImage)
	}
}

func TestParseImageDataURI_Errors(t *testing.T) {
	for _, uri := range []string{"", "http://example.com/a.png", "data:image/png;base64", "data:image/png,AAAA", "data:image/png;base64,***"} {
		_, _, err := ParseImageDataURI(uri)
		assert.Error(t, err, uri)
	}
}

func TestAttachImage(t *testing.T) {
	tr, day := lunchTree(t)
	s := day.Shifts[0]
	v := s.Variants[0]

	next := tr.AttachImage(day.ID, s.ID, v.ID, pngBytes)
	got, _ := next.Variant(day.ID, s.ID, v.ID)
	require.NotNil(t, got.Image)
	assert.True(t, strings.HasPrefix(*got.Image, "data:image/png;base64,"))

	gif := []byte("GIF89a" + strings.Repeat("\x00", 16))
	replaced := next.AttachImage(day.ID, s.ID, v.ID, gif)
	got, _ = replaced.Variant(day.ID, s.ID, v.ID)
	assert.True(t, strings.HasPrefix(*got.Image, "data:image/gif;base64,"))

	assert.Same(t, next, next.AttachImage(day.ID, s.ID, v.ID, []byte("not an image")))
}
