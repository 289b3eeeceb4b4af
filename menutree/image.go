package menutree

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// EncodeImage turns raw image bytes into a data URI. The MIME type is
// sniffed from the content; anything that is not image/* is rejected.
func EncodeImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNotImage
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", ErrNotImage
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ParseImageDataURI is the inverse of EncodeImage.
func ParseImageDataURI(uri string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errors.New("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("data URI has no payload")
	}
	mime, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, errors.New("data URI is not base64 encoded")
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mime, data, nil
}
