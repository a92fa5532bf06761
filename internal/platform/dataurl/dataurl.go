// Package dataurl reads and writes base64 "data:" URLs, the form images take
// between the browser, the image pipeline and the model engines.
package dataurl

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrMalformed = errors.New("dataurl: malformed data url")

// Split separates "data:<mime>;base64,<payload>" without decoding. ok is
// false when s is not a base64 data URL.
func Split(s string) (mime, payload string, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !found {
		return "", "", false
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", "", false
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", "", false
	}
	if mime == "" {
		mime = "application/octet-stream"
	}
	return mime, payload, true
}

// Parse decodes a data URL. The "data:" form is required.
func Parse(u string) (mime string, data []byte, err error) {
	mime, payload, ok := Split(u)
	if !ok {
		return "", nil, ErrMalformed
	}
	data, err = decodeBase64(payload)
	if err != nil {
		return "", nil, err
	}
	return mime, data, nil
}

// Decode is Parse that also accepts a bare base64 payload, reported with an
// empty mime type.
func Decode(s string) (mime string, data []byte, err error) {
	if mime, payload, ok := Split(s); ok {
		data, err = decodeBase64(payload)
		return mime, data, err
	}
	data, err = decodeBase64(s)
	return "", data, err
}

func Encode(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, ErrMalformed
		}
	}
	return data, nil
}
