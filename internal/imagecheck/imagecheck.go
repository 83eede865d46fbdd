// Package imagecheck normalizes client supplied images to data URIs and
// verifies that the payload is a decodable image.
package imagecheck

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	// Registered decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// DataURIPrefix marks input that already carries a data URI header.
	DataURIPrefix = "data:image"
	// DefaultDataURIHeader is assumed for raw base64 input. The image type is
	// not sniffed; clients sending PNG without a header still get a JPEG label.
	DefaultDataURIHeader = "data:image/jpeg;base64,"
)

// ErrMissingSeparator is returned when a data URI has no comma between header and payload.
var ErrMissingSeparator = errors.New("not enough values to unpack: data URI has no ',' separator")

// Result is the outcome of Validate. DataURI is set even when validation fails.
type Result struct {
	DataURI   string
	Header    string
	MediaType string
	Format    string
	Size      int
	Width     int
	Height    int
	Err       error
}

// OK reports whether the input is a valid image.
func (r Result) OK() bool { return r.Err == nil }

// Reason returns the failure text, or "" for a valid image.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Normalize returns s unchanged when it already starts with a data URI
// header, otherwise prefixes the JPEG header.
func Normalize(s string) string {
	if strings.HasPrefix(s, DataURIPrefix) {
		return s
	}
	return DefaultDataURIHeader + s
}

// Validate normalizes s, splits the data URI on its first comma, base64
// decodes the payload and checks the bytes parse as an image header.
func Validate(s string) Result {
	res := Result{DataURI: Normalize(s)}
	header, payload, ok := strings.Cut(res.DataURI, ",")
	if !ok {
		res.Err = ErrMissingSeparator
		return res
	}
	res.Header = header
	res.MediaType = mediaType(header)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		res.Err = fmt.Errorf("base64: %w", err)
		return res
	}
	res.Size = len(data)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		res.Err = fmt.Errorf("cannot identify image file: %w", err)
		return res
	}
	res.Format = format
	res.Width, res.Height = cfg.Width, cfg.Height
	return res
}

// mediaType extracts "image/png" from "data:image/png;base64".
func mediaType(header string) string {
	mt := strings.TrimPrefix(header, "data:")
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}
