package frame

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("frame: unsupported format")
	ErrEmptyData         = errors.New("frame: empty data")
)

// JPEGQuality is the fixed quality used for lossy frames.
const JPEGQuality = 85

type Format string

const (
	PNG  Format = "PNG"
	JPEG Format = "JPEG"
)

// ParseFormat accepts png, jpeg and jpg in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PNG":
		return PNG, nil
	case "JPEG", "JPG":
		return JPEG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

func (f Format) String() string { return string(f) }

// MIMEType returns image/png or image/jpeg.
func (f Format) MIMEType() string { return "image/" + strings.ToLower(string(f)) }

// EncodingError wraps a failure from the underlying image codec.
type EncodingError struct {
	Format Format
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("frame: encode %s: %v", e.Format, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// EncodeTo writes buf to w in the given format.
func EncodeTo(w io.Writer, buf *PixelBuffer, format Format) error {
	if format != PNG && format != JPEG {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
	if err := buf.Validate(); err != nil {
		return &EncodingError{Format: format, Err: err}
	}

	img := buf.ToImage()
	var err error
	switch format {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return &EncodingError{Format: format, Err: err}
	}
	return nil
}

// Encode returns the complete encoded image. Nothing is returned on error.
func Encode(buf *PixelBuffer, format Format) ([]byte, error) {
	var out bytes.Buffer
	if err := EncodeTo(&out, buf, format); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DataURI formats already encoded bytes as an inline image URI.
func DataURI(data []byte, format Format) string {
	return "data:" + format.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func EncodeDataURI(buf *PixelBuffer, format Format) (string, error) {
	data, err := Encode(buf, format)
	if err != nil {
		return "", err
	}
	return DataURI(data, format), nil
}

// Save writes buf to path, choosing the format from the extension.
func Save(path string, buf *PixelBuffer) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(buf, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Clean(path), data, 0o644); err != nil {
		return fmt.Errorf("frame: write %s: %w", path, err)
	}
	return nil
}

func Decode(data []byte) (*PixelBuffer, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("frame: decode: %w", err)
	}
	return FromImage(img), nil
}

// DecodeDataURI reverses EncodeDataURI.
func DecodeDataURI(uri string) (*PixelBuffer, Format, error) {
	rest, ok := strings.CutPrefix(uri, "data:image/")
	if !ok {
		return nil, "", fmt.Errorf("frame: not an image data URI")
	}
	name, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, "", fmt.Errorf("frame: data URI is not base64")
	}
	format, err := ParseFormat(name)
	if err != nil {
		return nil, "", err
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("frame: data URI payload: %w", err)
	}
	buf, err := Decode(data)
	if err != nil {
		return nil, "", err
	}
	return buf, format, nil
}
