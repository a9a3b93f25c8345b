// Package textenc decodes region input files to UTF-8 and encodes the
// merged output.
//
// Region files are either UTF-8, optionally starting with a byte-order
// mark (Excel on Windows writes one), or Windows-1252 for the few regions
// that still export from legacy tooling. Which regions are legacy is an
// operator setting, see [NewOverrides].
package textenc

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding identifies the character encoding of an input file.
type Encoding int

const (
	UTF8 Encoding = iota
	Windows1252
)

func (e Encoding) String() string {
	switch e {
	case Windows1252:
		return "windows-1252"
	default:
		return "utf-8"
	}
}

// ErrInvalidUTF8 is returned by readers of UTF8 input that is not valid UTF-8.
var ErrInvalidUTF8 = encoding.ErrInvalidUTF8

// IsEncodingError reports whether err stems from undecodable input.
func IsEncodingError(err error) bool {
	return errors.Is(err, ErrInvalidUTF8)
}

// NewReader wraps r so that reads yield UTF-8 text in the given encoding.
//
// For UTF8 a leading byte-order mark is dropped and malformed sequences fail
// the read with ErrInvalidUTF8 instead of being replaced.
func NewReader(r io.Reader, enc Encoding) io.Reader {
	switch enc {
	case Windows1252:
		return transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		// Validate before the BOM decoder, which would replace ill-formed bytes.
		return transform.NewReader(r, transform.Chain(encoding.UTF8Validator, unicode.UTF8BOM.NewDecoder()))
	}
}

// NewWriter wraps w for UTF-8 output, prefixed with a byte-order mark when
// bom is set. Close must be called to flush the encoder.
func NewWriter(w io.Writer, bom bool) io.WriteCloser {
	if !bom {
		return nopCloser{w}
	}
	return transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Overrides maps region codes to a non-default input encoding.
type Overrides map[string]Encoding

// NewOverrides marks every code in legacy as Windows1252.
func NewOverrides(legacy []string) Overrides {
	o := make(Overrides, len(legacy))
	for _, code := range legacy {
		code = strings.TrimSpace(code)
		if code != "" {
			o[code] = Windows1252
		}
	}
	return o
}

// For returns the encoding of the given region's input file.
// Codes compare exactly, as in the region config.
func (o Overrides) For(code string) Encoding {
	if enc, ok := o[code]; ok {
		return enc
	}
	return UTF8
}
