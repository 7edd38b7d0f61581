// Package frame names, encodes and records the images a run produces
package frame

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// Filename returns prefix + num zero-padded to pad digits + suffix
// Filename("out/image", 32, 5, ".bmp") == "out/image00032.bmp"
func Filename(prefix string, num, pad int, suffix string) string {
	return fmt.Sprintf("%s%0*d%s", prefix, pad, num, suffix)
}

// Encoder writes one image in a fixed format
type Encoder func(w io.Writer, img image.Image) error

// EncoderFor picks the encoder from a file suffix
func EncoderFor(suffix string) (Encoder, error) {
	switch strings.ToLower(filepath.Ext("x" + suffix)) {
	case ".bmp":
		return bmp.Encode, nil
	case ".png":
		return png.Encode, nil
	default:
		return nil, errors.Errorf("unsupported image suffix %q (want .bmp or .png)", suffix)
	}
}
