// Package jpegcmyk reads and writes four-component CMYK JPEG data through
// libjpeg. The samples are passed through unchanged in both directions, so
// an encode followed by a decode returns the same channel layout.
package jpegcmyk

import (
	"errors"
	"fmt"
)

var ErrUnavailable = errors.New("CMYK JPEG encoder unavailable: built without cgo")

const Components = 4

type Image struct {
	Width      int
	Height     int
	Components int
	Pix        []byte
}

func checkInput(pix []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if want := width * height * Components; len(pix) != want {
		return fmt.Errorf("pixel buffer is %d bytes, want %d", len(pix), want)
	}
	return nil
}
