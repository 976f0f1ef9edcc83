//go:build !cgo

package jpegcmyk

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

func Available() bool { return false }

func Encode(pix []byte, width, height, quality, dpi int) ([]byte, error) {
	if err := checkInput(pix, width, height); err != nil {
		return nil, err
	}
	return nil, ErrUnavailable
}

// Decode falls back to image/jpeg. That decoder applies the Adobe inversion
// to CMYK samples, so it is undone here to return the stored values.
func Decode(data []byte) (Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("jpeg decode failed: %w", err)
	}
	cmyk, ok := img.(*image.CMYK)
	if !ok {
		return Image{}, fmt.Errorf("jpeg decode failed: not a CMYK JPEG (%T)", img)
	}
	b := cmyk.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, 0, w*h*Components)
	for y := 0; y < h; y++ {
		off := y * cmyk.Stride
		for _, v := range cmyk.Pix[off : off+w*Components] {
			pix = append(pix, 255-v)
		}
	}
	return Image{Width: w, Height: h, Components: Components, Pix: pix}, nil
}
