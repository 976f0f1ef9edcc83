package codec

import (
	"bytes"
	"fmt"
	"image"

	"golang.org/x/image/tiff"

	"tiffcmyk/contracts"
)

// ImageFromRaster wraps 8-bit samples in an image of the same size and
// channel count. Four bands are stored as they are, without any colour
// conversion.
func ImageFromRaster(r contracts.Raster) (image.Image, error) {
	if r.Format != contracts.Uchar {
		return nil, fmt.Errorf("unsupported sample format %s", r.Format)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", r.Width, r.Height)
	}
	if want := r.Width * r.Height * r.Bands; len(r.Pix) != want {
		return nil, fmt.Errorf("pixel buffer is %d bytes, want %d", len(r.Pix), want)
	}

	rect := image.Rect(0, 0, r.Width, r.Height)
	switch r.Bands {
	case 1:
		return &image.Gray{Pix: r.Pix, Stride: r.Width, Rect: rect}, nil
	case 4:
		return &image.NRGBA{Pix: r.Pix, Stride: r.Width * 4, Rect: rect}, nil
	case 2, 3:
		img := image.NewNRGBA(rect)
		for i, j := 0, 0; i < len(r.Pix); i, j = i+r.Bands, j+4 {
			if r.Bands == 3 {
				img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = r.Pix[i], r.Pix[i+1], r.Pix[i+2], 0xff
			} else {
				g := r.Pix[i]
				img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = g, g, g, r.Pix[i+1]
			}
		}
		return img, nil
	}
	return nil, fmt.Errorf("unsupported band count %d", r.Bands)
}

// EncodeTIFF serialises r as a Deflate-compressed TIFF.
func EncodeTIFF(r contracts.Raster) ([]byte, error) {
	img, err := ImageFromRaster(r)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return nil, fmt.Errorf("error encoding TIFF: %w", err)
	}
	return buf.Bytes(), nil
}
