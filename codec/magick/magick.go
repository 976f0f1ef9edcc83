//go:build imagick

// Package magick registers an ImageMagick TIFF decoder under the name "magick".
package magick

import (
	"fmt"
	"sync"

	"gopkg.in/gographics/imagick.v2/imagick"

	"tiffcmyk/codec"
	"tiffcmyk/contracts"
)

func init() {
	codec.Register("magick", &Decoder{})
}

type Decoder struct {
	once    sync.Once
	started bool
}

// Decode exports the first frame of path as 8-bit RGBA.
func (d *Decoder) Decode(path string) (contracts.Raster, error) {
	d.once.Do(func() {
		imagick.Initialize()
		d.started = true
	})

	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ReadImage(path); err != nil {
		return contracts.Raster{}, fmt.Errorf("magick: error reading %s: %w", path, err)
	}
	mw.SetFirstIterator()

	width, height := mw.GetImageWidth(), mw.GetImageHeight()
	out, err := mw.ExportImagePixels(0, 0, width, height, "RGBA", imagick.PIXEL_CHAR)
	if err != nil {
		return contracts.Raster{}, fmt.Errorf("magick: error exporting pixels of %s: %w", path, err)
	}
	pix, ok := out.([]byte)
	if !ok {
		return contracts.Raster{}, fmt.Errorf("magick: unexpected pixel buffer %T", out)
	}
	return contracts.Raster{
		Width:  int(width),
		Height: int(height),
		Bands:  4,
		Format: contracts.Uchar,
		Pix:    pix,
	}, nil
}

func (d *Decoder) Close() error {
	if d.started {
		imagick.Terminate()
	}
	return nil
}
