//go:build vips

// Package vips registers a libvips TIFF decoder under the name "vips".
package vips

import (
	"fmt"
	"sync"

	govips "github.com/davidbyttow/govips/v2/vips"

	"tiffcmyk/codec"
	"tiffcmyk/contracts"
)

func init() {
	codec.Register("vips", &Decoder{})
}

type Decoder struct {
	once    sync.Once
	started bool
}

func (d *Decoder) start() {
	d.once.Do(func() {
		govips.LoggingSettings(nil, govips.LogLevelError)
		govips.Startup(nil)
		d.started = true
	})
}

// Decode loads path and returns the image memory exactly as libvips holds
// it, keeping the native band count and sample format.
func (d *Decoder) Decode(path string) (contracts.Raster, error) {
	d.start()

	img, err := govips.NewImageFromFile(path)
	if err != nil {
		return contracts.Raster{}, fmt.Errorf("vips: error reading %s: %w", path, err)
	}
	defer img.Close()

	format, err := sampleFormat(img.BandFormat())
	if err != nil {
		return contracts.Raster{}, err
	}
	pix, err := img.ToBytes()
	if err != nil {
		return contracts.Raster{}, fmt.Errorf("vips: error reading pixels of %s: %w", path, err)
	}
	return contracts.Raster{
		Width:  img.Width(),
		Height: img.Height(),
		Bands:  img.Bands(),
		Format: format,
		Pix:    pix,
	}, nil
}

func (d *Decoder) Close() error {
	if d.started {
		govips.Shutdown()
	}
	return nil
}

func sampleFormat(f govips.BandFormat) (contracts.SampleFormat, error) {
	switch f {
	case govips.BandFormatUchar:
		return contracts.Uchar, nil
	case govips.BandFormatChar:
		return contracts.Char, nil
	case govips.BandFormatUshort:
		return contracts.Ushort, nil
	case govips.BandFormatShort:
		return contracts.Short, nil
	case govips.BandFormatUint:
		return contracts.Uint, nil
	case govips.BandFormatInt:
		return contracts.Int, nil
	case govips.BandFormatFloat:
		return contracts.Float, nil
	case govips.BandFormatDouble:
		return contracts.Double, nil
	}
	return 0, fmt.Errorf("vips: unsupported band format %v", f)
}
