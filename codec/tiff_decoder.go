package codec

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	chaitiff "github.com/chai2010/tiff"
	"golang.org/x/image/tiff"

	"tiffcmyk/contracts"
	"tiffcmyk/utils"
)

func init() {
	Register("go", GoDecoder{})
}

// GoDecoder reads TIFFs with golang.org/x/image/tiff and retries files that
// package does not support (floating point samples, tiled layouts) with
// github.com/chai2010/tiff.
type GoDecoder struct{}

func (GoDecoder) Decode(path string) (contracts.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return contracts.Raster{}, fmt.Errorf("error opening TIFF file: %w", err)
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		var unsupported tiff.UnsupportedError
		if !errors.As(err, &unsupported) {
			return contracts.Raster{}, fmt.Errorf("error decoding TIFF file: %w", err)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return contracts.Raster{}, fmt.Errorf("error rewinding TIFF file: %w", err)
		}
		img, err = chaitiff.Decode(f)
		if err != nil {
			return contracts.Raster{}, fmt.Errorf("error decoding TIFF file (%v): %w", unsupported, err)
		}
	}
	// 0 when the tag cannot be read.
	samples, _ := utils.GetTIFFSamplesPerPixel(path)
	return RasterFromImage(img, samples), nil
}

// RasterFromImage flattens img into 8-bit interleaved samples. samples is
// the SamplesPerPixel stored in the file, or 0 when unknown.
//
// Grey images keep one band. RGBA images keep their stored channels as they
// are, never un-premultiplied, and a 3-sample file yields three bands. Other
// images fall back to three opaque or four non-premultiplied bands.
func RasterFromImage(img image.Image, samples int) contracts.Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch m := img.(type) {
	case *image.Gray:
		pix := make([]byte, 0, w*h)
		for y := 0; y < h; y++ {
			off := y * m.Stride
			pix = append(pix, m.Pix[off:off+w]...)
		}
		return contracts.Raster{Width: w, Height: h, Bands: 1, Format: contracts.Uchar, Pix: pix}
	case *image.Gray16:
		pix := make([]byte, 0, w*h)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				pix = append(pix, uint8(m.Gray16At(x, y).Y>>8))
			}
		}
		return contracts.Raster{Width: w, Height: h, Bands: 1, Format: contracts.Uchar, Pix: pix}
	case *image.NRGBA:
		return rawRaster(m.Pix, m.Stride, w, h, 1, 4)
	case *image.RGBA:
		return rawRaster(m.Pix, m.Stride, w, h, 1, bandsFor(samples))
	case *image.NRGBA64:
		return rawRaster(m.Pix, m.Stride, w, h, 2, 4)
	case *image.RGBA64:
		return rawRaster(m.Pix, m.Stride, w, h, 2, bandsFor(samples))
	}

	if isOpaque(img) {
		pix := make([]byte, 0, w*h*3)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				pix = append(pix, c.R, c.G, c.B)
			}
		}
		return contracts.Raster{Width: w, Height: h, Bands: 3, Format: contracts.Uchar, Pix: pix}
	}

	pix := make([]byte, 0, w*h*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pix = append(pix, c.R, c.G, c.B, c.A)
		}
	}
	return contracts.Raster{Width: w, Height: h, Bands: 4, Format: contracts.Uchar, Pix: pix}
}

func isOpaque(img image.Image) bool {
	o, ok := img.(interface{ Opaque() bool })
	return ok && o.Opaque()
}

func bandsFor(samples int) int {
	if samples == 3 {
		return 3
	}
	return 4
}

// rawRaster copies the first bands channels of every 4-channel pixel in pix,
// keeping the high byte of each sampleBytes-wide sample.
func rawRaster(pix []byte, stride, w, h, sampleBytes, bands int) contracts.Raster {
	out := make([]byte, 0, w*h*bands)
	px := 4 * sampleBytes
	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+w*px]
		for i := 0; i < len(row); i += px {
			for c := 0; c < bands; c++ {
				out = append(out, row[i+c*sampleBytes])
			}
		}
	}
	return contracts.Raster{Width: w, Height: h, Bands: bands, Format: contracts.Uchar, Pix: out}
}
