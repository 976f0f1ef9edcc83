package converter

import (
	"encoding/binary"
	"fmt"
	"math"

	"tiffcmyk/contracts"
)

// ToUchar converts every sample of r to an 8-bit unsigned value. Float and
// double samples are scaled by 255 first; values outside [0,255] saturate.
// This differs from a plain integer cast, which wraps modulo 256.
func ToUchar(r contracts.Raster) (contracts.Raster, error) {
	size := r.Format.Size()
	if size == 0 {
		return contracts.Raster{}, fmt.Errorf("unsupported sample format %s", r.Format)
	}
	n := r.Width * r.Height * r.Bands
	if len(r.Pix) != n*size {
		return contracts.Raster{}, fmt.Errorf("pixel buffer is %d bytes, want %d", len(r.Pix), n*size)
	}
	if r.Format == contracts.Uchar {
		return r, nil
	}

	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = saturate(sampleAt(r.Pix[i*size:], r.Format))
	}
	r.Pix = out
	r.Format = contracts.Uchar
	return r, nil
}

func sampleAt(b []byte, f contracts.SampleFormat) float64 {
	le := binary.NativeEndian
	switch f {
	case contracts.Char:
		return float64(int8(b[0]))
	case contracts.Ushort:
		return float64(le.Uint16(b))
	case contracts.Short:
		return float64(int16(le.Uint16(b)))
	case contracts.Uint:
		return float64(le.Uint32(b))
	case contracts.Int:
		return float64(int32(le.Uint32(b)))
	case contracts.Float:
		return float64(math.Float32frombits(le.Uint32(b))) * 255
	case contracts.Double:
		return math.Float64frombits(le.Uint64(b)) * 255
	}
	return float64(b[0])
}

func saturate(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// ToFourBands lays out 8-bit samples as the four CMYK components the JPEG
// encoder expects.
func ToFourBands(r contracts.Raster) (contracts.Raster, error) {
	if r.Format != contracts.Uchar {
		return contracts.Raster{}, fmt.Errorf("unsupported sample format %s", r.Format)
	}
	if r.Bands == 4 {
		return r, nil
	}
	n := r.Width * r.Height
	if len(r.Pix) != n*r.Bands {
		return contracts.Raster{}, fmt.Errorf("pixel buffer is %d bytes, want %d", len(r.Pix), n*r.Bands)
	}

	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		src := r.Pix[i*r.Bands:]
		dst := out[i*4 : i*4+4]
		switch r.Bands {
		case 1:
			dst[0], dst[1], dst[2] = src[0], src[0], src[0]
		case 2:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], src[1]
		case 3:
			dst[0], dst[1], dst[2] = src[0], src[1], src[2]
		default:
			return contracts.Raster{}, fmt.Errorf("unsupported band count %d", r.Bands)
		}
	}
	r.Pix = out
	r.Bands = 4
	return r, nil
}
