package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/image/tiff"

	"tiffcmyk/contracts"
	"tiffcmyk/utils"
)

func TestRegistry(t *testing.T) {
	if _, err := Lookup("go"); err != nil {
		t.Fatalf("Lookup(go): %v", err)
	}
	if !slices.Contains(Names(), "go") {
		t.Errorf("Names() = %v, want go", Names())
	}
	if _, err := Lookup("nope"); !errors.Is(err, ErrUnknownDecoder) {
		t.Errorf("Lookup(nope) err = %v", err)
	}
	if err := Shutdown(); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestRasterFromImage(t *testing.T) {
	t.Run("nrgba keeps alpha", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
		img.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 40})
		img.SetNRGBA(1, 0, color.NRGBA{50, 60, 70, 80})
		r := RasterFromImage(img, 4)
		if r.Bands != 4 || !bytes.Equal(r.Pix, []byte{10, 20, 30, 40, 50, 60, 70, 80}) {
			t.Errorf("got %+v", r)
		}
	})

	t.Run("rgba keeps stored channels", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 2, 1))
		copy(img.Pix, []byte{1, 2, 3, 255, 200, 20, 30, 50})
		for _, samples := range []int{0, 4} {
			r := RasterFromImage(img, samples)
			if r.Bands != 4 || !bytes.Equal(r.Pix, []byte{1, 2, 3, 255, 200, 20, 30, 50}) {
				t.Errorf("samples %d: got %+v", samples, r)
			}
		}
	})

	t.Run("three sample rgb", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.SetRGBA(0, 0, color.RGBA{1, 2, 3, 255})
		r := RasterFromImage(img, 3)
		if r.Bands != 3 || !bytes.Equal(r.Pix, []byte{1, 2, 3}) {
			t.Errorf("got %+v", r)
		}
	})

	t.Run("rgba64 keeps high bytes", func(t *testing.T) {
		img := image.NewRGBA64(image.Rect(0, 0, 1, 1))
		img.SetRGBA64(0, 0, color.RGBA64{0xc812, 0x1434, 0x1e56, 0x3278})
		r := RasterFromImage(img, 4)
		if r.Bands != 4 || !bytes.Equal(r.Pix, []byte{0xc8, 0x14, 0x1e, 0x32}) {
			t.Errorf("got %+v", r)
		}
	})

	t.Run("gray16 scales down", func(t *testing.T) {
		img := image.NewGray16(image.Rect(0, 0, 1, 1))
		img.SetGray16(0, 0, color.Gray16{Y: 0xabcd})
		r := RasterFromImage(img, 1)
		if r.Bands != 1 || r.Pix[0] != 0xab {
			t.Errorf("got %+v", r)
		}
	})

	t.Run("sub image", func(t *testing.T) {
		img := image.NewGray(image.Rect(0, 0, 4, 4))
		img.SetGray(2, 2, color.Gray{Y: 9})
		r := RasterFromImage(img.SubImage(image.Rect(2, 2, 4, 4)), 1)
		if r.Width != 2 || r.Height != 2 || r.Pix[0] != 9 || len(r.Pix) != 4 {
			t.Errorf("got %+v", r)
		}
	})
}

func TestEncodeTIFFRoundTrip(t *testing.T) {
	cases := []struct {
		name      string
		in        contracts.Raster
		wantBands int
		wantPix   []byte
	}{
		{
			name:      "four bands stored as is",
			in:        contracts.Raster{Width: 2, Height: 1, Bands: 4, Pix: []byte{0, 64, 128, 255, 1, 2, 3, 4}},
			wantBands: 4,
			wantPix:   []byte{0, 64, 128, 255, 1, 2, 3, 4},
		},
		{
			name:      "three bands gain opaque alpha",
			in:        contracts.Raster{Width: 1, Height: 1, Bands: 3, Pix: []byte{7, 8, 9}},
			wantBands: 4,
			wantPix:   []byte{7, 8, 9, 255},
		},
		{
			name:      "grey",
			in:        contracts.Raster{Width: 2, Height: 2, Bands: 1, Pix: []byte{1, 2, 3, 4}},
			wantBands: 1,
			wantPix:   []byte{1, 2, 3, 4},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data, err := EncodeTIFF(c.in)
			if err != nil {
				t.Fatalf("EncodeTIFF: %v", err)
			}
			path := filepath.Join(t.TempDir(), "out.tif")
			if err := os.WriteFile(path, data, 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := GoDecoder{}.Decode(path)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.Width != c.in.Width || got.Height != c.in.Height || got.Bands != c.wantBands {
				t.Fatalf("got %dx%dx%d", got.Width, got.Height, got.Bands)
			}
			if !bytes.Equal(got.Pix, c.wantPix) {
				t.Errorf("pix = %v, want %v", got.Pix, c.wantPix)
			}
		})
	}
}

func TestEncodeTIFFRejectsBadInput(t *testing.T) {
	bad := []contracts.Raster{
		{Width: 1, Height: 1, Bands: 4, Format: contracts.Float, Pix: make([]byte, 16)},
		{Width: 2, Height: 2, Bands: 4, Pix: make([]byte, 3)},
		{Width: 1, Height: 1, Bands: 5, Pix: make([]byte, 5)},
		{Width: 0, Height: 1, Bands: 1},
	}
	for i, r := range bad {
		if _, err := EncodeTIFF(r); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestGoDecoderErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := (GoDecoder{}).Decode(filepath.Join(dir, "missing.tif")); err == nil {
		t.Error("expected error for missing file")
	}
	junk := filepath.Join(dir, "junk.tif")
	if err := os.WriteFile(junk, []byte("not a tiff"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (GoDecoder{}).Decode(junk); err == nil {
		t.Error("expected error for junk file")
	}
}

func TestGoDecoderReadsEncodedFixture(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 10)
	}
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "fixture.tif")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := GoDecoder{}.Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(r.Pix, img.Pix) {
		t.Errorf("pix mismatch: %v vs %v", r.Pix, img.Pix)
	}
}

func TestGoDecoderAssociatedAlpha(t *testing.T) {
	cases := []struct {
		name string
		pix  []byte
	}{
		{"full fourth channel", []byte{10, 20, 30, 255}},
		{"partial fourth channel", []byte{100, 20, 30, 128}},
		{"fourth channel below others", []byte{200, 20, 30, 50}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 1, 1))
			copy(img.Pix, c.pix)
			var buf bytes.Buffer
			if err := tiff.Encode(&buf, img, nil); err != nil {
				t.Fatal(err)
			}
			path := filepath.Join(t.TempDir(), "rgba.tif")
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				t.Fatal(err)
			}

			r, err := GoDecoder{}.Decode(path)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if r.Bands != 4 || !bytes.Equal(r.Pix, c.pix) {
				t.Errorf("got bands=%d pix=%v, want 4 %v", r.Bands, r.Pix, c.pix)
			}
		})
	}
}

func TestGoDecoderThreeSampleRGB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rgb.tif")
	if err := os.WriteFile(path, rgbTIFF(7, 8, 9), 0o644); err != nil {
		t.Fatal(err)
	}
	if n, err := utils.GetTIFFSamplesPerPixel(path); err != nil || n != 3 {
		t.Skipf("SamplesPerPixel not readable from fixture: %d, %v", n, err)
	}

	r, err := GoDecoder{}.Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if r.Bands != 3 || !bytes.Equal(r.Pix, []byte{7, 8, 9}) {
		t.Errorf("got bands=%d pix=%v", r.Bands, r.Pix)
	}
}

// rgbTIFF builds an uncompressed 1x1 little-endian TIFF with three 8-bit
// samples per pixel, a layout golang.org/x/image/tiff never writes.
func rgbTIFF(r, g, b byte) []byte {
	const (
		ifdOffset = 8
		entries   = 9
		bpsOffset = ifdOffset + 2 + entries*12 + 4
		pixOffset = bpsOffset + 6
	)
	type entry struct {
		tag, typ uint16
		count    uint32
		value    uint32
	}
	const short, long = 3, 4
	ifd := []entry{
		{256, short, 1, 1},         // ImageWidth
		{257, short, 1, 1},         // ImageLength
		{258, short, 3, bpsOffset}, // BitsPerSample
		{259, short, 1, 1},         // Compression: none
		{262, short, 1, 2},         // PhotometricInterpretation: RGB
		{273, long, 1, pixOffset},  // StripOffsets
		{277, short, 1, 3},         // SamplesPerPixel
		{278, short, 1, 1},         // RowsPerStrip
		{279, long, 1, 3},          // StripByteCounts
	}

	var buf bytes.Buffer
	le := binary.LittleEndian
	buf.WriteString("II")
	binary.Write(&buf, le, uint16(42))
	binary.Write(&buf, le, uint32(ifdOffset))
	binary.Write(&buf, le, uint16(len(ifd)))
	for _, e := range ifd {
		binary.Write(&buf, le, e.tag)
		binary.Write(&buf, le, e.typ)
		binary.Write(&buf, le, e.count)
		if e.typ == short && e.count == 1 {
			binary.Write(&buf, le, uint16(e.value))
			binary.Write(&buf, le, uint16(0))
		} else {
			binary.Write(&buf, le, e.value)
		}
	}
	binary.Write(&buf, le, uint32(0))
	binary.Write(&buf, le, []uint16{8, 8, 8})
	buf.Write([]byte{r, g, b})
	return buf.Bytes()
}
