//go:build cgo

package jpegcmyk

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"
)

func flatCMYK(w, h int, c, m, y, k byte) []byte {
	pix := make([]byte, 0, w*h*4)
	for i := 0; i < w*h; i++ {
		pix = append(pix, c, m, y, k)
	}
	return pix
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pix := flatCMYK(16, 8, 200, 100, 50, 10)

	data, err := Encode(pix, 16, 8, 100, 300)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xff, 0xd8}) {
		t.Fatalf("missing SOI marker")
	}

	img, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Width != 16 || img.Height != 8 || img.Components != 4 {
		t.Fatalf("got %dx%dx%d", img.Width, img.Height, img.Components)
	}
	want := []byte{200, 100, 50, 10}
	for i, v := range img.Pix {
		d := int(v) - int(want[i%4])
		if d < -3 || d > 3 {
			t.Fatalf("sample %d = %d, want about %d", i, v, want[i%4])
		}
	}
}

func TestEncodeQualityChangesSize(t *testing.T) {
	pix := make([]byte, 64*64*4)
	for i := range pix {
		pix[i] = byte(i * 7)
	}
	low, err := Encode(pix, 64, 64, 10, 0)
	if err != nil {
		t.Fatalf("Encode low: %v", err)
	}
	high, err := Encode(pix, 64, 64, 100, 0)
	if err != nil {
		t.Fatalf("Encode high: %v", err)
	}
	if len(low) >= len(high) {
		t.Errorf("quality 10 produced %d bytes, quality 100 produced %d", len(low), len(high))
	}
}

func TestEncodeRejectsBadInput(t *testing.T) {
	if _, err := Encode(make([]byte, 3), 1, 1, 90, 0); err == nil {
		t.Error("expected error for short buffer")
	}
	if _, err := Encode(nil, 0, 0, 90, 0); err == nil {
		t.Error("expected error for empty image")
	}
}

func TestDecodeRejectsNonCMYK(t *testing.T) {
	var buf bytes.Buffer
	rgb := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range rgb.Pix {
		rgb.Pix[i] = 128
	}
	rgb.Set(0, 0, color.RGBA{255, 0, 0, 255})
	if err := jpeg.Encode(&buf, rgb, nil); err != nil {
		t.Fatal(err)
	}
	_, err := Decode(buf.Bytes())
	if err == nil || !strings.Contains(err.Error(), "not a CMYK JPEG") {
		t.Errorf("err = %v", err)
	}
}

func TestDecodeCorruptData(t *testing.T) {
	if _, err := Decode([]byte("definitely not a jpeg")); err == nil {
		t.Error("expected error for corrupt data")
	}
	if _, err := Decode(nil); err == nil {
		t.Error("expected error for empty data")
	}
}
