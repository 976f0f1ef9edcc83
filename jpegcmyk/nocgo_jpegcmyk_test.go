//go:build !cgo

package jpegcmyk

import (
	"errors"
	"testing"
)

func TestEncodeUnavailable(t *testing.T) {
	if Available() {
		t.Fatal("Available() = true without cgo")
	}
	_, err := Encode(make([]byte, 4), 1, 1, 90, 0)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestDecodeRejectsJunk(t *testing.T) {
	if _, err := Decode([]byte("junk")); err == nil {
		t.Error("expected error")
	}
}
