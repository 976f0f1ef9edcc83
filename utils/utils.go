package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

var (
	ErrNoResolution      = errors.New("resolution tags not found")
	ErrNoSamplesPerPixel = errors.New("SamplesPerPixel tag not found")
)

const resolutionUnitCentimeter = 3

// GetTIFFDPI reads the X/Y resolution from the first IFD of a TIFF file,
// converted to dots per inch.
func GetTIFFDPI(filePath string) (float64, float64, error) {
	ifd, err := rootIfd(filePath)
	if err != nil {
		return 0, 0, err
	}

	dpiX, okX := rationalTag(ifd, "XResolution")
	dpiY, okY := rationalTag(ifd, "YResolution")
	if !okX && !okY {
		return 0, 0, ErrNoResolution
	}
	if !okX {
		dpiX = dpiY
	}
	if !okY {
		dpiY = dpiX
	}

	if tag, err := ifd.FindTagWithName("ResolutionUnit"); err == nil {
		if val, err := tag[0].Value(); err == nil {
			if firstShort(val) == resolutionUnitCentimeter {
				dpiX *= 2.54
				dpiY *= 2.54
			}
		}
	}

	return dpiX, dpiY, nil
}

// GetTIFFSamplesPerPixel returns the SamplesPerPixel tag of the first IFD.
func GetTIFFSamplesPerPixel(filePath string) (int, error) {
	ifd, err := rootIfd(filePath)
	if err != nil {
		return 0, err
	}
	tag, err := ifd.FindTagWithName("SamplesPerPixel")
	if err != nil || len(tag) == 0 {
		return 0, ErrNoSamplesPerPixel
	}
	val, err := tag[0].Value()
	if err != nil {
		return 0, fmt.Errorf("failed to read SamplesPerPixel: %w", err)
	}
	n := int(firstShort(val))
	if n == 0 {
		return 0, ErrNoSamplesPerPixel
	}
	return n, nil
}

func rootIfd(filePath string) (*exif.Ifd, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return nil, fmt.Errorf("EXIF not found: %w", err)
	}

	im := exifcommon.NewIfdMapping()
	ti := exif.NewTagIndex()
	if err := exifcommon.LoadStandardIfds(im); err != nil {
		return nil, err
	}

	_, index, err := exif.Collect(im, ti, rawExif)
	if err != nil {
		return nil, err
	}
	if index.RootIfd == nil {
		return nil, errors.New("no root IFD")
	}
	return index.RootIfd, nil
}

func firstShort(val any) uint16 {
	switch u := val.(type) {
	case uint16:
		return u
	case []uint16:
		if len(u) > 0 {
			return u[0]
		}
	}
	return 0
}

func rationalTag(ifd *exif.Ifd, name string) (float64, bool) {
	tag, err := ifd.FindTagWithName(name)
	if err != nil || len(tag) == 0 {
		return 0, false
	}
	val, err := tag[0].Value()
	if err != nil {
		return 0, false
	}
	rats, ok := val.([]exifcommon.Rational)
	if !ok || len(rats) == 0 || rats[0].Denominator == 0 {
		return 0, false
	}
	return float64(rats[0].Numerator) / float64(rats[0].Denominator), true
}

// FormatDuration renders d as h:mm:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
