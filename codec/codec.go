// Package codec holds the TIFF decoder backends and the TIFF writer.
//
// Backends register themselves by name. The pure Go backend is always
// present; libvips and ImageMagick backends are compiled in with the vips
// and imagick build tags.
package codec

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"go.uber.org/multierr"

	"tiffcmyk/contracts"
)

type Decoder interface {
	Decode(path string) (contracts.Raster, error)
}

var ErrUnknownDecoder = errors.New("unknown decoder")

var (
	mu       sync.RWMutex
	decoders = map[string]Decoder{}
)

func Register(name string, d Decoder) {
	mu.Lock()
	defer mu.Unlock()
	decoders[name] = d
}

func Lookup(name string) (Decoder, error) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := decoders[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownDecoder, name, namesLocked())
	}
	return d, nil
}

func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(decoders))
	for name := range decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shutdown releases native libraries held by registered backends.
func Shutdown() error {
	mu.RLock()
	defer mu.RUnlock()
	var err error
	for _, d := range decoders {
		if c, ok := d.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}
