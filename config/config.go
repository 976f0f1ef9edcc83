// Package config turns command line input into a validated, immutable RunConfig.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"

	"tiffcmyk/contracts"
)

const (
	MinQuality = 0
	MaxQuality = 100
)

func DefaultConfig() contracts.RunConfig {
	return contracts.RunConfig{
		Quality:          90,
		CPUPercent:       100,
		Decoder:          "go",
		ProgressInterval: 2 * time.Second,
	}
}

// ParseFormat maps the -f value onto a conversion direction.
func ParseFormat(format string) (contracts.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "j", "jpg":
		return contracts.ToJPEG, nil
	case "t", "tif":
		return contracts.ToTIFF, nil
	case "":
		return "", errors.New("format is required (use j, jpg, t or tif)")
	}
	return "", fmt.Errorf("invalid format %q (use j, jpg, t or tif)", format)
}

func ClampQuality(q int) int {
	return max(MinQuality, min(MaxQuality, q))
}

// Build validates flags and returns the run configuration together with
// notes meant for the user, such as an adjusted quality value. All
// validation problems are reported together.
func Build(flags contracts.InputFlags) (contracts.RunConfig, []string, error) {
	cfg := DefaultConfig()
	var notes []string
	var err error

	if flags.InPath == "" {
		err = multierr.Append(err, errors.New("inpath is required"))
	}
	if flags.OutPath == "" {
		err = multierr.Append(err, errors.New("outpath is required"))
	}

	direction, formatErr := ParseFormat(flags.Format)
	err = multierr.Append(err, formatErr)

	if flags.ReportPath != "" {
		switch strings.ToLower(filepath.Ext(flags.ReportPath)) {
		case ".json", ".pdf":
		default:
			err = multierr.Append(err, fmt.Errorf("report must be a .json or .pdf file: %s", flags.ReportPath))
		}
	}

	if err != nil {
		return contracts.RunConfig{}, nil, err
	}

	quality := ClampQuality(flags.Quality)
	if quality != flags.Quality {
		notes = append(notes, fmt.Sprintf("using quality: %d", quality))
	}

	cfg.InPath = flags.InPath
	cfg.OutPath = flags.OutPath
	cfg.Direction = direction
	cfg.Quality = quality
	cfg.Overwrite = flags.Overwrite
	cfg.Recurse = flags.Recurse
	cfg.CPUPercent = flags.CPUPercent
	cfg.ReportPath = flags.ReportPath
	cfg.LogPath = flags.LogPath
	cfg.Verbose = flags.Verbose
	if flags.Decoder != "" {
		cfg.Decoder = strings.ToLower(flags.Decoder)
	}
	return cfg, notes, nil
}
