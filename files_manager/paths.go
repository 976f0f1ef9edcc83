package files_manager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrInputMissing = errors.New("inpath does not exist")

// CleanPath removes surrounding quotes and one leading backslash left over
// from shells that prefix relative paths with it.
func CleanPath(p string) string {
	if len(p) >= 2 {
		first, last := p[0], p[len(p)-1]
		if (first == '"' || first == '\'') && first == last {
			p = p[1 : len(p)-1]
		}
	}
	if strings.HasPrefix(p, `\`) && !strings.HasPrefix(p, `\\`) {
		p = p[1:]
	}
	return p
}

// ResolvePaths cleans both paths, makes the output absolute against the
// working directory and checks that the input exists.
func ResolvePaths(inPath, outPath string) (string, string, error) {
	inPath = CleanPath(inPath)
	outPath = CleanPath(outPath)

	if !filepath.IsAbs(outPath) {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("failed to get working directory: %w", err)
		}
		outPath = filepath.Join(wd, outPath)
	}

	if _, err := os.Stat(inPath); err != nil {
		return inPath, outPath, fmt.Errorf("%w: %s", ErrInputMissing, inPath)
	}
	return inPath, outPath, nil
}

// SingleFileDestination returns the output path for a one-file run: an
// existing output directory receives the input's base name.
func SingleFileDestination(inPath, outPath string) string {
	if info, err := os.Stat(outPath); err == nil && info.IsDir() {
		return filepath.Join(outPath, filepath.Base(inPath))
	}
	return outPath
}
