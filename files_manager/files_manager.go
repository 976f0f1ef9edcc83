package files_manager

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tiffcmyk/contracts"
)

type ConversionJob = contracts.ConversionJob

// CollectJobs lists srcDir in directory order and pairs every file whose
// name ends with one of suffixes with a destination under dstDir carrying
// targetExt. Subdirectories are mirrored under dstDir when recurse is set.
// Symbolic links are followed; broken links are ignored.
func CollectJobs(srcDir, dstDir string, suffixes []string, targetExt string, recurse bool) ([]ConversionJob, error) {
	jobs := make([]ConversionJob, 0)
	if err := collectJobs(srcDir, dstDir, suffixes, targetExt, recurse, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func collectJobs(srcDir, dstDir string, suffixes []string, targetExt string, recurse bool, jobs *[]ConversionJob) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", srcDir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "._") {
			continue
		}
		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(srcDir, name))
			if err != nil {
				continue
			}
			mode = info.Mode().Type()
		}
		if mode.IsDir() {
			if !recurse {
				continue
			}
			if err := collectJobs(filepath.Join(srcDir, name), filepath.Join(dstDir, name), suffixes, targetExt, recurse, jobs); err != nil {
				return err
			}
			continue
		}
		if !mode.IsRegular() || !hasSuffix(name, suffixes) {
			continue
		}
		*jobs = append(*jobs, ConversionJob{
			Source:      filepath.Join(srcDir, name),
			Destination: filepath.Join(dstDir, replaceExt(name, targetExt)),
		})
	}
	return nil
}

func hasSuffix(name string, suffixes []string) bool {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

func replaceExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

// EnsureDir creates dir and its parents. An existing directory is not an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// WriteFileAtomic writes data next to path under a temporary name and
// renames it into place once the bytes are on disk.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	info, err := os.Stat(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to get file info: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(tmpPath)
		return fmt.Errorf("file is empty: %s", tmpPath)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
