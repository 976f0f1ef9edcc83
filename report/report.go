// Package report writes the batch summary to disk as JSON or PDF.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"tiffcmyk/contracts"
	"tiffcmyk/files_manager"
)

// Summary is the JSON form of a batch report.
type Summary struct {
	Direction   string      `json:"direction"`
	Source      string      `json:"source"`
	Destination string      `json:"destination"`
	Started     time.Time   `json:"started"`
	Finished    time.Time   `json:"finished"`
	Duration    string      `json:"duration"`
	Total       int         `json:"total"`
	Converted   int         `json:"converted"`
	Skipped     int         `json:"skipped"`
	Failed      int         `json:"failed"`
	Jobs        []JobDetail `json:"jobs"`
}

type JobDetail struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
}

func NewSummary(b contracts.BatchReport) Summary {
	s := Summary{
		Direction:   string(b.Direction),
		Source:      b.Source,
		Destination: b.Destination,
		Started:     b.Started,
		Finished:    b.Finished,
		Duration:    b.Finished.Sub(b.Started).Round(time.Millisecond).String(),
		Total:       b.Total,
		Converted:   b.Converted,
		Skipped:     b.Skipped,
		Failed:      b.Failed,
		Jobs:        make([]JobDetail, 0, len(b.Results)),
	}
	for _, r := range b.Results {
		s.Jobs = append(s.Jobs, JobDetail{
			Source:      r.Job.Source,
			Destination: r.Job.Destination,
			Status:      string(r.Status),
			Reason:      r.Reason,
			DurationMS:  r.Duration.Milliseconds(),
		})
	}
	return s
}

// Write stores b at path, picking the format from the file extension.
func Write(path string, b contracts.BatchReport) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(NewSummary(b), "", "  ")
	case ".pdf":
		data, err = RenderPDF(b)
	default:
		return fmt.Errorf("unsupported report format: %s", path)
	}
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if err := files_manager.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return files_manager.WriteFileAtomic(path, data)
}
