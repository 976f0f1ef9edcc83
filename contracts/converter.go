package contracts

import "time"

type Converter interface {
	Convert(job ConversionJob) JobResult
}

type ConversionJob struct {
	Source      string
	Destination string
}

type JobStatus string

const (
	Converted JobStatus = "converted"
	Skipped   JobStatus = "skipped"
	Failed    JobStatus = "failed"
)

type JobResult struct {
	Job      ConversionJob
	Status   JobStatus
	Reason   string
	Duration time.Duration
}

func (r JobResult) Succeeded() bool {
	return r.Status == Converted
}

// BatchReport aggregates the results of one run in job order.
type BatchReport struct {
	Direction   Direction
	Source      string
	Destination string
	Started     time.Time
	Finished    time.Time
	Total       int
	Converted   int
	Skipped     int
	Failed      int
	Results     []JobResult
}

func NewBatchReport(results []JobResult) BatchReport {
	report := BatchReport{
		Total:     len(results),
		Results:   results,
	}
	for _, r := range results {
		switch r.Status {
		case Converted:
			report.Converted++
		case Skipped:
			report.Skipped++
		default:
			report.Failed++
		}
	}
	return report
}

func (b BatchReport) Completed() int {
	return b.Converted
}

// PoolProgress is a read-only snapshot of the dispatcher counters.
type PoolProgress struct {
	Total           int
	Completed       int
	RemainingChunks int
	ChunkSize       int
}
