// Package dispatcher runs conversion jobs in chunks on a bounded worker pool.
package dispatcher

import (
	"fmt"
	"sync"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/atomic"

	"tiffcmyk/contracts"
)

const (
	chunkFraction = 0.05
	maxChunkSize  = 50
)

// WorkerCount sizes the pool from a percentage of the available cores. The
// result is never below one and never above twice the core count.
func WorkerCount(cores, cpuPercent int) int {
	cores = max(1, cores)
	n := int(float64(cores) * float64(cpuPercent) / 100)
	return min(max(1, n), 2*cores)
}

// ChunkSize aims for about twenty chunks per run, between 1 and 50 jobs each.
func ChunkSize(jobCount int) int {
	return min(max(1, int(float64(jobCount)*chunkFraction)), maxChunkSize)
}

type Dispatcher struct {
	jobs      []contracts.ConversionJob
	converter contracts.Converter
	workers   int
	chunkSize int

	results   []contracts.JobResult
	completed *atomic.Int64
	remaining *atomic.Int64

	startOnce sync.Once
	done      chan struct{}
}

func New(jobs []contracts.ConversionJob, converter contracts.Converter, workers int) *Dispatcher {
	chunkSize := ChunkSize(len(jobs))
	chunks := (len(jobs) + chunkSize - 1) / chunkSize
	return &Dispatcher{
		jobs:      jobs,
		converter: converter,
		workers:   max(1, workers),
		chunkSize: chunkSize,
		results:   make([]contracts.JobResult, len(jobs)),
		completed: atomic.NewInt64(0),
		remaining: atomic.NewInt64(int64(chunks)),
		done:      make(chan struct{}),
	}
}

// Start submits every chunk and returns without waiting for them.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		go func() {
			p := pool.New().WithMaxGoroutines(d.workers)
			for start := 0; start < len(d.jobs); start += d.chunkSize {
				end := min(start+d.chunkSize, len(d.jobs))
				p.Go(func() { d.runChunk(start, end) })
			}
			p.Wait()
			close(d.done)
		}()
	})
}

func (d *Dispatcher) runChunk(start, end int) {
	for i := start; i < end; i++ {
		d.results[i] = RunJob(d.converter, d.jobs[i])
		d.completed.Inc()
	}
	d.remaining.Dec()
}

func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) Workers() int {
	return d.workers
}

func (d *Dispatcher) Progress() contracts.PoolProgress {
	return contracts.PoolProgress{
		Total:           len(d.jobs),
		Completed:       int(d.completed.Load()),
		RemainingChunks: int(d.remaining.Load()),
		ChunkSize:       d.chunkSize,
	}
}

// Wait starts the dispatcher if needed, blocks until every job has run and
// returns the results in job order.
func (d *Dispatcher) Wait() contracts.BatchReport {
	d.Start()
	<-d.done
	return contracts.NewBatchReport(d.results)
}

// RunJob converts one job. A panic inside the converter is reported as a
// failed result instead of taking the pool down.
func RunJob(converter contracts.Converter, job contracts.ConversionJob) contracts.JobResult {
	var result contracts.JobResult
	var pc panics.Catcher
	pc.Try(func() { result = converter.Convert(job) })
	if r := pc.Recovered(); r != nil {
		return contracts.JobResult{
			Job:    job,
			Status: contracts.Failed,
			Reason: fmt.Sprintf("panic: %v", r.Value),
		}
	}
	return result
}
