package converter

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"tiffcmyk/contracts"
	"tiffcmyk/dispatcher"
	"tiffcmyk/files_manager"
	"tiffcmyk/progress"
)

// Runner converts one resolved input path, a single file or a directory
// tree, and reports what happened to every job.
type Runner struct {
	Config    contracts.RunConfig
	Converter contracts.Converter
	Log       logrus.FieldLogger
	Out       io.Writer
	Cores     int
}

func (r *Runner) Run() (contracts.BatchReport, error) {
	started := time.Now()

	var report contracts.BatchReport
	if files_manager.IsDir(r.Config.InPath) {
		var err error
		report, err = r.runDirectory()
		if err != nil {
			return contracts.BatchReport{}, err
		}
	} else {
		report = r.runFile()
	}

	report.Direction = r.Config.Direction
	report.Source = r.Config.InPath
	report.Destination = r.Config.OutPath
	report.Started = started
	report.Finished = time.Now()
	return report, nil
}

func (r *Runner) runDirectory() (contracts.BatchReport, error) {
	cfg := r.Config
	if err := files_manager.EnsureDir(cfg.OutPath); err != nil {
		return contracts.BatchReport{}, err
	}

	jobs, err := files_manager.CollectJobs(cfg.InPath, cfg.OutPath, cfg.Direction.SourceSuffixes(), cfg.Direction.TargetExt(), cfg.Recurse)
	if err != nil {
		return contracts.BatchReport{}, err
	}

	d := dispatcher.New(jobs, r.Converter, dispatcher.WorkerCount(r.Cores, cfg.CPUPercent))
	r.Log.WithFields(logrus.Fields{
		"jobs":    len(jobs),
		"workers": d.Workers(),
		"chunk":   d.Progress().ChunkSize,
	}).Debug("starting conversion")

	d.Start()
	progress.NewReporter(r.Out, cfg.ProgressInterval).Track(d)
	report := d.Wait()

	fmt.Fprintf(r.Out, "completed: %d of %d\n", report.Completed(), report.Total)
	return report, nil
}

func (r *Runner) runFile() contracts.BatchReport {
	job := contracts.ConversionJob{
		Source:      r.Config.InPath,
		Destination: files_manager.SingleFileDestination(r.Config.InPath, r.Config.OutPath),
	}
	result := dispatcher.RunJob(r.Converter, job)
	return contracts.NewBatchReport([]contracts.JobResult{result})
}
