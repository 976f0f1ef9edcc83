package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"tiffcmyk/codec"
	"tiffcmyk/config"
	"tiffcmyk/contracts"
	"tiffcmyk/converter"
	"tiffcmyk/files_manager"
	"tiffcmyk/jpegcmyk"
	"tiffcmyk/logging"
	"tiffcmyk/report"
	"tiffcmyk/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, err := config.ParseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "[ERROR]: %v\n", err)
		return 1
	}

	cfg, notes, err := config.Build(flags)
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR]: %v\n", err)
		return 1
	}
	if cfg.Direction == contracts.ToJPEG && !jpegcmyk.Available() {
		fmt.Fprintf(stderr, "[ERROR]: %v\n", jpegcmyk.ErrUnavailable)
		return 1
	}
	for _, note := range notes {
		fmt.Fprintln(stdout, note)
	}

	log, closeLog, err := logging.New(logging.Options{Output: stdout, LogPath: cfg.LogPath, Verbose: cfg.Verbose})
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR]: %v\n", err)
		return 1
	}
	defer closeLog()

	cfg.InPath, cfg.OutPath, err = files_manager.ResolvePaths(cfg.InPath, cfg.OutPath)
	if err != nil {
		log.WithField("inpath", cfg.InPath).Error(err)
		return 1
	}

	decoder, err := codec.Lookup(cfg.Decoder)
	if err != nil {
		log.Error(err)
		return 1
	}
	defer func() {
		if err := codec.Shutdown(); err != nil {
			log.WithError(err).Warn("decoder shutdown failed")
		}
	}()

	runner := &converter.Runner{
		Config:    cfg,
		Converter: converter.New(cfg, decoder, log),
		Log:       log,
		Out:       stdout,
		Cores:     runtime.NumCPU(),
	}
	batch, err := runner.Run()
	if err != nil {
		log.Error(err)
		return 1
	}

	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, batch); err != nil {
			log.WithError(err).Error("failed to write report")
		} else {
			log.WithField("report", cfg.ReportPath).Info("report written")
		}
	}

	if batch.Completed() == 0 {
		return 1
	}
	fmt.Fprintf(stdout, "Output location: %s\n", cfg.OutPath)
	fmt.Fprintf(stdout, "Run Duration: %s\n", utils.FormatDuration(batch.Finished.Sub(batch.Started)))
	return 0
}
