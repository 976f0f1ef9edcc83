// Package logging configures the process logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Options struct {
	Output  io.Writer
	LogPath string
	Verbose bool
}

// New returns a logger writing to opts.Output and, when LogPath is set, to
// that file as well. The returned close function releases the file.
func New(opts Options) (*logrus.Logger, func() error, error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	closeFn := func() error { return nil }

	if opts.LogPath != "" {
		f, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(out, f)
		closeFn = f.Close
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&lineFormatter{inner: &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	}})
	log.SetLevel(logrus.InfoLevel)
	if opts.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log, closeFn, nil
}

// lineFormatter starts every entry with a carriage return so log lines
// replace a half-drawn progress line instead of being appended to it.
type lineFormatter struct {
	inner logrus.Formatter
}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b, err := f.inner.Format(entry)
	if err != nil {
		return nil, err
	}
	return append([]byte("\r"), b...), nil
}
