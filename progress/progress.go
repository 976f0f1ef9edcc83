// Package progress draws an estimated completion line while a batch runs.
//
// The percentage is derived from the number of unfinished chunks, so it
// moves in chunk-sized steps and is halved to allow for chunking overhead.
// It is an approximation for the user, nothing depends on its accuracy.
package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"tiffcmyk/contracts"
)

// MinETAPercent is the displayed percentage below which no ETA is shown.
const MinETAPercent = 5

type Source interface {
	Progress() contracts.PoolProgress
	Done() <-chan struct{}
}

// Percent estimates completion from the remaining chunks.
func Percent(p contracts.PoolProgress) int {
	if p.Total <= 0 {
		return 0
	}
	raw := int(float64(p.Total-p.RemainingChunks*p.ChunkSize) / float64(p.Total) * 100)
	return max(0, raw) / 2
}

// ETA extrapolates the elapsed time over the remaining percentage.
func ETA(start, now time.Time, pct int) (time.Time, bool) {
	if pct < MinETAPercent {
		return time.Time{}, false
	}
	elapsed := now.Sub(start)
	left := time.Duration(float64(elapsed) * float64(100-pct) / float64(pct))
	return now.Add(left), true
}

type Reporter struct {
	out      io.Writer
	interval time.Duration
	now      func() time.Time
	shown    int
}

func NewReporter(out io.Writer, interval time.Duration) *Reporter {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Reporter{out: out, interval: interval, now: time.Now}
}

// Track redraws the progress line every interval until src is done, then
// clears it.
func (r *Reporter) Track(src Source) {
	start := r.now()
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription("Progress 0%"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-src.Done():
			_ = bar.Clear()
			return
		case <-ticker.C:
			r.update(bar, src.Progress(), start)
		}
	}
}

func (r *Reporter) update(bar *progressbar.ProgressBar, p contracts.PoolProgress, start time.Time) {
	pct := r.next(p)
	desc := fmt.Sprintf("Progress %d%%", pct)
	if eta, ok := ETA(start, r.now(), pct); ok {
		desc += " eta " + eta.Format("03:04.05 PM")
	}
	bar.Describe(desc)
	_ = bar.Set(pct)
}

// next returns the percentage to display, never lower than the last one.
func (r *Reporter) next(p contracts.PoolProgress) int {
	r.shown = max(r.shown, Percent(p))
	return r.shown
}
