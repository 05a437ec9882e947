// Package progress reports per-document progress of the weeding passes,
// either as a terminal bar or as sampled log lines.
package progress

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"weeder/internal/logging"
)

// Reporter tracks one pass at a time. Advance may be called concurrently.
type Reporter interface {
	Start(label string, total int)
	Advance()
	Finish()
}

// New returns a terminal bar when w is an interactive terminal and a log
// reporter otherwise.
func New(w io.Writer, logger *slog.Logger) Reporter {
	if IsTerminal(w) {
		return NewBar(w)
	}
	return NewLog(logger)
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Nop discards progress.
type Nop struct{}

func (Nop) Start(string, int) {}
func (Nop) Advance()          {}
func (Nop) Finish()           {}

// Bar draws a progress bar for each pass.
type Bar struct {
	w   io.Writer
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

func (b *Bar) Start(label string, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar != nil {
		_ = b.bar.Finish()
	}
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(b.w, "\n") }),
	)
}

func (b *Bar) Advance() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar != nil {
		_ = b.bar.Add(1)
	}
}

func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar == nil {
		return
	}
	_ = b.bar.Finish()
	b.bar = nil
}

// Log emits a progress line whenever a 5% bucket is crossed.
type Log struct {
	logger  *slog.Logger
	mu      sync.Mutex
	sampler *logging.ProgressSampler
	label   string
	total   int
	done    int
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{
		logger:  logging.NewComponentLogger(logger, "progress"),
		sampler: logging.NewProgressSampler(5),
	}
}

func (l *Log) Start(label string, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.label = label
	l.total = total
	l.done = 0
	l.sampler.Reset()
	l.emit()
}

func (l *Log) Advance() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.done++
	l.emit()
}

func (l *Log) Finish() {}

// Done returns the number of documents advanced in the current pass.
func (l *Log) Done() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}

func (l *Log) emit() {
	percent := logging.Percent(l.done, l.total)
	if !l.sampler.ShouldLog(percent, l.label) {
		return
	}
	l.logger.Info(l.label,
		logging.Int("done", l.done),
		logging.Int("total", l.total),
		logging.Float64("percent", percent),
		logging.String(logging.FieldEventType, "progress"),
	)
}
