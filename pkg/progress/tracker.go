// Package progress reports what an archive or extract run is doing: one line
// per entry, plus a closing summary with the processed byte count.
package progress

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Tracker reports progress for one run. It is not safe for concurrent use;
// runs are strictly sequential.
type Tracker struct {
	logger  *log.Logger
	op      string
	entries int
	bytes   uint64
	start   time.Time
}

// New returns a Tracker writing to w. When quiet is set only warnings are shown.
func New(w io.Writer, quiet bool) *Tracker {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
	})
	if quiet {
		logger.SetLevel(log.WarnLevel)
	}
	return &Tracker{logger: logger}
}

// Discard returns a Tracker that prints nothing.
func Discard() *Tracker {
	return New(io.Discard, true)
}

// Logger exposes the underlying logger for settings and warnings.
func (t *Tracker) Logger() *log.Logger {
	return t.logger
}

// Start resets the counters and announces op.
func (t *Tracker) Start(op string) {
	t.op = op
	t.entries = 0
	t.bytes = 0
	t.start = time.Now()
	t.logger.Info(op + "...")
}

// Entry records one archive entry written or extracted.
func (t *Tracker) Entry(action, name string) {
	t.entries++
	t.logger.Info(action, "entry", name)
}

// Event reports a side effect that is not an entry, such as a wipe.
func (t *Tracker) Event(action, path string) {
	t.logger.Info(action, "path", path)
}

// AddBytes adds processed payload bytes to the counter.
func (t *Tracker) AddBytes(n uint64) {
	t.bytes += n
}

// Entries returns the number of entries recorded since Start.
func (t *Tracker) Entries() int {
	return t.entries
}

// Bytes returns the number of payload bytes recorded since Start.
func (t *Tracker) Bytes() uint64 {
	return t.bytes
}

// Stop prints the summary for the current run.
func (t *Tracker) Stop() {
	elapsed := time.Since(t.start)
	t.logger.Info("Done.",
		"op", t.op,
		"entries", t.entries,
		"size", humanize.Bytes(t.bytes),
		"elapsed", elapsed.Round(time.Millisecond))
}

// Writer is a writer that tracks bytes written for progress reporting.
type Writer struct {
	W io.Writer
	t *Tracker
}

// Writer wraps w so that everything written through it is counted.
func (t *Tracker) Writer(w io.Writer) *Writer {
	return &Writer{W: w, t: t}
}

// Write implements io.Writer and tracks bytes written
func (pw *Writer) Write(p []byte) (n int, err error) {
	n, err = pw.W.Write(p)
	if n > 0 {
		pw.t.AddBytes(uint64(n))
	}
	return
}
