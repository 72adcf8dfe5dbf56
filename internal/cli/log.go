// Package cli implements the pedigree command-line interface.
//
// The commands read pedigree snapshots (JSON documents written by
// [github.com/matzehuels/pedigree/pkg/graph]), run them through a layout
// session, and write layouts or debug drawings. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute a layout document from a snapshot
//   - render: Draw the computed layout as SVG or DOT
//   - validate: Check a snapshot against the pedigree rules
//   - watch: Recompute the layout whenever the snapshot changes
//   - new: Write a starter pedigree
//
// # Logging
//
// All commands support --verbose (-v), which adds the engine's per-stage
// relayout lines. The logger travels in the command context and every layout
// session logs through it, tagged with the snapshot file and session ID.
package cli

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger writing to w. Timestamps read
// "HH:MM:SS.ms" so the per-stage debug lines of one relayout can be told apart.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// snapshotLogger scopes the context logger to one snapshot file. Sessions
// started from it tag every mutation and relayout line with the file name.
func snapshotLogger(ctx context.Context, path string) *log.Logger {
	return loggerFromContext(ctx).With("snapshot", filepath.Base(path))
}

// progress times one command.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() outside a command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
