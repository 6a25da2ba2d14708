// Package cli implements the polaprint command-line interface.
//
// The root command lays out one or more photos as polaroid-style prints.
// It is built using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
//   - polaprint FILE... [-- OUTPUT_DIR]: print photos
//   - cache: inspect or clear the output cache
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes the pixel geometry of every layout stage. --log-file tees the
// log into a size-rotated file. Loggers are passed through context.Context.
//
// # Example
//
//	c := cli.New(os.Stderr, os.Stdout, cli.LogInfo)
//	defer c.Close()
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for --log-file.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 2
	logMaxAgeDays = 28
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// newRotatingFile returns a writer that appends to path and rotates it
// once it grows past logMaxSizeMB.
func newRotatingFile(path string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	}, nil
}

// attachLogFile tees the CLI logger into a rotating file at path.
func (c *CLI) attachLogFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := newRotatingFile(path)
	if err != nil {
		return err
	}
	if err := c.Close(); err != nil {
		return err
	}
	c.logFile = f
	c.Logger.SetOutput(io.MultiWriter(c.logOut, f))
	return nil
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Printed 12 photos (3.402s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
