// Package cli implements the erdgeo command-line interface.
//
// This package provides commands for generating drawing source and geometry
// data files from placed diagrams, rendering relational schemas, listing the
// relation templates and inspecting geometry data files. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Write the drawing source (and optionally the geometry data file)
//   - relations: Render relational schema files only
//   - templates: List the available relation templates
//   - inspect: Summarize a geometry data file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Log lines go
// to stderr; user-facing notices go to stdout.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erdgeo/pkg/observability"
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

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Generated diagram_svg.py (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// stageLogger reports pipeline stages and file writes at debug level.
// It is registered once by main.
type stageLogger struct {
	logger *log.Logger
}

// StageHooks returns observability hooks that log to the CLI logger.
func (c *CLI) StageHooks() (observability.PipelineHooks, observability.OutputHooks) {
	h := stageLogger{logger: c.Logger}
	return h, h
}

func (h stageLogger) OnStageStart(_ context.Context, stage string) {
	h.logger.Debug("stage started", "stage", stage)
}

func (h stageLogger) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("stage failed", "stage", stage, "duration", d.Round(time.Microsecond), "err", err)
		return
	}
	h.logger.Debug("stage done", "stage", stage, "duration", d.Round(time.Microsecond))
}

func (h stageLogger) OnWrite(path string, size int, err error) {
	h.logger.Debug("file write", "path", path, "bytes", size, "ok", err == nil)
}
