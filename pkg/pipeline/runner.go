package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/erdgeo/pkg/buildinfo"
	"github.com/matzehuels/erdgeo/pkg/emit"
	"github.com/matzehuels/erdgeo/pkg/i18n"
	"github.com/matzehuels/erdgeo/pkg/input"
	"github.com/matzehuels/erdgeo/pkg/mcd"
	"github.com/matzehuels/erdgeo/pkg/observability"
	"github.com/matzehuels/erdgeo/pkg/output"
	"github.com/matzehuels/erdgeo/pkg/relations"
	"github.com/matzehuels/erdgeo/pkg/style"
)

// Runner encapsulates pipeline execution.
//
// The Runner holds only its collaborators; it doesn't store pipeline
// results. Every run builds its own loaders and writers from the options.
type Runner struct {
	Parser   mcd.Parser
	Renderer relations.Renderer
	Reporter output.Reporter
	Printer  i18n.Printer
	Logger   *log.Logger
}

// NewRunner creates a runner.
// If parser is nil, the placement listing parser is used.
// If renderer is nil, the pongo2 renderer is used.
// If reporter is nil, notices are discarded.
func NewRunner(parser mcd.Parser, renderer relations.Renderer, reporter output.Reporter, p i18n.Printer, logger *log.Logger) *Runner {
	if parser == nil {
		parser = mcd.ListingParser{}
	}
	if renderer == nil {
		renderer = relations.NewPongoRenderer()
	}
	if reporter == nil {
		reporter = output.Discard
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Parser:   parser,
		Renderer: renderer,
		Reporter: reporter,
		Printer:  i18n.OrDefault(p),
		Logger:   logger,
	}
}

// Execute runs the complete style → input → parse → geometry → write →
// relations pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result, logger := r.start("generate", opts)
	writer := output.NewWriter(r.Reporter, r.Printer, logger)

	// Stage 1: Style
	err := r.stage(ctx, result, observability.StageStyle, func() error {
		st, err := style.NewLoader(opts.Colors, opts.Shapes, dataFS(opts), r.Printer, logger).Load()
		result.Style = st
		return err
	})
	if err != nil {
		return nil, err
	}

	// Stages 2 and 3: Input and Parse
	if err := r.load(ctx, result, opts, logger); err != nil {
		return nil, err
	}

	// Stage 4: Geometry
	target, err := emit.Lookup(opts.Target)
	if err != nil {
		return nil, err
	}
	var emitted *emit.Result
	err = r.stage(ctx, result, observability.StageGeometry, func() error {
		ser := emit.NewSerializer(target, writer, logger)
		var err error
		emitted, err = ser.Process(result.Diagram, result.Style, emit.Options{
			OutputBase: opts.OutputBase,
			Extract:    opts.Extract,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Record = emitted.Record
	result.Target = target.Name()
	result.Source = emitted.Source()
	result.DataPath = emitted.DataPath
	result.DataErr = emitted.DataErr

	logger.Info("assembled geometry",
		"boxes", len(emitted.Record.CX),
		"legs", len(emitted.Record.K),
		"arrows", len(emitted.Record.T),
		"duration", result.Stats.Timings[observability.StageGeometry])

	// Stage 5: Write
	result.SourcePath = output.GeneratedPath(opts.OutputBase, opts.ImageFormat, target.Extension())
	err = r.stage(ctx, result, observability.StageWrite, func() error {
		return writer.Write(result.SourcePath, result.Source)
	})
	if err != nil {
		return nil, err
	}

	// Stage 6: Relations
	if err := r.dump(ctx, result, opts, writer, logger); err != nil {
		return result, err
	}
	return result, nil
}

// Relations runs input → parse → relations only, without style or geometry.
func (r *Runner) Relations(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateForInput(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if len(opts.Encodings) == 0 {
		opts.Encodings = append([]string(nil), input.DefaultEncodings...)
	}
	result, logger := r.start("relations", opts)
	if err := r.load(ctx, result, opts, logger); err != nil {
		return nil, err
	}
	writer := output.NewWriter(r.Reporter, r.Printer, logger)
	if err := r.dump(ctx, result, opts, writer, logger); err != nil {
		return result, err
	}
	return result, nil
}

func (r *Runner) start(command string, opts Options) (*Result, *log.Logger) {
	result := &Result{
		RunID: uuid.NewString(),
		Stats: Stats{Timings: make(map[string]time.Duration)},
	}
	logger := r.Logger.With("run", result.RunID[:8])
	logger.Debug("starting run",
		"command", command,
		"version", buildinfo.Short(),
		"input", opts.Input,
		"output", opts.OutputBase)
	return result, logger
}

func (r *Runner) load(ctx context.Context, result *Result, opts Options, logger *log.Logger) error {
	var lines []string
	err := r.stage(ctx, result, observability.StageInput, func() error {
		res, err := input.NewLoader(opts.Encodings, r.Printer, logger).Load(opts.Input)
		if err != nil {
			return err
		}
		result.Encoding = res.Encoding
		lines = res.Lines
		return nil
	})
	if err != nil {
		return err
	}

	err = r.stage(ctx, result, observability.StageParse, func() error {
		d, err := r.Parser.Parse(lines)
		if err != nil {
			return err
		}
		result.Diagram = d
		return nil
	})
	if err != nil {
		return err
	}
	result.Stats.BoxCount = result.Diagram.BoxCount()
	result.Stats.LegCount = result.Diagram.LegCount()

	logger.Info("parsed diagram",
		"encoding", result.Encoding,
		"boxes", result.Stats.BoxCount,
		"legs", result.Stats.LegCount,
		"duration", result.Stats.Timings[observability.StageParse])
	return nil
}

func (r *Runner) dump(ctx context.Context, result *Result, opts Options, w *output.Writer, logger *log.Logger) error {
	if len(opts.Relations) == 0 {
		return nil
	}
	return r.stage(ctx, result, observability.StageRelations, func() error {
		loader := relations.NewLoader(opts.TemplatesDir, dataFS(opts), logger)
		paths, err := relations.NewDumper(loader, r.Renderer, w, logger).Dump(result.Diagram, opts.OutputBase, opts.Relations)
		result.SchemaPaths = paths
		return err
	})
}

// stage runs fn as the named stage: it checks ctx, fires the observability
// hooks and records the duration.
func (r *Runner) stage(ctx context.Context, result *Result, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	d := time.Since(start)
	result.Stats.Timings[name] = d
	hooks.OnStageComplete(ctx, name, d, err)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// dataFS returns the data directory as a file system, or nil to select the
// embedded defaults.
func dataFS(opts Options) fs.FS {
	if opts.DataDir == "" {
		return nil
	}
	return os.DirFS(opts.DataDir)
}
