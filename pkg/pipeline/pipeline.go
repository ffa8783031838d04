// Package pipeline provides the generation pipeline of erdgeo.
//
// This package sequences the components that turn a placed diagram listing
// into drawing source and relational schema files. The CLI is one entry
// point; library callers can drive the same [Runner].
//
// # Architecture
//
// The pipeline consists of six stages:
//
//  1. Style: Load and merge the colors and shapes documents
//  2. Input: Decode the input file with the first working encoding
//  3. Parse: Build the placed diagram model
//  4. Geometry: Assemble the geometry record and render it for the target
//  5. Write: Persist the generated drawing source
//  6. Relations: Render one schema file per requested template
//
// Style and input failures abort the run before any geometry work. Every
// stage fires observability hooks and checks the context first.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, nil, reporter, i18n.NewPrinter("fr"), logger)
//	opts := pipeline.Options{
//	    Input:     "diagram.mcd",
//	    Target:    "python",
//	    Relations: []string{"markdown", "sql"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.SourcePath)
package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/erdgeo/pkg/emit"
	"github.com/matzehuels/erdgeo/pkg/errors"
	"github.com/matzehuels/erdgeo/pkg/geometry"
	"github.com/matzehuels/erdgeo/pkg/input"
	"github.com/matzehuels/erdgeo/pkg/mcd"
	"github.com/matzehuels/erdgeo/pkg/style"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and library callers
// =============================================================================

// DefaultImageFormat is the image format token used in generated file names.
const DefaultImageFormat = FormatSVG

// Image format tokens.
const (
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
	FormatNodebox = "nodebox"
)

// ValidImageFormats is the set of supported image format tokens.
var ValidImageFormats = map[string]bool{
	FormatSVG:     true,
	FormatPNG:     true,
	FormatPDF:     true,
	FormatNodebox: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one run.
// Field tags match the keys of the run configuration file.
type Options struct {
	// Input is the diagram listing to read.
	Input string `toml:"-"`
	// OutputBase prefixes every output file; defaults to Input without its
	// extension.
	OutputBase string `toml:"-"`

	ImageFormat string   `toml:"format"`
	Target      string   `toml:"target"`
	Extract     bool     `toml:"extract"`
	Colors      string   `toml:"colors"`
	Shapes      string   `toml:"shapes"`
	Encodings   []string `toml:"encodings"`
	Relations   []string `toml:"relations"`

	// DataDir replaces the bundled style documents and relation templates.
	DataDir string `toml:"data_dir"`
	// TemplatesDir is searched for relation templates before the bundled set.
	TemplatesDir string `toml:"templates_dir"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Encoding is the encoding that decoded the input.
	Encoding string

	Diagram *mcd.Diagram
	Style   style.Style
	Record  *geometry.Record

	// Target is the drawing language the source was generated for.
	Target string
	// Source is the generated drawing source and SourcePath its file.
	Source     string
	SourcePath string
	// DataPath is the geometry data file; empty in inline mode.
	DataPath string
	// DataErr holds a failed data file write, already reported as a warning.
	DataErr error
	// SchemaPaths lists the relational schema files written.
	SchemaPaths []string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BoxCount int
	LegCount int
	// Timings holds the duration of every stage that ran, keyed by stage.
	Timings map[string]time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateImageFormat checks that an image format token is valid.
func ValidateImageFormat(format string) error {
	if !ValidImageFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, nodebox)", format)
	}
	return nil
}

// ValidateTarget checks that a target drawing language is registered.
func ValidateTarget(target string) error {
	_, err := emit.Lookup(target)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForInput(); err != nil {
		return err
	}
	o.SetDefaults()
	if err := ValidateImageFormat(o.ImageFormat); err != nil {
		return err
	}
	if err := ValidateTarget(o.Target); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForInput checks the input and output naming fields. It is all the
// relations-only run needs.
func (o *Options) ValidateForInput() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}
	if o.OutputBase == "" {
		o.OutputBase = DefaultOutputBase(o.Input)
	}
	return errors.ValidateOutputBase(o.OutputBase)
}

// SetDefaults fills every empty field with its default.
func (o *Options) SetDefaults() {
	if o.ImageFormat == "" {
		o.ImageFormat = DefaultImageFormat
	}
	if o.Target == "" {
		o.Target = emit.DefaultTarget
	}
	if o.Colors == "" {
		o.Colors = style.DefaultColors
	}
	if o.Shapes == "" {
		o.Shapes = style.DefaultShapes
	}
	if len(o.Encodings) == 0 {
		o.Encodings = append([]string(nil), input.DefaultEncodings...)
	}
}

// DefaultOutputBase strips the extension of the input path.
func DefaultOutputBase(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
}
