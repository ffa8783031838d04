// Package emit turns a geometry record into drawing-program source code.
//
// A [Target] knows one drawing language. It renders the record either
// inline, as literal assignments at the top of the generated file, or as a
// short stub that loads the standalone geometry data file at run time. The
// [Serializer] chooses between the two and writes the data file when
// extraction is requested.
//
// # Targets
//
//   - python: Python assignments and dictionary literals (the default)
//   - go: a Go source file generated with jennifer
package emit

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erdgeo/pkg/errors"
	"github.com/matzehuels/erdgeo/pkg/geometry"
	"github.com/matzehuels/erdgeo/pkg/mcd"
	"github.com/matzehuels/erdgeo/pkg/output"
	"github.com/matzehuels/erdgeo/pkg/style"
)

// Target names.
const (
	TargetPython = "python"
	TargetGo     = "go"
)

// DefaultTarget is used when no target is requested.
const DefaultTarget = TargetPython

// Target renders a geometry record in one drawing language.
type Target interface {
	// Name is the identifier used on the command line.
	Name() string
	// Extension is the file extension of generated sources, dot included.
	Extension() string
	// Inline returns source lines carrying the whole record as literals.
	Inline(r *geometry.Record) ([]string, error)
	// Stub returns source lines that load the data file at dataPath.
	Stub(dataPath string) ([]string, error)
}

var targets = map[string]func() Target{
	TargetPython: func() Target { return Python{} },
	TargetGo:     func() Target { return Go{} },
}

// Lookup returns the target registered under name.
func Lookup(name string) (Target, error) {
	newTarget, ok := targets[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unknown target %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return newTarget(), nil
}

// Names returns the registered target names, sorted.
func Names() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options controls one serialization.
type Options struct {
	// OutputBase is the path prefix shared by every output file.
	OutputBase string
	// Extract writes the record to <OutputBase>_geo.json and emits a
	// loader stub instead of inline literals.
	Extract bool
}

// Result is the outcome of [Serializer.Process].
type Result struct {
	Record *geometry.Record
	Lines  []string

	// DataPath is the geometry data file; empty in inline mode.
	DataPath string
	// DataErr holds the data file write failure, already reported.
	DataErr error
}

// Source joins the generated lines into file content.
func (r *Result) Source() string {
	return strings.Join(r.Lines, "\n") + "\n"
}

// Serializer produces the drawing source of a diagram.
type Serializer struct {
	Target Target
	Writer *output.Writer
	Logger *log.Logger
}

// NewSerializer creates a serializer. A nil target selects Python; a nil
// writer discards reports.
func NewSerializer(t Target, w *output.Writer, logger *log.Logger) *Serializer {
	if t == nil {
		t = Python{}
	}
	if w == nil {
		w = output.NewWriter(nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Serializer{Target: t, Writer: w, Logger: logger}
}

// Process builds the geometry record of d with the colors of s and renders
// it with the serializer's target.
//
// In extract mode the record is written to the data file first. A failed
// data file write is reported as a warning and logged, and the stub is still
// produced.
func (s *Serializer) Process(d *mcd.Diagram, st style.Style, opts Options) (*Result, error) {
	r := geometry.Build(d, st)
	res := &Result{Record: r}
	s.Logger.Debug("geometry built",
		"target", s.Target.Name(),
		"cx", len(r.CX), "k", len(r.K), "t", len(r.T), "colors", len(r.Colors))

	if !opts.Extract {
		lines, err := s.Target.Inline(r)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s source", s.Target.Name())
		}
		res.Lines = lines
		return res, nil
	}

	res.DataPath = output.GeometryPath(opts.OutputBase)
	data, err := geometry.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode geometry")
	}
	if err := s.Writer.TryWrite(res.DataPath, string(data)); err != nil {
		s.Logger.Warn("geometry data file not written", "path", res.DataPath, "err", err)
		res.DataErr = err
	}

	lines, err := s.Target.Stub(res.DataPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s stub", s.Target.Name())
	}
	res.Lines = lines
	return res, nil
}
