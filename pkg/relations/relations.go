// Package relations writes relational schema files from template descriptors.
//
// A template descriptor is a small JSON document named <name>.json that
// declares at least the extension of the file it produces. Descriptors are
// looked up in a user directory first and in the bundled set otherwise
// (text, markdown, html, sql).
//
// The [Dumper] loads every requested descriptor, hands each one to a
// [Renderer] together with the diagram, and writes <base><extension>.
// A descriptor that cannot be loaded is reported and skipped. A render
// failure writes a placeholder file, reports it, and stops the batch with a
// SCHEMA_RENDER error.
package relations

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/erdgeo/pkg/errors"
	"github.com/matzehuels/erdgeo/pkg/i18n"
	"github.com/matzehuels/erdgeo/pkg/mcd"
	"github.com/matzehuels/erdgeo/pkg/output"
)

// Dumper renders and writes schema files.
type Dumper struct {
	Loader   *Loader
	Renderer Renderer
	Writer   *output.Writer
	Logger   *log.Logger
}

// NewDumper creates a dumper. Nil arguments select the bundled loader, the
// pongo2 renderer and a discarding writer.
func NewDumper(l *Loader, r Renderer, w *output.Writer, logger *log.Logger) *Dumper {
	if logger == nil {
		logger = log.Default()
	}
	if l == nil {
		l = NewLoader("", nil, logger)
	}
	if r == nil {
		r = NewPongoRenderer()
	}
	if w == nil {
		w = output.NewWriter(nil, nil, logger)
	}
	return &Dumper{Loader: l, Renderer: r, Writer: w, Logger: logger}
}

// Dump writes one schema file per loadable template in names and returns
// the written paths.
//
// When the renderer fails, the localized placeholder text is written in
// place of the schema and a SCHEMA_RENDER error is returned; templates after
// the failing one are not processed.
func (d *Dumper) Dump(m *mcd.Diagram, base string, names []string) ([]string, error) {
	var templates []*Template
	for _, name := range names {
		tpl, err := d.Loader.Load(name)
		if err != nil {
			d.Writer.Warning(i18n.MsgTemplateProblem, name+docSuffix)
			d.Logger.Warn("skipping relation template", "name", name, "err", err)
			continue
		}
		templates = append(templates, tpl)
	}

	var written []string
	for _, tpl := range templates {
		path := output.SchemaPath(base, tpl.Extension)
		text, err := d.Renderer.Render(m, tpl)
		if err != nil {
			placeholder := d.Writer.Failure(i18n.MsgSchemaProblem)
			if werr := d.Writer.Save(path, placeholder); werr != nil {
				d.Logger.Error("placeholder not written", "path", path, "err", werr)
			}
			return written, errors.Wrap(errors.ErrCodeSchemaRender, err, "template %s", tpl.Name)
		}
		if err := d.Writer.Write(path, text); err != nil {
			return written, err
		}
		d.Logger.Debug("wrote relational schema", "template", tpl.Name, "path", path)
		written = append(written, path)
	}
	return written, nil
}
