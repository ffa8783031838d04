// Package style loads the two-part drawing style of a diagram.
//
// A style is the merge of two flat JSON documents: a "colors" document and a
// "shapes" document. Each is located through an ordered list of resolvers:
// first the path the user supplied (".json" appended when missing), then the
// bundled copy under "<kind>/<name>.json" in the bundled file system. The
// bundled file system defaults to the documents embedded in this package.
//
// Documents may contain // comments and trailing commas.
//
// Keys ending in "_color" are colors. A null or empty color is transparent,
// and the merged style always carries "transparent_color" set to nil.
package style

import (
	"embed"
	"encoding/json"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tidwall/jsonc"

	"github.com/matzehuels/erdgeo/pkg/errors"
	"github.com/matzehuels/erdgeo/pkg/i18n"
	"github.com/matzehuels/erdgeo/pkg/mcd"
)

//go:embed colors/*.json shapes/*.json
var bundled embed.FS

// Bundled returns the embedded default documents.
func Bundled() fs.FS { return bundled }

// Document kinds, also the bundled subdirectory names.
const (
	KindColors = "colors"
	KindShapes = "shapes"
)

// Default document names.
const (
	DefaultColors = "bw"
	DefaultShapes = "copperplate"
)

const (
	// TransparentColor is injected into every merged style with a nil value.
	TransparentColor = "transparent_color"

	colorSuffix = "_color"
	docSuffix   = ".json"
)

// Style is the merged key/value mapping.
type Style map[string]any

// ColorKeys returns every key ending in "_color", sorted.
func (s Style) ColorKeys() []string {
	var keys []string
	for k := range s {
		if strings.HasSuffix(k, colorSuffix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// Color returns the color stored under key, or null when it is absent,
// nil, empty or otherwise false.
func (s Style) Color(key string) mcd.Value {
	v := mcd.ValueOf(s[key])
	if !v.Truthy() {
		return mcd.Null()
	}
	return v
}

// document is a resolved style document.
type document struct {
	path string
	read func() ([]byte, error)
}

// resolver locates a document for kind/name. ok is false when it has no
// candidate; tried is the path it looked at.
type resolver func(kind, name string) (doc document, tried string, ok bool)

// Loader loads and merges the colors and shapes documents.
type Loader struct {
	Colors  string
	Shapes  string
	Bundled fs.FS
	Printer i18n.Printer
	Logger  *log.Logger
}

// NewLoader creates a loader. Empty names select the defaults; a nil
// bundled file system selects the embedded documents.
func NewLoader(colors, shapes string, bundledFS fs.FS, p i18n.Printer, logger *log.Logger) *Loader {
	if colors == "" {
		colors = DefaultColors
	}
	if shapes == "" {
		shapes = DefaultShapes
	}
	if bundledFS == nil {
		bundledFS = Bundled()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		Colors:  colors,
		Shapes:  shapes,
		Bundled: bundledFS,
		Printer: i18n.OrDefault(p),
		Logger:  logger,
	}
}

// Load resolves, parses and merges both documents. Shapes override colors
// on conflicting keys. A failure on either document returns a CONFIG error
// and no style.
func (l *Loader) Load() (Style, error) {
	colors, err := l.loadDocument(KindColors, l.Colors)
	if err != nil {
		return nil, err
	}
	shapes, err := l.loadDocument(KindShapes, l.Shapes)
	if err != nil {
		return nil, err
	}

	merged := make(Style, len(colors)+len(shapes)+1)
	for k, v := range colors {
		merged[k] = v
	}
	for k, v := range shapes {
		merged[k] = v
	}
	merged[TransparentColor] = nil
	return merged, nil
}

func (l *Loader) resolvers() []resolver {
	return []resolver{l.userResolver, l.bundledResolver}
}

func (l *Loader) loadDocument(kind, name string) (map[string]any, error) {
	p := i18n.OrDefault(l.Printer)
	var tried string
	for _, resolve := range l.resolvers() {
		doc, candidate, ok := resolve(kind, name)
		if candidate != "" {
			tried = candidate
		}
		if !ok {
			continue
		}
		m, err := parseDocument(doc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfig, err, "%s", p.Sprintf(i18n.MsgStyleProblem, kind, doc.path))
		}
		if l.Logger != nil {
			l.Logger.Debug("loaded style document", "kind", kind, "path", doc.path, "keys", len(m))
		}
		return m, nil
	}
	return nil, errors.New(errors.ErrCodeConfig, "%s", p.Sprintf(i18n.MsgStyleMissing, kind, tried))
}

func (l *Loader) userResolver(_, name string) (document, string, bool) {
	p := withSuffix(name)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return document{}, p, false
	}
	return document{path: p, read: func() ([]byte, error) { return os.ReadFile(p) }}, p, true
}

func (l *Loader) bundledResolver(kind, name string) (document, string, bool) {
	if l.Bundled == nil {
		return document{}, "", false
	}
	p := path.Join(kind, path.Base(filepath.ToSlash(withSuffix(name))))
	info, err := fs.Stat(l.Bundled, p)
	if err != nil || info.IsDir() {
		return document{}, p, false
	}
	fsys := l.Bundled
	return document{path: p, read: func() ([]byte, error) { return fs.ReadFile(fsys, p) }}, p, true
}

func withSuffix(name string) string {
	if strings.HasSuffix(name, docSuffix) {
		return name
	}
	return name + docSuffix
}

func parseDocument(doc document) (map[string]any, error) {
	data, err := doc.read()
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New(errors.ErrCodeConfig, "%s is not a JSON object", doc.path)
	}
	return m, nil
}
