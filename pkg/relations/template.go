package relations

import (
	"embed"
	"encoding/json"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tidwall/jsonc"

	"github.com/matzehuels/erdgeo/pkg/errors"
)

//go:embed relation_templates/*.json
var bundled embed.FS

// Bundled returns the embedded template descriptors.
func Bundled() fs.FS { return bundled }

// Dir is the subdirectory holding template descriptors, both in the
// bundled file system and in a data directory.
const Dir = "relation_templates"

const docSuffix = ".json"

// Template is a relation template descriptor, loaded from <name>.json.
//
// Only Extension is required. The other fields are pongo2 templates used by
// [PongoRenderer]; other renderers may ignore them.
type Template struct {
	Name        string `json:"-"`
	Extension   string `json:"extension"`
	Description string `json:"description,omitempty"`
	Header      string `json:"header,omitempty"`
	Relation    string `json:"relation,omitempty"`
	Separator   string `json:"separator,omitempty"`
	Footer      string `json:"footer,omitempty"`
	// Escape turns on HTML autoescaping of rendered values.
	Escape bool `json:"escape,omitempty"`
}

// Loader locates template descriptors by name.
type Loader struct {
	// UserDir is searched first when set.
	UserDir string
	// Bundled holds <Dir>/<name>.json documents.
	Bundled fs.FS
	Logger  *log.Logger
}

// NewLoader creates a loader. A nil bundled file system selects the
// embedded descriptors.
func NewLoader(userDir string, bundledFS fs.FS, logger *log.Logger) *Loader {
	if bundledFS == nil {
		bundledFS = Bundled()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{UserDir: userDir, Bundled: bundledFS, Logger: logger}
}

type source struct {
	path string
	read func() ([]byte, error)
}

type resolver func(name string) (source, bool)

func (l *Loader) resolvers() []resolver {
	return []resolver{l.userResolver, l.bundledResolver}
}

// Load returns the descriptor named name. Every failure is a TEMPLATE_LOAD
// error.
func (l *Loader) Load(name string) (*Template, error) {
	if err := errors.ValidateTemplateName(name); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTemplateLoad, err, "template %s", name)
	}
	for _, resolve := range l.resolvers() {
		src, ok := resolve(name)
		if !ok {
			continue
		}
		data, err := src.read()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeTemplateLoad, err, "read %s", src.path)
		}
		tpl, err := Parse(name, data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeTemplateLoad, err, "parse %s", src.path)
		}
		if l.Logger != nil {
			l.Logger.Debug("loaded relation template", "name", name, "path", src.path)
		}
		return tpl, nil
	}
	return nil, errors.New(errors.ErrCodeTemplateLoad, "template %s%s not found", name, docSuffix)
}

func (l *Loader) userResolver(name string) (source, bool) {
	if l.UserDir == "" {
		return source{}, false
	}
	p := filepath.Join(l.UserDir, name+docSuffix)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return source{}, false
	}
	return source{path: p, read: func() ([]byte, error) { return os.ReadFile(p) }}, true
}

func (l *Loader) bundledResolver(name string) (source, bool) {
	if l.Bundled == nil {
		return source{}, false
	}
	p := path.Join(Dir, name+docSuffix)
	if _, err := fs.Stat(l.Bundled, p); err != nil {
		return source{}, false
	}
	fsys := l.Bundled
	return source{path: p, read: func() ([]byte, error) { return fs.ReadFile(fsys, p) }}, true
}

// Parse decodes a JSONC descriptor.
func Parse(name string, data []byte) (*Template, error) {
	var tpl Template
	if err := json.Unmarshal(jsonc.ToJSON(data), &tpl); err != nil {
		return nil, err
	}
	if tpl.Extension == "" {
		return nil, errors.New(errors.ErrCodeInvalidTemplate, "template %s declares no extension", name)
	}
	tpl.Name = name
	return &tpl, nil
}

// List returns every descriptor under Dir in fsys, sorted by name.
// Descriptors that fail to parse are skipped.
func List(fsys fs.FS) ([]*Template, error) {
	return listIn(fsys, Dir)
}

// ListUser returns the descriptors stored directly in a user template
// directory.
func ListUser(dir string) ([]*Template, error) {
	if dir == "" {
		return nil, nil
	}
	return listIn(os.DirFS(dir), ".")
}

func listIn(fsys fs.FS, dir string) ([]*Template, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*"+docSuffix))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	out := make([]*Template, 0, len(matches))
	for _, m := range matches {
		data, err := fs.ReadFile(fsys, m)
		if err != nil {
			continue
		}
		tpl, err := Parse(strings.TrimSuffix(path.Base(m), docSuffix), data)
		if err != nil {
			continue
		}
		out = append(out, tpl)
	}
	return out, nil
}
