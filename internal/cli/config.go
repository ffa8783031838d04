package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/matzehuels/erdgeo/pkg/errors"
	"github.com/matzehuels/erdgeo/pkg/i18n"
	"github.com/matzehuels/erdgeo/pkg/pipeline"
)

// runConfig is the content of erdgeo.toml. The pipeline keys come from the
// toml tags of pipeline.Options.
type runConfig struct {
	pipeline.Options
	Language string `toml:"language"`
}

// loadConfig reads the run configuration at path. An empty path looks for
// erdgeo.toml in the working directory, which may be absent. An explicit
// path must exist.
//
// Relative directories in the file are resolved against the file's
// directory.
func loadConfig(path string, logger *log.Logger) (runConfig, error) {
	var cfg runConfig
	explicit := path != ""
	if !explicit {
		path = configFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeConfig, err, "cannot read config %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeConfig, err, "invalid config %s", path)
	}
	for _, key := range md.Undecoded() {
		logger.Warn("unknown config key", "file", path, "key", key.String())
	}

	base := filepath.Dir(path)
	cfg.DataDir = relativeTo(base, cfg.DataDir)
	cfg.TemplatesDir = relativeTo(base, cfg.TemplatesDir)
	logger.Debug("loaded config", "file", path)
	return cfg, nil
}

func relativeTo(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// =============================================================================
// Flags
// =============================================================================

// runFlags holds the command-line flags shared by generate and relations.
// Flags that were set on the command line override the config file.
type runFlags struct {
	config       string   // run configuration file
	lang         string   // language of the notices
	output       string   // output base path
	format       string   // image format token
	target       string   // target drawing language
	extract      bool     // write a separate geometry data file
	colors       string   // colors document
	shapes       string   // shapes document
	encodings    []string // input encodings, tried in order
	relations    []string // relation template names
	dataDir      string   // replaces the bundled data
	templatesDir string   // searched before the bundled templates
}

// addInputFlags registers the flags every diagram-reading command takes.
func (f *runFlags) addInputFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&f.output, "output", "o", "", "output base path (default: input path without extension)")
	fs.StringSliceVar(&f.encodings, "encodings", nil, "input encodings to try in order (default: utf-8,macroman)")
	fs.StringVar(&f.dataDir, "data-dir", "", "directory replacing the bundled styles and templates")
	fs.StringVar(&f.templatesDir, "templates-dir", "", "directory searched for relation templates first")
	fs.StringVar(&f.lang, "lang", "", "language of the notices: "+joinLanguages())
	fs.StringVar(&f.config, "config", "", "run configuration file (default: ./"+configFile+")")
}

// addGenerateFlags registers the flags of the generate command.
func (f *runFlags) addGenerateFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.format, "format", "", "image format token used in the file name: svg (default), png, pdf, nodebox")
	fs.StringVar(&f.target, "target", "", "target drawing language: python (default), go")
	fs.BoolVar(&f.extract, "extract", false, "write the geometry to a separate data file")
	fs.StringVar(&f.colors, "colors", "", "colors document name or path")
	fs.StringVar(&f.shapes, "shapes", "", "shapes document name or path")
	fs.StringSliceVar(&f.relations, "relations", nil, "relation templates to render (comma-separated)")
}

// resolve layers the config file and the changed flags into the options
// for input, and returns the notice language.
func (f *runFlags) resolve(fs *pflag.FlagSet, input string, logger *log.Logger) (pipeline.Options, string, error) {
	cfg, err := loadConfig(f.config, logger)
	if err != nil {
		return pipeline.Options{}, "", err
	}
	opts := cfg.Options
	lang := cfg.Language

	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "output":
			opts.OutputBase = f.output
		case "format":
			opts.ImageFormat = f.format
		case "target":
			opts.Target = f.target
		case "extract":
			opts.Extract = f.extract
		case "colors":
			opts.Colors = f.colors
		case "shapes":
			opts.Shapes = f.shapes
		case "encodings":
			opts.Encodings = f.encodings
		case "relations", "template":
			opts.Relations = f.relations
		case "data-dir":
			opts.DataDir = f.dataDir
		case "templates-dir":
			opts.TemplatesDir = f.templatesDir
		case "lang":
			lang = f.lang
		}
	})

	opts.Input = input
	if lang == "" {
		lang = i18n.DefaultLanguage
	}
	return opts, lang, nil
}

func joinLanguages() string {
	langs := i18n.Languages()
	out := langs[0] + " (default)"
	for _, l := range langs[1:] {
		out += ", " + l
	}
	return out
}
