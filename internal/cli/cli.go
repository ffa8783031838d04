// Package cli implements the erdgeo command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/erdgeo/pkg/buildinfo"
	"github.com/matzehuels/erdgeo/pkg/i18n"
	"github.com/matzehuels/erdgeo/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and the config file.
	appName = "erdgeo"

	// configFile is read from the working directory when --config is not given.
	configFile = appName + ".toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives status lines, tables and previews.
	Out io.Writer
	// In feeds the interactive template picker.
	In io.Reader
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		In:     os.Stdin,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "erdgeo computes the drawing geometry of placed entity-relationship diagrams",
		Long:         `erdgeo turns a placed entity-relationship diagram into drawing source, either with the geometry inline or as a separate data file, and renders its relational schema through templates.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.relationsCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner that reports to the console in lang.
func (c *CLI) newRunner(lang string) *pipeline.Runner {
	return pipeline.NewRunner(nil, nil, c.console(), i18n.NewPrinter(lang), c.Logger)
}

// console returns the status printer for c.Out.
func (c *CLI) console() *console {
	return &console{w: c.Out}
}
