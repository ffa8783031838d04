package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/erdgeo/pkg/pipeline"
)

// generateCommand creates the generate command.
//
// Settings are layered: built-in defaults, then erdgeo.toml (or --config),
// then the flags given on the command line.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		flags runFlags
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "generate <input>",
		Short: "Generate the drawing source of a placed diagram",
		Long: `Generate the drawing source of a placed diagram.

The source is written to <output>_<format><ext>. With --extract the geometry
goes to <output>_geo.json and the source only loads it. Every template named
with --relations also renders the relational schema to <output><extension>.`,
		Example: `  # Python source with the geometry inline
  erdgeo generate diagram.mcd

  # Go source loading a separate data file, plus two schema files
  erdgeo generate diagram.mcd --target go --extract --relations markdown,sql`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, lang, err := flags.resolve(cmd.Flags(), args[0], c.Logger)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), opts, lang, preview)
		},
	}

	flags.addInputFlags(cmd.Flags())
	flags.addGenerateFlags(cmd.Flags())
	cmd.Flags().BoolVar(&preview, "print", false, "print the generated source with syntax highlighting")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, lang string, preview bool) error {
	prog := newProgress(c.Logger)
	result, err := c.newRunner(lang).Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Generated " + filepath.Base(result.SourcePath))

	out := c.console()
	out.stats(
		count{result.Stats.BoxCount, "boxes"},
		count{result.Stats.LegCount, "legs"},
		count{len(result.SchemaPaths), "schema files"},
	)
	if preview {
		out.newline()
		out.source(result.Source, result.Target)
	}
	return nil
}
