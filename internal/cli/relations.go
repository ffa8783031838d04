package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/erdgeo/pkg/errors"
	"github.com/matzehuels/erdgeo/pkg/pipeline"
)

// relationsCommand creates the relations command, which renders the
// relational schema without generating any drawing source.
func (c *CLI) relationsCommand() *cobra.Command {
	var (
		flags runFlags
		pick  bool
	)

	cmd := &cobra.Command{
		Use:   "relations <input>",
		Short: "Render the relational schema of a placed diagram",
		Example: `  erdgeo relations diagram.mcd -t markdown -t sql
  erdgeo relations diagram.mcd --pick`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, lang, err := flags.resolve(cmd.Flags(), args[0], c.Logger)
			if err != nil {
				return err
			}
			if pick {
				names, ok, err := c.pickTemplates(opts)
				if err != nil {
					return err
				}
				if !ok {
					c.console().info("No template selected")
					return nil
				}
				opts.Relations = names
			}
			if len(opts.Relations) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "no relation template requested (use --template or --pick)")
			}
			return c.runRelations(cmd.Context(), opts, lang)
		},
	}

	flags.addInputFlags(cmd.Flags())
	cmd.Flags().StringArrayVarP(&flags.relations, "template", "t", nil, "relation template to render (repeatable)")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the templates interactively")

	return cmd
}

func (c *CLI) runRelations(ctx context.Context, opts pipeline.Options, lang string) error {
	prog := newProgress(c.Logger)
	result, err := c.newRunner(lang).Relations(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Rendered relational schema")
	c.console().stats(
		count{result.Stats.BoxCount, "boxes"},
		count{len(result.SchemaPaths), "schema files"},
	)
	return nil
}

// pickTemplates runs the interactive picker. ok is false when the user quit
// without confirming.
func (c *CLI) pickTemplates(opts pipeline.Options) (names []string, ok bool, err error) {
	entries, err := availableTemplates(opts.DataDir, opts.TemplatesDir)
	if err != nil {
		return nil, false, err
	}
	model := NewTemplatePickerModel(templatesOf(entries), opts.Relations)

	final, err := tea.NewProgram(model, tea.WithInput(c.In), tea.WithOutput(c.Out)).Run()
	if err != nil {
		return nil, false, err
	}
	m, _ := final.(TemplatePickerModel)
	if !m.Confirmed || len(m.Selected()) == 0 {
		return nil, false, nil
	}
	return m.Selected(), true, nil
}
