package cli

import (
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/erdgeo/pkg/relations"
)

const (
	sourceBundled = "bundled"
	sourceData    = "data"
	sourceUser    = "user"
)

// templateEntry is a relation template and where it was found.
type templateEntry struct {
	*relations.Template
	Source string
}

// availableTemplates lists the templates a run would resolve: the user
// directory shadows the bundled set (or the data directory replacing it).
func availableTemplates(dataDir, templatesDir string) ([]templateEntry, error) {
	var fsys fs.FS = relations.Bundled()
	source := sourceBundled
	if dataDir != "" {
		fsys = os.DirFS(dataDir)
		source = sourceData
	}
	base, err := relations.List(fsys)
	if err != nil {
		return nil, err
	}
	user, err := relations.ListUser(templatesDir)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]templateEntry, len(base)+len(user))
	for _, tpl := range base {
		byName[tpl.Name] = templateEntry{tpl, source}
	}
	for _, tpl := range user {
		byName[tpl.Name] = templateEntry{tpl, sourceUser}
	}
	out := make([]templateEntry, 0, len(byName))
	for _, e := range byName {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// templatesCommand creates the templates command.
func (c *CLI) templatesCommand() *cobra.Command {
	var dataDir, templatesDir string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the available relation templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := availableTemplates(dataDir, templatesDir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				c.console().info("No relation templates found")
				return nil
			}
			fmt.Fprintln(c.Out, templatesTable(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory replacing the bundled templates")
	cmd.Flags().StringVar(&templatesDir, "templates-dir", "", "directory searched for relation templates first")

	return cmd
}

// templatesTable renders entries as a bordered table.
func templatesTable(entries []templateEntry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Name, e.Extension, e.Source, e.Description}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Template", "Ext", "Source", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0:
				return StyleTitle
			case col == 2 && entries[row].Source == sourceUser:
				return listChosenStyle
			case col == 2 || col == 3:
				return listDimStyle
			}
			return listNormalStyle
		})
	return t.Render()
}

func templatesOf(entries []templateEntry) []*relations.Template {
	out := make([]*relations.Template, len(entries))
	for i, e := range entries {
		out[i] = e.Template
	}
	return out
}
