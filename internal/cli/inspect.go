package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/erdgeo/pkg/geometry"
)

// inspectCommand creates the inspect command, which summarizes a geometry
// data file written by generate --extract.
func (c *CLI) inspectCommand() *cobra.Command {
	var boxes bool

	cmd := &cobra.Command{
		Use:   "inspect <base_geo.json>",
		Short: "Summarize a geometry data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := geometry.Load(args[0])
			if err != nil {
				return err
			}
			c.printRecord(args[0], rec, boxes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&boxes, "boxes", false, "list the box centers")

	return cmd
}

func (c *CLI) printRecord(path string, rec *geometry.Record, boxes bool) {
	out := c.console()
	out.info("%s", path)
	out.keyValue("size", fmt.Sprintf("%d × %d", rec.Size.Width, rec.Size.Height))
	out.keyValue("boxes", strconv.Itoa(len(rec.CX)))
	out.keyValue("legs", strconv.Itoa(len(rec.K)))
	out.keyValue("arrows", strconv.Itoa(len(rec.T)))
	out.keyValue("colors", fmt.Sprintf("%d (%d transparent)", len(rec.Colors), transparentCount(rec.Colors)))

	if boxes && len(rec.CX) > 0 {
		out.newline()
		fmt.Fprintln(c.Out, boxesTable(rec))
	}
}

func transparentCount(m geometry.Mapping) int {
	n := 0
	for _, it := range m {
		if it.Value.IsNull() {
			n++
		}
	}
	return n
}

// boxesTable renders the box centers in record order.
func boxesTable(rec *geometry.Record) string {
	rows := make([][]string, len(rec.CX))
	for i, it := range rec.CX {
		cy, _ := rec.CY.Get(it.Key)
		rows[i] = []string{it.Key, it.Value.String(), cy.String()}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Box", "cx", "cy").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0:
				return StyleValue
			}
			return StyleNumber
		})
	return t.Render()
}
