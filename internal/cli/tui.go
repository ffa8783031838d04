package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/erdgeo/pkg/relations"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listChosenStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TemplatePickerModel - Interactive relation template selection
// =============================================================================

// TemplatePickerModel is the bubbletea model for choosing relation templates.
type TemplatePickerModel struct {
	Templates []*relations.Template
	Cursor    int
	Chosen    map[int]bool
	// Confirmed is set when the user accepted the selection with enter.
	Confirmed bool
}

// NewTemplatePickerModel creates a picker with the templates named in
// preselected already chosen.
func NewTemplatePickerModel(tpls []*relations.Template, preselected []string) TemplatePickerModel {
	m := TemplatePickerModel{Templates: tpls, Chosen: make(map[int]bool)}
	for _, name := range preselected {
		for i, tpl := range tpls {
			if tpl.Name == name {
				m.Chosen[i] = true
			}
		}
	}
	return m
}

func (m TemplatePickerModel) Init() tea.Cmd {
	return nil
}

func (m TemplatePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Templates)-1 {
			m.Cursor++
		}
	case " ", "x":
		if len(m.Templates) > 0 {
			m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
		}
	case "a":
		all := len(m.Selected()) < len(m.Templates)
		for i := range m.Templates {
			m.Chosen[i] = all
		}
	case "enter":
		m.Confirmed = true
		return m, tea.Quit
	}
	return m, nil
}

// Selected returns the chosen template names in list order.
func (m TemplatePickerModel) Selected() []string {
	var names []string
	for i, tpl := range m.Templates {
		if m.Chosen[i] {
			names = append(names, tpl.Name)
		}
	}
	return names
}

func (m TemplatePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Relation Templates"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Templates))
	for i, tpl := range m.Templates {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.Chosen[i] {
			mark = "[x]"
		}
		rows[i] = []string{cursor + mark, tpl.Name, tpl.Extension, tpl.Description}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Template", "Ext", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case row == m.Cursor:
				return listSelectedStyle
			case m.Chosen[row]:
				return listChosenStyle
			case col == 3:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d selected", len(m.Selected()))))

	return b.String()
}
