package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flamelink/pkg/catalog"
	"github.com/matzehuels/flamelink/pkg/catalog/variations"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseFilters are the kind filters cycled with tab. Zero shows everything.
var browseFilters = []catalog.Kind{0, catalog.Kind2D, catalog.Kind3D, catalog.KindPostPass, catalog.KindDirectColor}

// =============================================================================
// CatalogModel - Interactive catalog browser
// =============================================================================

// CatalogModel is the bubbletea model for browsing the variation catalog.
type CatalogModel struct {
	Catalog  *catalog.Catalog
	Items    []*catalog.Descriptor
	Filter   int
	Cursor   int
	Offset   int
	Height   int
	Detail   bool
	Selected *catalog.Descriptor
}

// NewCatalogModel creates a browser over cat.
func NewCatalogModel(cat *catalog.Catalog) CatalogModel {
	return CatalogModel{
		Catalog: cat,
		Items:   cat.All(),
		Height:  15,
	}
}

func (m CatalogModel) Init() tea.Cmd {
	return nil
}

func (m CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Detail {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "enter", "backspace":
				m.Detail = false
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab":
			m.Filter = (m.Filter + 1) % len(browseFilters)
			m.Items = m.Catalog.Filter(browseFilters[m.Filter])
			m.Cursor, m.Offset = 0, 0
		case "enter":
			if len(m.Items) == 0 {
				return m, nil
			}
			m.Selected = m.Items[m.Cursor]
			m.Detail = true
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m CatalogModel) View() string {
	if m.Detail && m.Selected != nil {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Variations"))
	b.WriteString("  ")
	b.WriteString(listSelectedStyle.Render(filterLabel(browseFilters[m.Filter])))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⇥ filter  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		d := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, d.Name, d.Kinds.String(), d.Pass().String(), dash(strings.Join(d.Dependencies, ", "))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Variation", "Kinds", "Pass", "Depends on").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col >= 2 {
				base = base.Foreground(colorDim)
			}
			if idx == m.Cursor {
				if col < 2 {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Foreground(colorGray).Bold(true)
			}
			if len(m.Items[idx].Dependencies) > 0 && col == 4 {
				return base.Foreground(colorYellow)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	pos := 0
	if len(m.Items) > 0 {
		pos = m.Cursor + 1
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", pos, len(m.Items))))
	return b.String()
}

func (m CatalogModel) detailView() string {
	d := m.Selected
	var b strings.Builder
	b.WriteString(StyleTitle.Render(d.Name))
	b.WriteString("\n")
	if d.Doc != "" {
		b.WriteString(listDimStyle.Render(d.Doc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", listDimStyle.Render("kinds      "), d.Kinds)
	fmt.Fprintf(&b, "%s %s\n", listDimStyle.Render("pass       "), d.Pass())
	fmt.Fprintf(&b, "%s %s\n", listDimStyle.Render("depends on "), dash(strings.Join(d.Dependencies, ", ")))
	for _, p := range d.Params {
		fmt.Fprintf(&b, "%s %s %s %s\n", listDimStyle.Render("param      "),
			StyleHighlight.Render(p.Name), p.Kind, listDimStyle.Render(paramDefault(p)))
	}
	b.WriteString("\n")
	b.WriteString(d.Template.Source())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render("⏎/esc back  q quit"))
	return b.String()
}

func filterLabel(k catalog.Kind) string {
	if k == 0 {
		return "all"
	}
	return k.String()
}

// browseCommand creates the interactive catalog browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the variation catalog interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(NewCatalogModel(variations.Default()), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}
