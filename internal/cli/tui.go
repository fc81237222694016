package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/jsonderef/pkg/refgraph"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// SchemaListModel - Interactive schema selection
// =============================================================================

// SchemaItem is one row of the schema browser.
type SchemaItem struct {
	URI       string
	LocalRefs int
	CrossRefs int
	// Missing marks schemas that are referenced but not loaded; they cannot
	// be selected.
	Missing bool
}

// schemaItems lists every node of g, loaded schemas first.
func schemaItems(g *refgraph.Graph) []SchemaItem {
	nodes := g.Nodes()
	items := make([]SchemaItem, 0, len(nodes))
	for _, n := range nodes {
		item := SchemaItem{URI: n.URI, LocalRefs: n.SelfRefs, Missing: n.Missing}
		for _, child := range g.Children(n.URI) {
			item.CrossRefs += g.EdgeCount(n.URI, child)
		}
		items = append(items, item)
	}
	return items
}

// SchemaListModel is the bubbletea model for interactive schema selection.
type SchemaListModel struct {
	Items    []SchemaItem
	Cursor   int
	Selected *SchemaItem
	Height   int
	Offset   int
}

// NewSchemaListModel creates a new schema list model.
func NewSchemaListModel(items []SchemaItem) SchemaListModel {
	return SchemaListModel{Items: items, Height: 15}
}

func (m SchemaListModel) Init() tea.Cmd {
	return nil
}

func (m SchemaListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
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
		case "enter":
			if len(m.Items) == 0 {
				return m, nil
			}
			item := m.Items[m.Cursor]
			if item.Missing {
				return m, nil
			}
			m.Selected = &item
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m SchemaListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Schema"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ print dereferenced  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		item := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		local, cross := strconv.Itoa(item.LocalRefs), strconv.Itoa(item.CrossRefs)
		if item.Missing {
			local, cross = "—", "—"
		}
		rows = append(rows, []string{cursor, shorten(item.URI, 60), local, cross})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Schema", "Local refs", "Cross refs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col >= 2 {
				base = base.Align(lipgloss.Right)
			}
			switch {
			case m.Items[idx].Missing:
				return base.Foreground(colorDim)
			case idx == m.Cursor:
				return base.Foreground(colorGreen).Bold(true)
			default:
				return base.Foreground(colorWhite)
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.Items) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))
	}
	return b.String()
}
