package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/friendgraph/pkg/analysis"
	"github.com/matzehuels/friendgraph/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// maxDetailIDs caps the IDs listed in the detail pane.
const maxDetailIDs = 20

// =============================================================================
// NodeBrowserModel - Interactive node browser
// =============================================================================

// NodeBrowserModel is the bubbletea model for browsing the nodes of a graph.
type NodeBrowserModel struct {
	Graph  *graph.Graph
	Nodes  []graph.NodeID
	Reach  map[graph.NodeID]int
	Cursor int
	Height int
	Offset int

	// history holds cursor positions to return to after following a neighbor.
	history []int
}

// NewNodeBrowserModel creates a browser over every node of g.
func NewNodeBrowserModel(g *graph.Graph) NodeBrowserModel {
	return NodeBrowserModel{
		Graph:  g,
		Nodes:  g.Nodes().Sorted(),
		Reach:  analysis.Distance2Counts(g),
		Height: 15,
	}
}

// Selected returns the node under the cursor.
func (m NodeBrowserModel) Selected() (graph.NodeID, bool) {
	if len(m.Nodes) == 0 {
		return 0, false
	}
	return m.Nodes[m.Cursor], true
}

func (m NodeBrowserModel) Init() tea.Cmd {
	return nil
}

func (m NodeBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "pgup":
			m.moveTo(m.Cursor - m.Height)
		case "pgdown":
			m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.Nodes) - 1)
		case "enter", "right", "l":
			m.follow()
		case "backspace", "left", "h":
			m.back()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo places the cursor at i, clamped, and scrolls it into view.
func (m *NodeBrowserModel) moveTo(i int) {
	if len(m.Nodes) == 0 {
		return
	}
	m.Cursor = max(0, min(i, len(m.Nodes)-1))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// follow jumps to the first direct neighbor of the selected node that is not
// the node itself.
func (m *NodeBrowserModel) follow() {
	n, ok := m.Selected()
	if !ok {
		return
	}
	for _, nb := range m.Graph.Neighbors(n) {
		if nb == n {
			continue
		}
		if i, found := indexOf(m.Nodes, nb); found {
			m.history = append(m.history, m.Cursor)
			m.moveTo(i)
			return
		}
	}
}

func (m *NodeBrowserModel) back() {
	if len(m.history) == 0 {
		return
	}
	last := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.moveTo(last)
}

func (m NodeBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ follow neighbor  ← back  q quit"))
	b.WriteString("\n\n")

	if len(m.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  graph is empty"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Nodes))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.FormatUint(uint64(n), 10),
			strconv.Itoa(m.Graph.Degree(n)),
			strconv.Itoa(m.Reach[n]),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Degree", "Distance-2").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return listNormalStyle
		})

	detail := m.detail()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, t.Render(), "  ", detail))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))

	return b.String()
}

// detail renders the neighborhood of the selected node.
func (m NodeBrowserModel) detail() string {
	n, _ := m.Selected()
	d2 := m.Graph.NeighborsAtDistance2(n).Sorted()

	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Node %d", n)))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render("degree      "))
	b.WriteString(StyleNumber.Render(strconv.Itoa(m.Graph.Degree(n))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("neighbors   "))
	b.WriteString(listNormalStyle.Render(joinIDs(m.Graph.Neighbors(n))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("distance-2  "))
	b.WriteString(listNormalStyle.Render(joinIDs(d2)))
	return b.String()
}

// joinIDs formats ids as a comma-separated list, truncated after maxDetailIDs.
func joinIDs(ids []graph.NodeID) string {
	if len(ids) == 0 {
		return "—"
	}
	parts := make([]string, 0, min(len(ids), maxDetailIDs))
	for i, id := range ids {
		if i == maxDetailIDs {
			parts = append(parts, fmt.Sprintf("… +%d", len(ids)-maxDetailIDs))
			break
		}
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	return strings.Join(parts, ", ")
}

func indexOf(ids []graph.NodeID, id graph.NodeID) (int, bool) {
	for i, v := range ids {
		if v == id {
			return i, true
		}
		if v > id {
			break
		}
	}
	return 0, false
}
