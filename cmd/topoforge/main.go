package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qnetlab/topoforge/pkg/canvas"
	"github.com/qnetlab/topoforge/pkg/config"
	"github.com/qnetlab/topoforge/pkg/export"
	"github.com/qnetlab/topoforge/pkg/geometry"
	"github.com/qnetlab/topoforge/pkg/linker"
	"github.com/qnetlab/topoforge/pkg/logging"
	"github.com/qnetlab/topoforge/pkg/model"
	"github.com/qnetlab/topoforge/pkg/topology"
)

// One terminal cell spans this many canvas units in each direction.
const cellSize = 25.0

const (
	gridCols = 48
	gridRows = 16
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			MarginLeft(2).
			MarginTop(1)

	canvasStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1).
			MarginLeft(1)

	classicalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAFF")).Bold(true)
	quantumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF00FF")).Bold(true)
	bridgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")).Bold(true)
	cursorStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#FFFFFF")).Foreground(lipgloss.Color("#000000"))
	dragStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8800")).Bold(true)

	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Classical key.Binding
	Quantum   key.Binding
	Bridge    key.Binding
	Drag      key.Binding
	Cancel    key.Binding
	Delete    key.Binding
	Export    key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Classical: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "place classical")),
	Quantum:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "place quantum")),
	Bridge:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "place bridge")),
	Drag:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drag edge")),
	Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Delete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete node")),
	Export:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "export")),
	Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Classical, k.Quantum, k.Bridge, k.Drag, k.Delete, k.Export, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Classical, k.Quantum, k.Bridge},
		{k.Drag, k.Cancel, k.Delete, k.Export, k.Quit},
	}
}

type editorModel struct {
	canvas *canvas.Canvas
	topo   *topology.Manager
	links  *linker.Linker
	cfg    *config.Config

	cursorCol int
	cursorRow int

	// non-empty while an edge drag is anchored at this node
	dragSource string

	// non-nil while naming a node about to be placed
	nameInput   textinput.Model
	naming      bool
	pendingKind model.Kind
	placed      int

	help       help.Model
	keys       keyMap
	message    string
	messageErr bool
	width      int
	height     int
}

func newEditor(cfg *config.Config) editorModel {
	log := logging.NewNopLogger()
	c := canvas.New(canvas.WithLogger(log), canvas.WithNodeHalfExtent(cfg.NodeHalfExtent))
	topo := topology.NewManager(c, topology.WithLogger(log))
	links := linker.New(c, topo, linker.WithLogger(log))

	ti := textinput.New()
	ti.Placeholder = "node name"
	ti.CharLimit = 32
	ti.Width = 24

	return editorModel{
		canvas:    c,
		topo:      topo,
		links:     links,
		cfg:       cfg,
		cursorCol: gridCols / 2,
		cursorRow: gridRows / 2,
		nameInput: ti,
		help:      help.New(),
		keys:      keys,
	}
}

func (m editorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m editorModel) cursorPoint() geometry.Point {
	return geometry.Point{
		X: float64(m.cursorCol) * cellSize,
		Y: float64(m.cursorRow) * cellSize,
	}
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.naming {
			return m.updateNaming(msg)
		}
		return m.updateCanvas(msg)
	}
	return m, nil
}

func (m editorModel) updateNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.nameInput.Value())
		m.naming = false
		m.nameInput.Blur()
		m.nameInput.SetValue("")
		if name == "" {
			name = fmt.Sprintf("%s-%d", m.pendingKind.String(), m.placed+1)
		}
		if _, err := m.canvas.AddNode(name, m.pendingKind, m.cursorPoint()); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.placed++
		m.setStatus(fmt.Sprintf("placed %s node %q", m.pendingKind, name))
		return m, nil

	case tea.KeyEsc:
		m.naming = false
		m.nameInput.Blur()
		m.nameInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m editorModel) updateCanvas(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursorRow > 0 {
			m.cursorRow--
		}
		return m.afterCursorMove()

	case key.Matches(msg, m.keys.Down):
		if m.cursorRow < gridRows-1 {
			m.cursorRow++
		}
		return m.afterCursorMove()

	case key.Matches(msg, m.keys.Left):
		if m.cursorCol > 0 {
			m.cursorCol--
		}
		return m.afterCursorMove()

	case key.Matches(msg, m.keys.Right):
		if m.cursorCol < gridCols-1 {
			m.cursorCol++
		}
		return m.afterCursorMove()

	case key.Matches(msg, m.keys.Classical):
		return m.beginNaming(model.KindClassical)

	case key.Matches(msg, m.keys.Quantum):
		return m.beginNaming(model.KindQuantum)

	case key.Matches(msg, m.keys.Bridge):
		return m.beginNaming(model.KindBridge)

	case key.Matches(msg, m.keys.Drag):
		return m.beginDrag()

	case key.Matches(msg, m.keys.Cancel):
		if m.dragSource != "" {
			m.links.CancelDrag(m.dragSource)
			m.setStatus(fmt.Sprintf("drag from %q cancelled", m.dragSource))
			m.dragSource = ""
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		return m.deleteUnderCursor()

	case key.Matches(msg, m.keys.Export):
		return m.exportDocument()
	}
	return m, nil
}

func (m editorModel) beginNaming(kind model.Kind) (tea.Model, tea.Cmd) {
	if m.dragSource != "" {
		m.setError("finish or cancel the drag first")
		return m, nil
	}
	if m.nodeAtCursor() != nil {
		m.setError("cell already occupied")
		return m, nil
	}
	m.naming = true
	m.pendingKind = kind
	m.nameInput.Focus()
	return m, textinput.Blink
}

func (m editorModel) beginDrag() (tea.Model, tea.Cmd) {
	if m.dragSource != "" {
		return m, nil
	}
	node := m.nodeAtCursor()
	if node == nil {
		m.setError("no node under cursor")
		return m, nil
	}
	m.dragSource = node.Name
	if _, err := m.links.BeginOrUpdateDrag(node.Name, m.cursorPoint()); err != nil {
		m.setError(err.Error())
		m.dragSource = ""
		return m, nil
	}
	m.setStatus(fmt.Sprintf("dragging from %q", node.Name))
	return m, nil
}

func (m editorModel) afterCursorMove() (tea.Model, tea.Cmd) {
	if m.dragSource == "" {
		return m, nil
	}
	conn, err := m.links.BeginOrUpdateDrag(m.dragSource, m.cursorPoint())
	if err != nil {
		m.setError(err.Error())
		m.dragSource = ""
		return m, nil
	}
	if conn != nil {
		m.setStatus(fmt.Sprintf("connected %s to %s", conn.From, conn.To))
		m.dragSource = ""
	}
	return m, nil
}

func (m editorModel) deleteUnderCursor() (tea.Model, tea.Cmd) {
	node := m.nodeAtCursor()
	if node == nil {
		m.setError("no node under cursor")
		return m, nil
	}
	if m.dragSource == node.Name {
		m.dragSource = ""
	}
	if err := m.links.DeleteNode(node.Name); err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.setStatus(fmt.Sprintf("deleted %q and its connections", node.Name))
	return m, nil
}

func (m editorModel) exportDocument() (tea.Model, tea.Cmd) {
	doc := export.Build(m.canvas, m.links, m.topo)
	if err := export.WriteFile(m.cfg.ExportPath, doc, m.cfg.Compress); err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.setStatus(fmt.Sprintf("exported %d nodes to %s", len(doc.Nodes), m.cfg.ExportPath))
	return m, nil
}

func (m *editorModel) nodeAtCursor() *model.Node {
	p := m.cursorPoint()
	for _, n := range m.canvas.Nodes() {
		bounds, ok := m.canvas.NodeBounds(n.Name)
		if ok && bounds.Contains(p) {
			return n
		}
	}
	return nil
}

func (m *editorModel) setStatus(msg string) {
	m.message = msg
	m.messageErr = false
}

func (m *editorModel) setError(msg string) {
	m.message = msg
	m.messageErr = true
}

func (m editorModel) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("topoforge - quantum network topology editor"))
	s.WriteString("\n\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.renderCanvas()),
		panelStyle.Render(m.renderSidebar()),
	)
	s.WriteString(body)

	if m.naming {
		s.WriteString("\n\n  ")
		s.WriteString(fmt.Sprintf("name for %s node: %s", m.pendingKind, m.nameInput.View()))
	}

	if m.message != "" {
		s.WriteString("\n\n  ")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	s.WriteString("\n")

	return s.String()
}

func glyphFor(kind model.Kind) string {
	switch kind {
	case model.KindClassical:
		return classicalStyle.Render("C")
	case model.KindQuantum:
		return quantumStyle.Render("Q")
	case model.KindBridge:
		return bridgeStyle.Render("B")
	default:
		return "?"
	}
}

func (m editorModel) renderCanvas() string {
	type cell struct {
		glyph string
		node  string
	}
	grid := make([][]cell, gridRows)
	for r := range grid {
		grid[r] = make([]cell, gridCols)
	}

	for _, n := range m.canvas.Nodes() {
		col := int(n.Position.X / cellSize)
		row := int(n.Position.Y / cellSize)
		if col < 0 || col >= gridCols || row < 0 || row >= gridRows {
			continue
		}
		glyph := glyphFor(n.Kind)
		if n.Name == m.dragSource {
			glyph = dragStyle.Render("◉")
		}
		grid[row][col] = cell{glyph: glyph, node: n.Name}
	}

	var s strings.Builder
	for r := 0; r < gridRows; r++ {
		for c := 0; c < gridCols; c++ {
			switch {
			case r == m.cursorRow && c == m.cursorCol:
				if grid[r][c].glyph != "" {
					s.WriteString(cursorStyle.Render("◎"))
				} else {
					s.WriteString(cursorStyle.Render("+"))
				}
			case grid[r][c].glyph != "":
				s.WriteString(grid[r][c].glyph)
			default:
				s.WriteString("·")
			}
		}
		if r < gridRows-1 {
			s.WriteString("\n")
		}
	}
	return s.String()
}

func (m editorModel) renderSidebar() string {
	var s strings.Builder

	s.WriteString("Networks\n")
	nets := m.topo.Networks()
	if len(nets) == 0 {
		s.WriteString("  (none)\n")
	}
	for _, net := range nets {
		label := "quantum"
		if net.Classical() {
			label = "classical"
		}
		s.WriteString(fmt.Sprintf("  %s %s (%d)\n", shortID(net.ID()), label, net.Size()))
		for _, member := range net.Members() {
			if n, ok := m.canvas.Node(member); ok && n.Address != nil {
				s.WriteString(fmt.Sprintf("    %s → %d\n", member, *n.Address))
			} else {
				s.WriteString(fmt.Sprintf("    %s\n", member))
			}
		}
	}

	s.WriteString("\nConnections\n")
	conns := m.links.Connections()
	if len(conns) == 0 {
		s.WriteString("  (none)\n")
	}
	for _, c := range conns {
		s.WriteString(fmt.Sprintf("  %s <-> %s\n", c.From, c.To))
	}

	if m.dragSource != "" {
		s.WriteString("\n")
		s.WriteString(dragStyle.Render(fmt.Sprintf("drag: %s", m.dragSource)))
		s.WriteString("\n")
	}

	return s.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "parse flags: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(newEditor(cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running editor: %v\n", err)
		os.Exit(1)
	}
}
