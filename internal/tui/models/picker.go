// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

// Package models implements the icon picker screen.
package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/iconpick/internal/catalog"
	"github.com/janderssonse/iconpick/internal/domain"
	"github.com/janderssonse/iconpick/internal/grid"
	"github.com/janderssonse/iconpick/internal/segmented"
	"github.com/janderssonse/iconpick/internal/tui/styles"
)

const (
	fadeFrames    = 4
	fadeInterval  = 60 * time.Millisecond
	statusTimeout = 3 * time.Second

	defaultWidth  = 80
	defaultHeight = 24
	chromeLines   = 6 // header, filter, status and footer
	previewGutter = 4 // preview border and padding
)

// ScanFunc produces the validated catalog for the picker.
type ScanFunc func(ctx context.Context) (*catalog.Catalog, error)

type pickerState int

const (
	stateLoading pickerState = iota
	stateReady
	stateFailed
)

type (
	catalogLoadedMsg struct {
		catalog *catalog.Catalog
		err     error
	}

	fadeTickMsg struct{}

	previewMsg struct {
		name     domain.IconName
		rendered string
	}

	statusClearMsg struct {
		seq int
	}
)

// Options configures the picker.
type Options struct {
	Selection domain.SelectionContext
	Columns   int
	Layout    Layout
	Theme     string
	Preview   bool
}

// Picker is the icon selection screen. It runs the scan on a background
// command and hands activation to the grid view model.
//
//nolint:containedctx // the scan and activation need the program context
type Picker struct {
	ctx     context.Context
	opts    Options
	scan    ScanFunc
	loader  grid.Loader
	sink    domain.SelectionSink
	styles  *styles.Styles
	keys    KeyMap
	render  *gridRenderer
	help    help.Model
	overlay *HelpOverlay

	spinner  spinner.Model
	filter   textinput.Model
	viewport viewport.Model

	state   pickerState
	catalog *catalog.Catalog
	vm      *grid.ViewModel
	cursor  int
	fade    int

	previewName domain.IconName
	preview     string

	status    string
	statusSeq int

	width, height int

	result   grid.Activation
	err      error
	quitting bool
}

// NewPicker creates the picker model.
func NewPicker(ctx context.Context, scan ScanFunc, loader grid.Loader, sink domain.SelectionSink, opts Options) *Picker {
	st := styles.New(opts.Theme)
	keys := DefaultKeyMap()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = st.PrimaryText

	filter := textinput.New()
	filter.Prompt = "filter: "
	filter.Placeholder = "icon name"
	filter.CharLimit = 128

	opts.Columns = max(opts.Columns, 1)
	opts.Layout.CellWidth = max(opts.Layout.CellWidth, 1)

	return &Picker{
		ctx:      ctx,
		opts:     opts,
		scan:     scan,
		loader:   loader,
		sink:     sink,
		styles:   st,
		keys:     keys,
		render:   newGridRenderer(st, opts.Layout),
		help:     help.New(),
		overlay:  NewHelpOverlay(st, keys, opts.Theme),
		spinner:  spin,
		filter:   filter,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeLines),
		cursor:   -1,
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

// Result returns the outcome of the last activation.
func (m *Picker) Result() grid.Activation {
	return m.result
}

// Err returns the scan error, if the catalog could not be loaded.
func (m *Picker) Err() error {
	return m.err
}

// Init starts the spinner and the catalog scan.
func (m *Picker) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.scanCmd())
}

func (m *Picker) scanCmd() tea.Cmd {
	ctx := m.ctx

	return func() tea.Msg {
		cat, err := m.scan(ctx)

		return catalogLoadedMsg{catalog: cat, err: err}
	}
}

// Update handles messages.
func (m *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

		return m, nil

	case catalogLoadedMsg:
		return m.handleCatalog(msg)

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}

		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case fadeTickMsg:
		if m.fade >= fadeFrames {
			return m, nil
		}

		m.fade++
		m.refresh()

		return m, fadeTick()

	case previewMsg:
		if msg.name == m.previewName {
			m.preview = msg.rendered
		}

		return m, nil

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Picker) handleCatalog(msg catalogLoadedMsg) (tea.Model, tea.Cmd) {
	if m.quitting || m.state != stateLoading {
		return m, nil
	}

	if msg.err != nil {
		m.state = stateFailed
		m.err = msg.err

		return m, nil
	}

	m.catalog = msg.catalog
	m.vm = grid.New(segmented.Build(m.catalog.All(), m.catalog.Matching(), ""), m.opts.Columns, m.loader, m.sink, m.opts.Selection)
	m.state = stateReady
	m.cursor = m.vm.FirstIcon()
	m.refresh()

	return m, tea.Batch(fadeTick(), m.previewCmd())
}

func (m *Picker) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.state {
	case stateLoading:
		if key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}

		return m, nil
	case stateFailed:
		return m.quit()
	case stateReady:
	}

	if m.overlay.Visible() {
		if key.Matches(msg, m.keys.Help) || msg.Type == tea.KeyEsc || msg.String() == "q" {
			m.overlay.Toggle()

			return m, nil
		}

		return m, m.overlay.Update(msg)
	}

	if m.filter.Focused() {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.overlay.Toggle()

		return m, nil
	case key.Matches(msg, m.keys.Search):
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Clear):
		return m.setQuery("")
	case key.Matches(msg, m.keys.Select):
		return m.activate()
	case key.Matches(msg, m.keys.Up):
		return m.moveTo(m.vm.Move(m.cursor, -1, 0))
	case key.Matches(msg, m.keys.Down):
		return m.moveTo(m.vm.Move(m.cursor, 1, 0))
	case key.Matches(msg, m.keys.Left):
		return m.moveTo(m.vm.Move(m.cursor, 0, -1))
	case key.Matches(msg, m.keys.Right):
		return m.moveTo(m.vm.Move(m.cursor, 0, 1))
	case key.Matches(msg, m.keys.Home):
		return m.moveTo(m.vm.FirstIcon())
	case key.Matches(msg, m.keys.End):
		return m.moveTo(m.lastIcon())
	}

	return m, nil
}

func (m *Picker) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Done):
		m.filter.Blur()

		return m, nil
	case key.Matches(msg, m.keys.Clear):
		return m.setQuery("")
	case msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
		m.filter.Blur()

		return m.handleKey(msg)
	}

	var cmd tea.Cmd

	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)

	if m.filter.Value() == before {
		return m, cmd
	}

	_, rebuild := m.setQuery(m.filter.Value())

	return m, tea.Batch(cmd, rebuild)
}

// setQuery rebuilds the list for query and resets the cursor.
func (m *Picker) setQuery(query string) (tea.Model, tea.Cmd) {
	if m.filter.Value() != query {
		m.filter.SetValue(query)
	}

	m.vm.SetList(segmented.Build(m.catalog.All(), m.catalog.Matching(), query))
	m.cursor = m.vm.FirstIcon()
	m.refresh()

	return m, m.previewCmd()
}

func (m *Picker) moveTo(pos int) (tea.Model, tea.Cmd) {
	if pos < 0 || pos == m.cursor {
		return m, nil
	}

	m.cursor = pos
	m.refresh()

	return m, m.previewCmd()
}

func (m *Picker) lastIcon() int {
	for pos := m.vm.Len() - 1; pos >= 0; pos-- {
		if m.vm.KindAt(pos).IsIcon() {
			return pos
		}
	}

	return -1
}

func (m *Picker) activate() (tea.Model, tea.Cmd) {
	act := m.vm.Activate(m.ctx, m.cursor)

	switch act.Outcome {
	case grid.OutcomeCommitted:
		m.result = act

		return m.quit()
	case grid.OutcomeUnavailable:
		m.result = act

		return m, m.setStatus(fmt.Sprintf("%s could not be loaded", act.Name))
	case grid.OutcomeCommitFailed:
		m.result = act

		return m, m.setStatus(act.Err.Error())
	case grid.OutcomeIgnored:
	}

	return m, nil
}

func (m *Picker) setStatus(text string) tea.Cmd {
	m.statusSeq++
	m.status = text
	seq := m.statusSeq

	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

func (m *Picker) quit() (tea.Model, tea.Cmd) {
	m.quitting = true

	return m, tea.Quit
}

func fadeTick() tea.Cmd {
	return tea.Tick(fadeInterval, func(time.Time) tea.Msg {
		return fadeTickMsg{}
	})
}

// previewCmd decodes the focused icon in the background.
func (m *Picker) previewCmd() tea.Cmd {
	if !m.opts.Preview || m.vm == nil {
		return nil
	}

	name := m.vm.NameAt(m.cursor)
	if name == m.previewName {
		return nil
	}

	m.previewName = name
	m.preview = ""

	if name == "" {
		return nil
	}

	ctx, loader, width := m.ctx, m.loader, m.opts.Layout.CellWidth

	return func() tea.Msg {
		img := loader.ResolveImage(ctx, name)
		if img == nil {
			return previewMsg{name: name}
		}

		return previewMsg{name: name, rendered: RenderHalfBlocks(img.Pixels, width)}
	}
}

func (m *Picker) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.filter.Width = max(width-len(m.filter.Prompt)-2, 10)
	m.overlay.SetSize(width, height)

	gridWidth := width
	if m.opts.Preview {
		gridWidth -= m.opts.Layout.CellWidth + previewGutter
	}

	m.viewport.Width = max(gridWidth, 1)
	m.viewport.Height = max(height-chromeLines, 1)
	m.refresh()
}

// refresh re-renders the grid and keeps the cursor row visible.
func (m *Picker) refresh() {
	if m.vm == nil {
		return
	}

	lines := m.render.render(m.vm, m.cursor, m.fade < fadeFrames)
	// An empty pack still shows the All header.
	if list := m.vm.List(); list.IsEmpty() && list.Query() != "" {
		lines = append(lines, "", m.styles.MutedText.Render(strings.Repeat(" ", m.opts.Layout.Margin)+"no icons match"))
	}

	m.viewport.SetContent(strings.Join(lines, "\n"))

	row, _ := m.vm.RowOf(m.cursor)

	switch {
	case row < 0:
		m.viewport.GotoTop()
	case row < m.viewport.YOffset:
		m.viewport.SetYOffset(row)
	case row >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(row - m.viewport.Height + 1)
	}
}

// View renders the picker.
func (m *Picker) View() string {
	if m.quitting {
		return ""
	}

	header := m.styles.Header.Render(fmt.Sprintf("Icon for %s", m.opts.Selection.AppLabel)) +
		" " + m.styles.MutedText.Render(m.opts.Selection.AppPackage+" · "+m.opts.Selection.IconPack)

	switch m.state {
	case stateLoading:
		return lipgloss.JoinVertical(lipgloss.Left, header, "", m.spinner.View()+" scanning icon pack…")
	case stateFailed:
		return lipgloss.JoinVertical(lipgloss.Left, header, "",
			m.styles.ErrorText.Render(domain.FormatError(m.err, m.opts.Selection.IconPack, false)),
			m.styles.MutedText.Render("press any key to exit"))
	case stateReady:
	}

	if m.overlay.Visible() {
		return lipgloss.JoinVertical(lipgloss.Left, header, m.overlay.View())
	}

	body := m.viewport.View()
	if m.opts.Preview {
		preview := m.preview
		if preview == "" {
			preview = strings.Repeat(" ", m.opts.Layout.CellWidth)
		}

		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.styles.Preview.Render(preview))
	}

	status := ""
	if m.status != "" {
		status = m.styles.WarningText.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.styles.Filter.Render(m.filter.View()),
		body,
		status,
		m.styles.Footer.Render(m.help.View(m.keys)),
	)
}
