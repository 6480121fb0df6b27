// Package ui implements the interactive terminal viewer. The Model owns the
// widget tree and forwards every selection mutation through the guard, which
// decides whether the change renders immediately or needs confirmation.
package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/regulomics/grnscope/internal/datasource"
	"github.com/regulomics/grnscope/pkg/config"
	"github.com/regulomics/grnscope/pkg/debug"
	"github.com/regulomics/grnscope/pkg/export"
	"github.com/regulomics/grnscope/pkg/graphview"
	"github.com/regulomics/grnscope/pkg/guard"
	"github.com/regulomics/grnscope/pkg/layout"
	"github.com/regulomics/grnscope/pkg/loader"
	"github.com/regulomics/grnscope/pkg/model"
	"github.com/regulomics/grnscope/pkg/network"
	"github.com/regulomics/grnscope/pkg/watcher"
)

// focus represents which UI element has keyboard focus
type focus int

const (
	focusTFList focus = iota
	focusGeneList
	focusSlider
	focusGraph
	focusWarnModal
	focusHelp
)

// FileChangedMsg is sent when the data file changes on disk
type FileChangedMsg struct{}

// ReloadedMsg carries the result of re-reading the data file
type ReloadedMsg struct {
	Result loader.Result
	Err    error
}

// sliderDebounceMsg fires after the slider has been quiet for the debounce
// window. Generation pairs it with the keystroke burst that scheduled it.
type sliderDebounceMsg struct {
	gen int
}

// ReadyTimeoutMsg is sent after a short delay to ensure the UI becomes ready
// even if the terminal doesn't send WindowSizeMsg promptly
type ReadyTimeoutMsg struct{}

// autoCloseMsg ends the program, used by scripted runs
type autoCloseMsg struct{}

// exportDoneMsg reports the outcome of a snapshot export.
type exportDoneMsg struct {
	path string
	err  error
}

// ReadyTimeoutCmd returns a command that sends ReadyTimeoutMsg after 100ms.
// This keeps the TUI from hanging on "Initializing..." if the terminal is
// slow to report its size (common in tmux, SSH, some terminal emulators).
func ReadyTimeoutCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return ReadyTimeoutMsg{}
	})
}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// autoCloseCmd quits after the duration in GRN_TUI_AUTOCLOSE_MS, when set.
func autoCloseCmd() tea.Cmd {
	v := strings.TrimSpace(os.Getenv("GRN_TUI_AUTOCLOSE_MS"))
	if v == "" {
		return nil
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return nil
	}
	return tea.Tick(time.Duration(ms)*time.Millisecond, func(time.Time) tea.Msg {
		return autoCloseMsg{}
	})
}

// Model is the bubbletea model for the whole viewer.
type Model struct {
	cfg      config.Config
	guard    *guard.Guard
	renderer *graphview.Renderer
	insights *graphview.Insights

	tfList   ChecklistModel
	geneList ChecklistModel
	slider   SliderModel
	graph    GraphPane
	warn     WarnModal
	help     HelpModel
	theme    Theme

	focused   focus
	prevFocus focus // restored when a modal closes

	width  int
	height int
	ready  bool

	sliderGen int // debounce generation, bumps on every slider keystroke

	watcher  *watcher.Watcher
	dataPath string
	edges    []model.EdgeRecord // last loaded set, kept for reload diffs

	status    string
	statusErr bool
}

// pane geometry, recomputed on resize
const (
	headerRows    = 2 // header line + blank
	leftPaneWidth = 34
)

// NewModel builds the viewer over loaded edge data. The watcher may be nil
// (live reload disabled).
func NewModel(cfg config.Config, result loader.Result, dataPath string, w *watcher.Watcher) Model {
	theme := ThemeForMode(lipgloss.DefaultRenderer(), cfg.UI.Theme)

	idx := network.BuildIndex(result.Edges, cfg.SpecialTFs)
	renderer := graphview.NewRenderer(layout.DefaultOptions())
	limits := network.Limits{MaxNodes: cfg.Limits.MaxNodes, MaxEdges: cfg.Limits.MaxEdges}
	g := guard.New(idx, limits, cfg.Slider.Minimum, renderer)

	m := Model{
		cfg:      cfg,
		guard:    g,
		renderer: renderer,
		tfList:   NewChecklist("Transcription factors", theme),
		geneList: NewChecklist("Genes", theme),
		slider:   NewSlider(cfg.Slider.Minimum, cfg.Slider.Minimum, cfg.Slider.Step, theme),
		graph:    NewGraphPane(theme),
		warn:     NewWarnModal(limits, theme),
		help:     NewHelp(theme),
		theme:    theme,
		focused:  focusTFList,
		watcher:  w,
		dataPath: dataPath,
		edges:    result.Edges,
	}
	m.populateLists()
	if result.Skipped > 0 {
		m.setStatus(fmt.Sprintf("loaded %d edges, skipped %d malformed rows", len(result.Edges), result.Skipped), false)
	} else {
		m.setStatus(fmt.Sprintf("loaded %d edges from %s", len(result.Edges), filepath.Base(dataPath)), false)
	}
	return m
}

// Init starts the watcher wait and the ready timeout.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ReadyTimeoutCmd()}
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	if c := autoCloseCmd(); c != nil {
		cmds = append(cmds, c)
	}
	return tea.Batch(cmds...)
}

// populateLists rebuilds checklist items from the current index.
func (m *Model) populateLists() {
	idx := m.guard.Index()

	tfItems := make([]ChecklistItem, 0, len(idx.TFIDs()))
	for _, id := range idx.TFIDs() {
		tfItems = append(tfItems, ChecklistItem{
			ID:       id,
			Name:     idx.DisplayName(id),
			Disabled: idx.IsSpecial(id),
		})
	}
	m.tfList.SetItems(tfItems)

	geneItems := make([]ChecklistItem, 0, len(idx.GeneIDs()))
	for _, id := range idx.GeneIDs() {
		geneItems = append(geneItems, ChecklistItem{
			ID:   id,
			Name: idx.DisplayName(id),
		})
	}
	m.geneList.SetItems(geneItems)

	m.syncSelections()
}

// syncSelections refreshes checklist checkmarks from the guarded selection.
func (m *Model) syncSelections() {
	sel := m.guard.Selection()
	m.tfList.SetSelected(sel.HasTF)
	m.geneList.SetSelected(sel.HasGene)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// setSizes distributes the window across panes.
func (m *Model) setSizes() {
	bodyH := m.height - headerRows - 1 // status line
	if bodyH < 10 {
		bodyH = 10
	}
	listH := (bodyH - 2) / 2 // slider + spacing
	m.tfList.SetSize(leftPaneWidth, listH)
	m.geneList.SetSize(leftPaneWidth, listH)
	m.slider.SetWidth(leftPaneWidth - 18)

	graphW := m.width - leftPaneWidth - 3
	m.graph.SetSize(graphW, bodyH-1)

	m.warn.SetSize(m.width, m.height)
	m.help.SetSize(m.width, m.height)
}

// Update is the single dispatch point for all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.setSizes()
		return m, nil

	case ReadyTimeoutMsg:
		if !m.ready {
			m.width = 100
			m.height = 30
			m.ready = true
			m.setSizes()
		}
		return m, nil

	case autoCloseMsg:
		return m, tea.Quit

	case FileChangedMsg:
		cmds := []tea.Cmd{m.reloadCmd()}
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case ReloadedMsg:
		return m.handleReloaded(msg), nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("export failed: %v", msg.err), true)
		} else {
			m.setStatus("snapshot saved to "+msg.path, false)
		}
		return m, nil

	case sliderDebounceMsg:
		if msg.gen != m.sliderGen {
			return m, nil // superseded by a later keystroke
		}
		m.applyDecision(m.guard.Apply(guard.SetThreshold{Value: m.slider.Value()}))
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

// reloadCmd re-reads the data file off the event loop.
func (m Model) reloadCmd() tea.Cmd {
	path := m.dataPath
	return func() tea.Msg {
		result, _, err := datasource.LoadEdges(path, "")
		return ReloadedMsg{Result: result, Err: err}
	}
}

// handleReloaded swaps in the fresh index, pruning stale selections.
func (m Model) handleReloaded(msg ReloadedMsg) Model {
	if msg.Err != nil {
		m.setStatus(fmt.Sprintf("reload failed: %v", msg.Err), true)
		return m
	}

	diff := datasource.DiffEdges(m.edges, msg.Result.Edges)
	m.edges = msg.Result.Edges

	idx := network.BuildIndex(msg.Result.Edges, m.cfg.SpecialTFs)
	if m.focused == focusWarnModal {
		// the parked change's baseline is gone with the old index
		m.focused = m.prevFocus
	}
	m.applyDecision(m.guard.SetIndex(idx))
	m.populateLists()
	m.setStatus("data reloaded: "+diff.Summary(), false)
	debug.Log("reload: %s", diff.Summary())
	return m
}

// handleMouse toggles checklist entries on click. Shift-click on a TF also
// selects all of its targets.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if m.focused == focusWarnModal || m.focused == focusHelp {
		return m
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if list := m.focusedList(); list != nil {
			list.MoveUp()
		}
		return m
	case tea.MouseButtonWheelDown:
		if list := m.focusedList(); list != nil {
			list.MoveDown()
		}
		return m
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m
	}
	if msg.X >= leftPaneWidth {
		// graph pane: account for the column gap and border cell
		gx := msg.X - leftPaneWidth - 2
		gy := msg.Y - headerRows - 1
		if gx >= 0 && gy >= 0 {
			m.focused = focusGraph
			if m.graph.ClickAt(gx, gy) {
				if node, ok := m.graph.CurrentNode(); ok && msg.Shift && node.Role != model.RoleTarget {
					m.applyDecision(m.guard.Apply(guard.SelectTFWithTargets{ID: node.ID}))
				}
			} else if e, ok := m.graph.EdgeAt(gx, gy); ok {
				m.setStatus(m.graph.EdgeInfo(e), false)
			}
		}
		return m
	}

	listH := m.listHeight()
	tfTop := headerRows
	geneTop := tfTop + listH

	switch {
	case msg.Y >= tfTop+2 && msg.Y < geneTop:
		if it, ok := m.tfList.ItemAtRow(msg.Y - tfTop - 2); ok && !it.Disabled {
			m.focused = focusTFList
			if msg.Shift {
				m.applyDecision(m.guard.Apply(guard.SelectTFWithTargets{ID: it.ID}))
			} else {
				m.applyDecision(m.guard.Apply(guard.ToggleTF{ID: it.ID, Selected: !it.Selected}))
			}
		}
	case msg.Y >= geneTop+2 && msg.Y < geneTop+listH:
		if it, ok := m.geneList.ItemAtRow(msg.Y - geneTop - 2); ok {
			m.focused = focusGeneList
			m.applyDecision(m.guard.Apply(guard.ToggleGene{ID: it.ID, Selected: !it.Selected}))
		}
	}
	return m
}

func (m Model) listHeight() int {
	bodyH := m.height - headerRows - 1
	if bodyH < 10 {
		bodyH = 10
	}
	return (bodyH - 2) / 2
}

// handleKeys routes keys by focus.
func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// global
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	}

	switch m.focused {
	case focusWarnModal:
		return m.handleWarnModalKeys(key)
	case focusHelp:
		if key == "?" || key == "esc" || key == "q" {
			m.focused = m.prevFocus
		}
		return m, nil
	}

	// filter input captures everything except its exit keys
	if list := m.focusedList(); list != nil && list.FilterFocused() {
		switch key {
		case "esc":
			list.ClearFilter()
			list.BlurFilter()
		case "enter":
			list.BlurFilter()
		default:
			list.UpdateInput(msg)
		}
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit

	case "?":
		m.prevFocus = m.focused
		m.focused = focusHelp
		return m, nil

	case "tab":
		m.focused = m.nextFocus(1)
		return m, nil
	case "shift+tab":
		m.focused = m.nextFocus(-1)
		return m, nil

	case "left", "h":
		if m.slider.Decrease() {
			return m, m.scheduleThreshold()
		}
		return m, nil
	case "right", "l":
		if m.slider.Increase() {
			return m, m.scheduleThreshold()
		}
		return m, nil

	case "r":
		m.applyDecision(m.guard.Apply(guard.Reset{}))
		m.slider.SetValue(m.cfg.Slider.Minimum)
		m.setStatus("selections reset", false)
		return m, nil

	case "e":
		scene := m.renderer.Scene()
		if scene == nil || scene.Outcome != model.OutcomeRendered {
			m.setStatus("nothing rendered to export", false)
			return m, nil
		}
		return m, exportCmd(scene, m.dataPath)
	}

	switch m.focused {
	case focusTFList, focusGeneList:
		return m.handleListKeys(key)
	case focusGraph:
		return m.handleGraphKeys(key)
	}
	return m, nil
}

func (m *Model) focusedList() *ChecklistModel {
	switch m.focused {
	case focusTFList:
		return &m.tfList
	case focusGeneList:
		return &m.geneList
	}
	return nil
}

func (m Model) nextFocus(delta int) focus {
	order := []focus{focusTFList, focusGeneList, focusSlider, focusGraph}
	for i, f := range order {
		if f == m.focused {
			return order[((i+delta)%len(order)+len(order))%len(order)]
		}
	}
	return focusTFList
}

// scheduleThreshold arms the debounce timer for the current slider value.
// Each keystroke cancels the previous timer by bumping the generation.
func (m *Model) scheduleThreshold() tea.Cmd {
	m.sliderGen++
	gen := m.sliderGen
	d := m.cfg.Debounce()
	return tea.Tick(d, func(time.Time) tea.Msg {
		return sliderDebounceMsg{gen: gen}
	})
}

func (m Model) handleWarnModalKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "enter":
		m.applyDecision(m.guard.Apply(guard.Confirm{}))
		return m, nil
	case "n", "esc":
		m.applyDecision(m.guard.Apply(guard.Cancel{}))
		return m, nil
	case "left", "h":
		if m.slider.Decrease() {
			return m, m.scheduleThreshold()
		}
	case "right", "l":
		if m.slider.Increase() {
			return m, m.scheduleThreshold()
		}
	case "ctrl+c", "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleListKeys(key string) (tea.Model, tea.Cmd) {
	list := m.focusedList()
	isTF := m.focused == focusTFList

	switch key {
	case "j", "down":
		list.MoveDown()
	case "k", "up":
		list.MoveUp()
	case "/":
		list.FocusFilter()
	case "esc":
		list.ClearFilter()

	case " ", "enter":
		it, ok := list.Current()
		if !ok {
			return m, nil
		}
		if it.Disabled {
			m.setStatus(fmt.Sprintf("%s has no interactions in this dataset", it.Name), false)
			return m, nil
		}
		if isTF {
			m.applyDecision(m.guard.Apply(guard.ToggleTF{ID: it.ID, Selected: !it.Selected}))
		} else {
			m.applyDecision(m.guard.Apply(guard.ToggleGene{ID: it.ID, Selected: !it.Selected}))
		}

	case "t":
		if !isTF {
			return m, nil
		}
		if it, ok := list.Current(); ok && !it.Disabled {
			m.applyDecision(m.guard.Apply(guard.SelectTFWithTargets{ID: it.ID}))
		}

	case "a":
		kind := network.KindGene
		if isTF {
			kind = network.KindTF
		}
		m.applyDecision(m.guard.Apply(guard.SelectAll{Kind: kind}))

	case "x":
		kind := network.KindGene
		if isTF {
			kind = network.KindTF
		}
		m.applyDecision(m.guard.Apply(guard.ClearAll{Kind: kind}))
	}
	return m, nil
}

func (m Model) handleGraphKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "j", "down":
		m.graph.CycleNode(1)
	case "p", "k", "up":
		m.graph.CycleNode(-1)
	case "esc":
		m.graph.DismissCursor()
	case "y":
		info := m.graph.NodeInfo()
		if info == "" {
			m.setStatus("no node highlighted", false)
			return m, nil
		}
		if err := clipboard.WriteAll(info); err != nil {
			m.setStatus(fmt.Sprintf("clipboard unavailable: %v", err), true)
		} else {
			m.setStatus("node details copied", false)
		}
	}
	return m, nil
}

// exportCmd writes an SVG snapshot next to the data file.
func exportCmd(scene *graphview.Scene, dataPath string) tea.Cmd {
	dir := filepath.Dir(dataPath)
	stem := strings.TrimSuffix(filepath.Base(dataPath), filepath.Ext(dataPath))
	path := filepath.Join(dir, stem+"_snapshot.svg")
	return func() tea.Msg {
		err := export.SaveSnapshot(export.SnapshotOptions{Path: path, Scene: scene})
		return exportDoneMsg{path: path, err: err}
	}
}

// applyDecision translates a guard decision into widget state.
func (m *Model) applyDecision(d guard.Decision) {
	switch d.Effect {
	case guard.EffectRender:
		scene := m.renderer.Scene()
		m.insights = graphview.ComputeInsights(scene)
		m.graph.SetScene(scene, m.insights)
		if m.focused == focusWarnModal {
			m.focused = m.prevFocus
		}
		switch d.Outcome {
		case model.OutcomeEmpty:
			m.setStatus(fmt.Sprintf("no interactions at confidence ≥ %.2f", m.guard.Selection().Threshold()), false)
		default:
			m.setStatus(fmt.Sprintf("rendered %d nodes, %d edges", d.Estimate.Nodes, d.Estimate.Edges), false)
		}

	case guard.EffectClear:
		m.graph.Clear()
		m.insights = nil
		if m.focused == focusWarnModal {
			m.focused = m.prevFocus
		}

	case guard.EffectWarn:
		m.warn.SetEstimate(d.Estimate)
		if m.focused != focusWarnModal {
			m.prevFocus = m.focused
			m.focused = focusWarnModal
		}

	case guard.EffectRejected:
		m.setStatus("resolve the size warning first: y renders, n cancels", true)

	case guard.EffectCancelled:
		if m.focused == focusWarnModal {
			m.focused = m.prevFocus
		}
		m.slider.SetValue(m.guard.Selection().Threshold())
		m.setStatus("change cancelled", false)
	}

	// while awaiting, keep the displayed numbers in sync with the live estimate
	if pc := m.guard.Pending(); pc != nil {
		m.warn.SetEstimate(pc.Estimate)
	}
	m.syncSelections()
}

// View renders the full screen.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.focused {
	case focusHelp:
		return m.help.View()
	case focusWarnModal:
		return m.warn.View()
	}

	t := m.theme
	header := t.Header.Render("grn") + " " +
		t.MutedText.Render(truncate(m.dataPath, m.width-20))

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.tfList.View(m.focused == focusTFList),
		"",
		m.geneList.View(m.focused == focusGeneList),
		"",
		m.slider.View(m.focused == focusSlider),
	)

	graphStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)
	if m.focused == focusGraph {
		graphStyle = graphStyle.BorderForeground(t.Primary)
	}
	right := graphStyle.Render(m.graph.View(m.focused == focusGraph))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		t.Renderer.NewStyle().Width(leftPaneWidth).Render(left),
		" ",
		right,
	)

	statusStyle := t.MutedText
	if m.statusErr {
		statusStyle = t.ErrorText
	}
	statusLine := statusStyle.Render(truncate(m.status, m.width-2))
	if info := m.graph.NodeInfo(); info != "" && m.focused == focusGraph {
		statusLine = t.SecondaryText.Render(truncate(info, m.width-2))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, statusLine)
}
