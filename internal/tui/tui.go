package tui

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"mermaid-live/internal/tui/state"
	"mermaid-live/internal/tui/util"
	tplview "mermaid-live/internal/tui/views/templates"
	"mermaid-live/internal/tui/widgets/diff"
	"mermaid-live/internal/tui/widgets/editor"
	"mermaid-live/internal/tui/widgets/helpoverlay"
	"mermaid-live/internal/tui/widgets/preview"
	"mermaid-live/internal/tui/widgets/statusbar"
	"mermaid-live/internal/tui/widgets/tagchips"
)

// Performer carries out the effects the reducer asks for and reports the
// outcome as an event. A nil event means there is nothing to report.
type Performer interface {
	Perform(ctx context.Context, eff state.Effect) state.Event
}

// Options configures the interactive editor.
type Options struct {
	Reducer   state.Reducer
	Performer Performer
	Initial   state.EditorState
	// PreviewFile, when set, receives the rendered SVG at the current zoom
	// after every successful render so an external viewer can follow it.
	PreviewFile string
	NoColor     bool
	Logs        <-chan string
	Log         logrus.FieldLogger
}

// Run starts the editor and blocks until the user quits. It returns the
// final editor state.
func Run(opts Options) (state.EditorState, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := newModel(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(model); ok {
		return fm.state, err
	}
	return m.state, err
}

type mode string

const (
	modeEdit      mode = "edit"
	modeTemplates mode = "templates"
	modePrompt    mode = "prompt"
	modeConfirm   mode = "confirm"
)

type confirmAction int

const (
	confirmClear confirmAction = iota
	confirmQuit
)

// eventMsg carries an editor event through the bubbletea loop.
type eventMsg struct{ ev state.Event }

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	selStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "205", Dark: "213"}).Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
)

type model struct {
	ctx     context.Context
	reducer state.Reducer
	perf    Performer
	log     logrus.FieldLogger

	state       state.EditorState
	previewFile string
	noColor     bool

	keys     keyMap
	help     help.Model
	editor   textarea.Model
	viewport viewport.Model

	mode    mode
	picker  tplview.Picker
	prompt  pathPrompt
	confirm confirmAction

	showHelp bool
	showDiff bool
	showLogs bool
	logCh    <-chan string
	logs     logPane

	width  int
	height int
}

func newModel(ctx context.Context, opts Options) model {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	ta.SetValue(opts.Initial.Source)
	ta.Focus()

	lg := opts.Log
	if lg == nil {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		lg = l
	}
	noColor := util.NoColor(opts.NoColor)
	m := model{
		ctx:         ctx,
		reducer:     opts.Reducer,
		perf:        opts.Performer,
		log:         lg,
		state:       opts.Initial,
		previewFile: opts.PreviewFile,
		noColor:     noColor,
		keys:        defaultKeys(),
		help:        help.New(),
		editor:      ta,
		viewport:    viewport.New(40, 10),
		mode:        modeEdit,
		logCh:       opts.Logs,
	}
	m.refreshPreview()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		waitLog(m.logCh),
		func() tea.Msg { return eventMsg{state.RenderRequested{}} },
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil
	case eventMsg:
		return m.apply(msg.ev)
	case logMsg:
		m.logs.add(string(msg))
		return m, waitLog(m.logCh)
	case tea.KeyMsg:
		switch m.mode {
		case modeTemplates:
			return m.updateTemplates(msg)
		case modePrompt:
			return m.updatePrompt(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		}
		return m.updateEdit(msg)
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// apply runs ev through the reducer, keeps the widgets in step with the new
// state and turns the effects into commands.
func (m model) apply(ev state.Event) (model, tea.Cmd) {
	prev := m.state
	next, effs := m.reducer.Apply(prev, ev)
	m.state = next
	if next.Source != m.editor.Value() {
		m.editor.SetValue(next.Source)
	}
	cmds := make([]tea.Cmd, 0, len(effs)+1)
	for _, eff := range effs {
		cmds = append(cmds, m.run(eff))
	}
	if next.Output.Kind == state.Rendered && (prev.Output != next.Output || prev.Zoom != next.Zoom) {
		cmds = append(cmds, m.writePreview(next))
	}
	m.refreshPreview()
	return m, tea.Batch(cmds...)
}

func (m model) run(eff state.Effect) tea.Cmd {
	switch e := eff.(type) {
	case state.ScheduleDebounce:
		return tea.Tick(e.After, func(time.Time) tea.Msg { return eventMsg{state.DebounceElapsed{Seq: e.Seq}} })
	case state.ScheduleStatusExpiry:
		return tea.Tick(e.After, func(time.Time) tea.Msg { return eventMsg{state.StatusExpired{Seq: e.Seq}} })
	}
	if m.perf == nil {
		return nil
	}
	ctx, perf := m.ctx, m.perf
	return func() tea.Msg {
		if ev := perf.Perform(ctx, eff); ev != nil {
			return eventMsg{ev}
		}
		return nil
	}
}

// writePreview writes the rendered SVG, sized for the current zoom, to the
// preview file.
func (m model) writePreview(s state.EditorState) tea.Cmd {
	if m.previewFile == "" {
		return nil
	}
	path, lg := m.previewFile, m.log
	svg, pct := s.Output.SVG, state.ZoomPercent(s)
	return func() tea.Msg {
		if err := preview.WriteFile(path, svg, pct); err != nil {
			lg.WithError(err).WithField("path", path).Warn("preview write failed")
		}
		return nil
	}
}

func (m model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showLogs && m.logs.update(msg) {
		return m, nil
	}
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		if state.Dirty(m.state) {
			m.mode, m.confirm = modeConfirm, confirmQuit
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, k.Back):
		switch {
		case m.showHelp:
			m.showHelp = false
		case m.showDiff:
			m.showDiff = false
		case m.showLogs:
			m.showLogs = false
		case m.state.Fullscreen:
			return m.relayout(state.FullscreenToggled{})
		}
		return m, nil
	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, k.Diff):
		m.showDiff = !m.showDiff
		return m, nil
	case key.Matches(msg, k.Logs):
		m.showLogs = !m.showLogs
		return m, nil
	case key.Matches(msg, k.Save):
		return m.apply(state.SaveRequested{})
	case key.Matches(msg, k.Open):
		m.mode, m.prompt = modePrompt, newPathPrompt(promptOpenFile)
		return m, nil
	case key.Matches(msg, k.Image):
		m.mode, m.prompt = modePrompt, newPathPrompt(promptOpenImage)
		return m, nil
	case key.Matches(msg, k.Export):
		return m.apply(state.ExportRequested{})
	case key.Matches(msg, k.Copy):
		return m.apply(state.CopyRequested{})
	case key.Matches(msg, k.Render):
		return m.apply(state.RenderRequested{})
	case key.Matches(msg, k.Templates):
		m.mode, m.picker = modeTemplates, tplview.NewPicker()
		return m, nil
	case key.Matches(msg, k.Clear):
		m.mode, m.confirm = modeConfirm, confirmClear
		return m, nil
	case key.Matches(msg, k.View):
		return m.relayout(state.ViewToggled{})
	case key.Matches(msg, k.Fullscreen):
		return m.relayout(state.FullscreenToggled{})
	case key.Matches(msg, k.ZoomIn):
		return m.apply(state.ZoomInPressed{})
	case key.Matches(msg, k.ZoomOut):
		return m.apply(state.ZoomOutPressed{})
	case key.Matches(msg, k.ZoomReset):
		return m.apply(state.ZoomResetPressed{})
	case key.Matches(msg, k.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case key.Matches(msg, k.Indent):
		m.editor.InsertString("  ")
		return m.syncText(nil)
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m.syncText(cmd)
}

// syncText posts an edit when the textarea content moved away from the
// editor state.
func (m model) syncText(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if v := m.editor.Value(); v != m.state.Source {
		next, ec := m.apply(state.TextChanged{Text: v})
		return next, tea.Batch(cmd, ec)
	}
	return m, cmd
}

// relayout applies a layout event and resizes the panes to match.
func (m model) relayout(ev state.Event) (tea.Model, tea.Cmd) {
	next, cmd := m.apply(ev)
	next.layout()
	return next, cmd
}

func (m model) updateTemplates(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.picker = m.picker.Up()
	case "down", "j":
		m.picker = m.picker.Down()
	case "esc", "q":
		m.mode = modeEdit
	case "enter":
		m.mode = modeEdit
		if k, ok := m.picker.Selected(); ok {
			return m.apply(state.TemplateSelected{Key: k})
		}
	}
	return m, nil
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next, path, cancelled := m.prompt.update(msg)
	m.prompt = next
	switch {
	case cancelled:
		m.mode = modeEdit
	case path != "":
		m.mode = modeEdit
		if next.purpose == promptOpenImage {
			return m.apply(state.OpenImageRequested{Path: path})
		}
		return m.apply(state.OpenFileRequested{Path: path})
	}
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeEdit
	if strings.ToLower(msg.String()) != "y" {
		return m, nil
	}
	if m.confirm == confirmQuit {
		return m, tea.Quit
	}
	return m.apply(state.Cleared{})
}

// layout sizes the panes for the current terminal and view mode.
func (m *model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	bodyH := m.height - 4
	if m.state.Fullscreen {
		bodyH = m.height - 1
	}
	if bodyH < 3 {
		bodyH = 3
	}
	ew, pw := m.paneWidths()
	m.editor.SetWidth(ew)
	m.editor.SetHeight(bodyH - 1)
	m.viewport.Width = pw
	m.viewport.Height = bodyH
	m.help.Width = m.width
	m.refreshPreview()
}

func (m model) paneWidths() (editorW, previewW int) {
	switch {
	case m.state.Fullscreen || m.state.View == state.ViewPreview:
		return 0, m.width
	case m.state.View == state.ViewEditor:
		return m.width, 0
	}
	editorW = m.width / 2
	return editorW, m.width - editorW - 3
}

func (m *model) refreshPreview() {
	m.viewport.SetContent(preview.NewPreview(m.noColor).View(m.state, m.previewFile, m.viewport.Width))
}

func (m model) View() string {
	switch m.mode {
	case modeTemplates:
		return m.picker.View(m.noColor)
	case modePrompt:
		return m.prompt.view()
	case modeConfirm:
		q := "Clear the editor? (y/n)"
		if m.confirm == confirmQuit {
			q = "Quit with changes that have not rendered? (y/n)"
		}
		return titleStyle.Render(q)
	}

	if m.state.Fullscreen {
		return m.viewport.View() + "\n" + faintStyle.Render("esc: leave fullscreen")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Mermaid Live") + "  " + tagchips.View(state.Tags(m.state), m.noColor) + "\n")
	b.WriteString(m.body() + "\n")
	b.WriteString(statusbar.NewStatusBar(m.noColor).View(m.state) + "\n")
	b.WriteString(m.help.ShortHelpView(m.keys.short()))
	return b.String()
}

func (m model) body() string {
	switch {
	case m.showHelp:
		return helpoverlay.NewHelpOverlay().View(m.state)
	case m.showDiff:
		before := m.state.LastValid
		after := strings.TrimSpace(m.state.Source)
		return diff.NewDiffView(m.noColor).View(before, after, m.width >= 100, m.width)
	case m.showLogs:
		return m.logs.view(m.width)
	}
	ed := editor.NewEditor().View(m.state, m.editor.View())
	switch m.state.View {
	case state.ViewEditor:
		return ed
	case state.ViewPreview:
		return m.viewport.View()
	}
	ew, pw := m.paneWidths()
	left := lipgloss.NewStyle().Width(ew).Render(ed)
	right := util.Box(m.viewport.View(), pw, m.viewport.Height)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " │ ", right)
}
