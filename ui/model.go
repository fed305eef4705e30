package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/drake/galley/event"
	"github.com/drake/galley/render"
	"github.com/drake/galley/session"
	"github.com/drake/galley/ui/style"
	"github.com/drake/galley/ui/util"
)

// pane identifies which pane receives keys.
type pane int

const (
	paneOutput pane = iota
	paneInput
)

// outputMode is what the output pane currently shows.
type outputMode int

const (
	modeEmpty outputMode = iota
	modeText
	modeMarkup
	modeHighlighted
	modeFileInfo
)

// chrome is the number of lines taken by titles and the status bar.
const chrome = 3

// Model is the Bubble Tea model. Everything the user does leaves through
// outbound as an event for the session loop.
type Model struct {
	outbound chan<- event.Event
	styles   style.Styles
	keys     keyMap

	input  textarea.Model
	output viewport.Model
	prompt textinput.Model
	spin   spinner.Model
	help   help.Model

	width, height int
	ready         bool
	focus         pane

	mode     outputMode
	fileInfo *render.FileInfo
	language string
	stats    string

	inputBinary bool
	inputSize   int
	editable    bool
	loading     bool
	aff         session.Affordances

	notice    string
	noticeSeq int

	prompting bool
	promptID  string
	promptFor string
}

// NewModel creates the model. User actions are sent on outbound.
func NewModel(outbound chan<- event.Event, styles style.Styles) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste or type input…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	ti := textinput.New()
	ti.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	m := Model{
		outbound: outbound,
		styles:   styles,
		keys:     defaultKeyMap(),
		input:    ta,
		output:   viewport.New(0, 0),
		prompt:   ti,
		spin:     sp,
		help:     help.New(),
		editable: true,
	}
	m.applyAffordances()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case showTextMsg:
		m.showOutput(modeText, string(msg))
	case showMarkupMsg:
		m.showOutput(modeMarkup, m.styles.Markup.Render(string(msg)))
	case showHighlightedMsg:
		m.language = msg.Language
		m.showOutput(modeHighlighted, msg.Text)
	case fileInfoMsg:
		info := render.FileInfo(msg)
		m.fileInfo = &info
		m.showOutput(modeFileInfo, m.renderFileInfo(info))
	case closeFileInfoMsg:
		if m.mode == modeFileInfo {
			m.showOutput(modeEmpty, "")
		}
		m.fileInfo = nil
		m.applyAffordances()
	case statsMsg:
		m.stats = string(msg)

	case loadingMsg:
		m.loading = bool(msg)
		if m.loading {
			return m, m.spin.Tick
		}
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case editableMsg:
		m.editable = bool(msg)
		if !m.editable {
			m.input.Blur()
		} else if m.focus == paneInput {
			cmd := m.input.Focus()
			return m, cmd
		}

	case clearStatusMsg:
		m.notice = ""
	case noticeMsg:
		m.noticeSeq++
		m.notice = msg.Text
		seq := m.noticeSeq
		return m, tea.Tick(msg.Duration, func(time.Time) tea.Msg {
			return noticeExpiredMsg{Seq: seq}
		})
	case noticeExpiredMsg:
		if msg.Seq == m.noticeSeq {
			m.notice = ""
		}

	case inputMsg:
		m.inputBinary = msg.Binary
		m.inputSize = len(msg.Text)
		if !msg.Binary && msg.Text != m.input.Value() {
			m.input.SetValue(msg.Text)
		}
		if msg.Binary {
			m.input.SetValue("")
		}

	case affordancesMsg:
		m.aff = session.Affordances(msg)
		m.applyAffordances()

	case promptMsg:
		m.prompting = true
		m.promptID = msg.ID
		m.promptFor = msg.Label
		m.prompt.SetValue(msg.Initial)
		m.prompt.CursorEnd()
		cmd := m.prompt.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.send(event.Event{Type: event.UserAction, Action: event.ActionQuit})
		return m, tea.Quit
	}
	if m.prompting {
		return m.handlePromptKey(msg)
	}
	if key.Matches(msg, m.keys.Focus) {
		cmd := m.toggleFocus()
		return m, cmd
	}
	if m.focus == paneInput {
		return m.handleInputKey(msg)
	}
	return m.handleOutputKey(msg)
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.answerPrompt(true)
		return m, nil
	case tea.KeyEsc:
		m.answerPrompt(false)
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) answerPrompt(ok bool) {
	m.send(event.Event{
		Type:     event.PromptReply,
		PromptID: m.promptID,
		Payload:  m.prompt.Value(),
		OK:       ok,
	})
	m.prompting = false
	m.promptID = ""
	m.prompt.Blur()
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.editable || m.inputBinary {
		return m, nil
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.inputSize = len(after)
		m.send(event.Event{Type: event.InputChanged, Payload: after})
	}
	return m, cmd
}

func (m Model) handleOutputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	actions := []struct {
		binding key.Binding
		action  event.Action
	}{
		{m.keys.Copy, event.ActionCopy},
		{m.keys.Save, event.ActionDownload},
		{m.keys.Switch, event.ActionSwitch},
		{m.keys.Undo, event.ActionUndo},
		{m.keys.Slice, event.ActionSlice},
		{m.keys.Close, event.ActionClose},
		{m.keys.Highlight, event.ActionHighlight},
		{m.keys.Rebake, event.ActionRebake},
		{m.keys.Erase, event.ActionClear},
	}
	for _, a := range actions {
		if key.Matches(msg, a.binding) {
			m.send(event.Event{Type: event.UserAction, Action: a.action})
			return m, nil
		}
	}
	if key.Matches(msg, m.keys.Quit) {
		m.send(event.Event{Type: event.UserAction, Action: event.ActionQuit})
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.output, cmd = m.output.Update(msg)
	return m, cmd
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == paneInput {
		m.focus = paneOutput
		m.input.Blur()
		return nil
	}
	m.focus = paneInput
	if m.editable && !m.inputBinary {
		return m.input.Focus()
	}
	return nil
}

func (m *Model) send(ev event.Event) {
	if m.outbound != nil {
		m.outbound <- ev
	}
}

func (m *Model) showOutput(mode outputMode, content string) {
	m.mode = mode
	if mode != modeHighlighted {
		m.language = ""
	}
	m.output.SetContent(content)
	m.output.GotoTop()
	m.applyAffordances()
}

func (m *Model) applyAffordances() {
	m.keys.Switch.SetEnabled(m.aff.CanSwitch)
	m.keys.Undo.SetEnabled(m.aff.CanUndo)
	m.keys.Slice.SetEnabled(m.aff.CanSlice)
	m.keys.Close.SetEnabled(m.fileInfo != nil || m.aff.CanSlice)
	m.keys.Highlight.SetEnabled(m.mode == modeText || m.mode == modeHighlighted)
}

func (m *Model) layout() {
	inputH := max(3, (m.height-chrome)/3)
	outputH := max(1, m.height-chrome-inputH)

	m.input.SetWidth(m.width)
	m.input.SetHeight(inputH)
	m.output.Width = m.width
	m.output.Height = outputH
	m.prompt.Width = max(10, m.width/2)
	m.help.Width = m.width
}

func (m Model) renderFileInfo(info render.FileInfo) string {
	body := fmt.Sprintf("Binary result\n%s (%s bytes)", info.HumanSize, humanize.Comma(int64(info.Size)))
	return m.styles.FileInfo.Render(body)
}

func (m Model) View() string {
	if !m.ready {
		return "Starting…"
	}
	var b strings.Builder

	b.WriteString(m.title("Input", m.inputLabel(), m.focus == paneInput))
	b.WriteString("\n")
	if m.inputBinary {
		b.WriteString(m.binaryInputView())
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")

	b.WriteString(m.title("Output", m.statsLine(), m.focus == paneOutput))
	b.WriteString("\n")
	b.WriteString(m.styles.Output.Render(m.output.View()))
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	return m.styles.App.Render(b.String())
}

func (m Model) title(name, right string, focused bool) string {
	s := m.styles.PaneTitle
	if focused {
		s = m.styles.PaneTitleFocused
	}
	left := s.Render(" " + name + " ")
	return util.JoinEnds(left, m.styles.Stats.Render(right), m.width)
}

func (m Model) inputLabel() string {
	if m.inputBinary {
		return "binary"
	}
	return humanize.Bytes(uint64(m.inputSize))
}

func (m Model) binaryInputView() string {
	line := m.styles.Muted.Render(fmt.Sprintf("Binary input, %s. Press e to erase.", humanize.Bytes(uint64(m.inputSize))))
	lines := make([]string, m.input.Height())
	lines[0] = util.Truncate(line, m.width)
	return strings.Join(lines, "\n")
}

// statsLine folds the stats block onto one line.
func (m Model) statsLine() string {
	if m.stats == "" {
		return ""
	}
	parts := strings.Split(m.stats, "\n")
	for i, p := range parts {
		parts[i] = strings.Join(strings.Fields(p), " ")
	}
	line := strings.Join(parts, " · ")
	if m.language != "" {
		line = m.language + " · " + line
	}
	return line
}

func (m Model) statusLine() string {
	var left string
	switch {
	case m.prompting:
		left = m.styles.PromptLabel.Render(m.promptFor+": ") + m.prompt.View()
	case m.notice != "":
		left = m.styles.Notice.Render(m.notice)
	case m.loading:
		left = m.spin.View() + " baking…"
	default:
		left = m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return m.styles.StatusBar.Render(util.Truncate(left, m.width))
}
