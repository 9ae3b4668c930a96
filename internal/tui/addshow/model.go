// Package addshow is the terminal front end for the add-show wizard.
package addshow

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Digital-Shane/show-onboard/internal/tui/components"
	"github.com/Digital-Shane/show-onboard/internal/tui/theme"
	"github.com/Digital-Shane/show-onboard/internal/wizard"
)

// pathDebounce delays preview recomputation while the full path is typed.
const pathDebounce = 150 * time.Millisecond

type pathChangedMsg struct{ seq int }

// Model drives a wizard.Controller from keyboard input.
type Model struct {
	ctl   *wizard.Controller
	theme theme.Theme
	keys  keyMap
	help  help.Model

	spinner   spinner.Model
	nameInput textinput.Model
	pathInput textinput.Model
	results   *viewport.Model

	width  int
	height int

	step          wizard.Step
	releaseCursor int
	pathSeq       int

	onSubmit func(wizard.SubmitResultMsg)
	result   *wizard.SubmitResultMsg
}

// Option configures a Model during construction.
type Option func(*Model)

// WithTheme overrides the default theme.
func WithTheme(th theme.Theme) Option {
	return func(m *Model) {
		m.theme = th
	}
}

// WithOnSubmit registers a callback for every submit or skip outcome.
func WithOnSubmit(fn func(wizard.SubmitResultMsg)) Option {
	return func(m *Model) {
		m.onSubmit = fn
	}
}

// New creates the wizard model around ctl.
func New(ctl *wizard.Controller, opts ...Option) *Model {
	m := &Model{
		ctl:    ctl,
		keys:   defaultKeyMap(),
		help:   help.New(),
		width:  80,
		height: 24,
		step:   -1,
	}

	initOpts := append([]Option{WithTheme(theme.Default())}, opts...)
	for _, opt := range initOpts {
		opt(m)
	}

	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))

	m.nameInput = textinput.New()
	m.nameInput.Placeholder = "Show name"
	m.nameInput.Prompt = "Find: "
	m.nameInput.SetValue(ctl.NameToSearch())

	m.pathInput = textinput.New()
	m.pathInput.Placeholder = "/full/path/to/show"
	m.pathInput.Prompt = "Full show path: "
	m.pathInput.SetValue(ctl.ExplicitPath())

	m.results = components.NewViewport(m.width-4, m.resultsHeight(), m.theme)
	m.resize()
	return m
}

// Result returns the successful submit or skip outcome, or nil when the
// wizard was abandoned.
func (m *Model) Result() *wizard.SubmitResultMsg {
	return m.result
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.ctl.Init(), m.syncFocus(), m.spinner.Tick, textinput.Blink)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case pathChangedMsg:
		if msg.seq == m.pathSeq {
			cmd = m.ctl.SetExplicitPath(m.pathInput.Value())
		}

	case wizard.SubmitResultMsg:
		m.ctl.Update(msg)
		if m.onSubmit != nil {
			m.onSubmit(msg)
		}
		if msg.Err == nil {
			m.result = &msg
			m.ctl.Close()
			return m, tea.Quit
		}

	default:
		cmd = m.ctl.Update(msg)
	}

	m.refreshResults()
	return m, tea.Batch(cmd, m.syncFocus())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctl.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.ctl.NextStep()
		return nil
	case key.Matches(msg, m.keys.Prev):
		m.ctl.PrevStep()
		return nil
	case key.Matches(msg, m.keys.Submit):
		return m.ctl.Submit()
	case key.Matches(msg, m.keys.Skip):
		return m.ctl.Skip()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return nil
	}

	switch m.ctl.Step() {
	case wizard.StepSearch:
		return m.handleSearchKey(msg)
	case wizard.StepConfirm:
		return m.handleConfirmKey(msg)
	case wizard.StepOptions:
		return m.handleOptionsKey(msg)
	default:
		if key.Matches(msg, m.keys.Search) {
			return m.ctl.Submit()
		}
		return nil
	}
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	results := m.ctl.Results()
	switch {
	case key.Matches(msg, m.keys.Search):
		m.ctl.SetNameToSearch(m.nameInput.Value())
		return m.ctl.SearchCurrent()
	case key.Matches(msg, m.keys.Up):
		return m.ctl.SelectCandidate(results.Selected - 1)
	case key.Matches(msg, m.keys.Down):
		return m.ctl.SelectCandidate(results.Selected + 1)
	case key.Matches(msg, m.keys.Language):
		options, selected := m.ctl.Languages()
		if len(options) == 0 {
			return m.ctl.EnsureLanguages()
		}
		return m.ctl.SelectLanguage(options[(indexOf(options, selected)+1)%len(options)])
	case key.Matches(msg, m.keys.Indexer):
		indexers := m.ctl.Indexers()
		if len(indexers) == 0 {
			return nil
		}
		current := 0
		for i, idx := range indexers {
			if idx.Key == m.ctl.Indexer() {
				current = i
			}
		}
		m.ctl.SetIndexer(indexers[(current+1)%len(indexers)].Key)
		return m.ctl.SearchCurrent()
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	m.ctl.SetNameToSearch(m.nameInput.Value())
	return cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.ctl.RootDir() > -1 {
			return m.ctl.SetRootDir(m.ctl.RootDir() - 1)
		}
		return nil
	case key.Matches(msg, m.keys.Down):
		return m.ctl.SetRootDir(m.ctl.RootDir() + 1)
	}

	before := m.pathInput.Value()
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	if m.pathInput.Value() == before {
		return cmd
	}
	m.pathSeq++
	return tea.Batch(cmd, components.DebounceMsg(pathDebounce, pathChangedMsg{seq: m.pathSeq}))
}

func (m *Model) handleOptionsKey(msg tea.KeyMsg) tea.Cmd {
	pools := m.ctl.Pools()
	switch {
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		presets := m.ctl.QualityPresets()
		if len(presets) == 0 {
			return nil
		}
		step := 1
		if key.Matches(msg, m.keys.Left) {
			step = len(presets) - 1
		}
		m.ctl.SetQualityPreset(presets[(indexOf(presets, m.ctl.QualityPreset())+step)%len(presets)])
	case key.Matches(msg, m.keys.Anime):
		m.releaseCursor = 0
		return m.ctl.SetAnime(!m.ctl.Anime())
	case key.Matches(msg, m.keys.Up):
		if m.releaseCursor > 0 {
			m.releaseCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.releaseCursor < len(pools.Unassigned)-1 {
			m.releaseCursor++
		}
	case key.Matches(msg, m.keys.Allow):
		m.ctl.Allow(m.releaseCursor)
	case key.Matches(msg, m.keys.Block):
		m.ctl.Block(m.releaseCursor)
	case key.Matches(msg, m.keys.Unallow):
		m.ctl.Unassign(wizard.PoolAllow, len(pools.Allow)-1)
	case key.Matches(msg, m.keys.Unblock):
		m.ctl.Unassign(wizard.PoolBlock, len(pools.Block)-1)
	}

	if n := len(m.ctl.Pools().Unassigned); m.releaseCursor >= n {
		m.releaseCursor = max(n-1, 0)
	}
	return nil
}

// syncFocus moves keyboard focus to the input owned by the active step.
func (m *Model) syncFocus() tea.Cmd {
	step := m.ctl.Step()
	if step == m.step {
		return nil
	}
	m.step = step

	var target components.Focusable
	switch step {
	case wizard.StepSearch:
		target = &m.nameInput
	case wizard.StepConfirm:
		target = &m.pathInput
	}
	return components.FocusOnly(target, &m.nameInput, &m.pathInput)
}

func (m *Model) resultsHeight() int {
	// header, steps, input, status, preview panel and help
	reserved := 14
	if m.help.ShowAll {
		reserved += 4
	}
	return max(m.height-reserved, 3)
}

func (m *Model) resize() {
	m.help.Width = max(m.width-m.theme.StatusBarStyle().GetHorizontalFrameSize(), 10)
	m.nameInput.Width = max(m.width-10, 10)
	m.pathInput.Width = max(m.width-20, 10)
	m.results.Width = max(m.width-4, 10)
	m.results.Height = m.resultsHeight()
	m.refreshResults()
}

func indexOf(values []string, want string) int {
	for i, v := range values {
		if v == want {
			return i
		}
	}
	return -1
}
