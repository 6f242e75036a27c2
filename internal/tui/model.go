package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"vidtools/internal/ops"
	"vidtools/internal/presets"
	"vidtools/internal/runner"
)

// RunFunc plans and runs op, reporting progress to reporter, and returns a
// one-line summary of what was written.
type RunFunc func(ctx context.Context, op ops.Operation, preset string, reporter runner.Reporter) (string, error)

// InfoFunc inspects input and returns a rendered description.
type InfoFunc func(ctx context.Context, input string) (string, error)

// PresetSource resolves preset names.
type PresetSource interface {
	Get(name string) (presets.Preset, error)
	List() ([]presets.Entry, error)
}

// Options wires the model to the rest of vt.
type Options struct {
	Run     RunFunc
	Info    InfoFunc
	Presets PresetSource
}

// State is the screen the model is showing.
type State int

const (
	StateMenu State = iota
	StateForm
	StateRunning
	StateResult
)

type progressMsg runner.Progress

type doneMsg struct {
	summary string
	err     error
}

type menuItem struct {
	action string
	desc   string
}

func (i menuItem) Title() string       { return ops.Title(i.action) }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.action }

// Model is the Bubble Tea model behind `vt tui`.
type Model struct {
	opts  Options
	ctx   context.Context
	state State

	menu     list.Model
	form     form
	inputs   []textinput.Model
	focus    int
	formErr  string
	progress progress.Model

	operation string
	current   runner.Progress
	updates   chan runner.Progress
	cancel    context.CancelFunc
	started   time.Time

	summary string
	err     error
}

// New builds the model. ctx bounds every job the user starts.
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	all := forms()
	items := make([]list.Item, 0, len(all))
	for _, f := range all {
		items = append(items, menuItem{action: f.action, desc: f.desc})
	}
	menu := list.New(items, list.NewDefaultDelegate(), 60, 24)
	menu.Title = "vt: choose an operation"
	menu.Styles.Title = titleStyle

	return Model{
		opts:  opts,
		ctx:   ctx,
		state: StateMenu,
		menu:  menu,
		progress: progress.New(
			progress.WithGradient(string(colorPrimary), string(colorSuccess)),
			progress.WithWidth(50),
		),
	}
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	_, err := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// State reports the current screen.
func (m Model) State() State { return m.state }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.menu.SetSize(msg.Width, msg.Height-2)
		m.progress.Width = min(max(msg.Width-20, 10), 80)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case progressMsg:
		m.current = runner.Progress(msg)
		return m, waitForProgress(m.updates)

	case doneMsg:
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.state = StateResult
		m.summary, m.err = msg.summary, msg.err
		return m, nil
	}

	switch m.state {
	case StateMenu:
		return m.updateMenu(msg)
	case StateForm:
		return m.updateForm(msg)
	case StateRunning:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" && m.cancel != nil {
			m.cancel()
		}
		return m, nil
	case StateResult:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "q":
				return m, tea.Quit
			case "esc", "enter":
				m.state = StateMenu
				m.summary, m.err = "", nil
			}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && m.menu.FilterState() != list.Filtering {
		switch key.String() {
		case "q":
			return m, tea.Quit
		case "enter":
			item, ok := m.menu.SelectedItem().(menuItem)
			if !ok {
				return m, nil
			}
			return m.openForm(item.action)
		}
	}
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m Model) openForm(action string) (tea.Model, tea.Cmd) {
	f, ok := lookupForm(action)
	if !ok {
		return m, nil
	}
	m.form = f
	m.formErr = ""
	m.focus = 0
	m.inputs = make([]textinput.Model, len(f.fields))
	for i, fl := range f.fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fl.placeholder
		if fl.key == "preset" {
			ti.Placeholder = m.presetHint()
		}
		ti.CharLimit = 4096
		ti.Width = 50
		m.inputs[i] = ti
	}
	m.state = StateForm
	cmd := m.inputs[0].Focus()
	return m, cmd
}

func (m Model) presetHint() string {
	if m.opts.Presets == nil {
		return "preset name"
	}
	entries, err := m.opts.Presets.List()
	if err != nil || len(entries) == 0 {
		return "preset name"
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return strings.Join(names, ", ")
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.state = StateMenu
			return m, nil
		case "tab", "down":
			cmd := m.moveFocus(1)
			return m, cmd
		case "shift+tab", "up":
			cmd := m.moveFocus(-1)
			return m, cmd
		case "enter":
			if m.focus < len(m.inputs)-1 {
				cmd := m.moveFocus(1)
				return m, cmd
			}
			return m.submit()
		case "ctrl+s":
			return m.submit()
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func (m Model) formValues() values {
	v := make(values, len(m.inputs))
	for i, fl := range m.form.fields {
		v[fl.key] = m.inputs[i].Value()
	}
	return v
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	v := m.formValues()
	if label := m.form.missing(v); label != "" {
		m.formErr = label + " is required"
		return m, nil
	}
	req, err := m.form.build(v)
	if err == nil && req.preset != "" {
		req.op, err = m.resolvePreset(req)
	}
	if err != nil {
		m.formErr = err.Error()
		return m, nil
	}
	m.formErr = ""
	return m.start(req)
}

func (m Model) resolvePreset(req request) (ops.Operation, error) {
	if m.opts.Presets == nil {
		return nil, errors.New("presets are not available")
	}
	p, err := m.opts.Presets.Get(req.preset)
	if err != nil {
		return nil, err
	}
	return p.Build(req.input, req.output)
}

// start switches to the run screen and launches the job.
func (m Model) start(req request) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.state = StateRunning
	m.started = time.Now()
	m.current = runner.Progress{Percent: -1}
	m.summary, m.err = "", nil

	if req.info != "" {
		m.operation = ops.OpInfo
		m.updates = nil
		return m, m.inspect(ctx, req.info)
	}
	m.operation = req.op.Name()
	m.updates = make(chan runner.Progress, 16)
	return m, tea.Batch(m.runJob(ctx, req.op, req.preset, m.updates), waitForProgress(m.updates))
}

func (m Model) runJob(ctx context.Context, op ops.Operation, preset string, updates chan runner.Progress) tea.Cmd {
	run := m.opts.Run
	return func() tea.Msg {
		defer close(updates)
		if run == nil {
			return doneMsg{err: errors.New("no runner configured")}
		}
		reporter := runner.ReporterFunc(func(p runner.Progress) {
			select {
			case updates <- p:
			default:
			}
		})
		summary, err := run(ctx, op, preset, reporter)
		return doneMsg{summary: summary, err: err}
	}
}

func (m Model) inspect(ctx context.Context, input string) tea.Cmd {
	info := m.opts.Info
	return func() tea.Msg {
		if info == nil {
			return doneMsg{err: errors.New("info is not available")}
		}
		summary, err := info(ctx, input)
		return doneMsg{summary: summary, err: err}
	}
}

func waitForProgress(updates <-chan runner.Progress) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-updates
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}

func (m Model) elapsed() string {
	if m.started.IsZero() {
		return ""
	}
	return fmt.Sprint(time.Since(m.started).Round(time.Second))
}
