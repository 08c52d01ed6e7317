package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/ticktock/pkg/engine"
	"tableflip.dev/ticktock/pkg/interval"
	"tableflip.dev/ticktock/pkg/store"
	"tableflip.dev/ticktock/pkg/task"
	"tableflip.dev/ticktock/pkg/timeutil"
)

type mode int

const (
	modeNormal mode = iota
	modeComment
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	clockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	stoppedStyle = lipgloss.NewStyle().Faint(true)
	commentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
	pomoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type model struct {
	ctx    context.Context
	engine *engine.Engine
	store  store.Store
	uid    string
	events <-chan store.Event

	snap      engine.Snapshot
	tasks     []*task.Task
	intervals []*interval.Interval
	cursor    int

	mode   mode
	input  textinput.Model
	status string

	width  int
	height int
}

func newModel(ctx context.Context, e *engine.Engine, st store.Store, uid string, events <-chan store.Event) model {
	ti := textinput.New()
	ti.Placeholder = "what are you working on?"
	ti.CharLimit = 256
	ti.Prompt = ""

	return model{
		ctx:    ctx,
		engine: e,
		store:  st,
		uid:    uid,
		events: events,
		snap:   e.Snapshot(),
		input:  ti,
		status: "j/k move, enter start, s stop, c comment, p pomodoro, q quit",
	}
}

type tickMsg time.Time
type storeMsg store.Event
type loadedMsg struct {
	tasks     []*task.Task
	intervals []*interval.Interval
}
type errMsg struct{ err error }

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return nil
		}
		return storeMsg(ev)
	}
}

func (m model) load() tea.Cmd {
	ctx, st, uid := m.ctx, m.store, m.uid
	return func() tea.Msg {
		tasks, err := task.List(ctx, st, uid)
		if err != nil {
			return errMsg{err}
		}
		today := timeutil.DayString(time.Now())
		docs, err := st.Query(ctx, fmt.Sprintf("users/%s/timeEntries", uid), store.Query{
			Filters: []store.Filter{{Field: "date", Op: "==", Value: today}},
			OrderBy: []store.Order{{Field: "startTime"}},
		})
		if err != nil {
			return errMsg{err}
		}
		ivs := make([]*interval.Interval, 0, len(docs))
		for _, d := range docs {
			iv, err := interval.FromFields(d.ID, d.Fields)
			if err != nil {
				return errMsg{err}
			}
			ivs = append(ivs, iv)
		}
		return loadedMsg{tasks: tasks, intervals: ivs}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.load(), tickCmd(), m.waitEvent())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.snap = m.engine.Snapshot()
		cmds = append(cmds, tickCmd())

	case storeMsg:
		// Another process touched the store; reload what we show.
		m.snap = m.engine.Snapshot()
		cmds = append(cmds, m.load(), m.waitEvent())

	case loadedMsg:
		m.tasks = msg.tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = len(m.tasks) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.intervals = msg.intervals

	case errMsg:
		m.status = "ERR: " + msg.err.Error()

	case tea.KeyMsg:
		switch m.mode {
		case modeComment:
			switch msg.String() {
			case "enter":
				text := strings.TrimSpace(m.input.Value())
				if err := m.engine.SaveComment(m.ctx, text); err != nil {
					cmds = append(cmds, func() tea.Msg { return errMsg{err} })
				} else {
					m.status = "comment saved"
				}
				m.mode = modeNormal
				m.input.Reset()
				m.input.Blur()
				m.snap = m.engine.Snapshot()
			case "esc":
				m.mode = modeNormal
				m.input.Reset()
				m.input.Blur()
				m.status = "comment cancelled"
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
			}

		case modeNormal:
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "j", "down":
				if m.cursor < len(m.tasks)-1 {
					m.cursor++
				}
			case "k", "up":
				if m.cursor > 0 {
					m.cursor--
				}
			case "enter":
				if t := m.selectedTask(); t != nil {
					if err := m.engine.StartTask(m.ctx, t.ID, t); err != nil {
						cmds = append(cmds, func() tea.Msg { return errMsg{err} })
					} else {
						m.status = "started " + t.Name
					}
					m.snap = m.engine.Snapshot()
					cmds = append(cmds, m.load())
				}
			case "s":
				if m.snap.Running {
					if err := m.engine.StopTimer(m.ctx); err != nil {
						cmds = append(cmds, func() tea.Msg { return errMsg{err} })
					} else {
						m.status = "stopped"
					}
				} else if err := m.engine.ResumeTask(m.ctx); err != nil {
					cmds = append(cmds, func() tea.Msg { return errMsg{err} })
				} else {
					m.status = "resumed"
				}
				m.snap = m.engine.Snapshot()
				cmds = append(cmds, m.load())
			case "c":
				if m.snap.Running {
					m.mode = modeComment
					m.input.SetValue(m.snap.Comment)
					m.input.CursorEnd()
					if cmd := m.input.Focus(); cmd != nil {
						cmds = append(cmds, cmd)
					}
					cmds = append(cmds, textinput.Blink)
				} else {
					m.status = "no timer running, nothing to comment on"
				}
			case "p":
				m.engine.TogglePomodoro(0)
				m.snap = m.engine.Snapshot()
			case "r":
				cmds = append(cmds, m.load())
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *model) selectedTask() *task.Task {
	active := make([]*task.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if t.Status == task.StatusActive {
			active = append(active, t)
		}
	}
	if m.cursor < 0 || m.cursor >= len(active) {
		return nil
	}
	return active[m.cursor]
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ticktock"))
	b.WriteString("\n\n")

	if m.snap.ActiveTaskID == "" {
		b.WriteString(stoppedStyle.Render("no task started yet"))
		b.WriteString("\n")
	} else {
		name := m.snap.ActiveTaskName
		if name == "" {
			name = m.snap.ActiveTaskID
		}
		if m.snap.Running {
			b.WriteString(fmt.Sprintf("%s  %s\n", name, clockStyle.Render(timeutil.FormatClock(m.snap.Elapsed))))
		} else {
			b.WriteString(fmt.Sprintf("%s  %s\n", name, stoppedStyle.Render("stopped")))
		}
		if m.snap.Comment != "" {
			b.WriteString(commentStyle.Render("  "+m.snap.Comment) + "\n")
		}
		if m.snap.PomodoroActive {
			b.WriteString(pomoStyle.Render(fmt.Sprintf("  pomodoro %s remaining", timeutil.FormatClock(m.snap.PomodoroRemaining))) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("tasks"))
	b.WriteString("\n")
	shown := 0
	for _, t := range m.tasks {
		if t.Status != task.StatusActive {
			continue
		}
		line := "  " + t.Name
		if shown == m.cursor {
			line = cursorStyle.Render("> " + t.Name)
		}
		if t.ID == m.snap.RunningTaskID {
			line += clockStyle.Render(" ●")
		}
		b.WriteString(line + "\n")
		shown++
	}
	if shown == 0 {
		b.WriteString(stoppedStyle.Render("  no tasks yet, add one with `ticktock add`") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("today"))
	b.WriteString("\n")
	total := 0
	for _, iv := range m.intervals {
		if iv.Open() {
			b.WriteString(fmt.Sprintf("  %s  running\n", iv.Start.Local().Format("15:04")))
			total += m.snap.Elapsed
			continue
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n", iv.Start.Local().Format("15:04"), timeutil.FormatShort(iv.Duration)))
		total += iv.Duration
	}
	b.WriteString(fmt.Sprintf("  total %s\n", timeutil.FormatShort(total)))

	if m.mode == modeComment {
		b.WriteString("\ncomment: " + m.input.View() + "\n")
	}

	status := statusStyle.Render(m.status)
	if strings.HasPrefix(m.status, "ERR:") {
		status = errStyle.Render(m.status)
	}
	b.WriteString("\n" + status)
	return b.String()
}
