// Command dashtui is the interactive terminal presentation of the
// dashboard. It drives the repositories and the forecast source directly,
// single-process, and renders their state; all real logic stays in the
// core packages.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"dashboard/conditions"
	"dashboard/config"
	"dashboard/datasource"
	"dashboard/models"
	"dashboard/settings"
	"dashboard/store"
	"dashboard/todo"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// keyMap defines key bindings
type keyMap struct {
	Up             key.Binding
	Down           key.Binding
	Toggle         key.Binding
	Add            key.Binding
	Delete         key.Binding
	ClearCompleted key.Binding
	ClearAll       key.Binding
	Vibe           key.Binding
	Refresh        key.Binding
	Quit           key.Binding
	Back           key.Binding
	Enter          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add task"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		ClearCompleted: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear done"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear all"),
		),
		Vibe: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "next vibe"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh weather"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Vibe, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Add, k.Delete},
		{k.ClearCompleted, k.ClearAll, k.Vibe, k.Refresh, k.Quit},
	}
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#D864A9")).
			Padding(0, 1).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89B4FA")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			MarginRight(1)

	taskStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedTaskStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#EE6FF8")).
				PaddingLeft(0)

	doneTaskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1")).
			Strikethrough(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAB387"))

	faintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))
)

// weatherMsg carries the result of one forecast fetch.
type weatherMsg struct {
	periods []models.ForecastPeriod
	err     error
}

type model struct {
	todos    *todo.Repository
	prefs    *settings.Repository
	forecast datasource.ForecastSource
	nPeriods int

	tasks   []models.Task
	cursor  int
	adding  bool
	input   textinput.Model
	status  string
	periods []models.ForecastPeriod
	weather string // non-empty when the forecast is unavailable
	loading bool

	keys  keyMap
	help  help.Model
	width int
}

func newModel(todos *todo.Repository, prefs *settings.Repository, forecast datasource.ForecastSource, nPeriods int) model {
	ti := textinput.New()
	ti.Placeholder = "e.g., Finish CenterSquare memo"
	ti.CharLimit = 200
	ti.Width = 50

	return model{
		todos:    todos,
		prefs:    prefs,
		forecast: forecast,
		nPeriods: nPeriods,
		tasks:    todos.List(),
		input:    ti,
		keys:     defaultKeyMap(),
		help:     help.New(),
		loading:  true,
	}
}

// fetchWeather runs the two-step forecast fetch off the update loop and
// classifies each period on the way back.
func (m model) fetchWeather() tea.Cmd {
	src, n := m.forecast, m.nPeriods
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		periods, err := src.FetchPeriods(ctx, n)
		if err != nil {
			return weatherMsg{err: err}
		}
		for i := range periods {
			periods[i].Icon = string(conditions.Classify(periods[i].ShortForecast, periods[i].Temperature))
		}
		return weatherMsg{periods: periods}
	}
}

// Init implements tea.Model
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetchWeather())
}

// Update implements tea.Model
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case weatherMsg:
		m.loading = false
		if msg.err != nil {
			if datasource.Unavailable(msg.err) {
				m.weather = "Weather unavailable"
			} else {
				m.weather = msg.err.Error()
			}
			m.periods = nil
		} else {
			m.weather = ""
			m.periods = msg.periods
		}
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

// updateAdding handles the add-task input dialog.
func (m model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.adding = false
		m.input.SetValue("")
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		text := m.input.Value()
		m.adding = false
		m.input.SetValue("")
		m.input.Blur()
		if _, err := m.todos.Add(text); err != nil {
			m.status = err.Error()
		} else if strings.TrimSpace(text) == "" {
			m.status = "Nothing to add"
		}
		m.tasks = m.todos.List()
		m.cursor = clamp(m.cursor, len(m.tasks))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateList handles the normal list view.
func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Toggle):
		if len(m.tasks) > 0 {
			if err := m.todos.ToggleAt(m.cursor); err != nil {
				m.status = err.Error()
			}
			m.tasks = m.todos.List()
		}

	case key.Matches(msg, m.keys.Delete):
		if len(m.tasks) > 0 {
			if err := m.todos.RemoveAt(m.cursor); err != nil {
				m.status = err.Error()
			}
			m.tasks = m.todos.List()
			m.cursor = clamp(m.cursor, len(m.tasks))
		}

	case key.Matches(msg, m.keys.ClearCompleted):
		if err := m.todos.ClearCompleted(); err != nil {
			m.status = err.Error()
		}
		m.tasks = m.todos.List()
		m.cursor = clamp(m.cursor, len(m.tasks))

	case key.Matches(msg, m.keys.ClearAll):
		if err := m.todos.ClearAll(); err != nil {
			m.status = err.Error()
		}
		m.tasks = m.todos.List()
		m.cursor = 0

	case key.Matches(msg, m.keys.Vibe):
		if err := m.prefs.SetVibe(nextVibe(m.prefs.Vibe())); err != nil {
			m.status = err.Error()
		}

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.fetchWeather()
	}

	return m, nil
}

// nextVibe returns the vibe after current, wrapping around the enumeration.
func nextVibe(current string) string {
	for i, v := range settings.Vibes {
		if v == current {
			return settings.Vibes[(i+1)%len(settings.Vibes)]
		}
	}
	return settings.Vibes[0]
}

func clamp(cursor, length int) int {
	if cursor >= length {
		cursor = length - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

// View implements tea.Model
func (m model) View() string {
	var b strings.Builder

	now := time.Now()
	b.WriteString(titleStyle.Render("💗 Main Character Dashboard"))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(now.Format("Monday, January 2, 2006 • 3:04 PM")))
	b.WriteString("\n\n")

	b.WriteString(m.viewWeather())
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Today's Vibe"))
	b.WriteString(fmt.Sprintf("\n✨ %s\n\n", m.prefs.Vibe()))

	b.WriteString(sectionStyle.Render("To-Do List"))
	b.WriteString("\n")
	b.WriteString(m.viewTasks())

	if m.adding {
		b.WriteString("\nAdd a task: " + m.input.View() + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + warnStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m model) viewWeather() string {
	header := sectionStyle.Render("Weather") + "\n"
	if m.loading {
		return header + faintStyle.Render("Fetching forecast...") + "\n"
	}
	if m.weather != "" {
		return header + warnStyle.Render(m.weather) + "\n"
	}

	cards := make([]string, 0, len(m.periods))
	for _, p := range m.periods {
		temp := ""
		if p.Temperature != nil {
			temp = fmt.Sprintf("%d°%s", *p.Temperature, p.TemperatureUnit)
		}
		lines := []string{
			fmt.Sprintf("%s %s", p.Icon, p.Name),
			temp,
			p.ShortForecast,
			"Wind " + p.WindSpeed,
		}
		cards = append(cards, cardStyle.Render(strings.Join(lines, "\n")))
	}
	return header + lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n"
}

func (m model) viewTasks() string {
	if len(m.tasks) == 0 {
		return faintStyle.Render("No tasks yet. Add one and be iconic.") + "\n"
	}

	var b strings.Builder
	for i, t := range m.tasks {
		check := "⬜"
		text := t.Text
		if t.Done {
			check = "✅"
			text = doneTaskStyle.Render(text)
		}
		line := fmt.Sprintf("%s %s", check, text)
		if i == m.cursor {
			b.WriteString(selectedTaskStyle.Render("> " + line))
		} else {
			b.WriteString(taskStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func main() {
	configFile := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	fileStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		fmt.Printf("Failed to open data directory: %v\n", err)
		os.Exit(1)
	}

	todos := todo.NewRepository(fileStore)
	prefs := settings.NewRepository(fileStore)
	source := datasource.NewNWSProvider(cfg.Latitude, cfg.Longitude, cfg.Contact)

	p := tea.NewProgram(newModel(todos, prefs, source, cfg.Periods), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}
