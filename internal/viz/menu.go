package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbitsim/internal/scene"
)

// Loader builds the scene for a named scenario.
type Loader func(name string) (*scene.Scene, error)

const (
	stateMenu = iota
	stateSim
)

// Menu lists scenarios and opens the chosen one in a live view.
type Menu struct {
	state    int
	cursor   int
	names    []string
	describe func(string) string
	load     Loader
	opts     Options
	err      error
	live     Model
	size     *tea.WindowSizeMsg
}

func NewMenu(names []string, describe func(string) string, load Loader, opts Options) Menu {
	if describe == nil {
		describe = func(string) string { return "" }
	}
	return Menu{names: names, describe: describe, load: load, opts: opts}
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.size = &ws
	}
	if m.state == stateSim {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			m.state = stateMenu
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.names) == 0 {
			return m, nil
		}
		return m.start()
	}
	return m, nil
}

func (m Menu) start() (tea.Model, tea.Cmd) {
	name := m.names[m.cursor]
	sc, err := m.load(name)
	if err != nil {
		m.err = fmt.Errorf("%s: %w", name, err)
		return m, nil
	}
	m.err = nil
	opts := m.opts
	opts.Title = name
	m.live = NewModel(sc, opts)
	if m.size != nil {
		m.live.resize(m.size.Width, m.size.Height)
	}
	m.state = stateSim
	return m, m.live.Init()
}

func (m Menu) View() string {
	if m.state == stateSim {
		return m.live.View()
	}

	th := GetTheme(m.opts.Theme)
	h := lipgloss.NewStyle().Foreground(th.Primary).Bold(true)
	sub := lipgloss.NewStyle().Foreground(th.Muted)
	sel := lipgloss.NewStyle().Foreground(th.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(th.Accent)
	key := lipgloss.NewStyle().Foreground(th.Secondary).Bold(true)

	var b strings.Builder
	b.WriteString("\n\n    " + h.Render("ORBITSIM") + "\n    " + sub.Render("celestial mechanics sandbox") + "\n    " + sub.Render(Separator(27)) + "\n\n")
	for i, name := range m.names {
		d := m.describe(name)
		if len(d) > 32 {
			d = d[:29] + "..."
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", h.Render("▸"), sel.Render(fmt.Sprintf("%-16s", name)), desc.Render(d)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", sub.Render(fmt.Sprintf("  %-16s", name)), sub.Render(d)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(th.Error).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + key.Render("j/k") + sub.Render(" navigate  ") + key.Render("enter") + sub.Render(" open  ") + key.Render("esc") + sub.Render(" back  ") + key.Render("q") + sub.Render(" quit") + "\n")
	return b.String()
}

// RunMenu shows the scenario picker until the user quits.
func RunMenu(names []string, describe func(string) string, load Loader, opts Options) error {
	_, err := tea.NewProgram(NewMenu(names, describe, load, opts), tea.WithAltScreen()).Run()
	return err
}
