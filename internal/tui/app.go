// Package tui provides the interactive Bubble Tea editor for goalfund plans.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/goalfund/internal/cli"
	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/projection"
	"github.com/theirongolddev/goalfund/internal/tui/components"
	"github.com/theirongolddev/goalfund/internal/tui/theme"
)

const (
	tabGoals = iota
	tabSources
	tabOutputs
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 180
	minContentHeight = 5
)

// Options configure a new App.
type Options struct {
	PlanPath  string
	Defaults  model.Defaults
	Formatter cli.Formatter
	// Save persists the plan; nil disables saving.
	Save func(model.Plan) error
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	plan model.Plan
	proj model.Projection
	opts Options

	dirty     bool
	status    string
	statusErr bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	goals      goalsState
	sources    sourcesState
	showDetail bool

	// Whole-goal editor (huh form)
	form     *huh.Form
	formVals *goalFormValues
}

// NewApp creates a new TUI app model editing plan.
func NewApp(plan model.Plan, opts Options) App {
	a := App{opts: opts}
	if a.opts.Formatter.Currency == "" {
		a.opts.Formatter = cli.DefaultFormatter()
	}
	a.setPlan(plan)
	a.dirty = false
	return a
}

// Plan returns the plan as currently edited.
func (a App) Plan() model.Plan {
	return a.plan.Clone()
}

// Dirty reports whether there are unsaved edits.
func (a App) Dirty() bool {
	return a.dirty
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.EnableMouseCellMotion
}

// setPlan installs a new plan and recomputes every output.
func (a *App) setPlan(p model.Plan) {
	a.plan = p
	a.proj = projection.Project(p)
	a.dirty = true
	a.clampCursors()
}

// apply installs the result of a schema operation, or reports its error
// and leaves the plan untouched.
func (a *App) apply(p model.Plan, err error, okMsg string) {
	if err != nil {
		a.setStatus(err.Error(), true)
		return
	}
	a.setPlan(p)
	a.setStatus(okMsg, false)
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
}

func (a *App) save() {
	if a.opts.Save == nil {
		a.setStatus("no plan file to save to", true)
		return
	}
	if err := a.opts.Save(a.plan); err != nil {
		a.setStatus("save failed: "+err.Error(), true)
		return
	}
	a.dirty = false
	if a.opts.PlanPath != "" {
		a.setStatus("saved to "+a.opts.PlanPath, false)
	} else {
		a.setStatus("saved", false)
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.form != nil || a.editing() {
			return a, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if tab := components.TabAtX(msg.X, a.activeTab); tab >= 0 {
				a.activeTab = tab
			}
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		// Global: quit
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// The goal form intercepts all keys
		if a.form != nil {
			return a.updateGoalForm(msg)
		}

		// Inline editors intercept all keys
		if a.goals.editing {
			return a.updateGoalCellInput(msg)
		}
		if a.sources.renaming {
			return a.updateSourceRename(msg)
		}

		// Help toggle
		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}

		// Dismiss help
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "s":
			a.save()
			return a, nil
		case "a":
			return a.addGoal()
		case "A":
			return a.addSource()
		case "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		case "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		}
		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
				return a, nil
			}
		}

		switch a.activeTab {
		case tabGoals:
			return a.updateGoalsKeys(key)
		case tabSources:
			return a.updateSourcesKeys(key)
		case tabOutputs:
			return a.updateOutputsKeys(key)
		}
		return a, nil
	}

	if a.form != nil {
		return a.updateGoalForm(msg)
	}
	if a.goals.editing {
		var cmd tea.Cmd
		a.goals.input, cmd = a.goals.input.Update(msg)
		return a, cmd
	}
	if a.sources.renaming {
		var cmd tea.Cmd
		a.sources.input, cmd = a.sources.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) editing() bool {
	return a.goals.editing || a.sources.renaming
}

func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabGoals:
		a.goals.row += delta
	case tabSources:
		a.sources.cursor += delta
	case tabOutputs:
		return
	}
	a.clampCursors()
}

func (a *App) clampCursors() {
	a.goals.row = clamp(a.goals.row, 0, len(a.plan.Goals)-1)
	a.goals.col = clamp(a.goals.col, 0, goalColumnCount(a.plan)-1)
	a.sources.cursor = clamp(a.sources.cursor, 0, len(a.plan.Sources)-1)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func newCellInput(value string) textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 30
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return ti
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.form != nil {
		return a.form.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  goalfund needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"1 2 3", "Jump to tab"},
			{"tab", "Next tab"},
			{"j k ↑ ↓", "Move between rows"},
			{"h l ← →", "Move between columns"},
		}},
		{"Editing", []struct{ key, desc string }{
			{"enter", "Edit cell / rename source"},
			{"[ ]", "Cycle rate or months"},
			{"e", "Edit whole goal"},
			{"a", "Add goal"},
			{"D", "Delete goal or source"},
			{"A", "Add source"},
			{"esc", "Cancel edit"},
		}},
		{"Outputs", []struct{ key, desc string }{
			{"d", "Toggle detailed outputs"},
		}},
		{"File", []struct{ key, desc string }{
			{"s", "Save plan"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar
	header := components.RenderTabBar(a.activeTab, w)

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, a.status, a.statusErr, a.dirty)

	// 3. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabGoals:
		content = a.renderGoalsTab(cw)
	case tabSources:
		content = a.renderSourcesTab(cw)
	case tabOutputs:
		content = a.renderOutputsTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
