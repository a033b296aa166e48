package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"growthcoach/internal/engine"
	"growthcoach/internal/storage"
	"growthcoach/internal/ui"
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	profile  *storage.Profile
	overview *engine.DayOverview

	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	profile  *storage.Profile
	overview *engine.DayOverview
	err      error
}

type loggedMsg struct {
	habitKey string
	res      *engine.LogResult
	err      error
}

type podMsg struct {
	profile *storage.Profile
	err     error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		p, err := m.svc.ProfileRepo().GetOrCreateMain(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		overview, err := m.svc.Today(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{profile: p, overview: overview}
	}
}

func (m boardModel) logCmd(habitKey string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.LogCompletion(m.ctx, engine.LogInput{HabitKey: habitKey})
		return loggedMsg{habitKey: habitKey, res: res, err: err}
	}
}

func (m boardModel) podCmd(active bool) tea.Cmd {
	return func() tea.Msg {
		p, err := m.svc.TogglePod(m.ctx, active)
		return podMsg{profile: p, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.profile = msg.profile
		m.overview = msg.overview
		if n := len(m.overview.Habits); m.selected >= n {
			m.selected = n - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case loggedMsg:
		if msg.err != nil {
			m.lastLog = "Log failed: " + msg.err.Error()
			return m, nil
		}
		note := fmt.Sprintf("Logged %s: +%d XP (%v/%v)", msg.habitKey, msg.res.XPAwarded, msg.res.ProgressToday, msg.res.AdjustedGoal)
		if msg.res.LevelUp {
			note += " " + ui.BadgeLevelUp
		}
		m.lastLog = note
		return m, m.loadCmd()
	case podMsg:
		if msg.err != nil {
			m.lastLog = "Pod toggle failed: " + msg.err.Error()
			return m, nil
		}
		if msg.profile.PodActive {
			m.lastLog = "Regen pod active: energy recovers at double rate."
		} else {
			m.lastLog = "Regen pod off."
		}
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.overview != nil && m.selected < len(m.overview.Habits)-1 {
				m.selected++
			}
			return m, nil
		case "p":
			if m.profile == nil {
				return m, nil
			}
			return m, m.podCmd(!m.profile.PodActive)
		case "l", " ", "enter":
			ht := m.selectedHabit()
			if ht == nil {
				m.lastLog = "Nothing to log."
				return m, nil
			}
			if ht.Locked {
				m.lastLog = fmt.Sprintf("%s is locked until %s is done today.", ht.Habit.Name, *ht.Habit.DependsOn)
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Logging %s…", ht.Habit.Key)
			return m, m.logCmd(ht.Habit.Key)
		}
	}
	return m, nil
}

func (m boardModel) selectedHabit() *engine.HabitToday {
	if m.overview == nil || m.selected < 0 || m.selected >= len(m.overview.Habits) {
		return nil
	}
	return &m.overview.Habits[m.selected]
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 26
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.profile == nil {
		return "Growth Coach — loading…"
	}
	lvl := engine.LevelForXP(m.profile.XP)
	bar := ui.Bar(
		float64(m.profile.XP-engine.XPForLevel(lvl)),
		float64(engine.XPForLevel(lvl+1)-engine.XPForLevel(lvl)),
		30,
	)
	return fmt.Sprintf("Growth Coach | Level %d | XP %d %s | %s %.0f/%.0f", lvl, m.profile.XP, bar, ui.IconBolt, m.profile.Energy, m.profile.MaxEnergy)
}

func (m boardModel) renderSidebar() string {
	if m.profile == nil {
		return "Stats\n\nLoading…"
	}
	lines := []string{"Today"}
	if m.overview != nil && m.overview.TotalParts > 0 {
		lines = append(lines, fmt.Sprintf("- capsules %d/%d", m.overview.CompletedParts, m.overview.TotalParts))
	}
	lines = append(lines, fmt.Sprintf("- streak %d", m.profile.DailyStreak))
	if m.profile.PodActive {
		lines = append(lines, "- pod active (2x regen)")
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- l/space: log")
	lines = append(lines, "- p: toggle pod")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string
	out = append(out, "Habits")

	if m.overview == nil || len(m.overview.Habits) == 0 {
		out = append(out, "(no habits yet; try `coach add`)")
		return strings.Join(out, "\n")
	}
	for i, ht := range m.overview.Habits {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		mark := " "
		switch {
		case ht.Locked:
			mark = ui.IconLock
		case ht.Habit.IsFrozen:
			mark = ui.IconFrozen
		case ht.GoalMet:
			mark = ui.IconDone
		case !ht.Scheduled:
			mark = "·"
		}
		caps := ""
		if ht.Habit.EnableChunks {
			caps = " " + ui.Capsules(ht.CapsulesFilled, ht.Plan.NumChunks)
		}
		out = append(out, fmt.Sprintf("%s%s %s %v/%v %s%s",
			cursor, mark, ht.Habit.Name, ht.Progress, ht.AdjustedGoal, ui.ModeText(ht.Habit.GoalMode), caps))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
