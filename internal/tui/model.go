package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ecoquest/internal/engine"
	"ecoquest/internal/storage"
	"ecoquest/internal/ui"
)

type boardModel struct {
	ctx  context.Context
	deps Deps

	width  int
	height int

	mode     engine.Mode
	summary  engine.Summary
	weather  engine.Weather
	location engine.Location
	missions []engine.Mission
	recent   []storage.MissionLog

	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	summary  engine.Summary
	weather  engine.Weather
	location engine.Location
	missions []engine.Mission
	recent   []storage.MissionLog
	err      error
}

type completedMsg struct {
	res      *engine.CompleteResult
	backedUp bool
	err      error
}

func newBoardModel(ctx context.Context, deps Deps) boardModel {
	mode := deps.Mode
	if mode == "" {
		mode = engine.DefaultMode
	}
	return boardModel{
		ctx:     ctx,
		deps:    deps,
		mode:    mode,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	mode := m.mode
	return func() tea.Msg {
		svc := m.deps.Service
		wx, loc, missions, err := svc.SuggestMissions(m.ctx, m.deps.Generator, m.deps.Geo, m.deps.Weather, m.deps.Lat, m.deps.Lon, mode)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{
			summary:  svc.Summary(m.ctx),
			weather:  wx,
			location: loc,
			missions: missions,
			recent:   lastLogs(svc.Logs(m.ctx), 5),
		}
	}
}

func (m boardModel) completeCmd(mission engine.Mission) tea.Cmd {
	return func() tea.Msg {
		res, err := m.deps.Service.CompleteMission(m.ctx, mission)
		if err != nil {
			return completedMsg{err: err}
		}
		backedUp := false
		if m.deps.Backup != nil {
			err := m.deps.Backup.Push(m.ctx, res.PushEvent())
			backedUp = err == nil
		}
		return completedMsg{res: res, backedUp: backedUp}
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
		m.summary = msg.summary
		m.weather = msg.weather
		m.location = msg.location
		m.missions = msg.missions
		m.recent = msg.recent
		if m.selected >= len(m.missions) {
			m.selected = len(m.missions) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		r := msg.res
		m.lastLog = fmt.Sprintf("Completed %q: +%dP (%s → %s)", r.Log.Title, r.Log.Points, r.StageBefore, r.StageAfter)
		if r.StageUp {
			m.lastLog += " " + ui.BadgeStageUp
		}
		if msg.backedUp {
			m.lastLog += " · backed up"
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
		case "m":
			if m.mode == engine.ModeIndoor {
				m.mode = engine.ModeOutdoor
			} else {
				m.mode = engine.ModeIndoor
			}
			m.loading = true
			m.lastLog = "Switched to " + string(m.mode) + "."
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.missions)-1 {
				m.selected++
			}
			return m, nil
		case "c", " ", "enter":
			if m.loading {
				return m, nil
			}
			if m.selected < 0 || m.selected >= len(m.missions) {
				m.lastLog = "No mission selected."
				return m, nil
			}
			mission := m.missions[m.selected]
			m.lastLog = fmt.Sprintf("Completing %q…", mission.Title)
			return m, m.completeCmd(mission)
		}
	}
	return m, nil
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
	leftW := 28
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
	if m.loading && m.summary.User.Name == "" {
		return "EcoQuest: loading…"
	}
	u := m.summary.User
	bar := ""
	if m.summary.NextStage != "" {
		cur := engine.StageThreshold(engine.Stage(u.Stage))
		bar = ui.ProgressBar(u.LifetimePoints-cur, m.summary.NextStageAt-cur, 24)
	} else {
		bar = ui.ProgressBar(1, 1, 24)
	}
	return fmt.Sprintf("EcoQuest | %s | %s %s | %dP (lifetime %d) %s",
		u.Name, ui.StageIcon(u.Stage), u.Stage, u.Points, u.LifetimePoints, bar)
}

func (m boardModel) renderSidebar() string {
	s := m.summary
	lines := []string{"Progress"}
	lines = append(lines, fmt.Sprintf("- streak: %d day(s)", s.Streak))
	lines = append(lines, fmt.Sprintf("- missions: %d", s.User.TotalMissionsCompleted))
	if s.NextStage != "" {
		lines = append(lines, fmt.Sprintf("- %s in %dP", s.NextStage, s.ToNextStage))
	} else {
		lines = append(lines, "- fully grown")
	}
	lines = append(lines, fmt.Sprintf("- badges: %d/%d", s.BadgesEarned, len(s.Achievements)))
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- c/space: complete")
	lines = append(lines, "- m: indoor/outdoor")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string
	out = append(out, fmt.Sprintf("%s %.0f°C %s · %s %s (%s)",
		ui.WeatherIcon(string(m.weather.Condition)), m.weather.TemperatureC, m.weather.Condition,
		ui.IconPin, m.location.Address, m.mode))
	out = append(out, "")
	out = append(out, "Missions")
	if len(m.missions) == 0 {
		out = append(out, "(all done for today)")
	}
	for i, ms := range m.missions {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		out = append(out, fmt.Sprintf("%s%s %s (+%dP, ~%dm)", cursor, ui.CategoryIcon(string(ms.Type)), ms.Title, ms.Points, ms.EstimatedTimeSeconds/60))
	}
	out = append(out, "")
	out = append(out, "Recent")
	if len(m.recent) == 0 {
		out = append(out, "(empty)")
	}
	for _, l := range m.recent {
		day, _ := engine.DayKey(l.CompletedAt, time.Local)
		out = append(out, fmt.Sprintf("- %s %s +%dP", day, l.Title, l.Points))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

// lastLogs returns up to n entries, newest first.
func lastLogs(logs []storage.MissionLog, n int) []storage.MissionLog {
	out := make([]storage.MissionLog, 0, n)
	for i := len(logs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, logs[i])
	}
	return out
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

var errNoService = errors.New("board needs a service")
