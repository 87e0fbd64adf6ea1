// Package ui renders the device screens in a terminal and feeds host
// keyboard input into the station in place of the physical matrix.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"loraterm/internal/keypad"
	"loraterm/internal/station"
	"loraterm/internal/version"
)

const tickRate = 100 * time.Millisecond

// metricsEvery throttles host metric sampling to roughly every 2 s.
const metricsEvery = 20

type tickMsg time.Time

type metricsMsg struct {
	CPUPercent float64
	MemPercent float64
	Err        error
}

// keyLegend maps host keyboard characters onto matrix indices. The
// letters a..d stand in for the command column of the physical keypad.
var keyLegend = map[string]int{
	"1": 0, "2": 1, "3": 2, "4": 4, "5": 5, "6": 6,
	"7": 8, "8": 9, "9": 10, "*": 12, "0": 13, "#": 14,
	"a": keypad.KeyMenu, "b": keypad.KeyBack,
	"c": keypad.KeySend, "d": keypad.KeyDelete,
}

type model struct {
	st      *station.Station
	snap    station.Snapshot
	log     viewport.Model
	width   int
	height  int
	tick    int
	metrics metricsMsg
	showSys bool
}

// NewProgram builds the bubbletea program for a running station.
func NewProgram(st *station.Station, showMetrics bool) *tea.Program {
	m := model{
		st:      st,
		snap:    st.Snapshot(),
		log:     viewport.New(60, 12),
		showSys: showMetrics,
	}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.showSys {
		cmds = append(cmds, metricsCmd())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func metricsCmd() tea.Cmd {
	return func() tea.Msg {
		percents, err := cpu.Percent(0, false)
		if err != nil {
			return metricsMsg{Err: err}
		}
		vm, err := mem.VirtualMemory()
		if err != nil {
			return metricsMsg{Err: err}
		}
		out := metricsMsg{MemPercent: vm.UsedPercent}
		if len(percents) > 0 {
			out.CPUPercent = percents[0]
		}
		return out
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.log.Width = msg.Width - 6
		m.log.Height = msg.Height - 10
		if m.log.Height < 3 {
			m.log.Height = 3
		}
	case tickMsg:
		m.tick++
		m.snap = m.st.Snapshot()
		m.syncLog()
		cmds := []tea.Cmd{tickCmd()}
		if m.showSys && m.tick%metricsEvery == 0 {
			cmds = append(cmds, metricsCmd())
		}
		return m, tea.Batch(cmds...)
	case metricsMsg:
		m.metrics = msg
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			m.st.HandleKey(keypad.Event{Index: keypad.KeyBack, At: time.Now()})
		case "enter":
			m.st.HandleKey(keypad.Event{Index: keypad.KeySend, At: time.Now()})
		case "backspace":
			m.st.HandleKey(keypad.Event{Index: keypad.KeyDelete, At: time.Now()})
		default:
			if idx, ok := keyLegend[msg.String()]; ok {
				m.st.HandleKey(keypad.Event{Index: idx, At: time.Now()})
			}
		}
		m.snap = m.st.Snapshot()
		m.syncLog()
	}
	return m, nil
}

// syncLog points the viewport at the log of the active screen and keeps
// it pinned to the newest entry.
func (m *model) syncLog() {
	var lines []string
	switch m.snap.Screen {
	case station.ScreenCompose:
		lines = m.snap.ComposeLog
	case station.ScreenMonitor:
		lines = m.snap.MonitorLog
	case station.ScreenLinkStatus:
		lines = m.snap.LinkLog
	}
	m.log.SetContent(strings.Join(lines, "\n"))
	m.log.GotoBottom()
}

func (m model) View() string {
	appStyle := lipgloss.NewStyle().Padding(1, 2)
	layout := lipgloss.JoinVertical(lipgloss.Left,
		headerView(m),
		mainView(m),
		footerView(m),
	)
	return appStyle.Render(layout)
}

func headerView(m model) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).
		Render(strings.ToUpper(m.snap.DeviceName))
	sub := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).
		Render("v" + version.Version + " - " + m.snap.Screen.String())
	enc := lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render("plain")
	if m.snap.Encryption {
		enc = lipgloss.NewStyle().Foreground(lipgloss.Color("41")).Render("crypto")
	}
	bat := batteryStyle(m.snap.Battery.Percent).
		Render(fmt.Sprintf("%.2fV", m.snap.Battery.Voltage))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", sub, "  [", enc, "]  ", bat)
}

func batteryStyle(percent int) lipgloss.Style {
	switch {
	case percent < 20:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	case percent < 50:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	}
}

func mainView(m model) string {
	switch m.snap.Screen {
	case station.ScreenMenu:
		return menuView(m)
	case station.ScreenCompose:
		return composeView(m)
	case station.ScreenMonitor:
		return monitorView(m)
	case station.ScreenLinkStatus:
		return linkView(m)
	case station.ScreenBattery:
		return batteryView(m)
	default:
		return ""
	}
}

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

func menuView(m model) string {
	items := []string{
		"1. compose",
		"2. monitor",
		"3. link status",
		"4. battery",
		"5. toggle encryption",
	}
	return boxStyle.Render(strings.Join(items, "\n"))
}

func composeView(m model) string {
	input := lipgloss.NewStyle().Foreground(lipgloss.Color("226")).
		Render("> " + m.snap.Compose + "_")
	return lipgloss.JoinVertical(lipgloss.Left,
		boxStyle.Render(m.log.View()),
		input,
	)
}

func monitorView(m model) string {
	text := fmt.Sprintf("listening... (%d msgs)", m.snap.MonitorCount)
	if m.snap.RadioErrors > 0 {
		text += fmt.Sprintf("  %d radio errors", m.snap.RadioErrors)
	}
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).
		Render(text)
	return lipgloss.JoinVertical(lipgloss.Left,
		status,
		boxStyle.Render(m.log.View()),
	)
}

func linkView(m model) string {
	state := "link: initializing..."
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	if m.snap.LinkInitialized {
		if m.snap.LinkConnected {
			state = "link: connected"
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
		} else {
			state = "link: waiting for peer"
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		style.Render(state),
		boxStyle.Render(m.log.View()),
	)
}

func batteryView(m model) string {
	b := m.snap.Battery
	bar := renderBar(b.Percent, 24)
	lines := []string{
		fmt.Sprintf("%.2f V", b.Voltage),
		batteryStyle(b.Percent).Render(bar) + fmt.Sprintf(" %d%%", b.Percent),
	}
	if m.showSys {
		if m.metrics.Err != nil {
			lines = append(lines, "host metrics: "+m.metrics.Err.Error())
		} else {
			lines = append(lines, fmt.Sprintf("host cpu %.0f%%  mem %.0f%%",
				m.metrics.CPUPercent, m.metrics.MemPercent))
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func footerView(m model) string {
	var hint string
	switch m.snap.Screen {
	case station.ScreenMenu:
		hint = "[1-5] select | q: quit"
	case station.ScreenCompose:
		hint = "keys 0-9*# type (multi-tap) | b/esc: back | c/enter: send | d/backspace: delete"
	case station.ScreenMonitor:
		hint = "b/esc: back | d: clear log"
	case station.ScreenLinkStatus:
		hint = "b/esc: back | c: clear log | d: info"
	case station.ScreenBattery:
		hint = "b/esc: back"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(hint)
}
