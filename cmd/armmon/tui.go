package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"mearm/motion"
)

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2
	statusHeight = 2
	footerHeight = 7 // log box height
	maxLogs      = 5
	borderSize   = 2
)

// Joint colors, indexed by sampler channel.
var jointColors = [motion.NumJoints]string{"196", "226", "46", "51"}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	onStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

type monitorModel struct {
	title  string
	joints [motion.NumJoints]motion.JointConfig
	feed   *feed
	chart  *streamlinechart.Model

	last     motion.Snapshot
	seen     int
	width    int
	height   int
	logs     []string
	quitting bool
}

type stateMsg motion.Snapshot
type logMsg string

func waitForState(f *feed) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-f.states)
	}
}

func waitForLog(f *feed) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-f.logs)
	}
}

func newMonitorModel(title string, joints [motion.NumJoints]motion.JointConfig, f *feed) monitorModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(0, 180),
	)
	for i := range joints {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColors[i]))
		chart.SetDataSetStyles(joints[i].Name, runes.ThinLineStyle, style)
	}
	return monitorModel{
		title:  title,
		joints: joints,
		feed:   f,
		chart:  &chart,
	}
}

func (m *monitorModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m *monitorModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20
	}
	width = max(m.width-borderSize-2, 40)
	height = max(m.height-headerHeight-legendHeight-statusHeight-footerHeight-borderSize, 10)
	return width, height
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.feed),
		waitForLog(m.feed),
	)
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chart.Resize(m.chartSize())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case stateMsg:
		s := motion.Snapshot(msg)
		for i := range m.joints {
			m.chart.PushDataSet(m.joints[i].Name, float64(s.Joints[i].Target))
		}
		m.chart.DrawAll()
		m.last = s
		m.seen++
		return m, waitForState(m.feed)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.feed)
	}
	return m, nil
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Monitor stopped.\n"
	}
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("meArm monitor"))
	sb.WriteString(" - " + m.title)
	sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%d cycles]", m.seen)))
	sb.WriteString("\n\n")

	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	sb.WriteString(m.legend())
	sb.WriteString("\n\n")
	sb.WriteString(m.status())
	sb.WriteString("\n")

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(max(m.width-4, 20))
	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")
	return sb.String()
}

func (m monitorModel) legend() string {
	var items []string
	for i := range m.joints {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColors[i])).Bold(true)
		items = append(items, colorStyle.Render("━━")+fmt.Sprintf(" %s %3d", m.joints[i].Name, m.last.Joints[i].Target))
	}
	return strings.Join(items, "  ")
}

func (m monitorModel) status() string {
	button := func(name string, on bool) string {
		if on {
			return onStyle.Render(name + ":on")
		}
		return statusStyle.Render(name + ":off")
	}
	samples := fmt.Sprintf("sticks %3d %3d %3d %3d", m.last.Samples[0], m.last.Samples[1], m.last.Samples[2], m.last.Samples[3])
	return statusStyle.Render(samples) + "  " + button("A", m.last.Buttons.Save) + " " + button("B", m.last.Buttons.Restore)
}
