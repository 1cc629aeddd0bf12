package render

import (
	"fmt"
	"strings"

	"codeberg.org/mutker/ecopass/internal/pass"
	"github.com/charmbracelet/lipgloss"
)

const (
	goodScore = 80.0
	fairScore = 50.0
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Width(22)
	hintStyle  = lipgloss.NewStyle().PaddingLeft(2)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	scoreColors = map[string]lipgloss.Color{
		"good": lipgloss.Color("#22C55E"),
		"fair": lipgloss.Color("#EAB308"),
		"poor": lipgloss.Color("#EF4444"),
	}
)

// ScoreBand buckets an eco score into good, fair or poor.
func ScoreBand(score float64) string {
	switch {
	case score >= goodScore:
		return "good"
	case score >= fairScore:
		return "fair"
	default:
		return "poor"
	}
}

// Text renders a boxed, human-readable summary of report.
func Text(report *pass.Report) string {
	score := lipgloss.NewStyle().
		Bold(true).
		Foreground(scoreColors[ScoreBand(report.EcoScore)]).
		Render(fmt.Sprintf("%.1f / 100", report.EcoScore))

	rows := [][2]string{
		{"Node", report.NodeLabel},
		{"Samples", fmt.Sprintf("%d (every %d ms)", report.SampleCount, report.IntervalMs)},
		{"Duration", fmt.Sprintf("%d ms", report.DurationMs)},
		{"Avg power index", fmt.Sprintf("%.2f", report.AveragePowerIndex)},
		{"Idle-heavy samples", fmt.Sprintf("%d (%.3f)", report.IdleHeavyCount, report.IdleWasteRatio)},
		{"Busy-heavy samples", fmt.Sprintf("%d (%.3f)", report.BusyHeavyCount, report.BusyWasteRatio)},
		{"Eco score", score},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Eco pass report"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row[0]))
		b.WriteString(row[1])
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Recommendations"))
	b.WriteString("\n")
	for _, hint := range []string{
		report.Recommendations.ScheduleHint,
		report.Recommendations.HardwareHint,
		report.Recommendations.General,
	} {
		b.WriteString(hintStyle.Render("- " + hint))
		b.WriteString("\n")
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}
