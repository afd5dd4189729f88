package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"project-tracker/internal/domain"
)

var (
	colorPrimary = lipgloss.Color("#6C63FF")
	colorMuted   = lipgloss.Color("#666666")
	colorSuccess = lipgloss.Color("#2ECC71")
	colorSubtle  = lipgloss.Color("#414868")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(16)

	valueStyle = lipgloss.NewStyle().Bold(true)

	runningStyle = lipgloss.NewStyle().Foreground(colorSuccess)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorSubtle)

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

func statLine(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func (o Options) renderTime(t time.Time) string {
	if o.RelativeTimes {
		return humanize.RelTime(t, o.now(), "ago", "from now")
	}
	return t.Local().Format(o.timeFormat())
}

func projectReportText(report *domain.ProjectTimeReport, opts Options) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Project %s", report.ProjectID)))
	b.WriteString("\n")
	b.WriteString(statLine("Total time", FormatDuration(report.TotalTimeMs)))
	b.WriteString("\n")
	b.WriteString(statLine("Entries", humanize.Comma(int64(report.TotalEntries))))
	b.WriteString("\n")
	b.WriteString(statLine("Active timers", humanize.Comma(int64(report.ActiveTimers))))
	b.WriteString("\n\n")

	if len(report.TimeLogs) == 0 {
		b.WriteString(mutedStyle.Render("No time logged yet."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(headerStyle.Render("Recent activity"))
	b.WriteString("\n")
	for _, log := range report.TimeLogs {
		b.WriteString(fmt.Sprintf("  %s  %-30s  %s\n",
			FormatDuration(log.Duration()),
			truncate(log.TaskTitle, 30),
			mutedStyle.Render(opts.renderTime(log.EndTime)),
		))
	}
	return b.String()
}

func globalReportText(report *domain.GlobalTimeReport, opts Options) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("All projects"))
	b.WriteString("\n")
	b.WriteString(statLine("Total time", FormatDuration(report.TotalTimeMs)))
	b.WriteString("\n")
	b.WriteString(statLine("Entries", humanize.Comma(int64(report.TotalEntries))))
	b.WriteString("\n")
	b.WriteString(statLine("Active timers", humanize.Comma(int64(report.ActiveTimers))))
	b.WriteString("\n\n")

	if len(report.TaskBreakdown) == 0 {
		b.WriteString(mutedStyle.Render("No tracked tasks."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(headerStyle.Render("By task"))
	b.WriteString("\n")
	for _, row := range report.TaskBreakdown {
		status := ""
		if row.HasActiveTimer {
			status = runningStyle.Render("running")
		}
		b.WriteString(fmt.Sprintf("  %s  %-30s  %-8s  %s  %s\n",
			FormatDuration(row.TotalTimeMs),
			truncate(row.TaskTitle, 30),
			row.ProjectID,
			mutedStyle.Render(fmt.Sprintf("%d %s", row.EntryCount, plural(row.EntryCount, "entry", "entries"))),
			status,
		))
	}
	return b.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
