package main

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(14)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func renderStats(r report) string {
	stats := r.result.Stats
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("📊 "+filepath.Base(r.input)),
		row("Points", fmt.Sprintf("%d → %d (%d removed, %.1f%%)",
			stats.OriginalPoints, stats.FinalPoints, stats.PointsRemoved, stats.PointsPercent)),
		row("Distance", fmt.Sprintf("%.2f → %.2f km (%.1f%% shorter)",
			stats.OriginalDistance, stats.FinalDistance, stats.DistancePercent)),
		row("Tolerance", fmt.Sprintf("ε=%g, max deviation %.6f", stats.Epsilon, stats.MaxDeviation)),
		row("Speed", fmt.Sprintf("%.1f - %.1f m/s (mean %.1f)", stats.MinSpeed, stats.MaxSpeed, stats.MeanSpeed)),
		row("Matching", string(stats.Matching)),
		row("Time", stats.ProcessingTime.String()),
	))
}
