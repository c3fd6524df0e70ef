package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/spinsim/internal/engine"
)

var (
	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusIdle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	StatusConverged = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusStopped = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusFailed = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func PhaseStyle(p engine.Phase) lipgloss.Style {
	switch p {
	case engine.Running:
		return StatusRunning
	case engine.Converged:
		return StatusConverged
	case engine.Stopped:
		return StatusStopped
	case engine.Failed:
		return StatusFailed
	}
	return StatusIdle
}

func RenderPhase(p engine.Phase) string {
	return PhaseStyle(p).Render(fmt.Sprintf("%-9s", p))
}

// StatusLine renders one method status, e.g.
//
//	image 2  llg/heun  converged  iter 1200  force 8.1e-07
func StatusLine(target string, s engine.Status) string {
	var b strings.Builder
	b.WriteString(MetricLabel.Render(fmt.Sprintf("%-8s", target)))
	b.WriteString("  ")
	b.WriteString(fmt.Sprintf("%s/%s", s.Kind, s.Solver))
	b.WriteString("  ")
	b.WriteString(RenderPhase(s.Phase))
	b.WriteString("  ")
	b.WriteString(MetricLabel.Render("iter "))
	b.WriteString(MetricValue.Render(fmt.Sprintf("%d", s.Iteration)))
	b.WriteString("  ")
	b.WriteString(MetricLabel.Render("force "))
	b.WriteString(MetricValue.Render(fmt.Sprintf("%.2e", s.Force)))
	if s.Err != nil {
		b.WriteString("  ")
		b.WriteString(StatusFailed.Render(s.Err.Error()))
	}
	return b.String()
}

// ConvergenceBar renders how far force has dropped from start towards
// threshold on a log scale, as a bar of width cells.
func ConvergenceBar(start, force, threshold float64, width int) string {
	if width < 1 {
		return ""
	}
	frac := ConvergedFraction(start, force, threshold)
	filled := int(math.Round(frac * float64(width)))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch {
	case frac >= 1:
		return StatusConverged.Render(bar)
	case frac > 0.5:
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

// ConvergedFraction maps force into [0, 1]: 0 at start, 1 at or below threshold.
func ConvergedFraction(start, force, threshold float64) float64 {
	if threshold <= 0 || start <= threshold {
		if force <= threshold {
			return 1
		}
		return 0
	}
	if force <= threshold {
		return 1
	}
	if force >= start {
		return 0
	}
	return math.Log(start/force) / math.Log(start/threshold)
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// SparklineChart renders values as width cells, averaging the samples that
// fall into each cell. Low values are drawn in the converged color.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if width > len(values) {
		width = len(values)
	}
	if width < 1 {
		return ""
	}

	cells := make([]float64, width)
	for c := range cells {
		lo, hi := c*len(values)/width, (c+1)*len(values)/width
		sum := 0.0
		for _, v := range values[lo:hi] {
			sum += v
		}
		cells[c] = sum / float64(hi-lo)
	}

	low, high := cells[0], cells[0]
	for _, v := range cells {
		low, high = math.Min(low, v), math.Max(high, v)
	}
	span := high - low
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range cells {
		level := (v - low) / span
		r := string(sparkRunes[int(level*float64(len(sparkRunes)-1))])
		switch {
		case level < 0.3:
			b.WriteString(SparkHigh.Render(r))
		case level < 0.7:
			b.WriteString(SparkMid.Render(r))
		default:
			b.WriteString(SparkLow.Render(r))
		}
	}
	return b.String()
}
