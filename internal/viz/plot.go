package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spinsim/internal/engine"
)

// Series selects what PlotHistory draws.
type Series string

const (
	// SeriesForce plots log10 of the convergence measure.
	SeriesForce  Series = "force"
	SeriesEnergy Series = "energy"
)

// Values extracts a series from samples. Forces are returned as log10, zero
// forces are clamped to -300.
func Values(samples []engine.Sample, series Series) ([]float64, error) {
	out := make([]float64, len(samples))
	for i, s := range samples {
		switch series {
		case SeriesForce:
			out[i] = math.Log10(math.Max(s.Force, 1e-300))
		case SeriesEnergy:
			out[i] = s.Energy
		default:
			return nil, fmt.Errorf("unknown series: %s", series)
		}
	}
	return out, nil
}

// PlotHistory draws a series of samples as an ascii chart.
func PlotHistory(samples []engine.Sample, series Series, width, height int) (string, error) {
	if len(samples) == 0 {
		return "", fmt.Errorf("no data to plot")
	}
	data, err := Values(samples, series)
	if err != nil {
		return "", err
	}

	caption := fmt.Sprintf("%s vs iteration", series)
	if series == SeriesForce {
		caption = "log10(force) vs iteration"
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}
