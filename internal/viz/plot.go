package viz

import (
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/mppic/internal/models"
	"github.com/san-kum/mppic/internal/mppi"
	"github.com/san-kum/mppic/internal/sim"
)

// Series extracts one state column from a run.
func Series(states []sim.State, index int) []float64 {
	out := make([]float64, 0, len(states))
	for _, s := range states {
		if index < len(s) {
			out = append(out, s[index])
		}
	}
	return out
}

// PlotSeries renders a line chart, or "" when there are fewer than two values.
func PlotSeries(data []float64, width, height int, caption string) string {
	if len(data) < 2 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
}

// PlotVelocities overlays realized linear and angular velocity of a run.
func PlotVelocities(states []sim.State, width, height int) string {
	v := Series(states, models.StateV)
	w := Series(states, models.StateW)
	if len(v) < 2 {
		return ""
	}
	return asciigraph.PlotMany([][]float64{v, w},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Yellow),
		asciigraph.Caption("v [m/s] (green), w [rad/s] (yellow)"))
}

// PathView renders PathCanvas as text.
func PathView(path mppi.Path, states []sim.State, width, height int) string {
	return PathCanvas(path, states, width, height).String()
}

// PathCanvas draws path and driven trail of a run onto a fresh canvas.
func PathCanvas(path mppi.Path, states []sim.State, width, height int) *Canvas {
	c := NewCanvas(width, height)
	trail := statePoses(states)
	v := FitViewport(c, append(append([]mppi.Point(nil), path...), posesToPoints(trail)...))
	c.Polyline(v, path)
	c.Dots(v, trail)
	if len(trail) > 0 {
		c.Robot(v, trail[len(trail)-1])
	}
	return c
}

func statePoses(states []sim.State) []mppi.Pose {
	out := make([]mppi.Pose, 0, len(states))
	for _, s := range states {
		pose, _ := models.SplitState(s)
		out = append(out, pose)
	}
	return out
}
