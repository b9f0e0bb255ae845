package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/mppic/internal/mppi"
	"github.com/san-kum/mppic/internal/sim"
)

// SVGOptions controls RunToSVG. Samples are optional trajectories drawn underneath.
type SVGOptions struct {
	Width, Height int
	PathColor     string
	TrailColor    string
	SampleColor   string
	Samples       [][]mppi.Pose
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:       800,
		Height:      600,
		PathColor:   "#4488ff",
		TrailColor:  "#00ff88",
		SampleColor: "#ff8844",
	}
}

type svgFrame struct {
	minX, minY, scale float64
	height            int
}

func newSVGFrame(pts []mppi.Point, width, height int) svgFrame {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := math.Max(maxX-minX, 0.5)
	rangeY := math.Max(maxY-minY, 0.5)
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	return svgFrame{
		minX:   minX,
		minY:   minY,
		scale:  math.Min(float64(width)/rangeX, float64(height)/rangeY),
		height: height,
	}
}

func (f svgFrame) project(x, y float64) (float64, float64) {
	return (x - f.minX) * f.scale, float64(f.height) - (y-f.minY)*f.scale
}

func (f svgFrame) polyline(sb *strings.Builder, pts []mppi.Point, stroke string, width, opacity float64) {
	if len(pts) < 2 {
		return
	}
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="%.1f" stroke-opacity="%.2f" d="M`, stroke, width, opacity)
	for i, p := range pts {
		x, y := f.project(p.X, p.Y)
		if i == 0 {
			fmt.Fprintf(sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}

// RunToSVG draws the reference path, the driven trail and the final robot pose.
func RunToSVG(path mppi.Path, states []sim.State, opts SVGOptions) string {
	trail := posesToPoints(statePoses(states))

	all := append(append([]mppi.Point(nil), path...), trail...)
	for _, s := range opts.Samples {
		all = append(all, posesToPoints(s)...)
	}
	if len(all) == 0 {
		return ""
	}
	f := newSVGFrame(all, opts.Width, opts.Height)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, opts.Width, opts.Height, opts.Width, opts.Height)

	for _, s := range opts.Samples {
		f.polyline(&sb, posesToPoints(s), opts.SampleColor, 0.5, 0.3)
	}
	f.polyline(&sb, path, opts.PathColor, 2, 1)
	f.polyline(&sb, trail, opts.TrailColor, 1.5, 1)

	if len(states) > 0 {
		pose := statePoses(states[len(states)-1:])[0]
		x, y := f.project(pose.X, pose.Y)
		hx, hy := f.project(pose.X+0.15*math.Cos(pose.Yaw), pose.Y+0.15*math.Sin(pose.Yaw))
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="5" fill="%s"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
`, x, y, opts.TrailColor, x, y, hx, hy, opts.TrailColor)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// CanvasToSVG renders every lit braille dot as a circle.
func CanvasToSVG(canvas *Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
