package viz

import (
	"math"
	"strings"

	"github.com/san-kum/mppic/internal/mppi"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at sub-pixel (x, y). The canvas spans Width*2 x Height*4 dots.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps world coordinates in meters onto canvas dots with equal scale on both
// axes and y pointing up.
type Viewport struct {
	minX, minY float64
	scale      float64
	dotsW      int
	dotsH      int
}

// FitViewport frames every point with a 10% margin.
func FitViewport(c *Canvas, pts []mppi.Point) Viewport {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if len(pts) == 0 {
		minX, minY, maxX, maxY = -1, -1, 1, 1
	}

	spanX := math.Max(maxX-minX, 0.5)
	spanY := math.Max(maxY-minY, 0.5)
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	spanX, spanY = spanX*1.2, spanY*1.2

	dotsW, dotsH := c.Width*2, c.Height*4
	scale := math.Min(float64(dotsW-1)/spanX, float64(dotsH-1)/spanY)
	return Viewport{
		minX:  cx - float64(dotsW-1)/scale/2,
		minY:  cy - float64(dotsH-1)/scale/2,
		scale: scale,
		dotsW: dotsW,
		dotsH: dotsH,
	}
}

func (v Viewport) Project(x, y float64) (int, int) {
	px := int(math.Round((x - v.minX) * v.scale))
	py := v.dotsH - 1 - int(math.Round((y-v.minY)*v.scale))
	return px, py
}

func (c *Canvas) Polyline(v Viewport, pts []mppi.Point) {
	for i := 1; i < len(pts); i++ {
		x0, y0 := v.Project(pts[i-1].X, pts[i-1].Y)
		x1, y1 := v.Project(pts[i].X, pts[i].Y)
		c.DrawLine(x0, y0, x1, y1)
	}
	if len(pts) == 1 {
		c.Set(v.Project(pts[0].X, pts[0].Y))
	}
}

// Dots plots every pose without connecting them.
func (c *Canvas) Dots(v Viewport, poses []mppi.Pose) {
	for _, p := range poses {
		c.Set(v.Project(p.X, p.Y))
	}
}

// Robot draws a filled 3x3 body and a heading tick.
func (c *Canvas) Robot(v Viewport, p mppi.Pose) {
	x, y := v.Project(p.X, p.Y)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
	sin, cos := math.Sincos(p.Yaw)
	c.DrawLine(x, y, x+int(math.Round(4*cos)), y-int(math.Round(4*sin)))
}

func posesToPoints(poses []mppi.Pose) []mppi.Point {
	out := make([]mppi.Point, len(poses))
	for i, p := range poses {
		out[i] = mppi.Point{X: p.X, Y: p.Y}
	}
	return out
}
