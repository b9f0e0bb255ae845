package mppi

import (
	"math"
	"time"
)

// Point is a 2-D reference path point.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Path is an ordered reference path.
type Path []Point

func (p Path) Last() Point {
	return p[len(p)-1]
}

// Pose is a planar robot pose.
type Pose struct {
	X   float64 `json:"x" yaml:"x"`
	Y   float64 `json:"y" yaml:"y"`
	Yaw float64 `json:"yaw" yaml:"yaw"`
}

// DistanceTo returns the planar distance between the pose and a point.
func (p Pose) DistanceTo(pt Point) float64 {
	return math.Hypot(pt.X-p.X, pt.Y-p.Y)
}

// Twist is a linear/angular velocity pair.
type Twist struct {
	V float64 `json:"v" yaml:"v"`
	W float64 `json:"w" yaml:"w"`
}

// Command is the velocity command extracted at the end of a control request.
type Command struct {
	Stamp time.Time `json:"stamp"`
	V     float64   `json:"v"`
	W     float64   `json:"w"`
}

func (c Command) Twist() Twist {
	return Twist{V: c.V, W: c.W}
}

// MotionModel maps the realized velocity of the previous horizon step and the sampled
// control to the realized velocity of the next step.
type MotionModel func(current, command Twist) Twist
