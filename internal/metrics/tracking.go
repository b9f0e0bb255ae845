package metrics

import (
	"math"

	"github.com/san-kum/mppic/internal/models"
	"github.com/san-kum/mppic/internal/mppi"
	"github.com/san-kum/mppic/internal/sim"
)

// TrackingError is the mean distance from the robot to the closest point of the path
// polyline.
type TrackingError struct {
	path    mppi.Path
	sum     float64
	samples int
}

func NewTrackingError(path mppi.Path) *TrackingError {
	return &TrackingError{path: path}
}

func (m *TrackingError) Name() string { return "tracking_error" }

func (m *TrackingError) Observe(x sim.State, u sim.Control, t float64) {
	pose, _ := models.SplitState(x)
	d, _ := DistanceToPath(m.path, pose)
	m.sum += d
	m.samples++
}

func (m *TrackingError) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *TrackingError) Reset() {
	m.sum = 0
	m.samples = 0
}

// Progress is the largest fraction of the path length the robot has been projected
// onto.
type Progress struct {
	path   mppi.Path
	length float64
	best   float64
}

func NewProgress(path mppi.Path) *Progress {
	return &Progress{path: path, length: PathLength(path)}
}

func (m *Progress) Name() string { return "progress" }

func (m *Progress) Observe(x sim.State, u sim.Control, t float64) {
	if m.length == 0 {
		return
	}
	pose, _ := models.SplitState(x)
	_, along := DistanceToPath(m.path, pose)
	m.best = math.Max(m.best, along/m.length)
}

func (m *Progress) Value() float64 { return m.best }
func (m *Progress) Reset()         { m.best = 0 }

func PathLength(path mppi.Path) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += math.Hypot(path[i].X-path[i-1].X, path[i].Y-path[i-1].Y)
	}
	return total
}

// DistanceToPath returns the distance from the pose to the path polyline and the arc
// length at the closest point.
func DistanceToPath(path mppi.Path, pose mppi.Pose) (dist, along float64) {
	switch len(path) {
	case 0:
		return 0, 0
	case 1:
		return pose.DistanceTo(path[0]), 0
	}

	dist = math.Inf(1)
	offset := 0.0
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		dx, dy := b.X-a.X, b.Y-a.Y
		segLen2 := dx*dx + dy*dy

		s := 0.0
		if segLen2 > 0 {
			s = ((pose.X-a.X)*dx + (pose.Y-a.Y)*dy) / segLen2
			s = math.Max(0, math.Min(1, s))
		}
		px, py := a.X+s*dx, a.Y+s*dy
		if d := math.Hypot(pose.X-px, pose.Y-py); d < dist {
			dist = d
			along = offset + s*math.Sqrt(segLen2)
		}
		offset += math.Sqrt(segLen2)
	}
	return dist, along
}
