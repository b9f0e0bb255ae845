package metrics

import (
	"math"

	"github.com/san-kum/mppic/internal/sim"
)

// ControlEffort is the mean of |v| + |w| over the commanded velocities. Missing
// components count as zero.
type ControlEffort struct {
	linear  float64
	angular float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(x sim.State, u sim.Control, t float64) {
	if len(u) > 0 {
		c.linear += math.Abs(u[0])
	}
	if len(u) > 1 {
		c.angular += math.Abs(u[1])
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	return c.Linear() + c.Angular()
}

// Linear is the mean |v| so far.
func (c *ControlEffort) Linear() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.linear / float64(c.samples)
}

// Angular is the mean |w| so far.
func (c *ControlEffort) Angular() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.angular / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.linear, c.angular = 0, 0
	c.samples = 0
}
