package critics

import (
	"math"

	"github.com/san-kum/mppic/internal/mppi"
)

// PreferForward penalizes the reversing part of every step, measured as the displacement
// projected on the heading held before the step and averaged over the horizon.
type PreferForward struct {
	cfg PreferForwardConfig
}

func NewPreferForward(cfg PreferForwardConfig) *PreferForward {
	return &PreferForward{cfg: cfg}
}

func (c *PreferForward) Name() string { return NamePreferForward }

func (c *PreferForward) Score(data *mppi.CriticData) {
	if !c.cfg.Enabled {
		return
	}
	if nearPathEnd(data, c.cfg.ThresholdToConsider) {
		return
	}

	n, steps := data.Trajectories.Dims()
	for i := 0; i < n; i++ {
		prev := data.Pose
		backward := 0.0
		for t := 0; t < steps; t++ {
			cur := data.Trajectories.At(i, t)
			sin, cos := math.Sincos(prev.Yaw)
			if along := (cur.X-prev.X)*cos + (cur.Y-prev.Y)*sin; along < 0 {
				backward -= along
			}
			prev = cur
		}
		data.Costs[i] += c.cfg.contribution(backward / float64(steps))
	}
}
