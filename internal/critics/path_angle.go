package critics

import (
	"math"

	"github.com/san-kum/mppic/internal/mppi"
)

// PathAngle turns the robot towards the path when its heading points too far away from
// a path point ahead of the furthest reached one.
type PathAngle struct {
	cfg PathAngleConfig
}

func NewPathAngle(cfg PathAngleConfig) *PathAngle {
	return &PathAngle{cfg: cfg}
}

func (c *PathAngle) Name() string { return NamePathAngle }

func (c *PathAngle) Score(data *mppi.CriticData) {
	if !c.cfg.Enabled || len(data.Path) == 0 {
		return
	}
	if nearPathEnd(data, c.cfg.ThresholdToConsider) {
		return
	}

	target := data.Path[min(data.FurthestReachedPathPoint()+c.cfg.OffsetFromFurthest, len(data.Path)-1)]
	if math.Abs(angleTo(data.Pose, target)) < c.cfg.MaxAngleToFurthest {
		return
	}

	n, steps := data.Trajectories.Dims()
	for i := 0; i < n; i++ {
		sum := 0.0
		for t := 0; t < steps; t++ {
			sum += math.Abs(angleTo(data.Trajectories.At(i, t), target))
		}
		data.Costs[i] += c.cfg.contribution(sum / float64(steps))
	}
}

// angleTo returns the signed heading error from the pose to the bearing of pt.
func angleTo(p mppi.Pose, pt mppi.Point) float64 {
	return normalizeAngle(math.Atan2(pt.Y-p.Y, pt.X-p.X) - p.Yaw)
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
