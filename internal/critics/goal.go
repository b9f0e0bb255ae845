package critics

import "github.com/san-kum/mppic/internal/mppi"

// Goal pulls whole trajectories onto the last path point once the robot is close to it.
type Goal struct {
	cfg GoalConfig
}

func NewGoal(cfg GoalConfig) *Goal {
	return &Goal{cfg: cfg}
}

func (c *Goal) Name() string { return NameGoal }

func (c *Goal) Score(data *mppi.CriticData) {
	if !c.cfg.Enabled || len(data.Path) == 0 {
		return
	}
	if !nearPathEnd(data, c.cfg.ThresholdToConsider) {
		return
	}

	goal := data.Path.Last()
	n, steps := data.Trajectories.Dims()
	for i := 0; i < n; i++ {
		sum := 0.0
		for t := 0; t < steps; t++ {
			sum += data.Trajectories.At(i, t).DistanceTo(goal)
		}
		data.Costs[i] += c.cfg.contribution(sum / float64(steps))
	}
}

func nearPathEnd(data *mppi.CriticData, threshold float64) bool {
	return len(data.Path) > 0 && data.Pose.DistanceTo(data.Path.Last()) < threshold
}
