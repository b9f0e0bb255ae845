package critics

import "github.com/san-kum/mppic/internal/mppi"

// PathFollow pulls the end of every trajectory towards a path point a fixed number of
// indices beyond the furthest point reached by the batch.
type PathFollow struct {
	cfg PathFollowConfig
}

func NewPathFollow(cfg PathFollowConfig) *PathFollow {
	return &PathFollow{cfg: cfg}
}

func (c *PathFollow) Name() string { return NamePathFollow }

func (c *PathFollow) Score(data *mppi.CriticData) {
	if !c.cfg.Enabled || len(data.Path) == 0 {
		return
	}
	if data.PathRatioReached() > c.cfg.MaxPathRatio {
		return
	}

	target := data.Path[min(data.FurthestReachedPathPoint()+c.cfg.OffsetFromFurthest, len(data.Path)-1)]

	n, _ := data.Trajectories.Dims()
	for i := 0; i < n; i++ {
		data.Costs[i] += c.cfg.contribution(data.Trajectories.Final(i).DistanceTo(target))
	}
}
