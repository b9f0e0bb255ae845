package mppi

import "math"

// Critic is a single cost term of the scoring pipeline.
type Critic interface {
	Name() string
	// Score adds weight * raw^power per sample into data.Costs. It must never
	// overwrite existing costs or reorder samples.
	Score(data *CriticData)
}

// Scorer evaluates a whole batch once per cycle.
type Scorer interface {
	Score(data *CriticData)
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(data *CriticData)

func (f ScorerFunc) Score(data *CriticData) { f(data) }

// CriticData is the per-cycle context shared by every critic. Costs is the only field
// critics write to, besides FailFlag.
type CriticData struct {
	Path         Path
	Pose         Pose
	Velocity     Twist
	Trajectories *Trajectories
	Batch        *Batch
	ModelDt      float64
	Costs        []float64
	FailFlag     bool

	furthest *int
	ratio    *float64
}

// NewCriticData builds a scoring context with a zeroed cost vector.
func NewCriticData(path Path, pose Pose, velocity Twist, trajectories *Trajectories, batch *Batch, modelDt float64) *CriticData {
	n, _ := trajectories.Dims()
	return &CriticData{
		Path:         path,
		Pose:         pose,
		Velocity:     velocity,
		Trajectories: trajectories,
		Batch:        batch,
		ModelDt:      modelDt,
		Costs:        make([]float64, n),
	}
}

// FurthestReachedPathPoint returns the largest path index that is the nearest path
// point to some sample's final pose. Computed on first access and reused for the cycle.
func (d *CriticData) FurthestReachedPathPoint() int {
	if d.furthest != nil {
		return *d.furthest
	}

	furthest := 0
	if len(d.Path) > 0 && d.Trajectories != nil {
		n, _ := d.Trajectories.Dims()
		for i := 0; i < n; i++ {
			if idx := nearestPathIndex(d.Path, d.Trajectories.Final(i)); idx > furthest {
				furthest = idx
			}
		}
	}
	d.furthest = &furthest
	return furthest
}

// PathRatioReached returns the fraction of the path consumed by the furthest sample.
func (d *CriticData) PathRatioReached() float64 {
	if d.ratio != nil {
		return *d.ratio
	}

	ratio := 0.0
	if len(d.Path) > 0 {
		ratio = float64(d.FurthestReachedPathPoint()) / float64(len(d.Path))
	}
	d.ratio = &ratio
	return ratio
}

func nearestPathIndex(path Path, pose Pose) int {
	best, bestDist := 0, math.Inf(1)
	for j, pt := range path {
		dx, dy := pt.X-pose.X, pt.Y-pose.Y
		if dist := dx*dx + dy*dy; dist < bestDist {
			best, bestDist = j, dist
		}
	}
	return best
}
