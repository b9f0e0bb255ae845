package mppi

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// noiseGenerator draws zero-mean Gaussian perturbations from a single seeded source so
// that a fixed seed reproduces the whole batch regardless of worker count.
type noiseGenerator struct {
	v, w distuv.Normal
}

func newNoiseGenerator(vStd, wStd float64, seed int64) *noiseGenerator {
	src := rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)
	return &noiseGenerator{
		v: distuv.Normal{Mu: 0, Sigma: vStd, Src: src},
		w: distuv.Normal{Mu: 0, Sigma: wStd, Src: src},
	}
}

// sample fills the batch controls with sequence + noise, broadcast over the batch rows.
func (g *noiseGenerator) sample(b *Batch, seq ControlSequence) {
	perturb(b.CV, seq.V, g.v)
	perturb(b.CW, seq.W, g.w)
}

func perturb(dst *mat.Dense, mean []float64, dist distuv.Normal) {
	rows, cols := dst.Dims()
	for i := 0; i < rows; i++ {
		row := dst.RawRowView(i)
		copy(row, mean[:cols])
		if dist.Sigma == 0 {
			continue
		}
		for t := range row {
			row[t] += dist.Rand()
		}
	}
}
