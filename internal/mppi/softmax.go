package mppi

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// softmaxWeights writes exp(-(c - min c) / temperature), normalised over the batch, into
// dst. Non-finite costs get zero weight; if no cost is finite the weights are uniform.
func softmaxWeights(dst, costs []float64, temperature float64) {
	minCost := math.Inf(1)
	for _, c := range costs {
		if finite(c) && c < minCost {
			minCost = c
		}
	}

	if math.IsInf(minCost, 1) {
		for i := range dst {
			dst[i] = 1 / float64(len(dst))
		}
		return
	}

	for i, c := range costs {
		if !finite(c) {
			dst[i] = 0
			continue
		}
		dst[i] = math.Exp(-(c - minCost) / temperature)
	}

	// The minimum contributes exp(0) = 1, so the sum is at least one.
	floats.Scale(1/floats.Sum(dst), dst)
}

func finite(c float64) bool {
	return !math.IsNaN(c) && !math.IsInf(c, 0)
}

// weightedAverage writes the weighted column means of controls into dst.
func weightedAverage(dst []float64, controls *mat.Dense, weights []float64) {
	out := mat.NewVecDense(len(dst), dst)
	out.MulVec(controls.T(), mat.NewVecDense(len(weights), weights))
}
