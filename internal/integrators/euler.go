package integrators

import (
	"github.com/san-kum/mppic/internal/sim"
	"gonum.org/v1/gonum/floats"
)

// Euler is the explicit first-order stepper. On the unicycle plant it advances the pose
// the same way the optimizer integrates its rollouts.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn sim.Dynamics, x sim.State, u sim.Control, t, dt float64) sim.State {
	next := x.Clone()
	floats.AddScaled(next, dt, dyn.Derivative(x, u, t))
	return next
}
