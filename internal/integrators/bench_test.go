package integrators

import (
	"testing"

	"github.com/san-kum/mppic/internal/models"
	"github.com/san-kum/mppic/internal/sim"
)

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	dyn := models.NewUnicycle()
	x := sim.State{0, 0, 0, 0.5, 0.2}
	u := sim.Control{0.5, 0.2}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, u, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	dyn := models.NewUnicycle()
	x := sim.State{0, 0, 0, 0.5, 0.2}
	u := sim.Control{0.5, 0.2}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, u, 0, 0.01)
	}
}
