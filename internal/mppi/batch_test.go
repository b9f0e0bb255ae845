package mppi

import (
	"math"
	"testing"
)

func TestBatch_Clamp(t *testing.T) {
	b := NewBatch(2, 3)
	b.CV.SetRow(0, []float64{-2, 0.1, 2})
	b.CV.SetRow(1, []float64{0.5, -0.5, 0.6})
	b.CW.SetRow(0, []float64{5, -5, 0})
	b.CW.SetRow(1, []float64{1.3, -1.4, 0.2})

	b.clamp(0, 2, 0.5, 1.3)

	for i := 0; i < 2; i++ {
		for step := 0; step < 3; step++ {
			c := b.Control(i, step)
			if math.Abs(c.V) > 0.5 {
				t.Errorf("sample %d step %d: v %f exceeds limit", i, step, c.V)
			}
			if math.Abs(c.W) > 1.3 {
				t.Errorf("sample %d step %d: w %f exceeds limit", i, step, c.W)
			}
		}
	}
	if got := b.CV.At(0, 1); got != 0.1 {
		t.Errorf("expected in-range value untouched, got %f", got)
	}
	if got := b.CW.At(1, 1); got != -1.3 {
		t.Errorf("expected -1.3, got %f", got)
	}
}

func TestBatch_Propagate(t *testing.T) {
	b := NewBatch(1, 4)
	b.CV.SetRow(0, []float64{0.1, 0.2, 0.3, 0.4})
	b.CW.SetRow(0, []float64{-0.1, -0.2, -0.3, -0.4})

	naive := func(_, command Twist) Twist { return command }
	b.propagate(0, 1, Twist{V: 0.7, W: 0.9}, naive)

	expectedV := []float64{0.7, 0.1, 0.2, 0.3}
	expectedW := []float64{0.9, -0.1, -0.2, -0.3}
	for step := range expectedV {
		got := b.Velocity(0, step)
		if got.V != expectedV[step] || got.W != expectedW[step] {
			t.Errorf("step %d: expected (%f, %f), got (%f, %f)", step, expectedV[step], expectedW[step], got.V, got.W)
		}
	}
}

func TestTrajectories_Integrate(t *testing.T) {
	const dt = 0.1
	b := NewBatch(1, 2)
	b.V.SetRow(0, []float64{1, 1})
	b.W.SetRow(0, []float64{math.Pi / 2 / dt, 0})

	tr := NewTrajectories(1, 2)
	tr.integrate(b, 0, 1, Pose{}, dt)

	first := tr.At(0, 0)
	if math.Abs(first.X-dt) > 1e-12 || math.Abs(first.Y) > 1e-12 {
		t.Errorf("expected first step along the initial heading, got (%f, %f)", first.X, first.Y)
	}
	if math.Abs(first.Yaw-math.Pi/2) > 1e-12 {
		t.Errorf("expected yaw pi/2, got %f", first.Yaw)
	}

	final := tr.Final(0)
	if math.Abs(final.X-dt) > 1e-12 || math.Abs(final.Y-dt) > 1e-12 {
		t.Errorf("expected (%f, %f), got (%f, %f)", dt, dt, final.X, final.Y)
	}
}

func TestTrajectories_CloneIsIndependent(t *testing.T) {
	tr := NewTrajectories(2, 2)
	tr.X.Set(1, 1, 3)

	clone := tr.Clone()
	tr.X.Set(1, 1, 5)

	if got := clone.X.At(1, 1); got != 3 {
		t.Errorf("expected clone to keep 3, got %f", got)
	}
	if got := len(clone.Sample(1)); got != 2 {
		t.Errorf("expected 2 poses, got %d", got)
	}
}
