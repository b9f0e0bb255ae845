package sim

import (
	"context"
	"errors"
	"math"
	"testing"
)

type testDynamics struct{}

func (t *testDynamics) Derivative(x State, u Control, time float64) State {
	return State{-x[0] + u[0]}
}

func (t *testDynamics) StateDim() int   { return 1 }
func (t *testDynamics) ControlDim() int { return 1 }

type testIntegrator struct{}

func (t *testIntegrator) Step(dyn Dynamics, x State, u Control, time float64, dt float64) State {
	dx := dyn.Derivative(x, u, time)
	return State{x[0] + dt*dx[0]}
}

type testController struct {
	failAt int
	calls  int
}

var errControllerFailed = errors.New("controller failed")

func (t *testController) Compute(ctx context.Context, x State, time float64) (Control, error) {
	t.calls++
	if t.failAt > 0 && t.calls == t.failAt {
		return nil, errControllerFailed
	}
	return Control{0}, nil
}

func TestSimulatorRun(t *testing.T) {
	sim := New(&testDynamics{}, &testIntegrator{}, &testController{})

	cfg := Config{
		Dt:       0.1,
		Duration: 1.0,
	}

	result, err := sim.Run(context.Background(), State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}

	finalState := result.FinalState()[0]
	expected := 1.0 * math.Exp(-1.0)
	if math.Abs(finalState-expected) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", expected, finalState)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(&testDynamics{}, &testIntegrator{}, &testController{})

	tests := []struct {
		name string
		x0   State
		cfg  Config
	}{
		{"zero dt", State{1}, Config{Dt: 0, Duration: 1.0}},
		{"negative dt", State{1}, Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", State{1}, Config{Dt: 0.1, Duration: 0}},
		{"wrong state size", State{1, 2}, Config{Dt: 0.1, Duration: 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.x0, tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorControllerError(t *testing.T) {
	sim := New(&testDynamics{}, &testIntegrator{}, &testController{failAt: 4})

	result, err := sim.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, errControllerFailed) {
		t.Fatalf("expected controller error, got %v", err)
	}

	var simErr SimError
	if !errors.As(err, &simErr) || simErr.Step != 3 {
		t.Errorf("expected failure at step 3, got %v", err)
	}
	if result == nil || result.StepsTaken != 3 {
		t.Errorf("expected partial result with 3 steps, got %+v", result)
	}
}

func TestSimulatorStopCondition(t *testing.T) {
	sim := New(&testDynamics{}, &testIntegrator{}, &testController{})
	sim.SetStopCondition(func(x State, t float64) bool { return x[0] < 0.5 })

	result, err := sim.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 10.0})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Stopped {
		t.Error("expected run to stop early")
	}
	if got := result.FinalState()[0]; got >= 0.5 {
		t.Errorf("expected final state below 0.5, got %f", got)
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(x State, u Control, time float64) {
	t.count++
	t.sum += x[0]
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(&testDynamics{}, &testIntegrator{}, &testController{})

	metric := &testMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestRunWithCallback(t *testing.T) {
	sim := New(&testDynamics{}, &testIntegrator{}, &testController{})

	ticks := 0
	err := sim.RunWithCallback(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0}, func(x State, u Control, t float64) bool {
		ticks++
		return ticks < 5
	})
	if err != nil {
		t.Fatal(err)
	}
	if ticks != 5 {
		t.Errorf("expected 5 ticks, got %d", ticks)
	}
}
