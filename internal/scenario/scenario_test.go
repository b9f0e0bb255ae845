package scenario

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/mppic/internal/mppi"
)

func checkSpacing(t *testing.T, path mppi.Path, spacing float64) {
	t.Helper()
	for i := 1; i < len(path)-1; i++ {
		d := math.Hypot(path[i].X-path[i-1].X, path[i].Y-path[i-1].Y)
		if d > spacing+1e-9 {
			t.Fatalf("points %d and %d are %f apart, expected at most %f", i-1, i, d, spacing)
		}
	}
}

func TestStraight(t *testing.T) {
	path, err := Default().Path()
	if err != nil {
		t.Fatal(err)
	}

	if len(path) != 101 {
		t.Errorf("expected 101 points, got %d", len(path))
	}
	if last := path.Last(); math.Abs(last.X-5) > 1e-9 || last.Y != 0 {
		t.Errorf("expected path to end at (5, 0), got %+v", last)
	}
	checkSpacing(t, path, DefaultSpacing)
}

func TestArc(t *testing.T) {
	s := Scenario{Kind: KindArc, Radius: 2, Sweep: -math.Pi / 2, Spacing: 0.1}
	path, err := s.Path()
	if err != nil {
		t.Fatal(err)
	}

	last := path.Last()
	if math.Abs(last.X-2) > 1e-9 || math.Abs(last.Y+2) > 1e-9 {
		t.Errorf("expected quarter right turn to end at (2, -2), got %+v", last)
	}
	for _, p := range path {
		if r := math.Hypot(p.X, p.Y+2); math.Abs(r-2) > 1e-9 {
			t.Fatalf("point %+v off the circle (r=%f)", p, r)
		}
	}
	checkSpacing(t, path, 0.1)
}

func TestSine(t *testing.T) {
	s := Scenario{Kind: KindSine, Length: 4, Amplitude: 0.5, Wavelength: 2, Spacing: 0.05}
	path, err := s.Path()
	if err != nil {
		t.Fatal(err)
	}

	maxY := 0.0
	for _, p := range path {
		maxY = math.Max(maxY, math.Abs(p.Y))
	}
	if math.Abs(maxY-0.5) > 0.01 {
		t.Errorf("expected amplitude ~0.5, got %f", maxY)
	}
	checkSpacing(t, path, 0.05)
}

func TestWaypoints(t *testing.T) {
	s := Scenario{Kind: KindWaypoints, Spacing: 0.5, Waypoints: []mppi.Point{{}, {X: 1}, {X: 1, Y: 1}}}
	path, err := s.Path()
	if err != nil {
		t.Fatal(err)
	}

	expected := mppi.Path{{}, {X: 0.5}, {X: 1}, {X: 1, Y: 0.5}, {X: 1, Y: 1}}
	if len(path) != len(expected) {
		t.Fatalf("expected %d points, got %d: %v", len(expected), len(path), path)
	}
	for i := range expected {
		if math.Abs(path[i].X-expected[i].X) > 1e-9 || math.Abs(path[i].Y-expected[i].Y) > 1e-9 {
			t.Errorf("point %d: expected %+v, got %+v", i, expected[i], path[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		s    Scenario
	}{
		{"unknown kind", Scenario{Kind: "spiral", Spacing: 0.1}},
		{"zero spacing", Scenario{Kind: KindStraight, Length: 1}},
		{"zero length", Scenario{Kind: KindStraight, Spacing: 0.1}},
		{"flat arc", Scenario{Kind: KindArc, Radius: 1, Spacing: 0.1}},
		{"single waypoint", Scenario{Kind: KindWaypoints, Spacing: 0.1, Waypoints: []mppi.Point{{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.s.Path(); !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("expected ErrInvalidScenario, got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arc.yaml")
	content := "name: corner\nkind: arc\nradius: 1.5\nsweep: 1.57\nstart:\n  yaw: 0.1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "corner" || s.Radius != 1.5 || s.Start.Yaw != 0.1 {
		t.Errorf("unexpected scenario %+v", s)
	}
	if s.Spacing != DefaultSpacing {
		t.Errorf("expected default spacing, got %f", s.Spacing)
	}
}
