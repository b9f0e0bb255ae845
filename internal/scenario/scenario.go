package scenario

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/mppic/internal/mppi"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScenario = errors.New("scenario: invalid scenario")

// Path kinds.
const (
	KindStraight  = "straight"
	KindArc       = "arc"
	KindSine      = "sine"
	KindWaypoints = "waypoints"
)

const DefaultSpacing = 0.05

// Scenario describes a reference path and where the robot starts.
type Scenario struct {
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Kind        string       `yaml:"kind" json:"kind"`
	Length      float64      `yaml:"length,omitempty" json:"length,omitempty"`
	Radius      float64      `yaml:"radius,omitempty" json:"radius,omitempty"`
	Sweep       float64      `yaml:"sweep,omitempty" json:"sweep,omitempty"`
	Amplitude   float64      `yaml:"amplitude,omitempty" json:"amplitude,omitempty"`
	Wavelength  float64      `yaml:"wavelength,omitempty" json:"wavelength,omitempty"`
	Waypoints   []mppi.Point `yaml:"waypoints,omitempty" json:"waypoints,omitempty"`
	Spacing     float64      `yaml:"spacing" json:"spacing"`
	Start       mppi.Pose    `yaml:"start" json:"start"`
	StartTwist  mppi.Twist   `yaml:"start_velocity" json:"start_velocity"`
}

func Default() Scenario {
	return Scenario{
		Name:    "straight",
		Kind:    KindStraight,
		Length:  5.0,
		Spacing: DefaultSpacing,
	}
}

// Load reads a scenario from a YAML file. Missing fields keep their defaults.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}

	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return s, nil
}

func (s Scenario) Validate() error {
	if s.Spacing <= 0 {
		return fmt.Errorf("%w: spacing must be positive, got %f", ErrInvalidScenario, s.Spacing)
	}

	switch s.Kind {
	case KindStraight:
		if s.Length <= 0 {
			return fmt.Errorf("%w: straight path needs a positive length", ErrInvalidScenario)
		}
	case KindArc:
		if s.Radius <= 0 || s.Sweep == 0 {
			return fmt.Errorf("%w: arc needs a positive radius and a non-zero sweep", ErrInvalidScenario)
		}
	case KindSine:
		if s.Length <= 0 || s.Wavelength <= 0 {
			return fmt.Errorf("%w: sine path needs a positive length and wavelength", ErrInvalidScenario)
		}
	case KindWaypoints:
		if len(s.Waypoints) < 2 {
			return fmt.Errorf("%w: waypoints need at least two points, got %d", ErrInvalidScenario, len(s.Waypoints))
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidScenario, s.Kind)
	}
	return nil
}

// Path samples the reference path at the configured spacing.
func (s Scenario) Path() (mppi.Path, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	switch s.Kind {
	case KindStraight:
		return resample(mppi.Path{{}, {X: s.Length}}, s.Spacing), nil
	case KindArc:
		return s.arc(), nil
	case KindSine:
		return s.sine(), nil
	default:
		return resample(s.Waypoints, s.Spacing), nil
	}
}

// arc turns left for a positive sweep and right for a negative one, starting at the
// origin heading +x.
func (s Scenario) arc() mppi.Path {
	sign := math.Copysign(1, s.Sweep)
	n := int(math.Ceil(math.Abs(s.Sweep) * s.Radius / s.Spacing))
	path := make(mppi.Path, n+1)
	for i := range path {
		theta := math.Abs(s.Sweep) * float64(i) / float64(n)
		sin, cos := math.Sincos(theta)
		path[i] = mppi.Point{X: s.Radius * sin, Y: sign * s.Radius * (1 - cos)}
	}
	return path
}

func (s Scenario) sine() mppi.Path {
	k := 2 * math.Pi / s.Wavelength
	n := int(math.Ceil(s.Length / s.Spacing))
	dense := make(mppi.Path, n+1)
	for i := range dense {
		x := s.Length * float64(i) / float64(n)
		dense[i] = mppi.Point{X: x, Y: s.Amplitude * math.Sin(k*x)}
	}
	return resample(dense, s.Spacing)
}

// resample walks the polyline and emits a point every spacing meters of arc length. The
// first and last vertices are always kept.
func resample(poly mppi.Path, spacing float64) mppi.Path {
	out := mppi.Path{poly[0]}
	next, travelled := spacing, 0.0
	for i := 1; i < len(poly); i++ {
		a, b := poly[i-1], poly[i]
		seg := math.Hypot(b.X-a.X, b.Y-a.Y)
		for next <= travelled+seg {
			f := (next - travelled) / seg
			out = append(out, mppi.Point{X: a.X + f*(b.X-a.X), Y: a.Y + f*(b.Y-a.Y)})
			next += spacing
		}
		travelled += seg
	}

	last, tail := poly[len(poly)-1], out[len(out)-1]
	if math.Hypot(last.X-tail.X, last.Y-tail.Y) > spacing*1e-6 {
		out = append(out, last)
	}
	return out
}
