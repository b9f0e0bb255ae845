package critics

import (
	"errors"
	"fmt"
	"slices"

	"github.com/san-kum/mppic/internal/mppi"
	"go.uber.org/zap"
)

const (
	NamePathFollow    = "path_follow"
	NamePreferForward = "prefer_forward"
	NamePathAngle     = "path_angle"
	NameGoal          = "goal"
)

var ErrUnknownCritic = errors.New("critics: unknown critic")

// Factory builds a critic from the pipeline configuration.
type Factory func(cfg Config) mppi.Critic

var factories = map[string]Factory{
	NamePathFollow:    func(cfg Config) mppi.Critic { return NewPathFollow(cfg.PathFollow) },
	NamePreferForward: func(cfg Config) mppi.Critic { return NewPreferForward(cfg.PreferForward) },
	NamePathAngle:     func(cfg Config) mppi.Critic { return NewPathAngle(cfg.PathAngle) },
	NameGoal:          func(cfg Config) mppi.Critic { return NewGoal(cfg.Goal) },
}

// Register makes a critic available by name. It is not safe to call concurrently with
// NewManager.
func Register(name string, f Factory) {
	factories[name] = f
}

// Available lists the registered critic names.
func Available() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Manager runs the configured critics in order against one CriticData per cycle.
type Manager struct {
	critics []mppi.Critic
	logger  *zap.Logger
}

func NewManager(cfg Config, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", mppi.ErrInvalidConfig, err)
	}

	m := &Manager{logger: logger}
	seen := make(map[string]bool, len(cfg.Critics))
	for _, name := range cfg.Critics {
		f, ok := factories[name]
		if !ok {
			return nil, fmt.Errorf("%w: %w: %q", mppi.ErrInvalidConfig, ErrUnknownCritic, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: critic %q listed twice", mppi.ErrInvalidConfig, name)
		}
		seen[name] = true

		m.critics = append(m.critics, f(cfg))
		logger.Info("critic loaded", zap.String("critic", name))
	}
	return m, nil
}

// NewManagerOf builds a pipeline from already constructed critics.
func NewManagerOf(logger *zap.Logger, critics ...mppi.Critic) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{critics: critics, logger: logger}
}

func (m *Manager) Names() []string {
	names := make([]string, len(m.critics))
	for i, c := range m.critics {
		names[i] = c.Name()
	}
	return names
}

// Score runs every critic in order. A critic that raises the fail flag stops the
// pipeline for this cycle.
func (m *Manager) Score(data *mppi.CriticData) {
	for _, c := range m.critics {
		c.Score(data)
		if data.FailFlag {
			m.logger.Debug("critic flagged failure", zap.String("critic", c.Name()))
			return
		}
	}
}
