package critics

import (
	"testing"

	"github.com/san-kum/mppic/internal/mppi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	m, err := NewManager(DefaultConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{NameGoal, NamePathAngle, NamePathFollow, NamePreferForward}, m.Names())
}

func TestNewManager_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		target error
	}{
		{"unknown critic", func(c *Config) { c.Critics = []string{"obstacles"} }, ErrUnknownCritic},
		{"duplicate critic", func(c *Config) { c.Critics = []string{NameGoal, NameGoal} }, mppi.ErrInvalidConfig},
		{"zero power", func(c *Config) { c.Goal.Power = 0 }, mppi.ErrInvalidConfig},
		{"negative weight", func(c *Config) { c.PathFollow.Weight = -1 }, mppi.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			_, err := NewManager(cfg, nil)
			assert.ErrorIs(t, err, tt.target)
			assert.ErrorIs(t, err, mppi.ErrInvalidConfig)
		})
	}
}

func TestManager_Additive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Critics = []string{NamePathFollow}

	m, err := NewManager(cfg, nil)
	require.NoError(t, err)

	samples := [][]mppi.Pose{
		{{X: 0.1, Y: 0.1}, {X: 0.2, Y: 0.3}},
		{{X: -0.1}, {X: -0.1, Y: -0.2}},
	}
	viaManager := newData(straightPath(51, 0.1), mppi.Pose{}, samples...)
	m.Score(viaManager)

	alone := newData(straightPath(51, 0.1), mppi.Pose{}, samples...)
	NewPathFollow(cfg.PathFollow).Score(alone)

	assert.Equal(t, alone.Costs, viaManager.Costs)

	seeded := newData(straightPath(51, 0.1), mppi.Pose{}, samples...)
	seeded.Costs[0], seeded.Costs[1] = 1, 2
	m.Score(seeded)
	assert.InDelta(t, alone.Costs[0]+1, seeded.Costs[0], 1e-12)
	assert.InDelta(t, alone.Costs[1]+2, seeded.Costs[1], 1e-12)
}

type stubCritic struct {
	name  string
	fail  bool
	calls int
}

func (s *stubCritic) Name() string { return s.name }
func (s *stubCritic) Score(data *mppi.CriticData) {
	s.calls++
	data.FailFlag = s.fail
}

func TestManager_FailFlagStopsPipeline(t *testing.T) {
	failing := &stubCritic{name: "failing", fail: true}
	after := &stubCritic{name: "after"}

	m := NewManagerOf(nil, failing, after)
	data := newData(straightPath(3, 1), mppi.Pose{}, []mppi.Pose{{}})
	m.Score(data)

	assert.True(t, data.FailFlag)
	assert.Equal(t, 1, failing.calls)
	assert.Zero(t, after.calls)
}

func TestRegister(t *testing.T) {
	stub := &stubCritic{name: "stub"}
	Register("stub", func(Config) mppi.Critic { return stub })
	t.Cleanup(func() { delete(factories, "stub") })

	cfg := DefaultConfig()
	cfg.Critics = []string{NamePathFollow, "stub"}
	m, err := NewManager(cfg, nil)
	require.NoError(t, err)
	assert.Contains(t, Available(), "stub")

	m.Score(newData(straightPath(3, 1), mppi.Pose{}, []mppi.Pose{{}}))
	assert.Equal(t, 1, stub.calls)
}
