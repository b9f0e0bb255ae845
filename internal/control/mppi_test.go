package control

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/mppic/internal/mppi"
	"github.com/san-kum/mppic/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOptimizer struct {
	cmds  []mppi.Command
	errs  []error
	poses []mppi.Pose
}

func (f *fakeOptimizer) EvalControl(ctx context.Context, pose mppi.Pose, velocity mppi.Twist, path mppi.Path) (mppi.Command, error) {
	i := len(f.poses)
	f.poses = append(f.poses, pose)
	return f.cmds[i], f.errs[i]
}

type recordingSink struct {
	sent []mppi.Command
}

func (r *recordingSink) Send(ctx context.Context, cmd mppi.Command) error {
	r.sent = append(r.sent, cmd)
	return nil
}

func TestMPPI_Compute(t *testing.T) {
	opt := &fakeOptimizer{
		cmds: []mppi.Command{{V: 0.3, W: 0.1}, {}, {}},
		errs: []error{nil, mppi.ErrInvalidPath, mppi.ErrOptimizerFailed},
	}
	sink := &recordingSink{}
	c := NewMPPI(opt, mppi.Path{{}, {X: 1}}, nil)
	c.SetSink(sink)

	u, err := c.Compute(context.Background(), sim.State{1, 2, 0.5, 0.1, 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, sim.Control{0.3, 0.1}, u)
	assert.Equal(t, mppi.Pose{X: 1, Y: 2, Yaw: 0.5}, opt.poses[0])

	u, err = c.Compute(context.Background(), sim.State{1, 2, 0.5, 0.1, 0}, 0.1)
	require.NoError(t, err)
	assert.Equal(t, sim.Control{0.3, 0.1}, u, "expected last good command to be held")

	_, err = c.Compute(context.Background(), sim.State{1, 2, 0.5, 0.1, 0}, 0.2)
	assert.True(t, errors.Is(err, mppi.ErrOptimizerFailed))
	assert.Len(t, sink.sent, 2)
}

func TestNone(t *testing.T) {
	u, err := NewNone(2).Compute(context.Background(), sim.State{1, 2, 3, 4, 5}, 0)
	require.NoError(t, err)
	assert.Equal(t, sim.Control{0, 0}, u)
}
