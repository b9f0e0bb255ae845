package control

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/mppic/internal/models"
	"github.com/san-kum/mppic/internal/mppi"
	"github.com/san-kum/mppic/internal/sim"
	"go.uber.org/zap"
)

// Optimizer computes one velocity command per control tick.
type Optimizer interface {
	EvalControl(ctx context.Context, pose mppi.Pose, velocity mppi.Twist, path mppi.Path) (mppi.Command, error)
}

// CommandSink receives every command the controller emits, e.g. a CAN bus writer.
type CommandSink interface {
	Send(ctx context.Context, cmd mppi.Command) error
}

// MPPI feeds the unicycle state to an optimizer and returns its command as the plant
// input. When the path is rejected it keeps the last good command.
type MPPI struct {
	opt    Optimizer
	path   mppi.Path
	last   mppi.Command
	sink   CommandSink
	logger *zap.Logger
}

func NewMPPI(opt Optimizer, path mppi.Path, logger *zap.Logger) *MPPI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MPPI{opt: opt, path: path, logger: logger}
}

func (c *MPPI) SetPath(path mppi.Path)    { c.path = path }
func (c *MPPI) SetSink(sink CommandSink)  { c.sink = sink }
func (c *MPPI) LastCommand() mppi.Command { return c.last }

func (c *MPPI) Compute(ctx context.Context, x sim.State, t float64) (sim.Control, error) {
	pose, vel := models.SplitState(x)

	cmd, err := c.opt.EvalControl(ctx, pose, vel, c.path)
	switch {
	case errors.Is(err, mppi.ErrInvalidPath):
		c.logger.Warn("path rejected, holding last command", zap.Float64("t", t), zap.Error(err))
		cmd = c.last
	case err != nil:
		return nil, err
	default:
		c.last = cmd
	}

	if c.sink != nil {
		if err := c.sink.Send(ctx, cmd); err != nil {
			return nil, fmt.Errorf("send command: %w", err)
		}
	}
	return sim.Control{cmd.V, cmd.W}, nil
}
