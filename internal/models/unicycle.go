package models

import (
	"math"

	"github.com/san-kum/mppic/internal/mppi"
	"github.com/san-kum/mppic/internal/sim"
)

// Unicycle state layout.
const (
	StateX = iota
	StateY
	StateYaw
	StateV
	StateW
)

// Unicycle is a differential-drive plant whose wheel velocities follow the command
// through first-order actuator lag. Both time constants must be positive; a
// non-positive one freezes that velocity.
type Unicycle struct {
	TauV float64
	TauW float64
}

func NewUnicycle() *Unicycle {
	return &Unicycle{
		TauV: 0.1,
		TauW: 0.05,
	}
}

func (u *Unicycle) StateDim() int   { return 5 }
func (u *Unicycle) ControlDim() int { return 2 }

func (u *Unicycle) Derivative(x sim.State, c sim.Control, t float64) sim.State {
	yaw, v, w := x[StateYaw], x[StateV], x[StateW]

	vCmd, wCmd := v, w
	if len(c) >= 2 {
		vCmd, wCmd = c[0], c[1]
	}

	sin, cos := math.Sincos(yaw)
	return sim.State{
		v * cos,
		v * sin,
		w,
		lag(vCmd-v, u.TauV),
		lag(wCmd-w, u.TauW),
	}
}

func lag(err, tau float64) float64 {
	if tau <= 0 {
		return 0
	}
	return err / tau
}

// UnicycleState builds a plant state from a pose and velocity.
func UnicycleState(pose mppi.Pose, vel mppi.Twist) sim.State {
	return sim.State{pose.X, pose.Y, pose.Yaw, vel.V, vel.W}
}

// SplitState extracts the pose and velocity of a plant state.
func SplitState(x sim.State) (mppi.Pose, mppi.Twist) {
	return mppi.Pose{X: x[StateX], Y: x[StateY], Yaw: x[StateYaw]},
		mppi.Twist{V: x[StateV], W: x[StateW]}
}
