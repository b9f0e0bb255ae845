package mppi

// ControlSequence is the mean control trajectory over the horizon.
type ControlSequence struct {
	V []float64
	W []float64
}

func NewControlSequence(steps int) ControlSequence {
	return ControlSequence{
		V: make([]float64, steps),
		W: make([]float64, steps),
	}
}

func (c ControlSequence) Len() int { return len(c.V) }

func (c ControlSequence) At(t int) Twist {
	return Twist{V: c.V[t], W: c.W[t]}
}

func (c ControlSequence) Clone() ControlSequence {
	out := NewControlSequence(c.Len())
	copy(out.V, c.V)
	copy(out.W, c.W)
	return out
}

func (c *ControlSequence) Reset() {
	clear(c.V)
	clear(c.W)
}

// Shift advances the sequence by one step for the next control request.
func (c *ControlSequence) Shift(policy ShiftPolicy) {
	n := c.Len()
	if n == 0 || policy == ShiftNone {
		return
	}

	copy(c.V, c.V[1:])
	copy(c.W, c.W[1:])

	// After the copy the tail still holds the previous last step.
	if policy == ShiftZeroFill {
		c.V[n-1] = 0
		c.W[n-1] = 0
	}
}
