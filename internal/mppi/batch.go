package mppi

import (
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
)

// Batch holds the sampled controls and realized velocities of one cycle. Rows index
// samples, columns index horizon steps.
type Batch struct {
	CV, CW *mat.Dense
	V, W   *mat.Dense
}

func NewBatch(batchSize, timeSteps int) *Batch {
	return &Batch{
		CV: mat.NewDense(batchSize, timeSteps, nil),
		CW: mat.NewDense(batchSize, timeSteps, nil),
		V:  mat.NewDense(batchSize, timeSteps, nil),
		W:  mat.NewDense(batchSize, timeSteps, nil),
	}
}

func (b *Batch) Dims() (batchSize, timeSteps int) {
	return b.CV.Dims()
}

func (b *Batch) Reset() {
	b.CV.Zero()
	b.CW.Zero()
	b.V.Zero()
	b.W.Zero()
}

// Velocity returns the realized velocity of sample i at horizon step t.
func (b *Batch) Velocity(i, t int) Twist {
	return Twist{V: b.V.At(i, t), W: b.W.At(i, t)}
}

// Control returns the sampled control of sample i at horizon step t.
func (b *Batch) Control(i, t int) Twist {
	return Twist{V: b.CV.At(i, t), W: b.CW.At(i, t)}
}

// clamp saturates the sampled controls of samples [start, end).
func (b *Batch) clamp(start, end int, vLimit, wLimit float64) {
	for i := start; i < end; i++ {
		cv, cw := b.CV.RawRowView(i), b.CW.RawRowView(i)
		for t := range cv {
			cv[t] = lo.Clamp(cv[t], -vLimit, vLimit)
			cw[t] = lo.Clamp(cw[t], -wLimit, wLimit)
		}
	}
}

// propagate fills the realized velocities of samples [start, end) from the shared
// initial velocity.
func (b *Batch) propagate(start, end int, initial Twist, model MotionModel) {
	for i := start; i < end; i++ {
		propagateSample(b.V.RawRowView(i), b.W.RawRowView(i), b.CV.RawRowView(i), b.CW.RawRowView(i), initial, model)
	}
}

func propagateSample(v, w, cv, cw []float64, initial Twist, model MotionModel) {
	v[0], w[0] = initial.V, initial.W
	for t := 0; t+1 < len(v); t++ {
		next := model(Twist{V: v[t], W: w[t]}, Twist{V: cv[t], W: cw[t]})
		v[t+1], w[t+1] = next.V, next.W
	}
}

// Trajectories holds the integrated poses of every sample.
type Trajectories struct {
	X, Y, Yaw *mat.Dense
}

func NewTrajectories(batchSize, timeSteps int) *Trajectories {
	return &Trajectories{
		X:   mat.NewDense(batchSize, timeSteps, nil),
		Y:   mat.NewDense(batchSize, timeSteps, nil),
		Yaw: mat.NewDense(batchSize, timeSteps, nil),
	}
}

func (tr *Trajectories) Dims() (batchSize, timeSteps int) {
	return tr.X.Dims()
}

func (tr *Trajectories) At(i, t int) Pose {
	return Pose{X: tr.X.At(i, t), Y: tr.Y.At(i, t), Yaw: tr.Yaw.At(i, t)}
}

// Final returns the last pose of sample i.
func (tr *Trajectories) Final(i int) Pose {
	_, steps := tr.Dims()
	return tr.At(i, steps-1)
}

// Sample returns the poses of sample i.
func (tr *Trajectories) Sample(i int) []Pose {
	_, steps := tr.Dims()
	out := make([]Pose, steps)
	for t := range out {
		out[t] = tr.At(i, t)
	}
	return out
}

func (tr *Trajectories) Clone() *Trajectories {
	return &Trajectories{
		X:   mat.DenseCopyOf(tr.X),
		Y:   mat.DenseCopyOf(tr.Y),
		Yaw: mat.DenseCopyOf(tr.Yaw),
	}
}

func (tr *Trajectories) Reset() {
	tr.X.Zero()
	tr.Y.Zero()
	tr.Yaw.Zero()
}

// integrate forward-integrates the realized velocities of samples [start, end).
func (tr *Trajectories) integrate(b *Batch, start, end int, pose Pose, dt float64) {
	for i := start; i < end; i++ {
		integrateSample(tr.X.RawRowView(i), tr.Y.RawRowView(i), tr.Yaw.RawRowView(i), b.V.RawRowView(i), b.W.RawRowView(i), pose, dt)
	}
}

// integrateSample applies each step's velocity with the heading held before that step.
func integrateSample(xs, ys, yaws, v, w []float64, pose Pose, dt float64) {
	x, y, yaw := pose.X, pose.Y, pose.Yaw
	for t := range v {
		sin, cos := math.Sincos(yaw)
		x += v[t] * cos * dt
		y += v[t] * sin * dt
		yaw += w[t] * dt
		xs[t], ys[t], yaws[t] = x, y, yaw
	}
}
