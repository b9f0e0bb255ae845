// Package mppi implements the Model-Predictive Path-Integral control core.
//
// Each call to [Optimizer.EvalControl] runs one or more sampling cycles:
//
//   - [Batch]: Gaussian perturbations of the mean [ControlSequence], clamped to the
//     velocity limits and propagated through an injected [MotionModel]
//   - [Trajectories]: Euler-integrated poses of every sample
//   - [Scorer]: the critic pipeline accumulating per-sample costs into [CriticData]
//   - softmax update: cost-weighted average of the sampled controls
//
// The first element of the updated sequence is returned as a [Command]. Between calls the
// sequence is shifted one step according to the configured [ShiftPolicy].
//
// # Example
//
//	scorer, _ := critics.NewManager(critics.DefaultConfig(), logger)
//	opt, _ := mppi.New(mppi.DefaultSettings(), models.Naive(), scorer)
//	cmd, err := opt.EvalControl(ctx, pose, velocity, path)
//
// # Thread Safety
//
// An Optimizer is NOT safe for concurrent use. Sample rollouts inside a cycle are
// parallelised internally when Settings.Workers is greater than one.
package mppi
