// Package models provides the motion models used inside MPPI rollouts and the unicycle
// plant driven by the closed-loop harness.
//
//   - [Naive], [AccelLimited], [FirstOrder]: rollout models, built by name with [New]
//   - [Unicycle]: differential-drive plant implementing sim.Dynamics
package models
