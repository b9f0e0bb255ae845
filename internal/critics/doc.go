// Package critics implements the MPPI cost terms and the pipeline that runs them.
//
//   - [PathFollow]: distance from trajectory ends to a path point ahead of the furthest reached one
//   - [PreferForward]: reversing motion
//   - [PathAngle]: heading error towards the path when the robot points away from it
//   - [Goal]: distance to the last path point once the robot is near it
//   - [Manager]: ordered pipeline implementing mppi.Scorer, built by name from [Config]
//
// Every critic adds cost_weight * raw^cost_power per sample and never overwrites costs
// written by the critics before it.
package critics
