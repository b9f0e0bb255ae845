// Package tune searches optimizer temperature and critic weights offline.
//
//   - [Tuner.Grid]: exhaustive search over per-parameter value lists
//   - [Tuner.Mayfly]: mayfly swarm search inside per-parameter bounds
//   - [TrackingObjective]: closed-loop tracking cost of a candidate config
package tune
