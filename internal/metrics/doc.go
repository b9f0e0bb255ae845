// Package metrics scores closed-loop runs.
//
//   - [TrackingError]: mean distance to the reference path
//   - [ControlEffort]: mean |v| + |w| of the commands
//   - [Progress]: fraction of the path length reached
package metrics
