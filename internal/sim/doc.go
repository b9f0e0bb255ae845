// Package sim runs a controller in closed loop against a simulated plant.
//
//   - [Dynamics]: continuous-time plant dX/dt = f(X, u, t)
//   - [Integrator]: numerical stepper advancing the plant
//   - [Controller]: computes the plant input each tick
//   - [Metric]: observes every tick and reports one value
//   - [Simulator]: one closed-loop run
//   - [Ensemble]: many independent runs over consecutive seeds
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. [Ensemble] builds one simulator per run
// through its [Factory].
package sim
