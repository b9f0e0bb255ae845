// Package control adapts controllers to the closed-loop harness.
//
//   - [MPPI]: drives the unicycle plant with an MPPI optimizer along a reference path
//   - [None]: zero control
//
// # Usage
//
//	ctrl := control.NewMPPI(opt, path, logger)
//	s := sim.New(models.NewUnicycle(), integrators.NewRK4(), ctrl)
//	// Controller.Compute is called each tick
package control
