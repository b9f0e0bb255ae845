// Package experiment assembles closed-loop MPPI runs from a [config.Config].
//
//   - [Experiment]: validated config plus the scenario path
//   - [Loop]: one simulator with its own optimizer and controller
//   - [Summarize]: metric means over an ensemble
package experiment
