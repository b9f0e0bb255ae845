// Package automation runs scripted batches of closed-loop experiments.
//
//   - [Campaign]: YAML list of preset runs, stored one by one
//   - [RunSweep]: one tunable parameter varied over a range
package automation
