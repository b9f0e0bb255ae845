// Package scenario describes reference paths for closed-loop runs in YAML.
//
// A [Scenario] names a path kind (straight, arc, sine or waypoints), its geometry, the
// sampling spacing and the robot start state. [Scenario.Path] samples it.
package scenario
