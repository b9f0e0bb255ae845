// Package viz renders closed-loop runs in the terminal and as SVG.
//
//   - [Model]: Bubble Tea live view stepping one closed loop per tick
//   - [Canvas]: Braille-based pixel canvas with a world [Viewport]
//   - [PlotSeries], [PlotVelocities]: asciigraph charts of a run
//   - [RunToSVG]: path, trail and sampled trajectories as SVG
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset plant and optimizer
//	S     - Toggle sampled trajectories
//	+/-   - Raise/lower the speed limit in 10% steps
package viz
