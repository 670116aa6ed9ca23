// Package viz is the terminal view of a running simulation, built on Bubble
// Tea.
//
//   - [Model]: live view of a sim.World with regions, trails and particles
//   - [Canvas]: Braille-based pixel canvas with per-cell colour
//   - [Viewport]: world to canvas mapping with zoom and pan
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space  - Play/Pause
//	.      - Single tick while paused
//	R      - Reset to the initial snapshot
//	G      - Toggle gravity
//	+/-    - Zoom
//	Arrows - Pan
//	F      - Fit scene to view
//	T      - Cycle color themes
//	V      - Toggle GIF recording
//	?      - Show help overlay
package viz
