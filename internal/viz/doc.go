// Package viz provides terminal visualization of running scenes.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one scene, drawn top-down or in perspective
//   - [Menu]: scenario picker that opens a live view
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [Camera]: projection from world space onto a canvas
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	</>   - Halve or double ticks per frame
package viz
