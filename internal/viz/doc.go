// Package viz hosts the mesh in a terminal.
//
// A [Surface] implements render.Surface over a braille [Canvas]: one cell
// covers an 8×16 block of viewport pixels and holds 2×4 dots. Triangle
// fills tint cell backgrounds, edges are drawn as dots in the stroke
// colour, and the cursor glow is blended per cell.
//
// [Model] is the Bubble Tea program that ticks the renderer and forwards
// mouse motion and window size changes to it.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	T     - Cycle palette themes
//	R     - Regenerate points
//	G     - Toggle GIF recording
//	S     - Frame time graph
//	?     - Show help overlay
//
// # Recording
//
// Recordings are written to the path in [Options].GIFPath, driftmesh.gif in
// the current directory by default.
package viz
