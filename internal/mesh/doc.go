// Package mesh holds the simulated point cloud behind the animated
// background: drifting points, the boundary anchors that keep the
// triangulation covering the whole viewport, the pointer state, and the
// simulation clock.
//
//   - [Point]: a particle with a fixed origin it drifts around
//   - [Pointer]: last known pointer position and velocity
//   - [Field]: the owned state advanced once per frame by [Field.Step]
//
// Positions are never accumulated: every step recomputes each point from
// its origin and the clock via [Drift], then adds the pointer
// [Influence]. Motion is periodic when the pointer is away.
//
// # Thread Safety
//
// Field is NOT safe for concurrent use. A single goroutine owns it; input
// sources reach it through the render package's event queue.
package mesh
