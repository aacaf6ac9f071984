// Package viz renders a running simulation in the terminal.
//
// [Model] is a Bubble Tea program around a [sim.Controller]: every tick
// runs one controller frame and redraws the world onto a braille [Canvas]
// through a [Viewport]. Bodies keep stable colours ([BodyColor]) across
// themes, trails from a discarded run can stay on screen as ghosts, and
// velocity, acceleration and force arrows can be overlaid.
//
// # Key Bindings
//
//	P/Space - Pause/Resume
//	Right   - Run a single frame
//	R       - Restart the current preset
//	+/-     - Next/previous preset
//	S       - Keep trails as ghosts on restart
//	C       - Clear trails
//	V/A/F   - Velocity, acceleration and force arrows
//	Up/Down - Speed ±10
//	]/[     - Accuracy ±100
//	N       - Spawn a body at the centre
//	T       - Cycle themes
//	G       - Toggle GIF recording
//	H       - Toggle instructions
//
// Shift+click spawns a body under the cursor; dragging from a body and
// releasing sets its velocity to the drag vector divided by 100.
package viz
