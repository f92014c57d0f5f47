// Package visual owns the mapping from stable entity keys to live scene
// handles. Raw scene nodes never leave this boundary: everything outside
// works against the Handle interface, so teardown ownership stays with the
// registry.
package visual

// Handle is an opaque reference to a positioned, drawable scene node.
//
// Handles are mutable references: the node's position can change between
// ticks, so coordinate reads must be snapshotted synchronously at the point
// of use. Every write in a read-then-act sequence must re-check Alive first,
// because the node may have been torn down between the read tick and the
// write tick.
type Handle interface {
	// Position returns the node's current global position.
	Position() (x, y float32)

	// Rotation returns the node's rotation in radians.
	Rotation() float32

	// MoveTo sets the node's global position.
	MoveTo(x, y float32)

	// SetRotation sets the node's rotation in radians.
	SetRotation(rad float32)

	// SetScale sets a uniform scale factor (1 = natural size).
	SetScale(factor float32)

	// SetOpacity sets the node's opacity in [0, 1].
	SetOpacity(alpha float32)

	// Alive reports whether the node is still mounted in the scene.
	Alive() bool
}
