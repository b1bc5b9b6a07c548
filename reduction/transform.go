package reduction

import (
	"github.com/akmonengine/feather/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// transformManifold picks manifold's deepest contact (first-occurrence
// tie-break, matching ConvexContactManifold.DeepestContact) and rotates its
// position and the manifold normal into mesh-local space, accounting for
// the flip flag. The deepest contact's normal is the most physically
// representative of the manifold, so the reduction to one (position,
// normal) pair per source is lossy by design.
func transformManifold(manifold *constraint.ConvexContactManifold, invRotation mgl64.Mat3, flip bool) (p, m mgl64.Vec3) {
	contact := manifold.Contacts[manifold.DeepestContact()]

	if flip {
		p = invRotation.Mul3x1(contact.Offset.Sub(manifold.OffsetB))
		m = invRotation.Mul3x1(manifold.Normal.Mul(-1))
		return p, m
	}

	p = invRotation.Mul3x1(contact.Offset)
	m = invRotation.Mul3x1(manifold.Normal)
	return p, m
}
