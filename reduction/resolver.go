package reduction

import (
	"github.com/akmonengine/feather/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// tryApplyBlockToTriangle is the second pass: for a source TestTriangle
// that was found to infringe some other triangle, decide whether the
// manifold is safely deletable or must instead have its normal corrected.
func tryApplyBlockToTriangle(t *testTriangle, manifold *constraint.ConvexContactManifold, flip bool, meshRotation mgl64.Mat3) {
	if t.ChildIndex < 0 || !t.Blocked {
		return
	}

	if t.ForceDeletionOnBlock {
		// Infringed, and never itself used as a blocker: safe to delete.
		manifold.Delete()
		return
	}

	hasPositiveDepth := false
	for i := 0; i < manifold.Count; i++ {
		if manifold.Contacts[i].Depth > 0 {
			hasPositiveDepth = true
			break
		}
	}
	if !hasPositiveDepth {
		manifold.Delete()
		return
	}

	// Mutual infringement with real penetration: correct the normal rather
	// than deleting the contact outright. The sign flip mirrors the
	// transformer's flip handling in reverse.
	corrected := t.CorrectedNormal
	if !flip {
		corrected = corrected.Mul(-1)
	}
	manifold.Normal = meshRotation.Mul3x1(corrected)
}
