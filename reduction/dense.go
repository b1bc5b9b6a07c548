package reduction

import (
	"github.com/akmonengine/feather/constraint"
	"github.com/akmonengine/feather/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// reduceDense is the quadratic-scan path: every source manifold is tested
// against every source triangle, including itself; the sparse path's BVH
// neighbor list likewise includes the source's own triangle.
func reduceDense(triangles []mesh.Triangle, children []constraint.NonconvexReductionChild, start, count int, flip bool, invRotation, meshRotation mgl64.Mat3, s *scratch) {
	s.dense = ensureLen(s.dense, count)
	for i := 0; i < count; i++ {
		s.dense[i] = buildTestTriangle(triangles[start+i], i)
	}

	for i := 0; i < count; i++ {
		manifold := &children[start+i].Manifold
		if manifold.Count == 0 {
			continue
		}
		if manifold.Contacts[0].HasFaceCollisionFlag() {
			for c := 0; c < manifold.Count; c++ {
				manifold.Contacts[c].ClearFaceCollisionFlag()
			}
			continue
		}

		p, m := transformManifold(manifold, invRotation, flip)

		for j := 0; j < count; j++ {
			if shouldBlockNormal(&s.dense[j], p, m) {
				s.dense[i].Blocked = true
				s.dense[i].CorrectedNormal = s.dense[j].faceNormal()
				s.dense[j].ForceDeletionOnBlock = false
				break
			}
		}
	}

	for i := 0; i < count; i++ {
		tryApplyBlockToTriangle(&s.dense[i], &children[start+i].Manifold, flip, meshRotation)
	}
}

func ensureLen(s []testTriangle, n int) []testTriangle {
	if cap(s) < n {
		return make([]testTriangle, n)
	}
	return s[:n]
}
