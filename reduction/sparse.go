package reduction

import (
	"github.com/akmonengine/feather/constraint"
	"github.com/akmonengine/feather/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// bvhExpansionCoefficient scales the query AABB's maximum extent to get the
// per-axis padding added around a contact before querying the mesh BVH for
// neighbor triangles.
const bvhExpansionCoefficient = 1e-4

// reduceSparse is the BVH-query path: for each source manifold, it queries
// the mesh BVH around the transformed contact to obtain a short neighbor
// list, materializing previously-unseen triangles on demand, instead of
// scanning every triangle against every other one. Deduplicating neighbors
// by mesh index (via the table) avoids recomputing a TestTriangle for a
// triangle shared by several sources' neighbor lists.
func reduceSparse(triangles []mesh.Triangle, children []constraint.NonconvexReductionChild, start, count int, flip bool, queryMin, queryMax mgl64.Vec3, invRotation, meshRotation mgl64.Mat3, collider mesh.Collider, s *scratch) {
	initialCapacity := 2 * count
	s.table.reserve(initialCapacity)
	if cap(s.neighbors) < initialCapacity {
		s.neighbors = make([]int, 0, initialCapacity)
	}

	for i := 0; i < count; i++ {
		s.table.insert(children[start+i].ChildIndexB, buildTestTriangle(triangles[start+i], i))
	}

	span := queryMax.Sub(queryMin)
	maxSpan := span.X()
	if span.Y() > maxSpan {
		maxSpan = span.Y()
	}
	if span.Z() > maxSpan {
		maxSpan = span.Z()
	}
	expansion := maxSpan * bvhExpansionCoefficient
	expansionVec := mgl64.Vec3{expansion, expansion, expansion}

	bvhTree := collider.BVH()

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

		s.neighbors = s.neighbors[:0]
		queryBounds := mesh.Bounds{Min: p.Sub(expansionVec), Max: p.Add(expansionVec)}
		bvhTree.GetOverlaps(queryBounds, func(triangleIndex int) bool {
			s.neighbors = append(s.neighbors, triangleIndex)
			return true
		})

		// Reserve before any of this batch's insertions so pointers taken
		// below (including the source's own slot) stay valid.
		s.table.reserve(s.table.len() + len(s.neighbors))

		for _, k := range s.neighbors {
			neighbor := s.table.getOrNil(k)
			if neighbor == nil {
				var tri mesh.Triangle
				if !collider.GetLocalChild(k, &tri) {
					continue
				}
				neighbor = s.table.insert(k, buildTestTriangle(tri, -1))
			}

			if shouldBlockNormal(neighbor, p, m) {
				source := s.table.at(i)
				source.Blocked = true
				source.CorrectedNormal = neighbor.faceNormal()
				neighbor.ForceDeletionOnBlock = false
				break
			}
		}
	}

	for i := 0; i < count; i++ {
		tryApplyBlockToTriangle(s.table.at(i), &children[start+i].Manifold, flip, meshRotation)
	}
}
