package reduction

import (
	"math"

	"github.com/akmonengine/feather/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// distanceThresholdCoefficient and vertexASquaredCoefficient implement the
// scale-aware epsilon: 1e-3 * sqrt(max(|A|^2*1e-4, |B-A|^2, |A-C|^2)). Very
// large or very distant triangles get a proportionally larger threshold
// instead of being punished by a fixed epsilon.
const (
	distanceThresholdCoefficient = 1e-3
	vertexASquaredCoefficient    = 1e-4
)

// testTriangle is the four-lane precomputation the infringement predicate
// runs against. Lane 0 holds the triangle's face plane; lanes 1-3 hold its
// three outward edge planes (AB, BC, CA). All four lanes are stored as
// struct-of-arrays so a SIMD-capable build could load them as 4-wide
// vectors; here they are walked as plain scalars (see predicate.go).
type testTriangle struct {
	anchorX, anchorY, anchorZ [4]float64
	normalX, normalY, normalZ [4]float64

	DistanceThreshold float64

	// ChildIndex is this triangle's position in the source list, or -1 if
	// it was only ever materialized as a neighbor/blocker candidate.
	ChildIndex int

	// Blocked is set once this triangle's own manifold has been found to
	// infringe some other triangle's face.
	Blocked bool

	// ForceDeletionOnBlock starts true and flips to false the moment this
	// triangle is the first one found to block some source's contact
	// (possibly its own); a triangle that blocks nothing keeps it true.
	ForceDeletionOnBlock bool

	// CorrectedNormal is the face normal of the first triangle found to
	// infringe this source, valid only when Blocked is true.
	CorrectedNormal mgl64.Vec3
}

// faceNormal returns lane 0 (the triangle's face plane normal).
func (t *testTriangle) faceNormal() mgl64.Vec3 {
	return mgl64.Vec3{t.normalX[0], t.normalY[0], t.normalZ[0]}
}

// buildTestTriangle precomputes tri's face/edge planes and its scale-aware
// distance threshold. childIndex identifies tri as source childIndex, or -1
// if tri is only a neighbor candidate materialized by the sparse path.
func buildTestTriangle(tri mesh.Triangle, childIndex int) testTriangle {
	a, b, c := tri.A, tri.B, tri.C

	ab := b.Sub(a)
	bc := c.Sub(b)
	ca := a.Sub(c)

	faceNormal := ab.Cross(ca)

	anchors := [4]mgl64.Vec3{a, a, b, c}
	normals := [4]mgl64.Vec3{
		faceNormal,
		faceNormal.Cross(ab),
		faceNormal.Cross(bc),
		faceNormal.Cross(ca),
	}

	t := testTriangle{
		ChildIndex:           childIndex,
		ForceDeletionOnBlock: true,
	}

	for lane := 0; lane < 4; lane++ {
		n := normals[lane]
		if length := math.Sqrt(n.Dot(n)); length > 0 {
			n = n.Mul(1.0 / length)
		}

		t.anchorX[lane], t.anchorY[lane], t.anchorZ[lane] = anchors[lane].X(), anchors[lane].Y(), anchors[lane].Z()
		t.normalX[lane], t.normalY[lane], t.normalZ[lane] = n.X(), n.Y(), n.Z()
	}

	maxTerm := math.Max(a.Dot(a)*vertexASquaredCoefficient, math.Max(ab.Dot(ab), ca.Dot(ca)))
	t.DistanceThreshold = distanceThresholdCoefficient * math.Sqrt(maxTerm)

	return t
}
