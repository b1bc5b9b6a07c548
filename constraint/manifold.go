package constraint

import "github.com/go-gl/mathgl/mgl64"

const (
	// FaceCollisionFlag is bit 15 of a Contact's FeatureID. When set, the
	// contact was generated against the interior of a triangle face
	// rather than an edge or vertex.
	FaceCollisionFlag uint32 = 1 << 15

	// MinimumDotForFaceCollision is the per-triangle narrow-phase test's
	// threshold for classifying a contact as a face collision (the
	// contact normal must agree with the face normal to within this
	// cosine). Consumed upstream of the reduction kernel; kept here for
	// completeness since it shares the feature-id convention.
	MinimumDotForFaceCollision = 0.999999

	// maxManifoldContacts bounds a ConvexContactManifold the same way
	// ManifoldBuilder bounds EPA's output (see epa/manifold.go).
	maxManifoldContacts = 4
)

// Contact is a single contact point within a ConvexContactManifold: an
// offset (contact position relative to the convex shape), a signed
// penetration depth, and a feature id whose high bit is FaceCollisionFlag.
type Contact struct {
	Offset    mgl64.Vec3
	Depth     float64
	FeatureID uint32
}

// HasFaceCollisionFlag reports whether this contact was generated against
// a triangle's interior face rather than one of its edges.
func (c Contact) HasFaceCollisionFlag() bool {
	return c.FeatureID&FaceCollisionFlag != 0
}

// ClearFaceCollisionFlag clears bit 15 of FeatureID, preserving the rest.
func (c *Contact) ClearFaceCollisionFlag() {
	c.FeatureID &^= FaceCollisionFlag
}

// ConvexContactManifold is the manifold shape the reduction kernel
// consumes: up to four contacts sharing one normal, plus the OffsetB used
// only when the manifold was produced with the mesh in the "B" slot.
type ConvexContactManifold struct {
	Contacts [maxManifoldContacts]Contact
	Count    int
	Normal   mgl64.Vec3
	OffsetB  mgl64.Vec3
}

// DeepestContact returns the index of the contact with the greatest Depth,
// breaking ties toward the lowest index. Count must be > 0.
func (m *ConvexContactManifold) DeepestContact() int {
	deepest := 0
	for i := 1; i < m.Count; i++ {
		if m.Contacts[i].Depth > m.Contacts[deepest].Depth {
			deepest = i
		}
	}
	return deepest
}

// Delete empties the manifold. Normal, OffsetB, and the contact slots
// themselves are left as-is; only Count is reset, matching spec's
// "count reset to 0 on deletion" lifecycle rule.
func (m *ConvexContactManifold) Delete() {
	m.Count = 0
}

// NonconvexReductionChild pairs a manifold with the index of the mesh
// triangle it was generated against.
type NonconvexReductionChild struct {
	Manifold    ConvexContactManifold
	ChildIndexB int
}
