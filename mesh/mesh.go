// Package mesh defines the abstract mesh collaborator interface consumed by
// the reduction kernel: a triangle accessor and a bounding-volume query,
// kept separate from any concrete mesh representation so a future
// non-triangle-array mesh can be added without touching the kernel.
package mesh

import "github.com/go-gl/mathgl/mgl64"

// Triangle is a mesh-local triangle, three vertex positions in the mesh's
// own coordinate frame, prior to world-space placement.
type Triangle struct {
	A, B, C mgl64.Vec3
}

// Bounds is an axis-aligned box in mesh-local space.
type Bounds struct {
	Min, Max mgl64.Vec3
}

// Visitor is called once per overlapping triangle index during a BVH
// query. It returns true to continue the traversal, false to stop early.
type Visitor func(triangleIndex int) bool

// BVH answers "which triangle indices have an AABB overlapping this box"
// queries over a mesh's triangle set.
type BVH interface {
	GetOverlaps(bounds Bounds, visit Visitor)
}

// Collider is the mesh handle the reduction kernel is given. GetLocalChild
// returns false if index is out of range; implementations may apply
// scaling or indirection, so callers must never read triangle storage
// directly.
type Collider interface {
	GetLocalChild(index int, out *Triangle) bool
	BVH() BVH
}
