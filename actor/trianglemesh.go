package actor

import (
	"math"

	"github.com/akmonengine/feather/bvh"
	"github.com/akmonengine/feather/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// TriangleMesh is a static collision shape built from an indexed triangle
// list, backed by a bvh.Tree for fast neighbor queries. It is always
// infinite-mass, like Plane, since mesh colliders are never integrated.
type TriangleMesh struct {
	vertices  []mgl64.Vec3
	indices   [][3]int
	tree      *bvh.Tree
	localAABB AABB
	aabb      AABB
}

// NewTriangleMesh builds a mesh collider from a vertex list and
// triangle-vertex index triples, both in the mesh's local space.
func NewTriangleMesh(vertices []mgl64.Vec3, indices [][3]int) *TriangleMesh {
	m := &TriangleMesh{
		vertices: vertices,
		indices:  indices,
		tree:     bvh.NewTree(),
	}

	min, max := mgl64.Vec3{}, mgl64.Vec3{}
	for i, tri := range indices {
		a, b, c := vertices[tri[0]], vertices[tri[1]], vertices[tri[2]]
		triBounds := triangleBounds(a, b, c)
		m.tree.Insert(i, triBounds)

		if i == 0 {
			min, max = triBounds.Min, triBounds.Max
			continue
		}
		min = vecMin(min, triBounds.Min)
		max = vecMax(max, triBounds.Max)
	}
	m.localAABB = AABB{Min: min, Max: max}
	m.aabb = m.localAABB

	return m
}

func triangleBounds(a, b, c mgl64.Vec3) mesh.Bounds {
	min := vecMin(a, vecMin(b, c))
	max := vecMax(a, vecMax(b, c))
	return mesh.Bounds{Min: min, Max: max}
}

func vecMin(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a.X(), b.X()), math.Min(a.Y(), b.Y()), math.Min(a.Z(), b.Z())}
}

func vecMax(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a.X(), b.X()), math.Max(a.Y(), b.Y()), math.Max(a.Z(), b.Z())}
}

// TriangleCount returns the number of triangles in the mesh.
func (m *TriangleMesh) TriangleCount() int { return len(m.indices) }

// GetLocalChild implements mesh.Collider.
func (m *TriangleMesh) GetLocalChild(index int, out *mesh.Triangle) bool {
	if index < 0 || index >= len(m.indices) {
		return false
	}
	tri := m.indices[index]
	out.A = m.vertices[tri[0]]
	out.B = m.vertices[tri[1]]
	out.C = m.vertices[tri[2]]
	return true
}

// BVH implements mesh.Collider.
func (m *TriangleMesh) BVH() mesh.BVH { return m.tree }

// ComputeAABB rotates and translates the mesh's local bounds by transform,
// the same way Plane.ComputeAABB bakes transform.Position into its own
// bounds: the mesh is static, but the RigidBody that owns it may still be
// placed anywhere, and GetAABB must report a world-space box for
// world.go's broad-phase overlap tests.
func (m *TriangleMesh) ComputeAABB(transform Transform) {
	corners := [8]mgl64.Vec3{
		{m.localAABB.Min.X(), m.localAABB.Min.Y(), m.localAABB.Min.Z()},
		{m.localAABB.Max.X(), m.localAABB.Min.Y(), m.localAABB.Min.Z()},
		{m.localAABB.Min.X(), m.localAABB.Max.Y(), m.localAABB.Min.Z()},
		{m.localAABB.Max.X(), m.localAABB.Max.Y(), m.localAABB.Min.Z()},
		{m.localAABB.Min.X(), m.localAABB.Min.Y(), m.localAABB.Max.Z()},
		{m.localAABB.Max.X(), m.localAABB.Min.Y(), m.localAABB.Max.Z()},
		{m.localAABB.Min.X(), m.localAABB.Max.Y(), m.localAABB.Max.Z()},
		{m.localAABB.Max.X(), m.localAABB.Max.Y(), m.localAABB.Max.Z()},
	}

	world := transform.Rotation.Rotate(corners[0]).Add(transform.Position)
	min, max := world, world
	for _, corner := range corners[1:] {
		world = transform.Rotation.Rotate(corner).Add(transform.Position)
		min = vecMin(min, world)
		max = vecMax(max, world)
	}
	m.aabb = AABB{Min: min, Max: max}
}

func (m *TriangleMesh) GetAABB() AABB { return m.aabb }

func (m *TriangleMesh) ComputeMass(density float64) float64 { return math.Inf(1) }

func (m *TriangleMesh) ComputeInertia(mass float64) mgl64.Mat3 { return mgl64.Mat3{} }

// Support is a brute-force fallback used only by degenerate GJK/EPA paths
// that query the mesh as a whole rather than per triangle; narrow-phase
// mesh collision always goes through GetLocalChild/BVH instead.
func (m *TriangleMesh) Support(direction mgl64.Vec3) mgl64.Vec3 {
	best := m.vertices[0]
	bestDot := direction.Dot(best)
	for _, v := range m.vertices[1:] {
		if d := direction.Dot(v); d > bestDot {
			best, bestDot = v, d
		}
	}
	return best
}

func (m *TriangleMesh) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	return []mgl64.Vec3{m.Support(direction)}
}
