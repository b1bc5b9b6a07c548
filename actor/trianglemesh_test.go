package actor

import (
	"math"
	"testing"

	"github.com/akmonengine/feather/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

func unitSquareMesh() *TriangleMesh {
	vertices := []mgl64.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 0, 1}, {1, 0, 1},
	}
	indices := [][3]int{
		{0, 1, 2},
		{1, 3, 2},
	}
	return NewTriangleMesh(vertices, indices)
}

func TestTriangleMesh_GetLocalChild(t *testing.T) {
	m := unitSquareMesh()

	var tri mesh.Triangle
	if !m.GetLocalChild(0, &tri) {
		t.Fatal("expected triangle 0 to exist")
	}
	if tri.A != (mgl64.Vec3{0, 0, 0}) || tri.B != (mgl64.Vec3{1, 0, 0}) || tri.C != (mgl64.Vec3{0, 0, 1}) {
		t.Errorf("unexpected triangle 0 vertices: %+v", tri)
	}
}

func TestTriangleMesh_GetLocalChildOutOfRange(t *testing.T) {
	m := unitSquareMesh()
	var tri mesh.Triangle

	if m.GetLocalChild(-1, &tri) {
		t.Error("expected negative index to fail")
	}
	if m.GetLocalChild(2, &tri) {
		t.Error("expected out-of-range index to fail")
	}
}

func TestTriangleMesh_TriangleCount(t *testing.T) {
	m := unitSquareMesh()
	if got := m.TriangleCount(); got != 2 {
		t.Errorf("expected 2 triangles, got %d", got)
	}
}

func TestTriangleMesh_AABBEnclosesAllTriangles(t *testing.T) {
	m := unitSquareMesh()
	aabb := m.GetAABB()

	if aabb.Min != (mgl64.Vec3{0, 0, 0}) || aabb.Max != (mgl64.Vec3{1, 0, 1}) {
		t.Errorf("expected AABB [0,0,0]-[1,0,1], got %+v", aabb)
	}
}

func TestTriangleMesh_BVHFindsOverlappingTriangles(t *testing.T) {
	m := unitSquareMesh()

	var found []int
	m.BVH().GetOverlaps(mesh.Bounds{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{2, 1, 2}}, func(index int) bool {
		found = append(found, index)
		return true
	})

	if len(found) != 2 {
		t.Fatalf("expected both triangles to overlap a bounding query, got %v", found)
	}
}

func TestTriangleMesh_IsInfiniteMass(t *testing.T) {
	m := unitSquareMesh()
	if mass := m.ComputeMass(1.0); !math.IsInf(mass, 1) {
		t.Errorf("expected infinite mass, got %f", mass)
	}
}

func TestTriangleMesh_ComputeAABBTranslatesWithTransform(t *testing.T) {
	m := unitSquareMesh()

	m.ComputeAABB(Transform{Position: mgl64.Vec3{5, 2, -3}, Rotation: mgl64.QuatIdent()})

	aabb := m.GetAABB()
	if aabb.Min != (mgl64.Vec3{5, 2, -3}) || aabb.Max != (mgl64.Vec3{6, 2, -2}) {
		t.Errorf("expected AABB translated by (5,2,-3), got %+v", aabb)
	}
}

func TestTriangleMesh_ComputeAABBRotatesWithTransform(t *testing.T) {
	m := unitSquareMesh()

	rotation := mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 1, 0})
	m.ComputeAABB(Transform{Position: mgl64.Vec3{5, 2, -3}, Rotation: rotation})

	aabb := m.GetAABB()
	if !aabb.Min.ApproxEqual(mgl64.Vec3{4, 2, -4}) || !aabb.Max.ApproxEqual(mgl64.Vec3{5, 2, -3}) {
		t.Errorf("expected a 180-degree yaw to flip the mesh's local X/Z extent before translating, got %+v", aabb)
	}
}
