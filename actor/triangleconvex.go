package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// triangleConvex presents a single mesh triangle as a convex ShapeInterface
// so the existing gjk/epa pipeline can run against it unmodified, one
// triangle at a time, the way it already runs against Box/Sphere/Plane.
// It carries no mass: a mesh triangle is only ever tested as the static
// half of a pair, never integrated.
type triangleConvex struct {
	a, b, c mgl64.Vec3
	aabb    AABB
}

func newTriangleConvex(a, b, c mgl64.Vec3) *triangleConvex {
	t := &triangleConvex{a: a, b: b, c: c}
	t.ComputeAABB(Transform{Rotation: mgl64.QuatIdent()})
	return t
}

// NewTriangleConvexShape exposes triangleConvex to other packages (the root
// package's mesh narrow-phase) without exporting the type itself, the same
// way Box/Sphere/Plane are the only exported shape constructors.
func NewTriangleConvexShape(a, b, c mgl64.Vec3) ShapeInterface {
	return newTriangleConvex(a, b, c)
}

func (t *triangleConvex) ComputeAABB(transform Transform) {
	verts := [3]mgl64.Vec3{
		transform.Rotation.Rotate(t.a).Add(transform.Position),
		transform.Rotation.Rotate(t.b).Add(transform.Position),
		transform.Rotation.Rotate(t.c).Add(transform.Position),
	}

	min, max := verts[0], verts[0]
	for _, v := range verts[1:] {
		for axis := 0; axis < 3; axis++ {
			if v[axis] < min[axis] {
				min[axis] = v[axis]
			}
			if v[axis] > max[axis] {
				max[axis] = v[axis]
			}
		}
	}
	t.aabb = AABB{Min: min, Max: max}
}

func (t *triangleConvex) GetAABB() AABB { return t.aabb }

func (t *triangleConvex) ComputeMass(density float64) float64 { return math.Inf(1) }

func (t *triangleConvex) ComputeInertia(mass float64) mgl64.Mat3 { return mgl64.Mat3{} }

func (t *triangleConvex) Support(direction mgl64.Vec3) mgl64.Vec3 {
	best := t.a
	bestDot := direction.Dot(t.a)

	if d := direction.Dot(t.b); d > bestDot {
		best, bestDot = t.b, d
	}
	if d := direction.Dot(t.c); d > bestDot {
		best = t.c
	}
	return best
}

func (t *triangleConvex) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	return []mgl64.Vec3{t.a, t.b, t.c}
}
