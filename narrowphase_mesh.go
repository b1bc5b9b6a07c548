package feather

import (
	"github.com/akmonengine/feather/actor"
	"github.com/akmonengine/feather/constraint"
	"github.com/akmonengine/feather/epa"
	"github.com/akmonengine/feather/gjk"
	"github.com/akmonengine/feather/mesh"
	"github.com/akmonengine/feather/reduction"
	"github.com/go-gl/mathgl/mgl64"
)

// meshReductionPool is shared across calls the way gjk.SimplexPool and
// epa's manifoldBuilderPool are: one process-wide pool, safe for concurrent
// use since reduction.Reduce never retains a *reduction.Pool past its own
// call.
var meshReductionPool = reduction.NewPool()

// NarrowPhaseMesh runs per-triangle GJK/EPA between convexBody and every
// triangle of triangleMesh whose BVH bounds overlap convexBody's AABB
// (queried in the mesh's local space), then passes the resulting per-
// triangle manifolds through reduction.Reduce to suppress internal-edge
// artifacts before they reach the solver.
func NarrowPhaseMesh(convexBody, meshBody *actor.RigidBody, triangleMesh *actor.TriangleMesh) []constraint.ContactConstraint {
	localMin, localMax := worldAABBToLocal(convexBody.Shape.GetAABB(), meshBody.Transform)

	triangles := make([]mesh.Triangle, 0, 8)
	children := make([]constraint.NonconvexReductionChild, 0, 8)

	triangleMesh.BVH().GetOverlaps(mesh.Bounds{Min: localMin, Max: localMax}, func(triangleIndex int) bool {
		var tri mesh.Triangle
		if !triangleMesh.GetLocalChild(triangleIndex, &tri) {
			return true
		}

		manifold, ok := manifoldAgainstTriangle(convexBody, meshBody, tri)
		if !ok {
			return true
		}

		triangles = append(triangles, tri)
		children = append(children, constraint.NonconvexReductionChild{
			Manifold:    manifold,
			ChildIndexB: triangleIndex,
		})
		return true
	})

	if len(children) == 0 {
		return nil
	}

	reduction.Reduce(triangles, children, 0, len(children), false, localMin, localMax, meshBody.Transform.Rotation, triangleMesh, meshReductionPool)

	contacts := make([]constraint.ContactConstraint, 0, len(children))
	for i := range children {
		if children[i].Manifold.Count == 0 {
			continue
		}
		contacts = append(contacts, contactFromChild(convexBody, meshBody, children[i].Manifold))
	}

	return contacts
}

// manifoldAgainstTriangle runs GJK/EPA between convexBody and a single mesh
// triangle (via a triangleConvex adapter sharing the mesh body's transform,
// since tri's vertices are already in the mesh's local frame), converting
// the result into the fixed-size manifold shape reduction.Reduce consumes.
func manifoldAgainstTriangle(convexBody, meshBody *actor.RigidBody, tri mesh.Triangle) (constraint.ConvexContactManifold, bool) {
	triBody := actor.NewRigidBody(meshBody.Transform, actor.NewTriangleConvexShape(tri.A, tri.B, tri.C), actor.BodyTypeStatic, 0)

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)
	simplex.Reset()

	if !gjk.GJK(convexBody, triBody, simplex) {
		return constraint.ConvexContactManifold{}, false
	}

	contact, err := epa.EPA(convexBody, triBody, simplex.Points[:simplex.Count])
	if err != nil || len(contact.Points) == 0 {
		return constraint.ConvexContactManifold{}, false
	}

	manifold := constraint.ConvexContactManifold{
		Normal:  contact.Normal,
		OffsetB: mgl64.Vec3{},
	}
	for i, point := range contact.Points {
		if i >= len(manifold.Contacts) {
			break
		}
		manifold.Contacts[i] = constraint.Contact{
			Offset: point.Position.Sub(meshBody.Transform.Position),
			Depth:  point.Penetration,
		}
		manifold.Count++
	}

	return manifold, manifold.Count > 0
}

// contactFromChild converts a surviving ConvexContactManifold (offsets are
// relative to meshBody, per manifoldAgainstTriangle) back into the solver's
// ContactConstraint.
func contactFromChild(convexBody, meshBody *actor.RigidBody, manifold constraint.ConvexContactManifold) constraint.ContactConstraint {
	points := make([]constraint.ContactPoint, manifold.Count)
	for i := 0; i < manifold.Count; i++ {
		points[i] = constraint.ContactPoint{
			Position:    meshBody.Transform.Position.Add(manifold.Contacts[i].Offset),
			Penetration: manifold.Contacts[i].Depth,
		}
	}

	return constraint.ContactConstraint{
		BodyA:       convexBody,
		BodyB:       meshBody,
		Points:      points,
		Normal:      manifold.Normal,
		Compliance:  epa.DefaultCompliance,
		Restitution: constraint.ComputeRestitution(convexBody.Material, meshBody.Material),
	}
}

// worldAABBToLocal rotates and translates a world-space AABB's eight
// corners into meshTransform's local space and returns the resulting
// bounds, conservatively enclosing the rotated box.
func worldAABBToLocal(aabb actor.AABB, meshTransform actor.Transform) (mgl64.Vec3, mgl64.Vec3) {
	corners := [8]mgl64.Vec3{
		{aabb.Min.X(), aabb.Min.Y(), aabb.Min.Z()},
		{aabb.Max.X(), aabb.Min.Y(), aabb.Min.Z()},
		{aabb.Min.X(), aabb.Max.Y(), aabb.Min.Z()},
		{aabb.Max.X(), aabb.Max.Y(), aabb.Min.Z()},
		{aabb.Min.X(), aabb.Min.Y(), aabb.Max.Z()},
		{aabb.Max.X(), aabb.Min.Y(), aabb.Max.Z()},
		{aabb.Min.X(), aabb.Max.Y(), aabb.Max.Z()},
		{aabb.Max.X(), aabb.Max.Y(), aabb.Max.Z()},
	}

	inverse := meshTransform.Rotation.Conjugate()
	local := inverse.Rotate(corners[0].Sub(meshTransform.Position))
	min, max := local, local

	for _, corner := range corners[1:] {
		local = inverse.Rotate(corner.Sub(meshTransform.Position))
		for axis := 0; axis < 3; axis++ {
			if local[axis] < min[axis] {
				min[axis] = local[axis]
			}
			if local[axis] > max[axis] {
				max[axis] = local[axis]
			}
		}
	}

	return min, max
}
