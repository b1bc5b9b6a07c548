package reduction

import (
	"testing"

	"github.com/akmonengine/feather/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

func TestTransformManifold_PicksDeepestContact(t *testing.T) {
	manifold := &constraint.ConvexContactManifold{
		Count:  2,
		Normal: mgl64.Vec3{0, 1, 0},
		Contacts: [4]constraint.Contact{
			{Offset: mgl64.Vec3{1, 0, 0}, Depth: 0.01},
			{Offset: mgl64.Vec3{2, 0, 0}, Depth: 0.05},
		},
	}

	p, _ := transformManifold(manifold, mgl64.Ident3(), false)

	if !vec3ApproxEqual(p, mgl64.Vec3{2, 0, 0}, 1e-9) {
		t.Errorf("expected the deeper contact's offset (2,0,0), got %v", p)
	}
}

func TestTransformManifold_UnflippedUsesOffsetDirectly(t *testing.T) {
	manifold := &constraint.ConvexContactManifold{
		Count:  1,
		Normal: mgl64.Vec3{0, 1, 0},
		Contacts: [4]constraint.Contact{
			{Offset: mgl64.Vec3{3, 4, 5}, Depth: 0.01},
		},
	}

	p, m := transformManifold(manifold, mgl64.Ident3(), false)

	if !vec3ApproxEqual(p, mgl64.Vec3{3, 4, 5}, 1e-9) {
		t.Errorf("expected p == Offset for unflipped identity rotation, got %v", p)
	}
	if !vec3ApproxEqual(m, mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("expected m == Normal for unflipped identity rotation, got %v", m)
	}
}

func TestTransformManifold_FlippedSubtractsOffsetBAndNegatesNormal(t *testing.T) {
	manifold := &constraint.ConvexContactManifold{
		Count:   1,
		Normal:  mgl64.Vec3{0, 1, 0},
		OffsetB: mgl64.Vec3{1, 1, 1},
		Contacts: [4]constraint.Contact{
			{Offset: mgl64.Vec3{3, 4, 5}, Depth: 0.01},
		},
	}

	p, m := transformManifold(manifold, mgl64.Ident3(), true)

	if !vec3ApproxEqual(p, mgl64.Vec3{2, 3, 4}, 1e-9) {
		t.Errorf("expected p == Offset - OffsetB, got %v", p)
	}
	if !vec3ApproxEqual(m, mgl64.Vec3{0, -1, 0}, 1e-9) {
		t.Errorf("expected m == -Normal, got %v", m)
	}
}
