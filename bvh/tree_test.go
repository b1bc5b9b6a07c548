package bvh

import (
	"testing"

	"github.com/akmonengine/feather/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

func overlapIndices(tree *Tree, bounds mesh.Bounds) []int {
	var got []int
	tree.GetOverlaps(bounds, func(index int) bool {
		got = append(got, index)
		return true
	})
	return got
}

func TestTree_InsertAndQueryFindsOverlap(t *testing.T) {
	tree := NewTree()
	tree.Insert(0, mesh.Bounds{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}})
	tree.Insert(1, mesh.Bounds{Min: mgl64.Vec3{100, 100, 100}, Max: mgl64.Vec3{101, 101, 101}})

	got := overlapIndices(tree, mesh.Bounds{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{2, 2, 2}})

	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected only triangle 0 to overlap, got %v", got)
	}
}

func TestTree_QueryMissesDisjointBounds(t *testing.T) {
	tree := NewTree()
	tree.Insert(0, mesh.Bounds{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}})

	got := overlapIndices(tree, mesh.Bounds{Min: mgl64.Vec3{50, 50, 50}, Max: mgl64.Vec3{51, 51, 51}})

	if len(got) != 0 {
		t.Fatalf("expected no overlaps, got %v", got)
	}
}

func TestTree_DegenerateBoundsDoNotPanic(t *testing.T) {
	tree := NewTree()
	// A flat, axis-aligned triangle: zero extent on one axis.
	tree.Insert(0, mesh.Bounds{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 0, 1}})

	got := overlapIndices(tree, mesh.Bounds{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{2, 1, 2}})

	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected the degenerate triangle to still be queryable, got %v", got)
	}
}

func TestTree_EarlyStopVisitor(t *testing.T) {
	tree := NewTree()
	tree.Insert(0, mesh.Bounds{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}})
	tree.Insert(1, mesh.Bounds{Min: mgl64.Vec3{0.5, 0.5, 0.5}, Max: mgl64.Vec3{1.5, 1.5, 1.5}})

	visits := 0
	tree.GetOverlaps(mesh.Bounds{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 2, 2}}, func(index int) bool {
		visits++
		return false
	})

	if visits != 1 {
		t.Fatalf("expected the visitor to stop after the first result, got %d visits", visits)
	}
}
