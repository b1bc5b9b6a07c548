// Package bvh implements mesh.BVH on top of an R-tree, giving the
// reduction kernel's sparse path a real bounding-volume query instead of a
// linear scan.
package bvh

import (
	"github.com/akmonengine/feather/mesh"
	"github.com/dhconnelly/rtreego"
)

// minRectSide guards against rtreego.NewRect rejecting a zero-size side,
// which happens for axis-aligned or degenerate triangles.
const minRectSide = 1e-9

// leafEntry adapts a triangle index and its bounds to rtreego.Spatial.
type leafEntry struct {
	index int
	rect  rtreego.Rect
}

func (e *leafEntry) Bounds() rtreego.Rect { return e.rect }

// Tree is a static R-tree over a mesh's triangle AABBs.
type Tree struct {
	rt *rtreego.Rtree
}

// NewTree builds an empty tree. minBranch/maxBranch follow rtreego's
// branching-factor knobs; 25/50 is rtreego's own documented default shape
// for moderate-sized datasets.
func NewTree() *Tree {
	return &Tree{rt: rtreego.NewTree(3, 25, 50)}
}

// Insert adds triangle index's bounding box to the tree. Call once per
// triangle while building the mesh; the tree is read-only afterward.
func (t *Tree) Insert(index int, bounds mesh.Bounds) {
	point := rtreego.Point{bounds.Min.X(), bounds.Min.Y(), bounds.Min.Z()}
	lengths := []float64{
		sideLength(bounds.Min.X(), bounds.Max.X()),
		sideLength(bounds.Min.Y(), bounds.Max.Y()),
		sideLength(bounds.Min.Z(), bounds.Max.Z()),
	}

	rect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		// Degenerate (zero-volume) triangle bounds; rtreego rejects a
		// zero-length side outright, so pad it rather than drop the
		// triangle from the index.
		for i := range lengths {
			if lengths[i] < minRectSide {
				lengths[i] = minRectSide
			}
		}
		rect, err = rtreego.NewRect(point, lengths)
		if err != nil {
			return
		}
	}

	t.rt.Insert(&leafEntry{index: index, rect: rect})
}

// GetOverlaps implements mesh.BVH.
func (t *Tree) GetOverlaps(bounds mesh.Bounds, visit mesh.Visitor) {
	point := rtreego.Point{bounds.Min.X(), bounds.Min.Y(), bounds.Min.Z()}
	lengths := []float64{
		sideLength(bounds.Min.X(), bounds.Max.X()),
		sideLength(bounds.Min.Y(), bounds.Max.Y()),
		sideLength(bounds.Min.Z(), bounds.Max.Z()),
	}
	for i := range lengths {
		if lengths[i] < minRectSide {
			lengths[i] = minRectSide
		}
	}

	queryRect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return
	}

	for _, spatial := range t.rt.SearchIntersect(queryRect) {
		entry := spatial.(*leafEntry)
		if !visit(entry.index) {
			return
		}
	}
}

func sideLength(min, max float64) float64 {
	length := max - min
	if length < minRectSide {
		return minRectSide
	}
	return length
}
