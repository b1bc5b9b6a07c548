// Package reduction implements the mesh contact reduction kernel: given a
// batch of independent per-triangle convex contact manifolds produced
// against a triangle-mesh collider, it corrects or suppresses the manifolds
// whose contact normals are internal-edge artifacts rather than genuine
// surface contacts.
package reduction

import (
	"log/slog"
	"sync"

	"github.com/akmonengine/feather/constraint"
	"github.com/akmonengine/feather/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// denseSparseThreshold is the child count below which the dense (quadratic
// scan) path is cheaper than the sparse (BVH-query) path's traversal and
// hash-table maintenance overhead.
const denseSparseThreshold = 16

// Pool hands out reusable scratch storage for Reduce so repeated calls
// (typically one per (convex, mesh) collision pair, possibly from several
// goroutines each with their own Pool) avoid allocating on every call. Every
// allocation borrowed from the pool is returned before Reduce exits, on both
// the normal path and the panic-on-misuse path below.
type Pool struct {
	pool sync.Pool
}

// NewPool constructs an empty Pool.
func NewPool() *Pool {
	return &Pool{pool: sync.Pool{New: func() interface{} { return &scratch{} }}}
}

// scratch bundles the dense path's flat array and the sparse path's table
// and neighbor-index buffer, so one pooled object serves either path.
type scratch struct {
	dense     []testTriangle
	table     table
	neighbors []int
}

func (p *Pool) get() *scratch {
	s := p.pool.Get().(*scratch)
	s.dense = s.dense[:0]
	s.table.reset()
	s.neighbors = s.neighbors[:0]
	return s
}

func (p *Pool) put(s *scratch) {
	p.pool.Put(s)
}

// Reduce analyzes children[start:start+count] — each already holding a
// ConvexContactManifold produced against the mesh triangle at triangles[i]
// — and mutates those manifolds in place: deleting the ones whose contact
// normal is a spurious internal-edge artifact, or correcting their normal
// when deletion would allow interpenetration through a mutually infringing
// pair.
//
// flip indicates the manifolds were produced with the mesh in "shape B"
// slot, requiring OffsetB-relative repositioning before mesh-local
// interpretation (see the transformer in transform.go). queryMin/queryMax is
// the mesh-local AABB of the original query, used to scale the sparse
// path's BVH-neighbor expansion. meshOrientation is the mesh's world
// rotation, from which the kernel derives both the inverse rotation (to
// move contacts into mesh-local space) and the forward rotation (to move a
// corrected normal back to world space).
func Reduce(triangles []mesh.Triangle, children []constraint.NonconvexReductionChild, start, count int, flip bool, queryMin, queryMax mgl64.Vec3, meshOrientation mgl64.Quat, collider mesh.Collider, pool *Pool) {
	if count == 0 {
		return
	}
	if start < 0 || count < 0 || start+count > len(children) || start+count > len(triangles) {
		slog.Error("reduction: start/count out of range", "start", start, "count", count, "children", len(children), "triangles", len(triangles))
		panic("reduction: start/count out of range")
	}
	if collider == nil {
		slog.Error("reduction: nil collider with count > 0", "count", count)
		panic("reduction: nil collider with count > 0")
	}

	meshRotation := meshOrientation.Mat4().Mat3()
	invRotation := meshRotation.Transpose()

	s := pool.get()
	defer pool.put(s)

	if count < denseSparseThreshold {
		reduceDense(triangles, children, start, count, flip, invRotation, meshRotation, s)
	} else {
		reduceSparse(triangles, children, start, count, flip, queryMin, queryMax, invRotation, meshRotation, collider, s)
	}
}
