// Package discretize turns parametric scene-graph nodes into explicit
// polygonal models. The Discretizer dispatches on the concrete node kind,
// runs the matching tessellation kernel, composes results across groups,
// transforms and iterated function systems, and memoizes per-node results
// by node identity.
package discretize

import (
	"log/slog"

	"github.com/chazu/verdure/pkg/scenegraph"
)

// Numerical guards shared by the kernels.
const (
	epsilon   = 1e-5
	tolerance = 1e-10
)

// Discretizer walks a scene graph and produces explicit models. It owns a
// cache keyed on node identity and a "current result" slot overwritten by
// every dispatch. A Discretizer is not safe for concurrent use; run
// independent instances over disjoint graphs instead.
type Discretizer struct {
	cache map[uint32]scenegraph.ExplicitModel
	cur   scenegraph.ExplicitModel

	// ComputeTexCoord enables texture-coordinate synthesis for the
	// kernels that support it. Cached entries computed without texture
	// coordinates are re-tessellated while it is on.
	ComputeTexCoord bool

	logger *slog.Logger
}

// New returns an empty Discretizer logging diagnostics to slog.Default.
func New() *Discretizer {
	return &Discretizer{
		cache:  make(map[uint32]scenegraph.ExplicitModel),
		logger: slog.Default(),
	}
}

// SetLogger redirects diagnostic messages to l.
func (d *Discretizer) SetLogger(l *slog.Logger) {
	if l != nil {
		d.logger = l
	}
}

// Discretization returns the explicit model produced by the last Process
// call, or nil if it failed.
func (d *Discretizer) Discretization() scenegraph.ExplicitModel {
	return d.cur
}

// Clear empties the cache and the current result.
func (d *Discretizer) Clear() {
	d.cur = nil
	d.cache = make(map[uint32]scenegraph.ExplicitModel)
}

// Process dispatches g to its tessellation kernel. It returns true iff a
// valid explicit model was produced; the model is then available from
// Discretization. Failures leave an empty result and never abort a wider
// traversal.
func (d *Discretizer) Process(g scenegraph.Geometry) bool {
	switch n := g.(type) {
	case nil:
		d.cur = nil
		return false

	case *scenegraph.Shape:
		return d.Process(n.Geometry)

	// Appearance and text nodes carry no geometry.
	case *scenegraph.Material,
		*scenegraph.ImageTexture,
		*scenegraph.MonoSpectral,
		*scenegraph.MultiSpectral,
		*scenegraph.Text,
		*scenegraph.Font:
		d.cur = nil
		return false

	// Already-explicit models pass through by identity, not by copy.
	case *scenegraph.TriangleSet:
		d.cur = n
		return true
	case *scenegraph.QuadSet:
		d.cur = n
		return true
	case *scenegraph.FaceSet:
		d.cur = n
		return true
	case *scenegraph.PointSet:
		d.cur = n
		return true
	case *scenegraph.Polyline:
		d.cur = n
		return true
	case *scenegraph.Symbol:
		d.cur = n.Mesh
		return n.Mesh != nil

	case *scenegraph.Polyline2D:
		return d.processPolyline2D(n)
	case *scenegraph.PointSet2D:
		return d.processPointSet2D(n)

	case *scenegraph.Sphere:
		return d.processSphere(n)
	case *scenegraph.Cone:
		return d.processCone(n)
	case *scenegraph.Cylinder:
		return d.processCylinder(n)
	case *scenegraph.Frustum:
		return d.processFrustum(n)
	case *scenegraph.Paraboloid:
		return d.processParaboloid(n)
	case *scenegraph.Box:
		return d.processBox(n)
	case *scenegraph.Disc:
		return d.processDisc(n)
	case *scenegraph.AsymmetricHull:
		return d.processAsymmetricHull(n)

	case *scenegraph.BezierCurve:
		return d.processBezierCurve(n)
	case *scenegraph.BezierCurve2D:
		return d.processBezierCurve2D(n)
	case *scenegraph.NurbsCurve:
		return d.processNurbsCurve(n)
	case *scenegraph.NurbsCurve2D:
		return d.processNurbsCurve2D(n)
	case *scenegraph.BezierPatch:
		return d.processBezierPatch(n)
	case *scenegraph.NurbsPatch:
		return d.processNurbsPatch(n)
	case *scenegraph.ElevationGrid:
		return d.processElevationGrid(n)

	case *scenegraph.Revolution:
		return d.processRevolution(n)
	case *scenegraph.Swung:
		return d.processSwung(n)
	case *scenegraph.Extrusion:
		return d.processExtrusion(n)
	case *scenegraph.ExtrudedHull:
		return d.processExtrudedHull(n)

	case *scenegraph.Group:
		return d.processGroup(n)
	case *scenegraph.IFS:
		return d.processIFS(n)

	case scenegraph.Transformed:
		return d.processTransformed(n)
	}

	d.cur = nil
	return false
}

// ---------------------------------------------------------------------------
// Cache
// ---------------------------------------------------------------------------

// cacheHit consults the cache for a named node and installs the stored
// model on success. Anonymous nodes always miss. When needTex is set and
// texture coordinates are requested, a stored mesh without them is
// rejected so the kernel runs again.
func (d *Discretizer) cacheHit(g scenegraph.Geometry, needTex bool) bool {
	if !g.IsNamed() {
		d.cur = nil
		return false
	}
	m, ok := d.cache[g.ID()]
	if !ok {
		return false
	}
	if m == nil {
		d.logger.Warn("discretizer cache held an empty entry, recomputing",
			"node", g.Name())
		return false
	}
	if needTex && d.ComputeTexCoord {
		mesh, isMesh := m.(scenegraph.Mesh)
		if !isMesh || !mesh.HasTexCoords() {
			return false
		}
	}
	d.cur = m
	return true
}

// updateCache stores the current result for a named node. Results of
// anonymous nodes are recomputed on every traversal.
func (d *Discretizer) updateCache(g scenegraph.Geometry) {
	if !g.IsNamed() {
		return
	}
	if d.cur != nil {
		d.cur.SetName(g.Name())
	}
	d.cache[g.ID()] = d.cur
}

// ---------------------------------------------------------------------------
// Composites
// ---------------------------------------------------------------------------

// processTransformed dispatches the child of a transformed node and maps
// the result through the node's transformation.
func (d *Discretizer) processTransformed(t scenegraph.Transformed) bool {
	if d.cacheHit(t, false) {
		return true
	}
	child := t.Child()
	if child == nil || !d.Process(child) || d.cur == nil {
		d.cur = nil
		return false
	}
	d.cur = d.cur.Transform(t.Transformation())
	d.updateCache(t)
	return true
}

// processGroup merges the children's models left to right. If the first
// child's result is the child's own storage, it is deep-copied before the
// merge mutates it.
func (d *Discretizer) processGroup(g *scenegraph.Group) bool {
	if d.cacheHit(g, false) {
		return true
	}
	if len(g.Children) == 0 {
		d.cur = nil
		return false
	}
	if !d.Process(g.Children[0]) || d.cur == nil {
		d.cur = nil
		d.updateCache(g)
		return false
	}
	base := d.cur
	if em, ok := g.Children[0].(scenegraph.ExplicitModel); ok && em == d.cur {
		base = d.cur.Copy()
	}
	fusion, ok := newMerge(base)
	if !ok {
		d.cur = nil
		d.updateCache(g)
		return false
	}
	for _, child := range g.Children[1:] {
		if !d.Process(child) || d.cur == nil || !fusion.apply(d.cur) {
			d.cur = nil
			d.updateCache(g)
			return false
		}
	}
	d.cur = fusion.model()
	d.updateCache(g)
	return true
}

// processIFS dispatches the base geometry once, then instances it under
// every affine in the expanded transformation list.
func (d *Discretizer) processIFS(f *scenegraph.IFS) bool {
	if d.cacheHit(f, false) {
		return true
	}
	if f.Geometry == nil || !d.Process(f.Geometry) || d.cur == nil {
		d.cur = nil
		return false
	}
	base := d.cur
	mats := f.AllTransforms()
	if len(mats) == 0 {
		d.cur = nil
		return false
	}

	fusion, ok := newMerge(base.Transform(scenegraph.Matrix{M: mats[0]}))
	if !ok {
		d.cur = nil
		return false
	}
	fusion.setIsoModel(len(mats))
	for _, m := range mats[1:] {
		if !fusion.apply(base.Transform(scenegraph.Matrix{M: m})) {
			d.cur = nil
			return false
		}
	}
	d.cur = fusion.model()
	d.updateCache(f)
	return true
}
