package scenegraph

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ExplicitModel is a shape expressed as points plus topology, as opposed to
// a parametric description. Explicit models are what discretization
// produces and what renderers and exporters consume.
type ExplicitModel interface {
	Geometry

	// PointList returns the model's point array. Callers must treat it
	// as read-only; models handed out by a discretizer are shared.
	PointList() []v3.Vec

	// Transform returns a new model with every point (and the skeleton)
	// mapped through t. Topology is copied, not shared.
	Transform(t Transformer) ExplicitModel

	// Copy returns a deep copy safe to mutate.
	Copy() ExplicitModel

	// SkeletonLine returns the central-axis polyline, or nil.
	SkeletonLine() *Polyline

	// IsSolid reports whether the model closes a volume.
	IsSolid() bool
}

// Mesh is an explicit model with faces, winding and optional texture
// coordinates.
type Mesh interface {
	ExplicitModel

	IsCCW() bool
	HasTexCoords() bool
	TexCoordList() []v2.Vec
	SetTexCoordList([]v2.Vec)
}

// meshBase carries the state shared by all face-bearing explicit models.
type meshBase struct {
	GeometryBase
	Points          []v3.Vec
	Normals         []v3.Vec // optional; per face unless NormalPerVertex
	NormalPerVertex bool
	TexCoords       []v2.Vec // optional; parallel to Points unless indexed separately
	CCW             bool
	Solid           bool
	Skeleton        *Polyline
}

func (m *meshBase) PointList() []v3.Vec        { return m.Points }
func (m *meshBase) SkeletonLine() *Polyline    { return m.Skeleton }
func (m *meshBase) IsSolid() bool              { return m.Solid }
func (m *meshBase) IsCCW() bool                { return m.CCW }
func (m *meshBase) HasTexCoords() bool         { return len(m.TexCoords) > 0 }
func (m *meshBase) TexCoordList() []v2.Vec     { return m.TexCoords }
func (m *meshBase) SetTexCoordList(t []v2.Vec) { m.TexCoords = t }

// transformed returns a copy of the base with points and skeleton mapped
// through t. Texture coordinates are carried over unchanged.
func (m *meshBase) transformed(t Transformer) meshBase {
	nb := *m
	nb.GeometryBase = NewGeometryBase()
	nb.Points = transformPoints(m.Points, t)
	nb.Normals = copyVecs(m.Normals)
	nb.TexCoords = copyVec2s(m.TexCoords)
	if m.Skeleton != nil {
		nb.Skeleton = m.Skeleton.Transform(t).(*Polyline)
	}
	return nb
}

func (m *meshBase) copied() meshBase {
	nb := *m
	nb.GeometryBase = NewGeometryBase()
	nb.Points = copyVecs(m.Points)
	nb.Normals = copyVecs(m.Normals)
	nb.TexCoords = copyVec2s(m.TexCoords)
	if m.Skeleton != nil {
		nb.Skeleton = m.Skeleton.Copy().(*Polyline)
	}
	return nb
}

func transformPoints(pts []v3.Vec, t Transformer) []v3.Vec {
	out := make([]v3.Vec, len(pts))
	for i, p := range pts {
		out[i] = t.Point(p)
	}
	return out
}

func copyVecs(pts []v3.Vec) []v3.Vec {
	if pts == nil {
		return nil
	}
	out := make([]v3.Vec, len(pts))
	copy(out, pts)
	return out
}

func copyVec2s(pts []v2.Vec) []v2.Vec {
	if pts == nil {
		return nil
	}
	out := make([]v2.Vec, len(pts))
	copy(out, pts)
	return out
}

func copyIndex3(idx [][3]int) [][3]int {
	if idx == nil {
		return nil
	}
	out := make([][3]int, len(idx))
	copy(out, idx)
	return out
}

func copyIndex4(idx [][4]int) [][4]int {
	if idx == nil {
		return nil
	}
	out := make([][4]int, len(idx))
	copy(out, idx)
	return out
}

func copyIndexN(idx [][]int) [][]int {
	if idx == nil {
		return nil
	}
	out := make([][]int, len(idx))
	for i, f := range idx {
		out[i] = append([]int(nil), f...)
	}
	return out
}

// ---------------------------------------------------------------------------
// TriangleSet
// ---------------------------------------------------------------------------

// TriangleSet is an explicit model made of triangles.
type TriangleSet struct {
	meshBase
	Indices    [][3]int
	TexIndices [][3]int // optional separate texture topology
}

// NewTriangleSet builds a triangle set. skeleton may be nil.
func NewTriangleSet(points []v3.Vec, indices [][3]int, ccw, solid bool, skeleton *Polyline) *TriangleSet {
	return &TriangleSet{
		meshBase: meshBase{
			GeometryBase: NewGeometryBase(),
			Points:       points,
			CCW:          ccw,
			Solid:        solid,
			Skeleton:     skeleton,
		},
		Indices: indices,
	}
}

func (t *TriangleSet) Transform(tr Transformer) ExplicitModel {
	nt := &TriangleSet{
		meshBase:   t.meshBase.transformed(tr),
		Indices:    copyIndex3(t.Indices),
		TexIndices: copyIndex3(t.TexIndices),
	}
	return nt
}

func (t *TriangleSet) Copy() ExplicitModel {
	return &TriangleSet{
		meshBase:   t.meshBase.copied(),
		Indices:    copyIndex3(t.Indices),
		TexIndices: copyIndex3(t.TexIndices),
	}
}

// ---------------------------------------------------------------------------
// QuadSet
// ---------------------------------------------------------------------------

// QuadSet is an explicit model made of quadrilaterals.
type QuadSet struct {
	meshBase
	Indices    [][4]int
	TexIndices [][4]int
}

// NewQuadSet builds a quad set. skeleton may be nil.
func NewQuadSet(points []v3.Vec, indices [][4]int, ccw, solid bool, skeleton *Polyline) *QuadSet {
	return &QuadSet{
		meshBase: meshBase{
			GeometryBase: NewGeometryBase(),
			Points:       points,
			CCW:          ccw,
			Solid:        solid,
			Skeleton:     skeleton,
		},
		Indices: indices,
	}
}

func (q *QuadSet) Transform(tr Transformer) ExplicitModel {
	return &QuadSet{
		meshBase:   q.meshBase.transformed(tr),
		Indices:    copyIndex4(q.Indices),
		TexIndices: copyIndex4(q.TexIndices),
	}
}

func (q *QuadSet) Copy() ExplicitModel {
	return &QuadSet{
		meshBase:   q.meshBase.copied(),
		Indices:    copyIndex4(q.Indices),
		TexIndices: copyIndex4(q.TexIndices),
	}
}

// ---------------------------------------------------------------------------
// FaceSet
// ---------------------------------------------------------------------------

// FaceSet is an explicit model with faces of arbitrary arity.
type FaceSet struct {
	meshBase
	Indices    [][]int
	TexIndices [][]int
}

// NewFaceSet builds a mixed-arity face set. skeleton may be nil.
func NewFaceSet(points []v3.Vec, indices [][]int, ccw, solid bool, skeleton *Polyline) *FaceSet {
	return &FaceSet{
		meshBase: meshBase{
			GeometryBase: NewGeometryBase(),
			Points:       points,
			CCW:          ccw,
			Solid:        solid,
			Skeleton:     skeleton,
		},
		Indices: indices,
	}
}

func (f *FaceSet) Transform(tr Transformer) ExplicitModel {
	return &FaceSet{
		meshBase:   f.meshBase.transformed(tr),
		Indices:    copyIndexN(f.Indices),
		TexIndices: copyIndexN(f.TexIndices),
	}
}

func (f *FaceSet) Copy() ExplicitModel {
	return &FaceSet{
		meshBase:   f.meshBase.copied(),
		Indices:    copyIndexN(f.Indices),
		TexIndices: copyIndexN(f.TexIndices),
	}
}

// ---------------------------------------------------------------------------
// PointSet
// ---------------------------------------------------------------------------

// PointSet is a bare cloud of points.
type PointSet struct {
	GeometryBase
	Points []v3.Vec
}

// NewPointSet builds a point set.
func NewPointSet(points []v3.Vec) *PointSet {
	return &PointSet{GeometryBase: NewGeometryBase(), Points: points}
}

func (p *PointSet) PointList() []v3.Vec     { return p.Points }
func (p *PointSet) SkeletonLine() *Polyline { return nil }
func (p *PointSet) IsSolid() bool           { return false }

func (p *PointSet) Transform(tr Transformer) ExplicitModel {
	return NewPointSet(transformPoints(p.Points, tr))
}

func (p *PointSet) Copy() ExplicitModel {
	return NewPointSet(copyVecs(p.Points))
}

// ---------------------------------------------------------------------------
// Polyline
// ---------------------------------------------------------------------------

// Polyline is an open chain of points. It doubles as the skeleton
// representation carried by solids.
type Polyline struct {
	GeometryBase
	Points []v3.Vec
}

// NewPolyline builds a polyline from a chain of points.
func NewPolyline(points []v3.Vec) *Polyline {
	return &Polyline{GeometryBase: NewGeometryBase(), Points: points}
}

// NewSegment builds the two-point polyline used for skeletons.
func NewSegment(a, b v3.Vec) *Polyline {
	return NewPolyline([]v3.Vec{a, b})
}

func (p *Polyline) PointList() []v3.Vec     { return p.Points }
func (p *Polyline) SkeletonLine() *Polyline { return nil }
func (p *Polyline) IsSolid() bool           { return false }

func (p *Polyline) Transform(tr Transformer) ExplicitModel {
	return NewPolyline(transformPoints(p.Points, tr))
}

func (p *Polyline) Copy() ExplicitModel {
	return NewPolyline(copyVecs(p.Points))
}

// Length returns the cumulative chord length of the chain.
func (p *Polyline) Length() float64 {
	var sum float64
	for i := 1; i < len(p.Points); i++ {
		sum += p.Points[i].Sub(p.Points[i-1]).Length()
	}
	return sum
}
