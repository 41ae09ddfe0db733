package discretize

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/verdure/pkg/scenegraph"
)

// merge accumulates explicit models into one. Point arrays concatenate;
// indices shift by the accumulated point count. Face-bearing models of
// different arities promote to a mixed-arity face set. Texture coordinates
// survive only while every merged input carries them.
type merge struct {
	kind mergeKind

	points   []v3.Vec
	faces    [][]int
	arity    int // 3 or 4 while uniform, 0 once mixed
	tex      []v2.Vec
	texFaces [][]int // nil while texcoords are shared with the points
	hasTex   bool
	ccw      bool
	solid    bool
	skeleton *scenegraph.Polyline
}

type mergeKind int

const (
	mergeMesh mergeKind = iota
	mergePoints
	mergeLine
)

// newMerge starts an accumulation from base. The base's arrays are cloned
// so that growing the accumulator can never scribble over a model that a
// cache or caller still holds.
func newMerge(base scenegraph.ExplicitModel) (*merge, bool) {
	m := &merge{}
	switch b := base.(type) {
	case *scenegraph.PointSet:
		m.kind = mergePoints
		m.points = append([]v3.Vec(nil), b.Points...)
		return m, true
	case *scenegraph.Polyline:
		m.kind = mergeLine
		m.points = append([]v3.Vec(nil), b.Points...)
		return m, true
	}
	md, ok := explode(base)
	if !ok {
		return nil, false
	}
	m.kind = mergeMesh
	m.points = append([]v3.Vec(nil), md.points...)
	m.faces = make([][]int, len(md.faces))
	for i, f := range md.faces {
		m.faces[i] = append([]int(nil), f...)
	}
	m.arity = md.arity
	m.tex = append([]v2.Vec(nil), md.tex...)
	if md.texFaces != nil {
		m.texFaces = make([][]int, len(md.texFaces))
		for i, f := range md.texFaces {
			m.texFaces[i] = append([]int(nil), f...)
		}
	}
	m.hasTex = len(md.tex) > 0
	m.ccw = md.ccw
	m.solid = md.solid
	m.skeleton = md.skeleton
	return m, true
}

// setIsoModel pre-sizes the accumulator for count models the size of the
// current content, as produced by iterated function systems.
func (m *merge) setIsoModel(count int) {
	if count <= 1 {
		return
	}
	pts := make([]v3.Vec, len(m.points), len(m.points)*count)
	copy(pts, m.points)
	m.points = pts
	if m.faces != nil {
		faces := make([][]int, len(m.faces), len(m.faces)*count)
		copy(faces, m.faces)
		m.faces = faces
	}
}

// apply merges other into the accumulator. Models of incompatible kinds
// (a mesh and a point cloud, say) do not merge.
func (m *merge) apply(other scenegraph.ExplicitModel) bool {
	if other == nil {
		return false
	}
	switch o := other.(type) {
	case *scenegraph.PointSet:
		if m.kind != mergePoints {
			return false
		}
		m.points = append(m.points, o.Points...)
		return true
	case *scenegraph.Polyline:
		if m.kind != mergeLine {
			return false
		}
		m.points = append(m.points, o.Points...)
		return true
	}
	if m.kind != mergeMesh {
		return false
	}
	md, ok := explode(other)
	if !ok {
		return false
	}

	offset := len(m.points)
	m.points = append(m.points, md.points...)

	if m.arity != md.arity {
		m.arity = 0
	}
	for _, f := range md.faces {
		nf := make([]int, len(f))
		for i, ix := range f {
			nf[i] = ix + offset
		}
		m.faces = append(m.faces, nf)
	}

	m.mergeTex(md)
	m.solid = m.solid && md.solid
	m.skeleton = mergeSkeletons(m.skeleton, md.skeleton)
	return true
}

// mergeTex combines texture coordinates. If either side lacks them, the
// merged result drops them; that loss is part of the composer contract.
func (m *merge) mergeTex(md *meshData) {
	if !m.hasTex || len(md.tex) == 0 {
		m.hasTex = false
		m.tex = nil
		m.texFaces = nil
		return
	}
	bothShared := m.texFaces == nil && md.texFaces == nil
	if bothShared {
		// Shared indexing survives because tex arrays track the point
		// arrays one to one.
		m.tex = append(m.tex, md.tex...)
		return
	}
	// Mixed indexing: move both sides to separate texture topology.
	if m.texFaces == nil {
		m.texFaces = make([][]int, 0, len(m.faces))
		for _, f := range m.faces[:len(m.faces)-len(md.faces)] {
			m.texFaces = append(m.texFaces, append([]int(nil), f...))
		}
	}
	texOffset := len(m.tex)
	m.tex = append(m.tex, md.tex...)
	otherTexFaces := md.texFaces
	if otherTexFaces == nil {
		otherTexFaces = md.faces
	}
	for _, f := range otherTexFaces {
		nf := make([]int, len(f))
		for i, ix := range f {
			nf[i] = ix + texOffset
		}
		m.texFaces = append(m.texFaces, nf)
	}
}

// model builds the merged explicit model.
func (m *merge) model() scenegraph.ExplicitModel {
	switch m.kind {
	case mergePoints:
		return scenegraph.NewPointSet(m.points)
	case mergeLine:
		return scenegraph.NewPolyline(m.points)
	}
	var tex []v2.Vec
	if m.hasTex {
		tex = m.tex
	}
	switch m.arity {
	case 3:
		idx := make([][3]int, len(m.faces))
		for i, f := range m.faces {
			idx[i] = [3]int{f[0], f[1], f[2]}
		}
		t := scenegraph.NewTriangleSet(m.points, idx, m.ccw, m.solid, m.skeleton)
		t.SetTexCoordList(tex)
		if m.hasTex && m.texFaces != nil {
			t.TexIndices = make([][3]int, len(m.texFaces))
			for i, f := range m.texFaces {
				t.TexIndices[i] = [3]int{f[0], f[1], f[2]}
			}
		}
		return t
	case 4:
		idx := make([][4]int, len(m.faces))
		for i, f := range m.faces {
			idx[i] = [4]int{f[0], f[1], f[2], f[3]}
		}
		q := scenegraph.NewQuadSet(m.points, idx, m.ccw, m.solid, m.skeleton)
		q.SetTexCoordList(tex)
		if m.hasTex && m.texFaces != nil {
			q.TexIndices = make([][4]int, len(m.texFaces))
			for i, f := range m.texFaces {
				q.TexIndices[i] = [4]int{f[0], f[1], f[2], f[3]}
			}
		}
		return q
	}
	f := scenegraph.NewFaceSet(m.points, m.faces, m.ccw, m.solid, m.skeleton)
	f.SetTexCoordList(tex)
	if m.hasTex && m.texFaces != nil {
		f.TexIndices = m.texFaces
	}
	return f
}

// meshData is the arity-neutral view of a face-bearing model.
type meshData struct {
	points   []v3.Vec
	faces    [][]int
	arity    int
	tex      []v2.Vec
	texFaces [][]int
	ccw      bool
	solid    bool
	skeleton *scenegraph.Polyline
}

// explode flattens a mesh into meshData. Non-mesh models do not explode.
func explode(m scenegraph.ExplicitModel) (*meshData, bool) {
	switch t := m.(type) {
	case *scenegraph.TriangleSet:
		md := &meshData{
			points:   t.Points,
			arity:    3,
			tex:      t.TexCoordList(),
			ccw:      t.IsCCW(),
			solid:    t.IsSolid(),
			skeleton: t.SkeletonLine(),
		}
		md.faces = make([][]int, len(t.Indices))
		for i, f := range t.Indices {
			md.faces[i] = []int{f[0], f[1], f[2]}
		}
		if t.TexIndices != nil {
			md.texFaces = make([][]int, len(t.TexIndices))
			for i, f := range t.TexIndices {
				md.texFaces[i] = []int{f[0], f[1], f[2]}
			}
		}
		return md, true
	case *scenegraph.QuadSet:
		md := &meshData{
			points:   t.Points,
			arity:    4,
			tex:      t.TexCoordList(),
			ccw:      t.IsCCW(),
			solid:    t.IsSolid(),
			skeleton: t.SkeletonLine(),
		}
		md.faces = make([][]int, len(t.Indices))
		for i, f := range t.Indices {
			md.faces[i] = []int{f[0], f[1], f[2], f[3]}
		}
		if t.TexIndices != nil {
			md.texFaces = make([][]int, len(t.TexIndices))
			for i, f := range t.TexIndices {
				md.texFaces[i] = []int{f[0], f[1], f[2], f[3]}
			}
		}
		return md, true
	case *scenegraph.FaceSet:
		md := &meshData{
			points:   t.Points,
			arity:    faceArity(t.Indices),
			faces:    t.Indices,
			tex:      t.TexCoordList(),
			texFaces: t.TexIndices,
			ccw:      t.IsCCW(),
			solid:    t.IsSolid(),
			skeleton: t.SkeletonLine(),
		}
		return md, true
	}
	return nil, false
}

// faceArity returns the uniform arity of the faces, or 0 when mixed.
func faceArity(faces [][]int) int {
	if len(faces) == 0 {
		return 0
	}
	a := len(faces[0])
	for _, f := range faces[1:] {
		if len(f) != a {
			return 0
		}
	}
	if a != 3 && a != 4 {
		return 0
	}
	return a
}

// mergeSkeletons keeps the longer skeleton, or concatenates the two when
// the first ends where the second begins.
func mergeSkeletons(a, b *scenegraph.Polyline) *scenegraph.Polyline {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if len(a.Points) > 0 && len(b.Points) > 0 {
		endA := a.Points[len(a.Points)-1]
		if endA.Sub(b.Points[0]).Length() < epsilon {
			pts := make([]v3.Vec, 0, len(a.Points)+len(b.Points)-1)
			pts = append(pts, a.Points...)
			pts = append(pts, b.Points[1:]...)
			return scenegraph.NewPolyline(pts)
		}
	}
	if b.Length() > a.Length() {
		return b
	}
	return a
}
