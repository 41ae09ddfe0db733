package scenegraph

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultPatchStride is the default sample count per patch direction.
const DefaultPatchStride = 30

// BezierPatch is a rational tensor-product Bezier surface over
// [0,1]x[0,1]. CtrlPoints[i][j] varies i along u and j along v; Weights
// may be nil.
type BezierPatch struct {
	GeometryBase
	CtrlPoints [][]v3.Vec
	Weights    [][]float64
	UStride    int
	VStride    int
	CCW        bool
}

// NewBezierPatch builds a patch over the given control grid.
func NewBezierPatch(ctrl [][]v3.Vec) *BezierPatch {
	return &BezierPatch{
		GeometryBase: NewGeometryBase(),
		CtrlPoints:   ctrl,
		UStride:      DefaultPatchStride,
		VStride:      DefaultPatchStride,
		CCW:          true,
	}
}

func (b *BezierPatch) FirstUKnot() float64 { return 0 }
func (b *BezierPatch) LastUKnot() float64  { return 1 }
func (b *BezierPatch) FirstVKnot() float64 { return 0 }
func (b *BezierPatch) LastVKnot() float64  { return 1 }

// PointAt evaluates the surface at (u, v).
func (b *BezierPatch) PointAt(u, v float64) v3.Vec {
	// Collapse each control row along v, then the column along u.
	col := make([]hpoint, len(b.CtrlPoints))
	for i, row := range b.CtrlPoints {
		var w []float64
		if b.Weights != nil {
			w = b.Weights[i]
		}
		col[i] = deCasteljau(homogenize3(row, w), v)
	}
	a := deCasteljau(col, u)
	p, _, _ := evalRational(a, hpoint{}, hpoint{})
	return p
}

// NurbsPatch is a NURBS tensor-product surface. Degrees are implied by the
// knot vectors and control grid dimensions.
type NurbsPatch struct {
	GeometryBase
	CtrlPoints [][]v3.Vec
	Weights    [][]float64
	UKnots     []float64
	VKnots     []float64
	UStride    int
	VStride    int
	CCW        bool
}

// NewNurbsPatch builds a patch over the given control grid and knots.
func NewNurbsPatch(ctrl [][]v3.Vec, weights [][]float64, uKnots, vKnots []float64) *NurbsPatch {
	return &NurbsPatch{
		GeometryBase: NewGeometryBase(),
		CtrlPoints:   ctrl,
		Weights:      weights,
		UKnots:       uKnots,
		VKnots:       vKnots,
		UStride:      DefaultPatchStride,
		VStride:      DefaultPatchStride,
		CCW:          true,
	}
}

// UDegree returns the spline degree along u.
func (n *NurbsPatch) UDegree() int { return len(n.UKnots) - len(n.CtrlPoints) - 1 }

// VDegree returns the spline degree along v.
func (n *NurbsPatch) VDegree() int { return len(n.VKnots) - len(n.CtrlPoints[0]) - 1 }

func (n *NurbsPatch) FirstUKnot() float64 { return n.UKnots[n.UDegree()] }
func (n *NurbsPatch) LastUKnot() float64  { return n.UKnots[len(n.UKnots)-1-n.UDegree()] }
func (n *NurbsPatch) FirstVKnot() float64 { return n.VKnots[n.VDegree()] }
func (n *NurbsPatch) LastVKnot() float64  { return n.VKnots[len(n.VKnots)-1-n.VDegree()] }

// PointAt evaluates the surface at (u, v).
func (n *NurbsPatch) PointAt(u, v float64) v3.Vec {
	p := n.UDegree()
	q := n.VDegree()
	uspan := findSpan(len(n.CtrlPoints)-1, p, u, n.UKnots)
	vspan := findSpan(len(n.CtrlPoints[0])-1, q, v, n.VKnots)
	nu := dersBasisFuns(uspan, p, 0, u, n.UKnots)
	nv := dersBasisFuns(vspan, q, 0, v, n.VKnots)

	var a hpoint
	for i := 0; i <= p; i++ {
		var row hpoint
		ci := n.CtrlPoints[uspan-p+i]
		var wi []float64
		if n.Weights != nil {
			wi = n.Weights[uspan-p+i]
		}
		for j := 0; j <= q; j++ {
			w := 1.0
			if wi != nil {
				w = wi[vspan-q+j]
			}
			cp := ci[vspan-q+j]
			row = row.add(hpoint{cp.X * w, cp.Y * w, cp.Z * w, w}.scale(nv[0][j]))
		}
		a = a.add(row.scale(nu[0][i]))
	}
	pt, _, _ := evalRational(a, hpoint{}, hpoint{})
	return pt
}
