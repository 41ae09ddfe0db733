package scenegraph

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultStride is the default number of parametric samples for curves.
const DefaultStride = 30

// Curve is a parametric 3D curve. TangentAt and NormalAt return the first
// derivative and the principal normal; neither is normalized.
type Curve interface {
	Geometry
	FirstKnot() float64
	LastKnot() float64
	Stride() int
	PointAt(u float64) v3.Vec
	TangentAt(u float64) v3.Vec
	NormalAt(u float64) v3.Vec
}

// Curve2D is a parametric planar curve.
type Curve2D interface {
	Geometry
	FirstKnot() float64
	LastKnot() float64
	Stride() int
	PointAt(u float64) v2.Vec
}

// ---------------------------------------------------------------------------
// Planar polylines and point sets
// ---------------------------------------------------------------------------

// Polyline2D is a planar chain of points. As a Curve2D its knot range is
// [0, len-1] with linear interpolation between samples.
type Polyline2D struct {
	GeometryBase
	Points []v2.Vec
}

// NewPolyline2D builds a planar polyline.
func NewPolyline2D(points []v2.Vec) *Polyline2D {
	return &Polyline2D{GeometryBase: NewGeometryBase(), Points: points}
}

func (p *Polyline2D) FirstKnot() float64 { return 0 }
func (p *Polyline2D) LastKnot() float64  { return float64(len(p.Points) - 1) }
func (p *Polyline2D) Stride() int        { return len(p.Points) - 1 }

func (p *Polyline2D) PointAt(u float64) v2.Vec {
	if len(p.Points) == 1 {
		return p.Points[0]
	}
	if u <= 0 {
		return p.Points[0]
	}
	last := float64(len(p.Points) - 1)
	if u >= last {
		return p.Points[len(p.Points)-1]
	}
	i := int(u)
	t := u - float64(i)
	a, b := p.Points[i], p.Points[i+1]
	return a.MulScalar(1 - t).Add(b.MulScalar(t))
}

// PointSet2D is a planar point cloud.
type PointSet2D struct {
	GeometryBase
	Points []v2.Vec
}

// NewPointSet2D builds a planar point set.
func NewPointSet2D(points []v2.Vec) *PointSet2D {
	return &PointSet2D{GeometryBase: NewGeometryBase(), Points: points}
}

// ---------------------------------------------------------------------------
// Bezier curves
// ---------------------------------------------------------------------------

// BezierCurve is a rational Bezier curve of arbitrary degree over [0, 1].
// Weights may be nil for the polynomial case.
type BezierCurve struct {
	GeometryBase
	CtrlPoints []v3.Vec
	Weights    []float64
	Strides    int
}

// NewBezierCurve builds a curve over the given control polygon.
func NewBezierCurve(ctrl []v3.Vec) *BezierCurve {
	return &BezierCurve{GeometryBase: NewGeometryBase(), CtrlPoints: ctrl, Strides: DefaultStride}
}

func (b *BezierCurve) FirstKnot() float64 { return 0 }
func (b *BezierCurve) LastKnot() float64  { return 1 }
func (b *BezierCurve) Stride() int        { return b.Strides }

func (b *BezierCurve) homogeneous() []hpoint {
	return homogenize3(b.CtrlPoints, b.Weights)
}

func (b *BezierCurve) PointAt(u float64) v3.Vec {
	p, _, _ := evalRational(bezierDers(b.homogeneous(), u))
	return p
}

func (b *BezierCurve) TangentAt(u float64) v3.Vec {
	_, d1, _ := evalRational(bezierDers(b.homogeneous(), u))
	return d1
}

func (b *BezierCurve) NormalAt(u float64) v3.Vec {
	_, d1, d2 := evalRational(bezierDers(b.homogeneous(), u))
	return principalNormal(d1, d2)
}

// BezierCurve2D is the planar counterpart of BezierCurve.
type BezierCurve2D struct {
	GeometryBase
	CtrlPoints []v2.Vec
	Weights    []float64
	Strides    int
}

// NewBezierCurve2D builds a planar Bezier curve.
func NewBezierCurve2D(ctrl []v2.Vec) *BezierCurve2D {
	return &BezierCurve2D{GeometryBase: NewGeometryBase(), CtrlPoints: ctrl, Strides: DefaultStride}
}

func (b *BezierCurve2D) FirstKnot() float64 { return 0 }
func (b *BezierCurve2D) LastKnot() float64  { return 1 }
func (b *BezierCurve2D) Stride() int        { return b.Strides }

func (b *BezierCurve2D) PointAt(u float64) v2.Vec {
	p, _, _ := evalRational(bezierDers(homogenize2(b.CtrlPoints, b.Weights), u))
	return v2.Vec{X: p.X, Y: p.Y}
}

// ---------------------------------------------------------------------------
// NURBS curves
// ---------------------------------------------------------------------------

// NurbsCurve is a non-uniform rational B-spline curve. The degree is
// implied by len(Knots) - len(CtrlPoints) - 1.
type NurbsCurve struct {
	GeometryBase
	CtrlPoints []v3.Vec
	Weights    []float64
	Knots      []float64
	Strides    int
}

// NewNurbsCurve builds a curve over the given control polygon and knots.
func NewNurbsCurve(ctrl []v3.Vec, weights, knots []float64) *NurbsCurve {
	return &NurbsCurve{
		GeometryBase: NewGeometryBase(),
		CtrlPoints:   ctrl,
		Weights:      weights,
		Knots:        knots,
		Strides:      DefaultStride,
	}
}

// Degree returns the spline degree.
func (n *NurbsCurve) Degree() int { return len(n.Knots) - len(n.CtrlPoints) - 1 }

func (n *NurbsCurve) FirstKnot() float64 { return n.Knots[n.Degree()] }
func (n *NurbsCurve) LastKnot() float64  { return n.Knots[len(n.Knots)-1-n.Degree()] }
func (n *NurbsCurve) Stride() int        { return n.Strides }

func (n *NurbsCurve) PointAt(u float64) v3.Vec {
	p, _, _ := evalRational(nurbsDers(homogenize3(n.CtrlPoints, n.Weights), n.Knots, n.Degree(), u))
	return p
}

func (n *NurbsCurve) TangentAt(u float64) v3.Vec {
	_, d1, _ := evalRational(nurbsDers(homogenize3(n.CtrlPoints, n.Weights), n.Knots, n.Degree(), u))
	return d1
}

func (n *NurbsCurve) NormalAt(u float64) v3.Vec {
	_, d1, d2 := evalRational(nurbsDers(homogenize3(n.CtrlPoints, n.Weights), n.Knots, n.Degree(), u))
	return principalNormal(d1, d2)
}

// NurbsCurve2D is the planar counterpart of NurbsCurve.
type NurbsCurve2D struct {
	GeometryBase
	CtrlPoints []v2.Vec
	Weights    []float64
	Knots      []float64
	Strides    int
}

// NewNurbsCurve2D builds a planar NURBS curve.
func NewNurbsCurve2D(ctrl []v2.Vec, weights, knots []float64) *NurbsCurve2D {
	return &NurbsCurve2D{
		GeometryBase: NewGeometryBase(),
		CtrlPoints:   ctrl,
		Weights:      weights,
		Knots:        knots,
		Strides:      DefaultStride,
	}
}

// Degree returns the spline degree.
func (n *NurbsCurve2D) Degree() int { return len(n.Knots) - len(n.CtrlPoints) - 1 }

func (n *NurbsCurve2D) FirstKnot() float64 { return n.Knots[n.Degree()] }
func (n *NurbsCurve2D) LastKnot() float64  { return n.Knots[len(n.Knots)-1-n.Degree()] }
func (n *NurbsCurve2D) Stride() int        { return n.Strides }

func (n *NurbsCurve2D) PointAt(u float64) v2.Vec {
	ctrl := homogenize2(n.CtrlPoints, n.Weights)
	p, _, _ := evalRational(nurbsDers(ctrl, n.Knots, n.Degree(), u))
	return v2.Vec{X: p.X, Y: p.Y}
}
