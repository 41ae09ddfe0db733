package scenegraph_test

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/verdure/pkg/scenegraph"
)

const tol = 1e-9

func TestBezierCurveEndpoints(t *testing.T) {
	ctrl := []v3.Vec{{}, {X: 1, Y: 2}, {X: 3, Y: 1}, {X: 4}}
	c := scenegraph.NewBezierCurve(ctrl)

	if got := c.PointAt(0); got.Sub(ctrl[0]).Length() > tol {
		t.Errorf("PointAt(0) = %v, want %v", got, ctrl[0])
	}
	if got := c.PointAt(1); got.Sub(ctrl[3]).Length() > tol {
		t.Errorf("PointAt(1) = %v, want %v", got, ctrl[3])
	}
}

func TestBezierCurveMidpointOfLine(t *testing.T) {
	// A linear control polygon degenerates to the segment itself.
	c := scenegraph.NewBezierCurve([]v3.Vec{{}, {X: 2, Y: 2, Z: 2}})
	got := c.PointAt(0.5)
	want := v3.Vec{X: 1, Y: 1, Z: 1}
	if got.Sub(want).Length() > tol {
		t.Errorf("PointAt(0.5) = %v, want %v", got, want)
	}
	tg := c.TangentAt(0.5)
	if tg.Sub(v3.Vec{X: 2, Y: 2, Z: 2}).Length() > tol {
		t.Errorf("TangentAt(0.5) = %v, want (2,2,2)", tg)
	}
}

func TestBezierQuadraticTangent(t *testing.T) {
	// Quadratic with known derivative 2((1-u)(p1-p0) + u(p2-p1)).
	p0, p1, p2 := v3.Vec{}, v3.Vec{X: 1, Y: 1}, v3.Vec{X: 2}
	c := scenegraph.NewBezierCurve([]v3.Vec{p0, p1, p2})
	u := 0.25
	want := p1.Sub(p0).MulScalar(2 * (1 - u)).Add(p2.Sub(p1).MulScalar(2 * u))
	if got := c.TangentAt(u); got.Sub(want).Length() > tol {
		t.Errorf("TangentAt(%g) = %v, want %v", u, got, want)
	}
}

func TestRationalBezierQuarterCircle(t *testing.T) {
	// The classic rational quadratic quarter arc: weights (1, 1/sqrt2, 1).
	ctrl := []v2.Vec{{X: 1}, {X: 1, Y: 1}, {Y: 1}}
	c := scenegraph.NewBezierCurve2D(ctrl)
	c.Weights = []float64{1, math.Sqrt2 / 2, 1}

	for _, u := range []float64{0, 0.1, 0.3, 0.5, 0.7, 0.9, 1} {
		p := c.PointAt(u)
		if r := math.Hypot(p.X, p.Y); math.Abs(r-1) > 1e-12 {
			t.Errorf("u=%g: radius %g, want 1", u, r)
		}
	}
}

func TestNurbsCurveMatchesBezier(t *testing.T) {
	// A clamped knot vector with no interior knots is a Bezier curve.
	ctrl := []v3.Vec{{}, {X: 1, Y: 2}, {X: 2}}
	n := scenegraph.NewNurbsCurve(ctrl, nil, []float64{0, 0, 0, 1, 1, 1})
	b := scenegraph.NewBezierCurve(ctrl)

	if n.Degree() != 2 {
		t.Fatalf("degree = %d, want 2", n.Degree())
	}
	for _, u := range []float64{0, 0.2, 0.5, 0.8, 1} {
		pn, pb := n.PointAt(u), b.PointAt(u)
		if pn.Sub(pb).Length() > tol {
			t.Errorf("u=%g: nurbs %v != bezier %v", u, pn, pb)
		}
		tn, tb := n.TangentAt(u), b.TangentAt(u)
		if tn.Sub(tb).Length() > 1e-6 {
			t.Errorf("u=%g: nurbs tangent %v != bezier tangent %v", u, tn, tb)
		}
	}
}

func TestNurbsCurveKnotRange(t *testing.T) {
	ctrl := []v3.Vec{{}, {X: 1}, {X: 2}, {X: 3}}
	n := scenegraph.NewNurbsCurve(ctrl, nil, []float64{0, 0, 0, 0.5, 1, 1, 1})
	if n.FirstKnot() != 0 || n.LastKnot() != 1 {
		t.Errorf("knot range [%g, %g], want [0, 1]", n.FirstKnot(), n.LastKnot())
	}
	// Endpoint interpolation holds for clamped knots.
	if got := n.PointAt(0); got.Sub(ctrl[0]).Length() > tol {
		t.Errorf("PointAt(0) = %v, want %v", got, ctrl[0])
	}
	if got := n.PointAt(1); got.Sub(ctrl[3]).Length() > tol {
		t.Errorf("PointAt(1) = %v, want %v", got, ctrl[3])
	}
}

func TestPolyline2DInterpolation(t *testing.T) {
	p := scenegraph.NewPolyline2D([]v2.Vec{{}, {X: 2}, {X: 2, Y: 2}})
	cases := []struct {
		u    float64
		want v2.Vec
	}{
		{0, v2.Vec{}},
		{0.5, v2.Vec{X: 1}},
		{1, v2.Vec{X: 2}},
		{1.5, v2.Vec{X: 2, Y: 1}},
		{2, v2.Vec{X: 2, Y: 2}},
		{5, v2.Vec{X: 2, Y: 2}},
	}
	for _, c := range cases {
		if got := p.PointAt(c.u); got.Sub(c.want).Length() > tol {
			t.Errorf("PointAt(%g) = %v, want %v", c.u, got, c.want)
		}
	}
}

func TestBezierPatchCorners(t *testing.T) {
	grid := [][]v3.Vec{
		{{X: 0, Y: 0}, {X: 0, Y: 1}},
		{{X: 1, Y: 0}, {X: 1, Y: 1, Z: 1}},
	}
	p := scenegraph.NewBezierPatch(grid)

	cases := []struct {
		u, v float64
		want v3.Vec
	}{
		{0, 0, grid[0][0]},
		{0, 1, grid[0][1]},
		{1, 0, grid[1][0]},
		{1, 1, grid[1][1]},
	}
	for _, c := range cases {
		if got := p.PointAt(c.u, c.v); got.Sub(c.want).Length() > tol {
			t.Errorf("PointAt(%g,%g) = %v, want %v", c.u, c.v, got, c.want)
		}
	}
}

func TestProfileInterpolationBlend(t *testing.T) {
	a := scenegraph.NewPolyline2D([]v2.Vec{{}, {X: 1}})
	b := scenegraph.NewPolyline2D([]v2.Vec{{}, {X: 3}})
	pi := scenegraph.NewProfileInterpolation2D([]scenegraph.Curve2D{a, b}, []float64{0, 1})
	pi.Strides = 2

	mid := pi.Section2DAt(0.5)
	if len(mid) != 2 {
		t.Fatalf("section size = %d, want 2", len(mid))
	}
	if math.Abs(mid[1].X-2) > tol {
		t.Errorf("blended endpoint x = %g, want 2", mid[1].X)
	}
}
