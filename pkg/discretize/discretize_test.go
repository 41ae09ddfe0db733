package discretize_test

import (
	"math"
	"sort"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/verdure/pkg/discretize"
	"github.com/chazu/verdure/pkg/scenegraph"
)

const tol = 1e-6

// makeSphere returns a sphere with the test's canonical resolution.
func makeSphere(radius float64, slices, stacks int) *scenegraph.Sphere {
	s := scenegraph.NewSphere(radius)
	s.Slices = slices
	s.Stacks = stacks
	return s
}

// discretized runs one dispatch and fails the test on an empty result.
func discretized(t *testing.T, g scenegraph.Geometry) scenegraph.ExplicitModel {
	t.Helper()
	d := discretize.New()
	if !d.Process(g) {
		t.Fatalf("Process(%T) failed", g)
	}
	m := d.Discretization()
	if m == nil {
		t.Fatalf("Process(%T) returned true but left no result", g)
	}
	return m
}

func TestSphereCounts(t *testing.T) {
	m := discretized(t, makeSphere(1, 8, 6))
	ts, ok := m.(*scenegraph.TriangleSet)
	if !ok {
		t.Fatalf("expected TriangleSet, got %T", m)
	}
	if got, want := len(ts.Points), 8*5+2; got != want {
		t.Errorf("point count = %d, want %d", got, want)
	}
	if got, want := len(ts.Indices), 2*8*5; got != want {
		t.Errorf("face count = %d, want %d", got, want)
	}
	for i, p := range ts.Points {
		if r := p.Length(); math.Abs(r-1) > tol {
			t.Errorf("point %d has |p| = %g, want 1", i, r)
		}
	}
	// Dedicated poles are the last two points.
	if got := ts.Points[len(ts.Points)-2]; math.Abs(got.Z+1) > tol {
		t.Errorf("lower pole at %v, want z=-1", got)
	}
	if got := ts.Points[len(ts.Points)-1]; math.Abs(got.Z-1) > tol {
		t.Errorf("upper pole at %v, want z=1", got)
	}
	for fi, f := range ts.Indices {
		for _, ix := range f {
			if ix < 0 || ix >= len(ts.Points) {
				t.Fatalf("face %d index %d out of range", fi, ix)
			}
		}
	}
}

func TestSphereCCW(t *testing.T) {
	m := discretized(t, makeSphere(1, 8, 6))
	ts := m.(*scenegraph.TriangleSet)
	for fi, f := range ts.Indices {
		a, b, c := ts.Points[f[0]], ts.Points[f[1]], ts.Points[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).DivScalar(3)
		if n.Dot(centroid) <= 0 {
			t.Errorf("face %d wound inward", fi)
		}
	}
}

func TestCylinderSolid(t *testing.T) {
	c := scenegraph.NewCylinder(2, 5)
	c.Slices = 4
	m := discretized(t, c)
	fs, ok := m.(*scenegraph.FaceSet)
	if !ok {
		t.Fatalf("expected FaceSet for solid cylinder, got %T", m)
	}
	if got, want := len(fs.Points), 2*4+2; got != want {
		t.Errorf("point count = %d, want %d", got, want)
	}
	if got, want := len(fs.Indices), 12; got != want {
		t.Errorf("face count = %d, want %d", got, want)
	}
	quads, tris := 0, 0
	for _, f := range fs.Indices {
		switch len(f) {
		case 4:
			quads++
		case 3:
			tris++
		default:
			t.Errorf("unexpected face arity %d", len(f))
		}
	}
	if quads != 4 || tris != 8 {
		t.Errorf("got %d quads and %d tris, want 4 and 8", quads, tris)
	}
	sk := fs.SkeletonLine()
	if sk == nil || len(sk.Points) != 2 {
		t.Fatal("missing skeleton")
	}
	if sk.Points[0].Length() > tol || sk.Points[1].Sub(v3.Vec{Z: 5}).Length() > tol {
		t.Errorf("skeleton endpoints %v, want (0,0,0)-(0,0,5)", sk.Points)
	}
}

func TestCylinderOpenIsQuadSet(t *testing.T) {
	c := scenegraph.NewCylinder(1, 1)
	c.Solid = false
	c.Slices = 6
	m := discretized(t, c)
	qs, ok := m.(*scenegraph.QuadSet)
	if !ok {
		t.Fatalf("expected QuadSet for open cylinder, got %T", m)
	}
	if len(qs.Indices) != 6 {
		t.Errorf("quad count = %d, want 6", len(qs.Indices))
	}
}

func TestBoxGeometry(t *testing.T) {
	m := discretized(t, scenegraph.NewBox(v3.Vec{X: 1, Y: 2, Z: 3}))
	qs, ok := m.(*scenegraph.QuadSet)
	if !ok {
		t.Fatalf("expected QuadSet, got %T", m)
	}
	if len(qs.Points) != 8 || len(qs.Indices) != 6 {
		t.Fatalf("got %d points, %d quads, want 8 and 6", len(qs.Points), len(qs.Indices))
	}
	for i, p := range qs.Points {
		if math.Abs(math.Abs(p.X)-1) > tol || math.Abs(math.Abs(p.Y)-2) > tol || math.Abs(math.Abs(p.Z)-3) > tol {
			t.Errorf("corner %d at %v, want coordinates in {±1}x{±2}x{±3}", i, p)
		}
	}
	// Every quad must lie in an axis-aligned plane.
	for fi, f := range qs.Indices {
		p0 := qs.Points[f[0]]
		axisConst := false
		for _, pick := range []func(v3.Vec) float64{
			func(v v3.Vec) float64 { return v.X },
			func(v v3.Vec) float64 { return v.Y },
			func(v v3.Vec) float64 { return v.Z },
		} {
			same := true
			for _, ix := range f[1:] {
				if math.Abs(pick(qs.Points[ix])-pick(p0)) > tol {
					same = false
					break
				}
			}
			if same {
				axisConst = true
			}
		}
		if !axisConst {
			t.Errorf("quad %d is not axis-aligned", fi)
		}
	}
	if len(qs.Normals) != 6 {
		t.Errorf("normal count = %d, want 6", len(qs.Normals))
	}
}

func TestBezierPatchFlat(t *testing.T) {
	grid := make([][]v3.Vec, 4)
	for i := range grid {
		grid[i] = make([]v3.Vec, 4)
		for j := range grid[i] {
			grid[i][j] = v3.Vec{X: float64(i), Y: float64(j)}
		}
	}
	p := scenegraph.NewBezierPatch(grid)
	p.UStride = 3
	p.VStride = 3

	m := discretized(t, p)
	qs, ok := m.(*scenegraph.QuadSet)
	if !ok {
		t.Fatalf("expected QuadSet, got %T", m)
	}
	if len(qs.Points) != 9 || len(qs.Indices) != 4 {
		t.Fatalf("got %d points, %d quads, want 9 and 4", len(qs.Points), len(qs.Indices))
	}
	for i, pt := range qs.Points {
		if math.Abs(pt.Z) > 1e-9 {
			t.Errorf("point %d at z=%g, want 0", i, pt.Z)
		}
	}
}

func TestRevolution(t *testing.T) {
	profile := scenegraph.NewPolyline2D([]v2.Vec{{X: 1}, {X: 1, Y: 1}, {Y: 1}})
	r := scenegraph.NewRevolution(profile)
	r.Slices = 4

	m := discretized(t, r)
	ts, ok := m.(*scenegraph.TriangleSet)
	if !ok {
		t.Fatalf("expected TriangleSet, got %T", m)
	}
	if len(ts.Points) != 12 || len(ts.Indices) != 16 {
		t.Fatalf("got %d points, %d tris, want 12 and 16", len(ts.Points), len(ts.Indices))
	}
	for i, p := range ts.Points {
		if math.Abs(p.Z) < tol {
			if r := math.Hypot(p.X, p.Y); math.Abs(r-1) > tol {
				t.Errorf("point %d at z=0 has radius %g, want 1", i, r)
			}
		}
	}
	if ts.IsSolid() {
		t.Error("open profile must not produce a solid")
	}
}

func TestGroupOfSpheres(t *testing.T) {
	a := makeSphere(1, 8, 6)
	b := scenegraph.NewTranslated(v3.Vec{X: 10}, makeSphere(1, 8, 6))
	g := scenegraph.NewGroup(a, b)

	m := discretized(t, g)
	ts, ok := m.(*scenegraph.TriangleSet)
	if !ok {
		t.Fatalf("expected TriangleSet, got %T", m)
	}
	single := 8*5 + 2
	if got := len(ts.Points); got != 2*single {
		t.Errorf("point count = %d, want %d", got, 2*single)
	}
	if got := len(ts.Indices); got != 2*80 {
		t.Errorf("face count = %d, want %d", got, 160)
	}
	left, right := 0, 0
	for _, p := range ts.Points {
		switch {
		case p.X < 5:
			left++
		default:
			right++
		}
	}
	if left != single || right != single {
		t.Errorf("clusters %d/%d, want %d/%d", left, right, single, single)
	}
}

func TestTransformComposition(t *testing.T) {
	base := makeSphere(1, 8, 6)
	translated := scenegraph.NewTranslated(v3.Vec{X: 1, Y: 2, Z: 3}, base)

	got := discretized(t, translated).PointList()

	want := discretized(t, makeSphere(1, 8, 6)).
		Transform(scenegraph.Matrix{M: sdf.Translate3d(v3.Vec{X: 1, Y: 2, Z: 3})}).
		PointList()

	if len(got) != len(want) {
		t.Fatalf("point counts differ: %d vs %d", len(got), len(want))
	}
	for i := range got {
		if got[i].Sub(want[i]).Length() > 1e-9 {
			t.Fatalf("point %d: %v != %v", i, got[i], want[i])
		}
	}
}

// sortedPoints returns the model's points in lexicographic order.
func sortedPoints(m scenegraph.ExplicitModel) []v3.Vec {
	pts := append([]v3.Vec(nil), m.PointList()...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].Z < pts[j].Z
	})
	return pts
}

func TestGroupAssociativity(t *testing.T) {
	mk := func() (a, b, c scenegraph.Geometry) {
		a = scenegraph.NewBox(v3.Vec{X: 1, Y: 1, Z: 1})
		b = scenegraph.NewTranslated(v3.Vec{X: 5}, scenegraph.NewBox(v3.Vec{X: 1, Y: 1, Z: 1}))
		c = scenegraph.NewTranslated(v3.Vec{Y: 5}, scenegraph.NewBox(v3.Vec{X: 1, Y: 1, Z: 1}))
		return a, b, c
	}

	a1, b1, c1 := mk()
	left := discretized(t, scenegraph.NewGroup(a1, scenegraph.NewGroup(b1, c1)))
	a2, b2, c2 := mk()
	right := discretized(t, scenegraph.NewGroup(scenegraph.NewGroup(a2, b2), c2))

	lp, rp := sortedPoints(left), sortedPoints(right)
	if len(lp) != len(rp) {
		t.Fatalf("point counts differ: %d vs %d", len(lp), len(rp))
	}
	for i := range lp {
		if lp[i].Sub(rp[i]).Length() > tol {
			t.Fatalf("point multiset differs at %d: %v vs %v", i, lp[i], rp[i])
		}
	}
}

func TestExplicitInputIdentity(t *testing.T) {
	ts := scenegraph.NewTriangleSet(
		[]v3.Vec{{}, {X: 1}, {Y: 1}},
		[][3]int{{0, 1, 2}},
		true, false, nil)

	d := discretize.New()
	if !d.Process(ts) {
		t.Fatal("Process(TriangleSet) failed")
	}
	if d.Discretization() != scenegraph.ExplicitModel(ts) {
		t.Error("explicit input must pass through by identity")
	}
}

func TestSymbolPassesThroughWrappedMesh(t *testing.T) {
	ts := scenegraph.NewTriangleSet(
		[]v3.Vec{{}, {X: 1}, {Y: 1}},
		[][3]int{{0, 1, 2}},
		true, false, nil)
	sym := scenegraph.NewSymbol(ts)

	d := discretize.New()
	if !d.Process(sym) {
		t.Fatal("Process(Symbol) failed")
	}
	if d.Discretization() != scenegraph.ExplicitModel(ts) {
		t.Error("symbol must pass its mesh through by identity")
	}
}

func TestCacheCoherence(t *testing.T) {
	s := makeSphere(1, 8, 6)
	s.SetName("ball")

	d := discretize.New()
	if !d.Process(s) {
		t.Fatal("first Process failed")
	}
	first := d.Discretization()
	if !d.Process(s) {
		t.Fatal("second Process failed")
	}
	if d.Discretization() != first {
		t.Error("named node must hit the cache and return the same reference")
	}

	d.Clear()
	if !d.Process(s) {
		t.Fatal("Process after Clear failed")
	}
	if d.Discretization() == first {
		t.Error("Clear must force a fresh object")
	}
}

func TestAnonymousNodesAreNotCached(t *testing.T) {
	s := makeSphere(1, 8, 6)
	d := discretize.New()
	d.Process(s)
	first := d.Discretization()
	d.Process(s)
	if d.Discretization() == first {
		t.Error("anonymous node must be recomputed")
	}
}

func TestUVRegeneration(t *testing.T) {
	s := makeSphere(1, 8, 6)
	s.SetName("ball")

	d := discretize.New()
	if !d.Process(s) {
		t.Fatal("Process failed")
	}
	plain := d.Discretization().(scenegraph.Mesh)
	if plain.HasTexCoords() {
		t.Fatal("texcoords must be off by default")
	}

	d.ComputeTexCoord = true
	if !d.Process(s) {
		t.Fatal("Process with UV flag failed")
	}
	uv := d.Discretization().(scenegraph.Mesh)
	if scenegraph.ExplicitModel(uv) == scenegraph.ExplicitModel(plain) {
		t.Fatal("cache hit without texcoords must re-tessellate")
	}
	if !uv.HasTexCoords() {
		t.Fatal("re-tessellated mesh must carry texcoords")
	}
	ts := uv.(*scenegraph.TriangleSet)
	if got, want := len(ts.TexCoordList()), (8+1)*(6+1); got != want {
		t.Errorf("texcoord count = %d, want %d", got, want)
	}
	if got, want := len(ts.TexIndices), len(ts.Indices); got != want {
		t.Errorf("texcoord index count = %d, want %d", got, want)
	}
	for fi, f := range ts.TexIndices {
		for _, ix := range f {
			if ix < 0 || ix >= len(ts.TexCoordList()) {
				t.Fatalf("tex face %d index %d out of range", fi, ix)
			}
		}
	}

	// A hit with texcoords present is reused.
	if !d.Process(s) {
		t.Fatal("third Process failed")
	}
	if d.Discretization() != scenegraph.ExplicitModel(uv) {
		t.Error("textured entry must now satisfy the cache lookup")
	}
}

func TestAppearanceNodesProduceNothing(t *testing.T) {
	d := discretize.New()
	for _, g := range []scenegraph.Geometry{
		scenegraph.NewMaterial(),
		scenegraph.NewImageTexture("bark.png"),
		scenegraph.NewText("label"),
	} {
		if d.Process(g) {
			t.Errorf("Process(%T) = true, want false", g)
		}
		if d.Discretization() != nil {
			t.Errorf("Process(%T) left a result", g)
		}
	}
}

func TestEmptyGroupChildFailsComposite(t *testing.T) {
	g := scenegraph.NewGroup(makeSphere(1, 8, 6), scenegraph.NewMaterial())
	d := discretize.New()
	if d.Process(g) {
		t.Error("group with a non-geometric child must fail")
	}
	if d.Discretization() != nil {
		t.Error("failed group must leave an empty result")
	}
}

func TestParaboloidCounts(t *testing.T) {
	p := scenegraph.NewParaboloid(2, 3, 2)
	p.Slices = 6
	p.Stacks = 4
	m := discretized(t, p)
	ts := m.(*scenegraph.TriangleSet)
	if got, want := len(ts.Points), 6*4+2; got != want {
		t.Errorf("point count = %d, want %d", got, want)
	}
	if got, want := len(ts.Indices), 2*6*4; got != want {
		t.Errorf("face count = %d, want %d", got, want)
	}
	// The surface follows z = h*(1-(r/R)^shape).
	for i, pt := range ts.Points[:len(ts.Points)-2] {
		r := math.Hypot(pt.X, pt.Y)
		want := 3 * (1 - math.Pow(r/2, 2))
		if math.Abs(pt.Z-want) > tol {
			t.Errorf("point %d: z=%g, want %g", i, pt.Z, want)
		}
	}
}

func TestAsymmetricHullCounts(t *testing.T) {
	h := scenegraph.NewAsymmetricHull(1, 1)
	h.Slices = 2
	h.Stacks = 2
	m := discretized(t, h)
	ts := m.(*scenegraph.TriangleSet)
	ring := 2*2 - 1
	if got, want := len(ts.Points), 4*2*ring+2; got != want {
		t.Errorf("point count = %d, want %d", got, want)
	}
	if got, want := len(ts.Indices), 2*4*2*ring; got != want {
		t.Errorf("face count = %d, want %d", got, want)
	}
	for fi, f := range ts.Indices {
		for _, ix := range f {
			if ix < 0 || ix >= len(ts.Points) {
				t.Fatalf("face %d index %d out of range", fi, ix)
			}
		}
	}
}

func TestDisc(t *testing.T) {
	disc := scenegraph.NewDisc(2)
	disc.Slices = 8
	d := discretize.New()
	d.ComputeTexCoord = true
	if !d.Process(disc) {
		t.Fatal("Process failed")
	}
	ts := d.Discretization().(*scenegraph.TriangleSet)
	if len(ts.Points) != 9 || len(ts.Indices) != 8 {
		t.Fatalf("got %d points, %d tris, want 9 and 8", len(ts.Points), len(ts.Indices))
	}
	tex := ts.TexCoordList()
	if len(tex) != 9 {
		t.Fatalf("texcoord count = %d, want 9", len(tex))
	}
	center := tex[len(tex)-1]
	if math.Abs(center.X-0.5) > tol || math.Abs(center.Y-0.5) > tol {
		t.Errorf("center UV = %v, want (0.5, 0.5)", center)
	}
}

func TestElevationGrid(t *testing.T) {
	g := scenegraph.NewElevationGrid([][]float64{
		{0, 1, 0},
		{1, 2, 1},
		{0, 1, 0},
	}, 1, 1)
	m := discretized(t, g)
	ts := m.(*scenegraph.TriangleSet)
	if len(ts.Points) != 9 || len(ts.Indices) != 8 {
		t.Fatalf("got %d points, %d tris, want 9 and 8", len(ts.Points), len(ts.Indices))
	}
	// The center sample carries its height.
	found := false
	for _, p := range ts.Points {
		if math.Abs(p.X-1) < tol && math.Abs(p.Y-1) < tol {
			found = true
			if math.Abs(p.Z-2) > tol {
				t.Errorf("center height = %g, want 2", p.Z)
			}
		}
	}
	if !found {
		t.Error("center sample missing")
	}
}

func TestNurbsPatchStoresResult(t *testing.T) {
	grid := make([][]v3.Vec, 3)
	for i := range grid {
		grid[i] = make([]v3.Vec, 3)
		for j := range grid[i] {
			grid[i][j] = v3.Vec{X: float64(i), Y: float64(j)}
		}
	}
	knots := []float64{0, 0, 0, 1, 1, 1}
	p := scenegraph.NewNurbsPatch(grid, nil, knots, knots)
	p.UStride = 4
	p.VStride = 4
	p.SetName("patch")

	d := discretize.New()
	if !d.Process(p) {
		t.Fatal("Process failed")
	}
	first := d.Discretization()
	if first == nil {
		t.Fatal("nurbs patch must store the freshly built mesh")
	}
	if !d.Process(p) || d.Discretization() != first {
		t.Error("named nurbs patch must be served from the cache")
	}
}
