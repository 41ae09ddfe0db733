package discretize_test

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/verdure/pkg/discretize"
	"github.com/chazu/verdure/pkg/scenegraph"
)

func triModel(offset float64) *scenegraph.TriangleSet {
	return scenegraph.NewTriangleSet(
		[]v3.Vec{{X: offset}, {X: offset + 1}, {X: offset, Y: 1}},
		[][3]int{{0, 1, 2}},
		true, false, nil)
}

func quadModel(offset float64) *scenegraph.QuadSet {
	return scenegraph.NewQuadSet(
		[]v3.Vec{{X: offset}, {X: offset + 1}, {X: offset + 1, Y: 1}, {X: offset, Y: 1}},
		[][4]int{{0, 1, 2, 3}},
		true, false, nil)
}

// mergeViaGroup funnels two explicit models through the composer.
func mergeViaGroup(t *testing.T, a, b scenegraph.ExplicitModel) scenegraph.ExplicitModel {
	t.Helper()
	d := discretize.New()
	if !d.Process(scenegraph.NewGroup(a, b)) {
		t.Fatal("group merge failed")
	}
	return d.Discretization()
}

func TestMergeSameArityKeepsType(t *testing.T) {
	m := mergeViaGroup(t, triModel(0), triModel(10))
	ts, ok := m.(*scenegraph.TriangleSet)
	if !ok {
		t.Fatalf("expected TriangleSet, got %T", m)
	}
	if len(ts.Points) != 6 || len(ts.Indices) != 2 {
		t.Fatalf("got %d points, %d faces, want 6 and 2", len(ts.Points), len(ts.Indices))
	}
	// Second model's indices must be shifted by the first's point count.
	if ts.Indices[1] != [3]int{3, 4, 5} {
		t.Errorf("shifted face = %v, want [3 4 5]", ts.Indices[1])
	}
}

func TestMergeMixedArityPromotesToFaceSet(t *testing.T) {
	m := mergeViaGroup(t, triModel(0), quadModel(10))
	fs, ok := m.(*scenegraph.FaceSet)
	if !ok {
		t.Fatalf("expected FaceSet, got %T", m)
	}
	if len(fs.Points) != 7 || len(fs.Indices) != 2 {
		t.Fatalf("got %d points, %d faces, want 7 and 2", len(fs.Points), len(fs.Indices))
	}
	if len(fs.Indices[0]) != 3 || len(fs.Indices[1]) != 4 {
		t.Errorf("arities = %d, %d, want 3 and 4", len(fs.Indices[0]), len(fs.Indices[1]))
	}
	if fs.Indices[1][0] != 3 {
		t.Errorf("quad indices not shifted: %v", fs.Indices[1])
	}
}

func TestMergeDropsTexCoordsWhenOnlyOneSideHasThem(t *testing.T) {
	d := discretize.New()
	d.ComputeTexCoord = true

	// A textured disc merged with an untextured box: texcoords drop.
	disc := scenegraph.NewDisc(1)
	disc.Slices = 4
	if !d.Process(disc) {
		t.Fatal("disc failed")
	}
	textured := d.Discretization()
	if !textured.(scenegraph.Mesh).HasTexCoords() {
		t.Fatal("disc must carry texcoords")
	}

	if !d.Process(scenegraph.NewBox(v3.Vec{X: 1, Y: 1, Z: 1})) {
		t.Fatal("box failed")
	}
	plain := d.Discretization()

	m := mergeViaGroup(t, textured, plain)
	if mesh, ok := m.(scenegraph.Mesh); ok && mesh.HasTexCoords() {
		t.Error("merged model must drop texcoords when one side lacks them")
	}
}

func TestMergePolylines(t *testing.T) {
	a := scenegraph.NewPolyline([]v3.Vec{{}, {X: 1}})
	b := scenegraph.NewPolyline([]v3.Vec{{X: 1}, {X: 2}})
	m := mergeViaGroup(t, a, b)
	pl, ok := m.(*scenegraph.Polyline)
	if !ok {
		t.Fatalf("expected Polyline, got %T", m)
	}
	if len(pl.Points) != 4 {
		t.Errorf("point count = %d, want 4", len(pl.Points))
	}
}

func TestMergePreservesFirstChildStorage(t *testing.T) {
	a := triModel(0)
	before := a.Points[0]
	_ = mergeViaGroup(t, a, triModel(10))
	if a.Points[0] != before || len(a.Points) != 3 || len(a.Indices) != 1 {
		t.Error("merging must not mutate the first child's own storage")
	}
}

func TestMergeSkeletons(t *testing.T) {
	a := scenegraph.NewTriangleSet(
		[]v3.Vec{{}, {X: 1}, {Y: 1}}, [][3]int{{0, 1, 2}},
		true, false, scenegraph.NewSegment(v3.Vec{}, v3.Vec{Z: 1}))
	b := scenegraph.NewTriangleSet(
		[]v3.Vec{{Z: 1}, {X: 1, Z: 1}, {Y: 1, Z: 1}}, [][3]int{{0, 1, 2}},
		true, false, scenegraph.NewSegment(v3.Vec{Z: 1}, v3.Vec{Z: 2}))

	m := mergeViaGroup(t, a, b)
	sk := m.SkeletonLine()
	if sk == nil {
		t.Fatal("merged skeleton missing")
	}
	// Meeting endpoints concatenate into one chain.
	if len(sk.Points) != 3 {
		t.Fatalf("skeleton chain length = %d, want 3", len(sk.Points))
	}
	if sk.Points[0].Length() > tol || sk.Points[2].Sub(v3.Vec{Z: 2}).Length() > tol {
		t.Errorf("skeleton endpoints %v", sk.Points)
	}
}
