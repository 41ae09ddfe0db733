package engine

import (
	"math"
	"testing"

	"github.com/chazu/verdure/pkg/scenegraph"
)

// eval evaluates source and fails the test on any error.
func eval(t *testing.T, source string) *scenegraph.Scene {
	t.Helper()
	e := NewEngine()
	scene, evalErrs, err := e.Evaluate(source)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return scene
}

func TestSphereBuiltin(t *testing.T) {
	scene := eval(t, `(shape (sphere :radius 2.5 :slices 12 :stacks 7))`)
	if len(scene.Roots) != 1 {
		t.Fatalf("root count = %d, want 1", len(scene.Roots))
	}
	s, ok := scene.Roots[0].(*scenegraph.Sphere)
	if !ok {
		t.Fatalf("root is %T, want *Sphere", scene.Roots[0])
	}
	if s.Radius != 2.5 || s.Slices != 12 || s.Stacks != 7 {
		t.Errorf("sphere = %+v", s)
	}
}

func TestNameBuiltin(t *testing.T) {
	scene := eval(t, `(shape (name "trunk" (cylinder :radius 0.5 :height 4)))`)
	root := scene.Roots[0]
	if root.Name() != "trunk" {
		t.Errorf("name = %q, want trunk", root.Name())
	}
}

func TestGroupAndTransforms(t *testing.T) {
	scene := eval(t, `
		(shape (group
			(box :size (vec3 1 2 3))
			(translate (vec3 10 0 0) (sphere :radius 1))))`)
	g, ok := scene.Roots[0].(*scenegraph.Group)
	if !ok {
		t.Fatalf("root is %T, want *Group", scene.Roots[0])
	}
	if len(g.Children) != 2 {
		t.Fatalf("child count = %d, want 2", len(g.Children))
	}
	if _, ok := g.Children[0].(*scenegraph.Box); !ok {
		t.Errorf("first child is %T, want *Box", g.Children[0])
	}
	tr, ok := g.Children[1].(*scenegraph.Translated)
	if !ok {
		t.Fatalf("second child is %T, want *Translated", g.Children[1])
	}
	if tr.Translation.X != 10 {
		t.Errorf("translation = %v", tr.Translation)
	}
}

func TestRevolutionBuiltin(t *testing.T) {
	scene := eval(t, `
		(shape (revolution
			(polyline2 (vec2 1 0) (vec2 1 1) (vec2 0 1))
			:slices 6))`)
	r, ok := scene.Roots[0].(*scenegraph.Revolution)
	if !ok {
		t.Fatalf("root is %T, want *Revolution", scene.Roots[0])
	}
	if r.Slices != 6 {
		t.Errorf("slices = %d, want 6", r.Slices)
	}
	if _, ok := r.Profile.(*scenegraph.Polyline2D); !ok {
		t.Errorf("profile is %T, want *Polyline2D", r.Profile)
	}
}

func TestExtrusionBuiltin(t *testing.T) {
	scene := eval(t, `
		(shape (extrusion
			(bezier (vec3 0 0 0) (vec3 0 0 2) :stride 4)
			(polyline2 (vec2 1 0) (vec2 0 1) (vec2 -1 0) (vec2 0 -1) (vec2 1 0))
			:solid true))`)
	e, ok := scene.Roots[0].(*scenegraph.Extrusion)
	if !ok {
		t.Fatalf("root is %T, want *Extrusion", scene.Roots[0])
	}
	if !e.Solid {
		t.Error("solid flag not applied")
	}
	if e.Axis.Stride() != 4 {
		t.Errorf("axis stride = %d, want 4", e.Axis.Stride())
	}
}

func TestIFSBuiltin(t *testing.T) {
	scene := eval(t, `
		(shape (ifs :depth 2
			:transforms [(xform :translate (vec3 1 0 0))
			             (xform :scale (vec3 0.5 0.5 0.5))]
			(sphere :radius 1)))`)
	f, ok := scene.Roots[0].(*scenegraph.IFS)
	if !ok {
		t.Fatalf("root is %T, want *IFS", scene.Roots[0])
	}
	if f.Depth != 2 || len(f.Transforms) != 2 {
		t.Errorf("ifs = depth %d, %d transforms", f.Depth, len(f.Transforms))
	}
	if got := len(f.AllTransforms()); got != 4 {
		t.Errorf("instance count = %d, want 4", got)
	}
}

func TestTaperBuiltin(t *testing.T) {
	scene := eval(t, `(shape (taper 1 0.25 (cylinder :radius 1 :height 3)))`)
	tp, ok := scene.Roots[0].(*scenegraph.Tapered)
	if !ok {
		t.Fatalf("root is %T, want *Tapered", scene.Roots[0])
	}
	if tp.BaseRadius != 1 || tp.TopRadius != 0.25 {
		t.Errorf("taper = %+v", tp)
	}
}

func TestSwungBuiltin(t *testing.T) {
	scene := eval(t, `
		(shape (swung
			:profiles [(polyline2 (vec2 1 0) (vec2 0 2))
			           (polyline2 (vec2 2 0) (vec2 0 2))]
			:angles [0 6.2832]
			:slices 8 :samples 4))`)
	s, ok := scene.Roots[0].(*scenegraph.Swung)
	if !ok {
		t.Fatalf("root is %T, want *Swung", scene.Roots[0])
	}
	if s.Profiles.Stride() != 4 {
		t.Errorf("samples = %d, want 4", s.Profiles.Stride())
	}
	if math.Abs(s.Profiles.UMax()-6.2832) > 1e-9 {
		t.Errorf("knot max = %g", s.Profiles.UMax())
	}
}

func TestRadianAngleLiterals(t *testing.T) {
	scene := eval(t, `(shape (rotate (vec3 0 0 1) 1.5708 (box :size (vec3 1 1 1))))`)
	r, ok := scene.Roots[0].(*scenegraph.AxisRotated)
	if !ok {
		t.Fatalf("root is %T, want *AxisRotated", scene.Roots[0])
	}
	if math.Abs(r.Angle-1.5708) > 1e-9 {
		t.Errorf("angle = %g", r.Angle)
	}
}

func TestDegreeAnglesInScripts(t *testing.T) {
	scene := eval(t, `(shape (rotate (vec3 0 0 1) 90deg (box :size (vec3 1 1 1))))`)
	r, ok := scene.Roots[0].(*scenegraph.AxisRotated)
	if !ok {
		t.Fatalf("root is %T, want *AxisRotated", scene.Roots[0])
	}
	if math.Abs(r.Angle-math.Pi/2) > 1e-12 {
		t.Errorf("angle = %g, want pi/2", r.Angle)
	}
}
