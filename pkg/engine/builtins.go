package engine

import (
	"fmt"
	"strings"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/verdure/pkg/scenegraph"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpGeom wraps a scenegraph node so it can flow between builtins.
type sexpGeom struct {
	geom scenegraph.Geometry
}

func (g *sexpGeom) SexpString(ps *zygo.PrintState) string {
	if g.geom.IsNamed() {
		return fmt.Sprintf("(geometry %q)", g.geom.Name())
	}
	return fmt.Sprintf("(geometry #%d)", g.geom.ID())
}
func (g *sexpGeom) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a 3D vector.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.3f %.3f %.3f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpVec2 wraps a planar vector.
type sexpVec2 struct {
	vec v2.Vec
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %.3f %.3f)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpMat wraps an affine matrix for iterated function systems.
type sexpMat struct {
	mat sdf.M44
}

func (m *sexpMat) SexpString(ps *zygo.PrintState) string { return "(xform)" }
func (m *sexpMat) Type() *zygo.RegisteredType            { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toVec2(s zygo.Sexp) (v2.Vec, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return v2.Vec{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

func toGeom(s zygo.Sexp) (scenegraph.Geometry, error) {
	if g, ok := s.(*sexpGeom); ok {
		return g.geom, nil
	}
	return nil, fmt.Errorf("expected geometry, got %T (%s)", s, s.SexpString(nil))
}

func toCurve2D(s zygo.Sexp) (scenegraph.Curve2D, error) {
	g, err := toGeom(s)
	if err != nil {
		return nil, err
	}
	c, ok := g.(scenegraph.Curve2D)
	if !ok {
		return nil, fmt.Errorf("expected planar curve, got %T", g)
	}
	return c, nil
}

func toCurve(s zygo.Sexp) (scenegraph.Curve, error) {
	g, err := toGeom(s)
	if err != nil {
		return nil, err
	}
	c, ok := g.(scenegraph.Curve)
	if !ok {
		return nil, fmt.Errorf("expected 3D curve, got %T", g)
	}
	return c, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go
// slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

func toFloatSlice(s zygo.Sexp) ([]float64, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, it := range items {
		f, err := toFloat64(it)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func toVec2Slice(s zygo.Sexp) ([]v2.Vec, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]v2.Vec, len(items))
	for i, it := range items {
		v, err := toVec2(it)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func toVec3Slice(s zygo.Sexp) ([]v3.Vec, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]v3.Vec, len(items))
	for i, it := range items {
		v, err := toVec3(it)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// kwFloat fetches an optional numeric keyword into dst.
func kwFloat(pa kwArgs, name string, dst *float64) error {
	v, ok := pa.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = f
	return nil
}

// kwInt fetches an optional integer keyword into dst.
func kwInt(pa kwArgs, name string, dst *int) error {
	v, ok := pa.kw[name]
	if !ok {
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

// kwBool fetches an optional boolean keyword into dst.
func kwBool(pa kwArgs, name string, dst *bool) error {
	v, ok := pa.kw[name]
	if !ok {
		return nil
	}
	b, err := toBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = b
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all Verdure DSL builtins into a zygomys
// environment. The builtins construct scenegraph nodes; (shape g) appends
// a node to the scene's roots.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable string
// literals.
func registerBuiltins(env *zygo.Zlisp, scene *scenegraph.Scene) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3) / (vec2 1 2)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpVec2{vec: v2.Vec{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (name "trunk" geom) — names a node, enabling discretization caching
	// -----------------------------------------------------------------------
	env.AddFunction("name", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("name requires a string and a geometry")
		}
		n, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("name: %w", err)
		}
		g, err := toGeom(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("name: %w", err)
		}
		g.SetName(n)
		return args[1], nil
	})

	// -----------------------------------------------------------------------
	// (shape geom ...) — appends geometry to the scene roots
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("shape requires at least one geometry")
		}
		for _, a := range args {
			g, err := toGeom(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shape: %w", err)
			}
			scene.Add(g)
		}
		return args[len(args)-1], nil
	})

	// -----------------------------------------------------------------------
	// (sphere :radius 1 :slices 8 :stacks 6)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		s := scenegraph.NewSphere(1)
		if err := kwFloat(pa, "radius", &s.Radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		if err := kwInt(pa, "slices", &s.Slices); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		if err := kwInt(pa, "stacks", &s.Stacks); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return &sexpGeom{geom: s}, nil
	})

	// -----------------------------------------------------------------------
	// (cone :radius 1 :height 2 :solid true :slices 8)
	// -----------------------------------------------------------------------
	env.AddFunction("cone", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c := scenegraph.NewCone(1, 1)
		if err := kwFloat(pa, "radius", &c.Radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("cone: %w", err)
		}
		if err := kwFloat(pa, "height", &c.Height); err != nil {
			return zygo.SexpNull, fmt.Errorf("cone: %w", err)
		}
		if err := kwBool(pa, "solid", &c.Solid); err != nil {
			return zygo.SexpNull, fmt.Errorf("cone: %w", err)
		}
		if err := kwInt(pa, "slices", &c.Slices); err != nil {
			return zygo.SexpNull, fmt.Errorf("cone: %w", err)
		}
		return &sexpGeom{geom: c}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :radius 1 :height 2 :solid true :slices 8)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c := scenegraph.NewCylinder(1, 1)
		if err := kwFloat(pa, "radius", &c.Radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if err := kwFloat(pa, "height", &c.Height); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if err := kwBool(pa, "solid", &c.Solid); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if err := kwInt(pa, "slices", &c.Slices); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		return &sexpGeom{geom: c}, nil
	})

	// -----------------------------------------------------------------------
	// (frustum :radius 1 :height 2 :taper 0.5 :solid true :slices 8)
	// -----------------------------------------------------------------------
	env.AddFunction("frustum", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		f := scenegraph.NewFrustum(1, 1, 0.5)
		if err := kwFloat(pa, "radius", &f.Radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("frustum: %w", err)
		}
		if err := kwFloat(pa, "height", &f.Height); err != nil {
			return zygo.SexpNull, fmt.Errorf("frustum: %w", err)
		}
		if err := kwFloat(pa, "taper", &f.Taper); err != nil {
			return zygo.SexpNull, fmt.Errorf("frustum: %w", err)
		}
		if err := kwBool(pa, "solid", &f.Solid); err != nil {
			return zygo.SexpNull, fmt.Errorf("frustum: %w", err)
		}
		if err := kwInt(pa, "slices", &f.Slices); err != nil {
			return zygo.SexpNull, fmt.Errorf("frustum: %w", err)
		}
		return &sexpGeom{geom: f}, nil
	})

	// -----------------------------------------------------------------------
	// (paraboloid :radius 1 :height 2 :shape 2 :solid true)
	// -----------------------------------------------------------------------
	env.AddFunction("paraboloid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p := scenegraph.NewParaboloid(1, 1, 2)
		if err := kwFloat(pa, "radius", &p.Radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("paraboloid: %w", err)
		}
		if err := kwFloat(pa, "height", &p.Height); err != nil {
			return zygo.SexpNull, fmt.Errorf("paraboloid: %w", err)
		}
		if err := kwFloat(pa, "shape", &p.Shape); err != nil {
			return zygo.SexpNull, fmt.Errorf("paraboloid: %w", err)
		}
		if err := kwBool(pa, "solid", &p.Solid); err != nil {
			return zygo.SexpNull, fmt.Errorf("paraboloid: %w", err)
		}
		if err := kwInt(pa, "slices", &p.Slices); err != nil {
			return zygo.SexpNull, fmt.Errorf("paraboloid: %w", err)
		}
		if err := kwInt(pa, "stacks", &p.Stacks); err != nil {
			return zygo.SexpNull, fmt.Errorf("paraboloid: %w", err)
		}
		return &sexpGeom{geom: p}, nil
	})

	// -----------------------------------------------------------------------
	// (box :size (vec3 1 2 3))
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		size := v3.Vec{X: 1, Y: 1, Z: 1}
		if v, ok := pa.kw["size"]; ok {
			s, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
			size = s
		}
		return &sexpGeom{geom: scenegraph.NewBox(size)}, nil
	})

	// -----------------------------------------------------------------------
	// (disc :radius 1 :slices 8)
	// -----------------------------------------------------------------------
	env.AddFunction("disc", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		d := scenegraph.NewDisc(1)
		if err := kwFloat(pa, "radius", &d.Radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("disc: %w", err)
		}
		if err := kwInt(pa, "slices", &d.Slices); err != nil {
			return zygo.SexpNull, fmt.Errorf("disc: %w", err)
		}
		return &sexpGeom{geom: d}, nil
	})

	// -----------------------------------------------------------------------
	// (asymmetric-hull :radius 1 :height 1 :pos-x-radius 2 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("asymmetric_hull", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		radius, height := 1.0, 1.0
		if err := kwFloat(pa, "radius", &radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("asymmetric-hull: %w", err)
		}
		if err := kwFloat(pa, "height", &height); err != nil {
			return zygo.SexpNull, fmt.Errorf("asymmetric-hull: %w", err)
		}
		h := scenegraph.NewAsymmetricHull(radius, height)
		// Keyword names keep their hyphens through preprocessing.
		fields := map[string]*float64{
			"pos-x-radius": &h.PosXRadius,
			"neg-x-radius": &h.NegXRadius,
			"pos-y-radius": &h.PosYRadius,
			"neg-y-radius": &h.NegYRadius,
			"pos-x-height": &h.PosXHeight,
			"neg-x-height": &h.NegXHeight,
			"pos-y-height": &h.PosYHeight,
			"neg-y-height": &h.NegYHeight,
			"bottom-shape": &h.BottomShape,
			"top-shape":    &h.TopShape,
		}
		for key, dst := range fields {
			if err := kwFloat(pa, key, dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("asymmetric-hull: %w", err)
			}
		}
		if v, ok := pa.kw["bottom"]; ok {
			b, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("asymmetric-hull: bottom: %w", err)
			}
			h.Bottom = b
		}
		if v, ok := pa.kw["top"]; ok {
			t, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("asymmetric-hull: top: %w", err)
			}
			h.Top = t
		}
		if err := kwInt(pa, "slices", &h.Slices); err != nil {
			return zygo.SexpNull, fmt.Errorf("asymmetric-hull: %w", err)
		}
		if err := kwInt(pa, "stacks", &h.Stacks); err != nil {
			return zygo.SexpNull, fmt.Errorf("asymmetric-hull: %w", err)
		}
		return &sexpGeom{geom: h}, nil
	})

	// -----------------------------------------------------------------------
	// (polyline2 (vec2 0 0) (vec2 1 0) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("polyline2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("polyline2 requires at least 2 points")
		}
		pts := make([]v2.Vec, len(args))
		for i, a := range args {
			p, err := toVec2(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polyline2: %w", err)
			}
			pts[i] = p
		}
		return &sexpGeom{geom: scenegraph.NewPolyline2D(pts)}, nil
	})

	// -----------------------------------------------------------------------
	// (bezier2 (vec2 ...) ... :stride 16) / (bezier (vec3 ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("bezier2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("bezier2 requires at least 2 control points")
		}
		ctrl := make([]v2.Vec, len(pa.positional))
		for i, a := range pa.positional {
			p, err := toVec2(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bezier2: %w", err)
			}
			ctrl[i] = p
		}
		c := scenegraph.NewBezierCurve2D(ctrl)
		if err := kwInt(pa, "stride", &c.Strides); err != nil {
			return zygo.SexpNull, fmt.Errorf("bezier2: %w", err)
		}
		return &sexpGeom{geom: c}, nil
	})

	env.AddFunction("bezier", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("bezier requires at least 2 control points")
		}
		ctrl := make([]v3.Vec, len(pa.positional))
		for i, a := range pa.positional {
			p, err := toVec3(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bezier: %w", err)
			}
			ctrl[i] = p
		}
		c := scenegraph.NewBezierCurve(ctrl)
		if err := kwInt(pa, "stride", &c.Strides); err != nil {
			return zygo.SexpNull, fmt.Errorf("bezier: %w", err)
		}
		return &sexpGeom{geom: c}, nil
	})

	// -----------------------------------------------------------------------
	// (nurbs2 :ctrl [...] :knots [...] :weights [...] :stride 16)
	// -----------------------------------------------------------------------
	env.AddFunction("nurbs2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		ctrlArg, ok := pa.kw["ctrl"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("nurbs2 requires :ctrl")
		}
		ctrl, err := toVec2Slice(ctrlArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("nurbs2: ctrl: %w", err)
		}
		knotsArg, ok := pa.kw["knots"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("nurbs2 requires :knots")
		}
		knots, err := toFloatSlice(knotsArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("nurbs2: knots: %w", err)
		}
		var weights []float64
		if w, ok := pa.kw["weights"]; ok {
			weights, err = toFloatSlice(w)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("nurbs2: weights: %w", err)
			}
		}
		c := scenegraph.NewNurbsCurve2D(ctrl, weights, knots)
		if err := kwInt(pa, "stride", &c.Strides); err != nil {
			return zygo.SexpNull, fmt.Errorf("nurbs2: %w", err)
		}
		return &sexpGeom{geom: c}, nil
	})

	// -----------------------------------------------------------------------
	// (bezier-patch [[...][...]] :ustride 8 :vstride 8)
	// -----------------------------------------------------------------------
	env.AddFunction("bezier_patch", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("bezier-patch requires a control grid")
		}
		rows, err := sexpListToSlice(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("bezier-patch: %w", err)
		}
		grid := make([][]v3.Vec, len(rows))
		for i, r := range rows {
			row, err := toVec3Slice(r)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bezier-patch: row %d: %w", i, err)
			}
			grid[i] = row
		}
		p := scenegraph.NewBezierPatch(grid)
		if err := kwInt(pa, "ustride", &p.UStride); err != nil {
			return zygo.SexpNull, fmt.Errorf("bezier-patch: %w", err)
		}
		if err := kwInt(pa, "vstride", &p.VStride); err != nil {
			return zygo.SexpNull, fmt.Errorf("bezier-patch: %w", err)
		}
		return &sexpGeom{geom: p}, nil
	})

	// -----------------------------------------------------------------------
	// (elevation-grid :heights [[...][...]] :dx 1 :dy 1)
	// -----------------------------------------------------------------------
	env.AddFunction("elevation_grid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		hArg, ok := pa.kw["heights"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("elevation-grid requires :heights")
		}
		rows, err := sexpListToSlice(hArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("elevation-grid: heights: %w", err)
		}
		heights := make([][]float64, len(rows))
		for i, r := range rows {
			row, err := toFloatSlice(r)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("elevation-grid: row %d: %w", i, err)
			}
			heights[i] = row
		}
		dx, dy := 1.0, 1.0
		if err := kwFloat(pa, "dx", &dx); err != nil {
			return zygo.SexpNull, fmt.Errorf("elevation-grid: %w", err)
		}
		if err := kwFloat(pa, "dy", &dy); err != nil {
			return zygo.SexpNull, fmt.Errorf("elevation-grid: %w", err)
		}
		return &sexpGeom{geom: scenegraph.NewElevationGrid(heights, dx, dy)}, nil
	})

	// -----------------------------------------------------------------------
	// (revolution profile :slices 8)
	// -----------------------------------------------------------------------
	env.AddFunction("revolution", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("revolution requires a profile curve")
		}
		profile, err := toCurve2D(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("revolution: %w", err)
		}
		r := scenegraph.NewRevolution(profile)
		if err := kwInt(pa, "slices", &r.Slices); err != nil {
			return zygo.SexpNull, fmt.Errorf("revolution: %w", err)
		}
		return &sexpGeom{geom: r}, nil
	})

	// -----------------------------------------------------------------------
	// (extrusion axis section :solid false)
	// -----------------------------------------------------------------------
	env.AddFunction("extrusion", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("extrusion requires an axis and a cross-section")
		}
		axis, err := toCurve(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrusion: axis: %w", err)
		}
		section, err := toCurve2D(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrusion: section: %w", err)
		}
		e := scenegraph.NewExtrusion(axis, section)
		if err := kwBool(pa, "solid", &e.Solid); err != nil {
			return zygo.SexpNull, fmt.Errorf("extrusion: %w", err)
		}
		return &sexpGeom{geom: e}, nil
	})

	// -----------------------------------------------------------------------
	// (extruded-hull horizontal vertical)
	// -----------------------------------------------------------------------
	env.AddFunction("extruded_hull", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("extruded-hull requires two profile curves")
		}
		hor, err := toCurve2D(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extruded-hull: horizontal: %w", err)
		}
		ver, err := toCurve2D(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extruded-hull: vertical: %w", err)
		}
		return &sexpGeom{geom: scenegraph.NewExtrudedHull(hor, ver)}, nil
	})

	// -----------------------------------------------------------------------
	// (swung :profiles [p1 p2 ...] :angles [0 1.57 ...] :slices 8)
	// -----------------------------------------------------------------------
	env.AddFunction("swung", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pArg, ok := pa.kw["profiles"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("swung requires :profiles")
		}
		items, err := sexpListToSlice(pArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("swung: profiles: %w", err)
		}
		profiles := make([]scenegraph.Curve2D, len(items))
		for i, it := range items {
			c, err := toCurve2D(it)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("swung: profile %d: %w", i, err)
			}
			profiles[i] = c
		}
		aArg, ok := pa.kw["angles"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("swung requires :angles")
		}
		angles, err := toFloatSlice(aArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("swung: angles: %w", err)
		}
		if len(angles) != len(profiles) {
			return zygo.SexpNull, fmt.Errorf("swung: %d profiles but %d angles", len(profiles), len(angles))
		}
		interp := scenegraph.NewProfileInterpolation2D(profiles, angles)
		if err := kwInt(pa, "samples", &interp.Strides); err != nil {
			return zygo.SexpNull, fmt.Errorf("swung: %w", err)
		}
		s := scenegraph.NewSwung(interp)
		if err := kwInt(pa, "slices", &s.Slices); err != nil {
			return zygo.SexpNull, fmt.Errorf("swung: %w", err)
		}
		return &sexpGeom{geom: s}, nil
	})

	// -----------------------------------------------------------------------
	// (group g1 g2 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("group requires at least one child")
		}
		children := make([]scenegraph.Geometry, len(args))
		for i, a := range args {
			g, err := toGeom(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group: child %d: %w", i, err)
			}
			children[i] = g
		}
		return &sexpGeom{geom: scenegraph.NewGroup(children...)}, nil
	})

	// -----------------------------------------------------------------------
	// Transform wrappers
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("translate requires a vec3 and a geometry")
		}
		v, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		g, err := toGeom(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		return &sexpGeom{geom: scenegraph.NewTranslated(v, g)}, nil
	})

	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("scale requires a vec3 and a geometry")
		}
		v, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		g, err := toGeom(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		return &sexpGeom{geom: scenegraph.NewScaled(v, g)}, nil
	})

	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("rotate requires an axis, an angle and a geometry")
		}
		axis, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: axis: %w", err)
		}
		angle, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: angle: %w", err)
		}
		g, err := toGeom(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		return &sexpGeom{geom: scenegraph.NewAxisRotated(axis, angle, g)}, nil
	})

	env.AddFunction("euler_rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("euler-rotate requires azimuth, elevation, roll and a geometry")
		}
		var angles [3]float64
		for i := 0; i < 3; i++ {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("euler-rotate: %w", err)
			}
			angles[i] = f
		}
		g, err := toGeom(args[3])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("euler-rotate: %w", err)
		}
		return &sexpGeom{geom: scenegraph.NewEulerRotated(angles[0], angles[1], angles[2], g)}, nil
	})

	env.AddFunction("orient", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("orient requires primary, secondary and a geometry")
		}
		primary, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("orient: primary: %w", err)
		}
		secondary, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("orient: secondary: %w", err)
		}
		g, err := toGeom(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("orient: %w", err)
		}
		return &sexpGeom{geom: scenegraph.NewOriented(primary, secondary, g)}, nil
	})

	env.AddFunction("taper", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("taper requires base radius, top radius and a primitive")
		}
		base, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("taper: base: %w", err)
		}
		top, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("taper: top: %w", err)
		}
		g, err := toGeom(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("taper: %w", err)
		}
		prim, ok := g.(scenegraph.ZExtenter)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("taper: %T does not expose an axial extent", g)
		}
		return &sexpGeom{geom: scenegraph.NewTapered(base, top, prim)}, nil
	})

	// -----------------------------------------------------------------------
	// (xform :translate (vec3 ...) :scale (vec3 ...) :axis (vec3 ...) :angle a)
	// Composes translate * rotate * scale.
	// -----------------------------------------------------------------------
	env.AddFunction("xform", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		m := sdf.Identity3d()
		if v, ok := pa.kw["scale"]; ok {
			s, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("xform: scale: %w", err)
			}
			m = sdf.Scale3d(s).Mul(m)
		}
		if v, ok := pa.kw["axis"]; ok {
			axis, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("xform: axis: %w", err)
			}
			angle := 0.0
			if err := kwFloat(pa, "angle", &angle); err != nil {
				return zygo.SexpNull, fmt.Errorf("xform: %w", err)
			}
			m = sdf.Rotate3d(axis, angle).Mul(m)
		}
		if v, ok := pa.kw["translate"]; ok {
			t, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("xform: translate: %w", err)
			}
			m = sdf.Translate3d(t).Mul(m)
		}
		return &sexpMat{mat: m}, nil
	})

	// -----------------------------------------------------------------------
	// (ifs :depth 2 :transforms [x1 x2 ...] geom)
	// -----------------------------------------------------------------------
	env.AddFunction("ifs", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("ifs requires a base geometry")
		}
		g, err := toGeom(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ifs: %w", err)
		}
		tArg, ok := pa.kw["transforms"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("ifs requires :transforms")
		}
		items, err := sexpListToSlice(tArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ifs: transforms: %w", err)
		}
		mats := make([]sdf.M44, len(items))
		for i, it := range items {
			sm, ok := it.(*sexpMat)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("ifs: transform %d: expected xform, got %T", i, it)
			}
			mats[i] = sm.mat
		}
		node := scenegraph.NewIFS(g, mats...)
		if err := kwInt(pa, "depth", &node.Depth); err != nil {
			return zygo.SexpNull, fmt.Errorf("ifs: %w", err)
		}
		return &sexpGeom{geom: node}, nil
	})
}
