package engine

import (
	"strings"
	"testing"
)

func TestEvaluateEmptySource(t *testing.T) {
	e := NewEngine()
	scene, evalErrs, err := e.Evaluate("")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(evalErrs) != 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if scene == nil || len(scene.Roots) != 0 {
		t.Fatalf("empty source must produce an empty scene, got %+v", scene)
	}
}

func TestEvaluateParseError(t *testing.T) {
	e := NewEngine()
	scene, evalErrs, err := e.Evaluate("(shape (sphere")
	if err != nil {
		t.Fatalf("parse errors must not be fatal: %v", err)
	}
	if scene != nil {
		t.Error("failed evaluation must not return a scene")
	}
	if len(evalErrs) == 0 {
		t.Error("expected at least one eval error")
	}
}

func TestEvaluateRuntimeError(t *testing.T) {
	e := NewEngine()
	scene, evalErrs, err := e.Evaluate(`(shape (no-such-shape))`)
	if err != nil {
		t.Fatalf("runtime errors must not be fatal: %v", err)
	}
	if scene != nil {
		t.Error("failed evaluation must not return a scene")
	}
	if len(evalErrs) == 0 {
		t.Error("expected at least one eval error")
	}
}

func TestPreprocessKeywords(t *testing.T) {
	got := preprocessSource("(sphere :radius 2)")
	if !strings.Contains(got, `"__kw_radius"`) {
		t.Errorf("keyword not converted: %q", got)
	}
}

func TestPreprocessKebabCase(t *testing.T) {
	got := preprocessSource("(bezier-patch x)")
	if !strings.Contains(got, "bezier_patch") {
		t.Errorf("kebab-case not converted: %q", got)
	}
}

func TestPreprocessLeavesStringsAlone(t *testing.T) {
	src := `(name "my-part :radius" (sphere))`
	got := preprocessSource(src)
	if !strings.Contains(got, `"my-part :radius"`) {
		t.Errorf("string literal was rewritten: %q", got)
	}
}

func TestPreprocessComments(t *testing.T) {
	got := preprocessSource("; a comment\n(sphere)")
	if !strings.HasPrefix(got, "// a comment") {
		t.Errorf("comment not converted: %q", got)
	}
}

func TestPreprocessDegreeLiterals(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"(rotate (vec3 0 0 1) 90deg x)", "1.5707963267948966"},
		{"(euler-rotate 180deg 0 0 x)", "3.141592653589793"},
		{"45.5deg", "0.794124809"},
	}
	for _, c := range cases {
		got := preprocessSource(c.src)
		if !strings.Contains(got, c.want) {
			t.Errorf("preprocess(%q) = %q, want it to contain %q", c.src, got, c.want)
		}
		if strings.Contains(got, "deg") {
			t.Errorf("preprocess(%q) left a deg suffix: %q", c.src, got)
		}
	}
}

func TestPreprocessDegreeSuffixBoundaries(t *testing.T) {
	// Identifiers ending in digits and words starting with "deg" must
	// survive untouched.
	for _, src := range []string{"(vec3 1 2 3)", "(def degrees 4)", "(+ 90 3)"} {
		if got := preprocessSource(src); got != src {
			t.Errorf("preprocess(%q) = %q, want unchanged", src, got)
		}
	}
}

func TestEvaluationTicketAdvances(t *testing.T) {
	// Every evaluation takes a fresh ticket; Evaluate compares tickets to
	// spot a result overtaken by a newer call.
	e := NewEngine()
	first := e.ticket.Add(1)
	e.ticket.Add(1)
	if e.ticket.Load() == first {
		t.Fatal("ticket must advance per evaluation")
	}
}
