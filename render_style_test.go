package safeui

import (
	"strings"
	"testing"
)

func TestCSSBackgroundGradientLinear(t *testing.T) {
	value := map[string]interface{}{
		"type":  "linear",
		"angle": 45.0,
		"stops": []interface{}{
			map[string]interface{}{"color": "#fff", "offset": 0.0},
			map[string]interface{}{"color": "#000", "offset": 1.0},
		},
	}
	decl, ok := cssBackgroundGradient(value)
	if !ok {
		t.Fatal("expected a declaration")
	}
	want := "background-image:linear-gradient(45deg,#fff 0%,#000 100%)"
	if decl != want {
		t.Errorf("got %q want %q", decl, want)
	}
}

func TestCSSBackgroundGradientRadial(t *testing.T) {
	value := map[string]interface{}{
		"type": "radial",
		"stops": []interface{}{
			map[string]interface{}{"color": "#fff", "offset": 0.0},
			map[string]interface{}{"color": "#000", "offset": 1.0},
		},
	}
	decl, ok := cssBackgroundGradient(value)
	if !ok {
		t.Fatal("expected a declaration")
	}
	want := "background-image:radial-gradient(circle,#fff 0%,#000 100%)"
	if decl != want {
		t.Errorf("got %q want %q", decl, want)
	}
}

func TestCSSBackgroundGradientDefaultsToLinear(t *testing.T) {
	value := map[string]interface{}{
		"angle": 90.0,
		"stops": []interface{}{
			map[string]interface{}{"color": "red", "offset": 0.5},
		},
	}
	decl, ok := cssBackgroundGradient(value)
	if !ok {
		t.Fatal("expected a declaration")
	}
	if decl != "background-image:linear-gradient(90deg,red 50%)" {
		t.Errorf("got %q", decl)
	}
}

func TestCSSTransformJoinsFunctions(t *testing.T) {
	value := map[string]interface{}{"translateX": 10.0, "scale": 1.2}
	decl, ok := cssTransform(value)
	if !ok {
		t.Fatal("expected a declaration")
	}
	if decl != "transform:translateX(10px) scale(1.2)" {
		t.Errorf("got %q", decl)
	}
}

func TestSandboxContainerCSSIncludesNonNegotiableRules(t *testing.T) {
	out := sandboxContainerCSS("")
	for _, rule := range []string{"overflow:hidden", "isolation:isolate", "contain:content", "position:relative"} {
		if !strings.Contains(out, rule) {
			t.Errorf("sandboxContainerCSS() = %q, missing %q", out, rule)
		}
	}
}

func TestSandboxContainerCSSAppendsHostStyle(t *testing.T) {
	out := sandboxContainerCSS("background-color:#fff;")
	if !strings.Contains(out, "background-color:#fff") {
		t.Errorf("expected host containerStyle to carry through, got %q", out)
	}
	if !strings.Contains(out, "overflow:hidden") {
		t.Errorf("expected the sandbox rules to still be present, got %q", out)
	}
}
