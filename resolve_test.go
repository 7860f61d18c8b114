package safeui

import "testing"

func TestScopeLookupLocalsBeforeState(t *testing.T) {
	root := newRootScope(map[string]interface{}{"name": "state-value"})
	child := root.child("name", "local-value", 0)

	v, ok := child.lookup("name")
	if !ok || v != "local-value" {
		t.Fatalf("expected the local frame to shadow state, got %v, %v", v, ok)
	}

	v, ok = child.lookup("other")
	if ok {
		t.Fatalf("expected no match for an undefined name, got %v", v)
	}
}

func TestScopeLookupFallsThroughNestedFrames(t *testing.T) {
	root := newRootScope(map[string]interface{}{"outer": "root-value"})
	mid := root.child("item", "mid-item", 0)
	inner := mid.child("item2", "inner-item", 1)

	if v, ok := inner.lookup("item"); !ok || v != "mid-item" {
		t.Errorf("expected to find the outer loop's local through the chain, got %v, %v", v, ok)
	}
	if v, ok := inner.lookup("outer"); !ok || v != "root-value" {
		t.Errorf("expected to fall through to root state, got %v, %v", v, ok)
	}
	if v, ok := inner.lookup("index"); !ok || v != float64(1) {
		t.Errorf("expected the nearest frame's index, got %v, %v", v, ok)
	}
}

func TestResolveRefWalksArraysAndMaps(t *testing.T) {
	s := newRootScope(map[string]interface{}{
		"user": map[string]interface{}{
			"tags": []interface{}{"a", "b", "c"},
		},
	})
	v, ok := resolveRef("$user.tags[1]", s)
	if !ok || v != "b" {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestResolveRefRejectsPollutionSegment(t *testing.T) {
	s := newRootScope(map[string]interface{}{"user": map[string]interface{}{}})
	for _, ref := range []string{"$__proto__.x", "$user.__proto__", "$user.constructor.prototype"} {
		if _, ok := resolveRef(ref, s); ok {
			t.Errorf("resolveRef(%q) should never resolve a pollution segment", ref)
		}
	}
}

func TestResolveRefMissingKeyIsUnresolved(t *testing.T) {
	s := newRootScope(map[string]interface{}{"user": map[string]interface{}{"name": "a"}})
	if _, ok := resolveRef("$user.missing", s); ok {
		t.Error("expected unresolved for a missing map key")
	}
	if _, ok := resolveRef("$missingRoot", s); ok {
		t.Error("expected unresolved for a missing root name")
	}
}

func TestResolveValueNeverEvaluatesExpr(t *testing.T) {
	v := &Value{Kind: ValueExpr, Expr: "$a + $b"}
	_, ok := resolveValue(v, newRootScope(nil))
	if ok {
		t.Error("resolveValue must never evaluate an Expr")
	}
}

func TestResolveValueLiteralPassesThrough(t *testing.T) {
	v := &Value{Kind: ValueLiteral, Literal: "plain"}
	got, ok := resolveValue(v, newRootScope(nil))
	if !ok || got != "plain" {
		t.Fatalf("got %v, %v", got, ok)
	}
}

func TestResolveArrayDistinguishesUnresolvedFromWrongType(t *testing.T) {
	s := newRootScope(map[string]interface{}{
		"list":    []interface{}{1.0, 2.0},
		"notList": "a string",
	})

	arr, resolved, isArray := resolveArray("$list", s)
	if !resolved || !isArray || len(arr) != 2 {
		t.Fatalf("got %v %v %v", arr, resolved, isArray)
	}

	_, resolved, isArray = resolveArray("$notList", s)
	if !resolved || isArray {
		t.Fatalf("expected resolved=true, isArray=false for a non-array value")
	}

	_, resolved, isArray = resolveArray("$missing", s)
	if resolved || isArray {
		t.Fatalf("expected resolved=false for a missing ref")
	}
}
