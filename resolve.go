package safeui

// scope is a linked chain of local-variable frames introduced by
// ForLoop iteration, falling back to the card's top-level state when a
// name isn't found in any local frame (§4.9 step 5: "augmented locals
// scope {<for>: item, index: i}").
type scope struct {
	parent *scope
	locals map[string]interface{}
	state  map[string]interface{}
}

// newRootScope is the scope at a view's root: no locals, just state.
func newRootScope(state map[string]interface{}) *scope {
	return &scope{state: state}
}

// child introduces one ForLoop iteration's locals, for/index, on top of
// the receiver.
func (s *scope) child(forName string, item interface{}, index int) *scope {
	return &scope{
		parent: s,
		locals: map[string]interface{}{forName: item, "index": float64(index)},
	}
}

// lookup resolves the first segment of a ref path: locals in the
// nearest enclosing frame take precedence over outer frames, and the
// card's top-level state is consulted only once no frame in the chain
// defines the name (locals-then-state, per §4.9).
func (s *scope) lookup(name string) (interface{}, bool) {
	for frame := s; frame != nil; frame = frame.parent {
		if frame.locals != nil {
			if v, ok := frame.locals[name]; ok {
				return v, true
			}
		}
	}
	root := s
	for root.parent != nil {
		root = root.parent
	}
	if root.state == nil {
		return nil, false
	}
	v, ok := root.state[name]
	return v, ok
}

// resolveRef resolves a full "$a.b[0].c" ref path against a scope. The
// first segment names either a local or a top-level state key; every
// subsequent segment walks the already-resolved value the same way
// resolveStaticRef does. A ref whose first segment can't be found at
// all (not a local anywhere in the chain, not a state key) is
// unresolved, which callers treat as "skip silently" per §4.6/§4.7/§4.9
// depending on context.
func resolveRef(ref string, s *scope) (interface{}, bool) {
	segments := parseRefPath(ref)
	if len(segments) == 0 {
		return nil, false
	}
	if segments[0].isIndex {
		return nil, false
	}
	for _, seg := range segments {
		if !seg.isIndex && pollutionSegments[seg.name] {
			return nil, false
		}
	}

	cur, ok := s.lookup(segments[0].name)
	if !ok {
		return nil, false
	}
	for _, seg := range segments[1:] {
		if seg.isIndex {
			arr, ok := cur.([]interface{})
			if !ok || seg.index < 0 || seg.index >= len(arr) {
				return nil, false
			}
			cur = arr[seg.index]
			continue
		}
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, present := m[seg.name]
		if !present {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// resolveValue resolves a Value to its underlying data: a literal
// passes through unchanged, a Ref is looked up in scope, and an Expr
// is — per §4.9/§5 — never evaluated by this package at all (the
// renderer's host is expected to supply the evaluated value through
// whatever expression engine it trusts; this library only validates
// Expr strings structurally, see pass_expr.go). resolveValue therefore
// returns ok=false for an Expr, the same as an unresolved Ref, so
// callers apply one uniform "render nothing" fallback.
func resolveValue(v *Value, s *scope) (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	switch v.Kind {
	case ValueLiteral:
		return v.Literal, true
	case ValueRef:
		return resolveRef(v.Ref, s)
	default:
		return nil, false
	}
}

// resolveString resolves a Value expected to hold a string, returning
// ok=false if it resolves to something else or doesn't resolve at all.
func resolveString(v *Value, s *scope) (string, bool) {
	resolved, ok := resolveValue(v, s)
	if !ok {
		return "", false
	}
	str, ok := resolved.(string)
	return str, ok
}

// resolveArray resolves a Value expected to hold an array (a ForLoop's
// `in`), distinguishing "resolved but not an array" from "did not
// resolve" so callers can tell LOOP_SOURCE_NOT_ARRAY apart from a
// silent skip.
func resolveArray(ref string, s *scope) (arr []interface{}, resolved bool, isArray bool) {
	v, ok := resolveRef(ref, s)
	if !ok {
		return nil, false, false
	}
	a, ok := v.([]interface{})
	if !ok {
		return nil, true, false
	}
	return a, true, true
}
