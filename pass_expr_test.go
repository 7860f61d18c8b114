package safeui

import "testing"

func TestCheckRefPathRejectsTooManySegments(t *testing.T) {
	errs := &errorList{}
	checkRefPath("$a.b.c.d.e.f.g", "path", errs)
	var saw bool
	for _, e := range errs.errs {
		if e.Code == ErrExprRefDepthExceeded {
			saw = true
		}
	}
	if !saw {
		t.Errorf("expected EXPR_REF_DEPTH_EXCEEDED for a 7-segment path, got %v", errs.errs)
	}
}

func TestCheckRefPathFlagsPollutionSegment(t *testing.T) {
	errs := &errorList{}
	checkRefPath("$a.__proto__.b", "path", errs)
	var saw bool
	for _, e := range errs.errs {
		if e.Code == ErrPrototypePollution {
			saw = true
		}
	}
	if !saw {
		t.Errorf("expected PROTOTYPE_POLLUTION, got %v", errs.errs)
	}
}

func TestCheckRefPathFlagsExcessiveBracketIndex(t *testing.T) {
	errs := &errorList{}
	checkRefPath("$a[99999]", "path", errs)
	var saw bool
	for _, e := range errs.errs {
		if e.Code == ErrExprArrayIndexExceeded {
			saw = true
		}
	}
	if !saw {
		t.Errorf("expected EXPR_ARRAY_INDEX_EXCEEDED, got %v", errs.errs)
	}
}

func TestCheckExprStringRejectsForbiddenOperators(t *testing.T) {
	for _, op := range []string{"$a === $b", "$a && $b", "$a || $b", "!$a"} {
		errs := &errorList{}
		checkExprString(op, "path", errs)
		if errs.ok() {
			t.Errorf("checkExprString(%q) should reject a forbidden operator", op)
		}
	}
}

func TestCheckExprStringAllowsPermittedOperators(t *testing.T) {
	errs := &errorList{}
	checkExprString("$a == $b", "path", errs)
	if !errs.ok() {
		t.Errorf("== should be permitted, got %v", errs.errs)
	}
}

func TestCheckExprStringRejectsForbiddenKeywords(t *testing.T) {
	for _, kw := range []string{"typeof $a", "new $a", "delete $a", "function $a"} {
		errs := &errorList{}
		checkExprString(kw, "path", errs)
		if errs.ok() {
			t.Errorf("checkExprString(%q) should reject a forbidden keyword", kw)
		}
	}
}

func TestCheckExprStringRejectsBareIdentifier(t *testing.T) {
	errs := &errorList{}
	checkExprString("someFunc($a)", "path", errs)
	if errs.ok() {
		t.Error("a bare identifier (function-call-shaped or not) should be rejected")
	}
}

func TestCheckExprStringAllowsConditionKeywords(t *testing.T) {
	errs := &errorList{}
	checkExprString("if $a then true else false", "path", errs)
	if !errs.ok() {
		t.Errorf("condition keywords should be permitted, got %v", errs.errs)
	}
}

func TestCheckExprStringRejectsTooManyIfs(t *testing.T) {
	errs := &errorList{}
	checkExprString("if $a then if $b then if $c then if $d then true else false else false else false else false", "path", errs)
	var saw bool
	for _, e := range errs.errs {
		if e.Code == ErrExprConditionNestingTooDeep {
			saw = true
		}
	}
	if !saw {
		t.Errorf("4 \"if\"s should exceed the limit of 3, got %v", errs.errs)
	}
}

func TestCheckExprStringAllowsDottedRefChain(t *testing.T) {
	errs := &errorList{}
	checkExprString("$user.name == \"a\"", "path", errs)
	if !errs.ok() {
		t.Errorf("a dotted $ref chain is not a bare identifier, got %v", errs.errs)
	}
}

func TestCheckExprStringRejectsFunctionCallPattern(t *testing.T) {
	errs := &errorList{}
	checkExprString("someFunc($a)", "path", errs)
	var saw bool
	for _, e := range errs.errs {
		if e.Code == ErrExprFunctionCall {
			saw = true
		}
	}
	if !saw {
		t.Errorf("expected EXPR_FUNCTION_CALL, got %v", errs.errs)
	}
}

func TestCheckExprStringRejectsExcessiveRefChainDepth(t *testing.T) {
	errs := &errorList{}
	checkExprString("$a.b.c.d.e.f", "path", errs)
	var saw bool
	for _, e := range errs.errs {
		if e.Code == ErrExprRefDepthExceeded {
			saw = true
		}
	}
	if !saw {
		t.Errorf("expected EXPR_REF_DEPTH_EXCEEDED for a long dotted chain, got %v", errs.errs)
	}
}

func TestCheckExprStringRejectsTooLong(t *testing.T) {
	errs := &errorList{}
	long := make([]byte, maxExprLength+1)
	for i := range long {
		long[i] = 'a'
	}
	checkExprString(string(long), "path", errs)
	var saw bool
	for _, e := range errs.errs {
		if e.Code == ErrExprTooLong {
			saw = true
		}
	}
	if !saw {
		t.Errorf("expected EXPR_TOO_LONG, got %v", errs.errs)
	}
}
