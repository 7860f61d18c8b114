package safeui

import "testing"

func TestIsExternalURL(t *testing.T) {
	tests := []struct {
		url string
		ext bool
	}{
		{"https://evil.example/x.png", true},
		{"HTTP://evil.example", true},
		{"//evil.example/x", true},
		{"data:text/html,<script>", true},
		{"javascript:alert(1)", true},
		{"@assets/logo.png", false},
		{"  https://evil.example", true},
	}
	for _, tt := range tests {
		if got := isExternalURL(tt.url); got != tt.ext {
			t.Errorf("isExternalURL(%q) = %v, want %v", tt.url, got, tt.ext)
		}
	}
}

func TestCheckAssetPathTraversal(t *testing.T) {
	errs := &errorList{}
	checkAssetPath("@assets/../../../etc/passwd", "src", errs)
	if errs.ok() || errs.errs[0].Code != ErrAssetPathTraversal {
		t.Fatalf("expected ASSET_PATH_TRAVERSAL, got %v", errs.errs)
	}
}

func TestCheckAssetPathMustStartWithAssetsPrefix(t *testing.T) {
	errs := &errorList{}
	checkAssetPath("images/logo.png", "src", errs)
	if errs.ok() || errs.errs[0].Code != ErrInvalidAssetPath {
		t.Fatalf("expected INVALID_ASSET_PATH, got %v", errs.errs)
	}
}

func TestCheckAssetPathValid(t *testing.T) {
	errs := &errorList{}
	checkAssetPath("@assets/logo.png", "src", errs)
	if !errs.ok() {
		t.Fatalf("expected no errors, got %v", errs.errs)
	}
}

func TestCheckPositionSecurityFixedAndSticky(t *testing.T) {
	for _, pos := range []string{"fixed", "sticky"} {
		n := &Node{Style: styleFrom(t, `{"position":"`+pos+`"}`)}
		errs := &errorList{}
		checkPositionSecurity(n, rootWalkContext(nil), errs)
		if errs.ok() {
			t.Fatalf("position:%s should be forbidden", pos)
		}
	}
}

func TestCheckPositionSecurityAbsoluteRequiresStackParent(t *testing.T) {
	n := &Node{Style: styleFrom(t, `{"position":"absolute"}`)}

	errs := &errorList{}
	checkPositionSecurity(n, rootWalkContext(nil), errs)
	if errs.ok() {
		t.Fatal("position:absolute with no parent at all should be forbidden")
	}

	stackParent := rootWalkContext(nil).child("stack", &Node{Type: KindStack})
	errs = &errorList{}
	checkPositionSecurity(n, stackParent, errs)
	if !errs.ok() {
		t.Fatalf("position:absolute directly inside a Stack should be allowed, got %v", errs.errs)
	}

	columnParent := rootWalkContext(nil).child("col", &Node{Type: KindColumn})
	errs = &errorList{}
	checkPositionSecurity(n, columnParent, errs)
	if errs.ok() {
		t.Fatal("position:absolute inside a Column (not a Stack) should be forbidden")
	}
}

func TestCheckOverflowNestingForbidsNestedAuto(t *testing.T) {
	n := &Node{Style: styleFrom(t, `{"overflow":"auto"}`)}
	ctx := rootWalkContext(nil)
	ctx.overflowAutoAncestor = true

	errs := &errorList{}
	checkOverflowNesting(n, ctx, errs)
	if errs.ok() || errs.errs[0].Code != ErrOverflowAutoNested {
		t.Fatalf("expected OVERFLOW_AUTO_NESTED, got %v", errs.errs)
	}
}

func TestCheckOverflowNestingAllowsFirstAuto(t *testing.T) {
	n := &Node{Style: styleFrom(t, `{"overflow":"auto"}`)}
	errs := &errorList{}
	checkOverflowNesting(n, rootWalkContext(nil), errs)
	if !errs.ok() {
		t.Fatalf("a single overflow:auto with no auto ancestor should be allowed, got %v", errs.errs)
	}
}

func TestCheckRefLikePollutionDetectsEachForbiddenSegment(t *testing.T) {
	for _, ref := range []string{"$__proto__", "$a.__proto__", "$a.constructor.b", "$a.b.prototype"} {
		errs := &errorList{}
		checkRefLikePollution(ref, "path", errs)
		if errs.ok() {
			t.Errorf("checkRefLikePollution(%q) should flag PROTOTYPE_POLLUTION", ref)
		}
	}
}

func TestCheckRefLikePollutionAllowsCleanRef(t *testing.T) {
	errs := &errorList{}
	checkRefLikePollution("$user.name", "path", errs)
	if !errs.ok() {
		t.Fatalf("expected no errors for a clean ref, got %v", errs.errs)
	}
}

func TestCheckSrcSecurityLiteralExternalURL(t *testing.T) {
	n := &Node{Src: &Value{Kind: ValueLiteral, Literal: "https://evil.example/x.png"}}
	errs := &errorList{}
	checkSrcSecurity(n, nil, "img", errs)
	if errs.ok() || errs.errs[0].Code != ErrExternalURL {
		t.Fatalf("expected EXTERNAL_URL, got %v", errs.errs)
	}
}

func TestCheckSrcSecurityRefResolvedAgainstState(t *testing.T) {
	n := &Node{Src: &Value{Kind: ValueRef, Ref: "$userSrc"}}
	state := map[string]interface{}{"userSrc": "https://evil.example/x.png"}
	errs := &errorList{}
	checkSrcSecurity(n, state, "img", errs)
	if errs.ok() || errs.errs[0].Code != ErrExternalURL {
		t.Fatalf("expected EXTERNAL_URL for a statically-resolvable ref, got %v", errs.errs)
	}
}

func TestCheckSrcSecurityUnresolvableRefIsSkipped(t *testing.T) {
	n := &Node{Src: &Value{Kind: ValueRef, Ref: "$loopLocal"}}
	errs := &errorList{}
	checkSrcSecurity(n, nil, "img", errs)
	if !errs.ok() {
		t.Fatalf("an unresolvable ref should be silently skipped at validate time, got %v", errs.errs)
	}
}
