package safeui

import "strings"

var externalURLPrefixes = []string{"http://", "https://", "//", "data:", "javascript:"}

// isExternalURL implements §4.6's EXTERNAL_URL rule: any string whose
// trimmed, lowercased prefix matches one of the listed schemes.
func isExternalURL(s string) bool {
	trimmed := foldLower(strings.TrimSpace(s))
	for _, prefix := range externalURLPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// checkAssetPath implements §4.6's asset-path rule: must start with the
// literal "@assets/" and must not contain "../".
func checkAssetPath(path, errPath string, errs *errorList) {
	if strings.Contains(path, "../") {
		errs.add(ErrAssetPathTraversal, errPath, "asset path %q contains a traversal segment", path)
		return
	}
	if !strings.HasPrefix(path, "@assets/") {
		errs.add(ErrInvalidAssetPath, errPath, "asset path %q must start with \"@assets/\"", path)
	}
}

// runSecurityPass implements §4.6: src URL rules, the asset registry,
// position legality, nested overflow:auto and $ref prototype pollution.
// The style url() check is the Style Pass's forbidden-function scan
// over literal style strings; this pass runs no url() scan of its own.
func runSecurityPass(card *Card) *errorList {
	errs := &errorList{}

	for key, assetPath := range card.Assets {
		checkAssetPath(assetPath, "assets."+key, errs)
	}

	walkCard(card, func(n *Node, ctx walkContext) bool {
		checkSrcSecurity(n, card.State, ctx.path, errs)
		checkPositionSecurity(n, ctx, errs)
		checkOverflowNesting(n, ctx, errs)
		checkPollution(n, ctx.path, errs)
		return true
	})

	return errs
}

func checkSrcSecurity(n *Node, state map[string]interface{}, path string, errs *errorList) {
	if n.Src == nil {
		return
	}
	fieldP := fieldPath(path, "src")
	switch n.Src.Kind {
	case ValueLiteral:
		s, ok := n.Src.LiteralString()
		if !ok {
			return
		}
		checkSrcString(s, fieldP, errs)
	case ValueRef:
		resolved, ok := resolveStaticRef(n.Src.Ref, state)
		if !ok {
			// Unresolvable (e.g. a loop-local): skip, the renderer
			// re-checks on resolution (§4.6).
			return
		}
		if s, ok := resolved.(string); ok {
			checkSrcString(s, fieldP, errs)
		}
	}
}

func checkSrcString(s string, path string, errs *errorList) {
	if isExternalURL(s) {
		errs.add(ErrExternalURL, path, "%q is an external URL, not an @assets/ path", s)
		return
	}
	checkAssetPath(s, path, errs)
}

func checkPositionSecurity(n *Node, ctx walkContext, errs *errorList) {
	style := effectiveStyle(n, ctx.styles, nil)
	v := style.Get("position")
	if v == nil || !v.IsLiteral() {
		return
	}
	pos, ok := v.LiteralString()
	if !ok {
		return
	}
	path := ctx.path + ".style.position"
	switch pos {
	case "fixed":
		errs.add(ErrPositionFixedForbidden, path, "position:fixed is forbidden")
	case "sticky":
		errs.add(ErrPositionStickyForbidden, path, "position:sticky is forbidden")
	case "absolute":
		if !ctx.hasParent || ctx.parentType != KindStack {
			errs.add(ErrPositionAbsoluteNotInStack, path, "position:absolute is only allowed directly inside a Stack")
		}
	}
}

func checkOverflowNesting(n *Node, ctx walkContext, errs *errorList) {
	style := effectiveStyle(n, ctx.styles, nil)
	if !styleOverflowIsAuto(style) {
		return
	}
	if ctx.overflowAutoAncestor {
		errs.add(ErrOverflowAutoNested, ctx.path+".style.overflow", "nested overflow:auto is forbidden")
	}
}

// pollutionSegments are the path segments that, if present anywhere in
// any resolved $ref, indicate an attempted prototype-pollution payload
// (§4.6).
var pollutionSegments = map[string]bool{
	"__proto__": true, "constructor": true, "prototype": true,
}

func checkPollution(n *Node, path string, errs *errorList) {
	checkRefPollution(n.Condition, fieldPath(path, "condition"), errs)
	for _, f := range n.fields() {
		checkRefPollution(f.value, fieldPath(path, f.name), errs)
	}
	checkStylePollution(n.Style, path+".style", errs)
	if n.Children != nil && n.Children.IsForLoop() {
		checkRefLikePollution(n.Children.Loop.In, path+".children.in", errs)
	}
}

func checkStylePollution(style *StyleObject, path string, errs *errorList) {
	if style == nil {
		return
	}
	for _, name := range style.Names() {
		checkRefPollution(style.Get(name), path+"."+name, errs)
	}
}

func checkRefPollution(v *Value, path string, errs *errorList) {
	if v == nil || v.Kind != ValueRef {
		return
	}
	checkRefLikePollution(v.Ref, path, errs)
}

func checkRefLikePollution(ref string, path string, errs *errorList) {
	for _, segment := range splitRefSegments(ref) {
		if pollutionSegments[segment] {
			errs.add(ErrPrototypePollution, path, "ref path segment %q is forbidden", segment)
			return
		}
	}
}
