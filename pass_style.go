package safeui

import "fmt"

// runStylePass implements §4.5: forbidden properties, numeric ranges,
// string lengths, color literals, and the forbidden-CSS-function scan,
// walked over every node's own style plus the card's top-level style
// registry (a style entry can itself be invalid even if no node
// currently references it, since a future edit might).
func runStylePass(card *Card) *errorList {
	errs := &errorList{}
	for name, style := range card.Styles {
		checkStyleObject(style, "styles."+name, errs)
		checkStyleRefChain(style, card.Styles, "styles."+name+".$style", errs)
	}
	walkCard(card, func(n *Node, ctx walkContext) bool {
		checkStyleObject(n.Style, ctx.path+".style", errs)
		checkStyleRefChain(n.Style, card.Styles, ctx.path+".style.$style", errs)
		return true
	})
	return errs
}

// checkStyleRefChain validates a StyleObject's "$style" key (§3,
// enumerated in §7 as STYLE_CIRCULAR_REF/STYLE_REF_NOT_FOUND/
// INVALID_STYLE_REF/INVALID_STYLE_NAME): the name must be non-empty, it
// must resolve to an entry in the card's top-level styles, and
// following the chain of $style-within-$style must terminate rather
// than cycle.
func checkStyleRefChain(style *StyleObject, styles map[string]*StyleObject, path string, errs *errorList) {
	if style == nil {
		return
	}
	if style.styleRefInvalid {
		errs.add(ErrInvalidStyleRef, path, "$style must be a string")
		return
	}
	if style.StyleRef == "" {
		return
	}
	if !isIdentifier(style.StyleRef) {
		errs.add(ErrInvalidStyleName, path, "style name %q is not a valid identifier", style.StyleRef)
		return
	}

	visited := map[string]bool{}
	name := style.StyleRef
	for {
		if visited[name] {
			errs.add(ErrStyleCircularRef, path, "style %q is part of a $style cycle", style.StyleRef)
			return
		}
		visited[name] = true

		base, ok := styles[name]
		if !ok || base == nil {
			errs.add(ErrStyleRefNotFound, path, "style %q does not exist", name)
			return
		}
		if base.StyleRef == "" {
			return
		}
		name = base.StyleRef
	}
}

func checkStyleObject(style *StyleObject, path string, errs *errorList) {
	if style == nil {
		return
	}
	for _, name := range style.Names() {
		v := style.Get(name)
		propPath := path + "." + name

		if forbiddenStyleProperties[name] {
			errs.add(ErrForbiddenStyleProperty, propPath, "style property %q is forbidden", name)
			continue
		}
		cat, known := styleProperties[name]
		if !known {
			// Not in the whitelist and not in the forbidden set: the
			// renderer silently ignores it (§4.5); nothing to report.
			continue
		}
		checkStyleValue(name, cat, v, propPath, errs)
	}
}

// checkStyleValue dispatches a single property's value to its
// category-specific check. Dynamic values (Ref/Expr) skip every
// literal-shape/range check here per §4.5 ("dynamic values are skipped
// and re-checked at render time when resolved"); the forbidden-function
// scan runs on every literal regardless of category, covering each
// string in it, including strings nested inside object or array values,
// since it applies to "all string values anywhere in a style object".
func checkStyleValue(name string, cat styleCategory, v *Value, path string, errs *errorList) {
	if v == nil {
		return
	}
	if !v.IsLiteral() {
		return
	}

	var hasForbidden func(x interface{}) bool
	hasForbidden = func(x interface{}) bool {
		switch t := x.(type) {
		case string:
			return containsForbiddenCSSFunction(t)
		case map[string]interface{}:
			for _, e := range t {
				if hasForbidden(e) {
					return true
				}
			}
		case []interface{}:
			for _, e := range t {
				if hasForbidden(e) {
					return true
				}
			}
		}
		return false
	}
	if hasForbidden(v.Literal) {
		errs.add(ErrForbiddenCSSFunction, path, "style value contains a forbidden CSS function")
		return
	}

	switch cat {
	case styleCatColor:
		checkColorValue(v, path, errs)
	case styleCatLength:
		checkLengthValue(name, v, path, errs)
	case styleCatEnum:
		// Enum-category properties (fontWeight, textAlign, ...) are not
		// given a closed value set by §4.5 beyond the overflow/position
		// special cases handled separately; the renderer maps unknown
		// literal enum strings through unchanged, so nothing further to
		// validate here.
	case styleCatOverflow:
		checkOverflowValue(v, path, errs)
	case styleCatPosition:
		// Position's literal value itself has no range/shape check;
		// fixed/sticky/absolute legality is a Security Pass concern
		// (§4.6), not a Style Pass one.
	case styleCatTransform:
		checkTransformValue(v, path, errs)
	case styleCatBoxShadow:
		checkBoxShadowValue(v, path, errs)
	case styleCatBackgroundGradient:
		checkBackgroundGradientValue(v, path, errs)
	case styleCatBorder:
		checkBorderValue(v, path, errs)
	}
}

func checkColorValue(v *Value, path string, errs *errorList) {
	s, ok := v.LiteralString()
	if !ok {
		errs.add(ErrInvalidColor, path, "color value must be a string")
		return
	}
	if !isValidColor(s) {
		errs.add(ErrInvalidColor, path, "%q is not a valid color", s)
	}
}

func checkLengthValue(name string, v *Value, path string, errs *errorList) {
	switch lit := v.Literal.(type) {
	case float64:
		checkNumericRange(name, lit, path, errs)
		return
	case string:
		if !isValidLength(name, lit) {
			errs.add(ErrInvalidLength, path, "%q is not a valid length", lit)
			return
		}
		if rng, ok := lengthRangedProperties[name]; ok {
			if n, ok := lengthNumericValue(lit); ok && !rng.contains(n) {
				errs.add(ErrStyleValueOutOfRange, path, "%s=%v is outside the allowed range [%v, %v]", name, n, rng.min, rng.max)
			}
		}
	default:
		errs.add(ErrInvalidLength, path, "length value must be a number or string")
	}
}

func checkNumericRange(name string, n float64, path string, errs *errorList) {
	rng, ok := numericRanges[name]
	if !ok {
		if rng, ok = lengthRangedProperties[name]; !ok {
			return
		}
	}
	if !rng.contains(n) {
		errs.add(ErrStyleValueOutOfRange, path, "%s=%v is outside the allowed range [%v, %v]", name, n, rng.min, rng.max)
	}
}

func checkOverflowValue(v *Value, path string, errs *errorList) {
	s, ok := v.LiteralString()
	if !ok {
		return
	}
	switch s {
	case "visible", "hidden", "auto":
	default:
		errs.add(ErrForbiddenOverflowValue, path, "overflow:%q is not allowed", s)
	}
}

func checkTransformValue(v *Value, path string, errs *errorList) {
	obj, ok := v.Literal.(map[string]interface{})
	if !ok {
		return
	}
	if _, has := obj["skewX"]; has {
		errs.add(ErrTransformSkewForbidden, path+".skewX", "transform.skew is forbidden")
	}
	if _, has := obj["skewY"]; has {
		errs.add(ErrTransformSkewForbidden, path+".skewY", "transform.skew is forbidden")
	}
	if scale, ok := numField(obj, "scale"); ok {
		checkNumericRange("transform.scale", scale, path+".scale", errs)
	}
	if tx, ok := numField(obj, "translateX"); ok {
		checkNumericRange("transform.translateX", tx, path+".translateX", errs)
	}
	if ty, ok := numField(obj, "translateY"); ok {
		checkNumericRange("transform.translateY", ty, path+".translateY", errs)
	}
}

func checkBoxShadowValue(v *Value, path string, errs *errorList) {
	arr, ok := v.Literal.([]interface{})
	if !ok {
		return
	}
	if len(arr) > maxBoxShadowEntries {
		errs.add(ErrStyleValueOutOfRange, path, "boxShadow has %d entries, limit is %d", len(arr), maxBoxShadowEntries)
	}
	for i, entryRaw := range arr {
		entry, ok := entryRaw.(map[string]interface{})
		if !ok {
			continue
		}
		entryPath := pathIndex(path, i)
		if blur, ok := numField(entry, "blur"); ok {
			checkNumericRange("boxShadow.blur", blur, entryPath+".blur", errs)
		}
		if spread, ok := numField(entry, "spread"); ok {
			checkNumericRange("boxShadow.spread", spread, entryPath+".spread", errs)
		}
		if color, ok := entry["color"].(string); ok && !isValidColor(color) {
			errs.add(ErrInvalidColor, entryPath+".color", "%q is not a valid color", color)
		}
	}
}

func checkBackgroundGradientValue(v *Value, path string, errs *errorList) {
	obj, ok := v.Literal.(map[string]interface{})
	if !ok {
		return
	}
	if t, ok := obj["type"].(string); ok && t != "linear" && t != "radial" {
		errs.add(ErrInvalidValue, path+".type", "backgroundGradient.type %q is not supported (only \"linear\" or \"radial\")", t)
	}
	stops, ok := obj["stops"].([]interface{})
	if !ok {
		return
	}
	for i, stopRaw := range stops {
		stop, ok := stopRaw.(map[string]interface{})
		if !ok {
			continue
		}
		if color, ok := stop["color"].(string); ok && !isValidColor(color) {
			errs.add(ErrInvalidColor, pathIndex(path+".stops", i)+".color", "%q is not a valid color", color)
		}
	}
}

func checkBorderValue(v *Value, path string, errs *errorList) {
	obj, ok := v.Literal.(map[string]interface{})
	if !ok {
		return
	}
	if color, ok := obj["color"].(string); ok && !isValidColor(color) {
		errs.add(ErrInvalidColor, path+".color", "%q is not a valid color", color)
	}
}

func numField(obj map[string]interface{}, key string) (float64, bool) {
	f, ok := obj[key].(float64)
	return f, ok
}

func pathIndex(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
