package safeui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
)

var cssMinifier = newCSSMinifier()

func newCSSMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	return m
}

// cssPropertyName copies straight through to the CSS property of
// the same name (camelCase wire name -> kebab-case CSS name), aside
// from the structured properties (transform, boxShadow,
// backgroundGradient, border*) which render_style.go lowers by hand.
var cssPropertyName = map[string]string{
	"backgroundColor": "background-color",
	"color":           "color",
	"borderColor":     "border-color",
	"width":           "width",
	"height":          "height",
	"minWidth":        "min-width",
	"minHeight":       "min-height",
	"maxWidth":        "max-width",
	"maxHeight":       "max-height",
	"padding":         "padding",
	"paddingTop":      "padding-top",
	"paddingRight":    "padding-right",
	"paddingBottom":   "padding-bottom",
	"paddingLeft":     "padding-left",
	"margin":          "margin",
	"marginTop":       "margin-top",
	"marginRight":     "margin-right",
	"marginBottom":    "margin-bottom",
	"marginLeft":      "margin-left",
	"gap":             "gap",
	"borderRadius":    "border-radius",
	"borderWidth":     "border-width",
	"fontSize":        "font-size",
	"letterSpacing":   "letter-spacing",
	"lineHeight":      "line-height",
	"zIndex":          "z-index",
	"top":             "top",
	"right":           "right",
	"bottom":          "bottom",
	"left":            "left",
	"fontWeight":      "font-weight",
	"textAlign":       "text-align",
	"justifyContent":  "justify-content",
	"alignItems":      "align-items",
	"flexWrap":        "flex-wrap",
	"flexDirection":   "flex-direction",
	"borderStyle":     "border-style",
	"display":         "display",
	"opacity":         "opacity",
	"overflow":        "overflow",
	"position":        "position",
}

// flexKeywordAliases implements §4.10's "start/end -> flex-start/
// flex-end" translation for the flexbox alignment properties.
var flexKeywordAliases = map[string]string{
	"start": "flex-start",
	"end":   "flex-end",
}

// sandboxCSS is applied to every rendering's container, non-negotiable
// per §4.9.
const sandboxCSS = "overflow:hidden;isolation:isolate;contain:content;position:relative;"

// resolveNodeCSS lowers a merged StyleObject to a single CSS
// declaration-block string, minified via tdewolff/minify/v2 for
// canonical, compact output. Ref-typed properties are resolved against
// scope first; a property that doesn't resolve (Expr, or an
// unresolvable Ref) is simply omitted, which mirrors the renderer's
// "never render a guess" stance elsewhere.
func resolveNodeCSS(style *StyleObject, s *scope) string {
	if style == nil {
		return ""
	}
	var buf strings.Builder
	for _, name := range style.Names() {
		v := style.Get(name)
		resolved, ok := resolveValue(v, s)
		if !ok {
			continue
		}
		decl, ok := cssDeclaration(name, resolved)
		if !ok {
			continue
		}
		buf.WriteString(decl)
		buf.WriteByte(';')
	}
	return minifyCSS(buf.String())
}

func minifyCSS(decls string) string {
	if decls == "" {
		return ""
	}
	wrapped := "a{" + decls + "}"
	out, err := cssMinifier.String("text/css", wrapped)
	if err != nil {
		return decls
	}
	out = strings.TrimPrefix(out, "a{")
	out = strings.TrimSuffix(out, "}")
	return out
}

func cssDeclaration(property string, value interface{}) (string, bool) {
	switch property {
	case "transform":
		return cssTransform(value)
	case "boxShadow":
		return cssBoxShadow(value)
	case "backgroundGradient":
		return cssBackgroundGradient(value)
	case "border":
		return cssBorderShorthand("border", value)
	case "borderTop":
		return cssBorderShorthand("border-top", value)
	case "borderRight":
		return cssBorderShorthand("border-right", value)
	case "borderBottom":
		return cssBorderShorthand("border-bottom", value)
	case "borderLeft":
		return cssBorderShorthand("border-left", value)
	case "justifyContent", "alignItems":
		s, ok := value.(string)
		if !ok {
			return "", false
		}
		if alias, ok := flexKeywordAliases[s]; ok {
			s = alias
		}
		return fmt.Sprintf("%s:%s", cssPropertyName[property], s), true
	}

	cssName, ok := cssPropertyName[property]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s:%v", cssName, value), true
}

func cssTransform(value interface{}) (string, bool) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return "", false
	}
	var funcs []string
	if tx, ok := obj["translateX"].(float64); ok {
		funcs = append(funcs, fmt.Sprintf("translateX(%vpx)", tx))
	}
	if ty, ok := obj["translateY"].(float64); ok {
		funcs = append(funcs, fmt.Sprintf("translateY(%vpx)", ty))
	}
	if scale, ok := obj["scale"].(float64); ok {
		funcs = append(funcs, fmt.Sprintf("scale(%v)", scale))
	}
	if rotate, ok := obj["rotate"].(float64); ok {
		funcs = append(funcs, fmt.Sprintf("rotate(%vdeg)", rotate))
	}
	if len(funcs) == 0 {
		return "", false
	}
	return "transform:" + strings.Join(funcs, " "), true
}

func cssBoxShadow(value interface{}) (string, bool) {
	arr, ok := value.([]interface{})
	if !ok {
		return "", false
	}
	var shadows []string
	for _, entryRaw := range arr {
		entry, ok := entryRaw.(map[string]interface{})
		if !ok {
			continue
		}
		ox, _ := entry["offsetX"].(float64)
		oy, _ := entry["offsetY"].(float64)
		blur, _ := entry["blur"].(float64)
		spread, _ := entry["spread"].(float64)
		color, _ := entry["color"].(string)
		shadows = append(shadows, fmt.Sprintf("%vpx %vpx %vpx %vpx %s", ox, oy, blur, spread, color))
	}
	if len(shadows) == 0 {
		return "", false
	}
	return "box-shadow:" + strings.Join(shadows, ","), true
}

func cssBackgroundGradient(value interface{}) (string, bool) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return "", false
	}
	stops, ok := obj["stops"].([]interface{})
	if !ok {
		return "", false
	}
	var parts []string
	for _, stopRaw := range stops {
		stop, ok := stopRaw.(map[string]interface{})
		if !ok {
			continue
		}
		color, _ := stop["color"].(string)
		offset, _ := stop["offset"].(float64)
		parts = append(parts, fmt.Sprintf("%s %v%%", color, offset*100))
	}
	if len(parts) == 0 {
		return "", false
	}

	var gradient string
	if t, _ := obj["type"].(string); t == "radial" {
		gradient = fmt.Sprintf("radial-gradient(circle,%s)", strings.Join(parts, ","))
	} else {
		angle, _ := obj["angle"].(float64)
		gradient = fmt.Sprintf("linear-gradient(%vdeg,%s)", angle, strings.Join(parts, ","))
	}
	return "background-image:" + gradient, true
}

func cssBorderShorthand(cssProp string, value interface{}) (string, bool) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return "", false
	}
	width, _ := obj["width"].(float64)
	style, _ := obj["style"].(string)
	color, _ := obj["color"].(string)
	return fmt.Sprintf("%s:%vpx %s %s", cssProp, width, style, color), true
}

// sandboxContainerCSS returns the always-on sandbox rules plus any
// host-supplied containerStyle, minified together.
func sandboxContainerCSS(extra string) string {
	var buf bytes.Buffer
	buf.WriteString(sandboxCSS)
	buf.WriteString(extra)
	return minifyCSS(buf.String())
}
