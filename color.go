package safeui

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var foldCase = cases.Fold()

func foldLower(s string) string {
	return foldCase.String(s)
}

var (
	hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	rgbFuncRe  = regexp.MustCompile(`^(?:rgb|rgba|hsl|hsla)\(`)
)

// namedCSSColors is the CSS Color Module Level 4 keyword set. Kept as a
// Go set rather than pulled from a dependency: the retrieved pack's
// libraries that touch color (tdewolff/minify's css handling) treat
// color keywords as opaque idents to pass through, not a keyword table
// to validate against, so there is no pack library to ground this list
// on; it is reproduced here as plain data.
var namedCSSColors = buildNamedCSSColors()

// isValidColor implements §4.5's color literal rule: hex forms, an
// rgb/rgba/hsl/hsla functional call, a named CSS color, or the
// transparent/currentcolor keywords. Matching is case-insensitive via
// Unicode case folding (golang.org/x/text/cases), not a bare
// strings.ToLower, so a named color typed in any locale-independent
// casing still matches.
func isValidColor(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	if hexColorRe.MatchString(trimmed) {
		return true
	}
	folded := foldLower(trimmed)
	if folded == "transparent" || folded == "currentcolor" {
		return true
	}
	if rgbFuncRe.MatchString(folded) && strings.HasSuffix(trimmed, ")") {
		return true
	}
	return namedCSSColors[folded]
}

// containsForbiddenCSSFunction implements §4.5/§4.6's forbidden-token
// scan: calc(, var(, url(, env(, expression( anywhere in a style
// string, case-insensitive.
func containsForbiddenCSSFunction(s string) bool {
	folded := foldLower(s)
	for _, token := range []string{"calc(", "var(", "url(", "env(", "expression("} {
		if strings.Contains(folded, token) {
			return true
		}
	}
	return false
}

func buildNamedCSSColors() map[string]bool {
	names := []string{
		"black", "silver", "gray", "white", "maroon", "red", "purple", "fuchsia",
		"green", "lime", "olive", "yellow", "navy", "blue", "teal", "aqua",
		"orange", "aliceblue", "antiquewhite", "aquamarine", "azure", "beige",
		"bisque", "blanchedalmond", "blueviolet", "brown", "burlywood",
		"cadetblue", "chartreuse", "chocolate", "coral", "cornflowerblue",
		"cornsilk", "crimson", "cyan", "darkblue", "darkcyan", "darkgoldenrod",
		"darkgray", "darkgreen", "darkgrey", "darkkhaki", "darkmagenta",
		"darkolivegreen", "darkorange", "darkorchid", "darkred", "darksalmon",
		"darkseagreen", "darkslateblue", "darkslategray", "darkslategrey",
		"darkturquoise", "darkviolet", "deeppink", "deepskyblue", "dimgray",
		"dimgrey", "dodgerblue", "firebrick", "floralwhite", "forestgreen",
		"gainsboro", "ghostwhite", "gold", "goldenrod", "greenyellow", "grey",
		"honeydew", "hotpink", "indianred", "indigo", "ivory", "khaki",
		"lavender", "lavenderblush", "lawngreen", "lemonchiffon", "lightblue",
		"lightcoral", "lightcyan", "lightgoldenrodyellow", "lightgray",
		"lightgreen", "lightgrey", "lightpink", "lightsalmon", "lightseagreen",
		"lightskyblue", "lightslategray", "lightslategrey", "lightsteelblue",
		"lightyellow", "limegreen", "linen", "magenta", "mediumaquamarine",
		"mediumblue", "mediumorchid", "mediumpurple", "mediumseagreen",
		"mediumslateblue", "mediumspringgreen", "mediumturquoise",
		"mediumvioletred", "midnightblue", "mintcream", "mistyrose",
		"moccasin", "navajowhite", "oldlace", "olivedrab", "orangered",
		"orchid", "palegoldenrod", "palegreen", "paleturquoise",
		"palevioletred", "papayawhip", "peachpuff", "peru", "pink", "plum",
		"powderblue", "rosybrown", "royalblue", "saddlebrown", "salmon",
		"sandybrown", "seagreen", "seashell", "sienna", "skyblue",
		"slateblue", "slategray", "slategrey", "snow", "springgreen",
		"steelblue", "tan", "thistle", "tomato", "turquoise", "violet",
		"wheat", "whitesmoke", "yellowgreen", "rebeccapurple",
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
