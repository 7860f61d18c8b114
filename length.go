package safeui

import (
	"regexp"
	"strconv"
)

// lengthRe matches §4.5's length grammar: an optional sign, digits, an
// optional decimal part, and an optional unit from {px,%,em,rem}.
var lengthRe = regexp.MustCompile(`^[+-]?[0-9]+(?:\.[0-9]+)?(px|%|em|rem)?$`)

var autoAllowedProperties = map[string]bool{
	"width": true, "height": true,
	"minWidth": true, "minHeight": true, "maxWidth": true, "maxHeight": true,
	"margin": true, "marginTop": true, "marginRight": true, "marginBottom": true, "marginLeft": true,
}

// isValidLength implements §4.5's length literal rule, including the
// property-scoped "auto" exception.
func isValidLength(property, s string) bool {
	if s == "auto" {
		return autoAllowedProperties[property]
	}
	return lengthRe.MatchString(s)
}

// lengthNumericValue extracts the numeric magnitude of a length string
// for range checks (fontSize, letterSpacing, borderRadius), ignoring
// its unit. Returns false if s is not a parseable length.
func lengthNumericValue(s string) (float64, bool) {
	m := lengthRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	numPart := s
	if m[1] != "" {
		numPart = s[:len(s)-len(m[1])]
	}
	f, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// numericRange is a closed [min, max] range used for both bare numeric
// literals (zIndex, opacity, transform.scale, ...) and length-typed
// literals whose magnitude is range-checked (fontSize, letterSpacing,
// borderRadius).
type numericRange struct {
	min, max float64
}

func (r numericRange) contains(v float64) bool {
	return v >= r.min && v <= r.max
}

// numericRanges is §4.5's range table for plain numeric style
// properties (as opposed to the length-string ranges in
// lengthRangedProperties below).
var numericRanges = map[string]numericRange{
	"zIndex":                  {0, 100},
	"opacity":                 {0, 1},
	"transform.scale":         {0.1, 1.5},
	"transform.translateX":    {-500, 500},
	"transform.translateY":    {-500, 500},
	"boxShadow.blur":          {0, 100},
	"boxShadow.spread":        {0, 50},
}

// lengthRangedProperties is §4.5's range table applied to the numeric
// magnitude of a length-string literal.
var lengthRangedProperties = map[string]numericRange{
	"fontSize":      {8, 72},
	"letterSpacing": {-10, 50},
	"borderRadius":  {0, 9999},
}

const maxBoxShadowEntries = 5
