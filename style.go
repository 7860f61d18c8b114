package safeui

import "encoding/json"

// StyleObject is a card or node's style map plus an optional $style
// reference into Card.Styles (§3, §4.5 Style Pass). Properties are kept
// as raw Values so the Style Pass can apply property-specific parsing
// (color.go, length.go) and the permission table uniformly, the same
// way Node's own fields are.
type StyleObject struct {
	// StyleRef is the "$style" reserved key: a name into Card.Styles this
	// object extends. Empty when absent. The Style Pass resolves and
	// cycle-checks StyleRef chains (STYLE_CIRCULAR_REF, STYLE_REF_NOT_FOUND).
	StyleRef string

	// styleRefInvalid is set when "$style" was present but not a string;
	// the Style Pass reports this as INVALID_STYLE_REF instead of
	// treating it as simply absent.
	styleRefInvalid bool

	// Properties holds every other key verbatim, keyed by CSS-ish property
	// name (e.g. "backgroundColor", "padding", "transform").
	Properties map[string]*Value

	// order preserves declaration order for deterministic error paths and
	// deterministic style-merge output in the renderer.
	order []string
}

// Get returns the Value for a property name, or nil if absent.
func (s *StyleObject) Get(name string) *Value {
	if s == nil {
		return nil
	}
	return s.Properties[name]
}

// Names returns property names in declaration order.
func (s *StyleObject) Names() []string {
	if s == nil {
		return nil
	}
	return s.order
}

func (s *StyleObject) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	keys := jsonObjectKeys(data)

	s.Properties = make(map[string]*Value, len(raw))
	for _, key := range keys {
		r, ok := raw[key]
		if !ok {
			continue
		}
		if key == "$style" {
			var ref string
			if err := json.Unmarshal(r, &ref); err != nil {
				s.styleRefInvalid = true
				continue
			}
			s.StyleRef = ref
			continue
		}
		v, err := parseValue(r)
		if err != nil {
			return err
		}
		s.Properties[key] = v
		s.order = append(s.order, key)
	}
	return nil
}

// Structured sub-shapes for the handful of style properties whose value
// is itself an object rather than a scalar length/color (§4.5). These
// types document the literal shapes; nothing decodes into them. The
// Style Pass and the renderer read the decoded map[string]interface{}
// literal directly, and StyleObject.UnmarshalJSON keeps it as a plain
// Value, since a Ref/Expr value at one of these properties is itself
// meaningful (permission-checked before ever being inspected as a
// literal shape).

// TransformSpec models the "transform" property's structured literal
// form: translate/scale/rotate only. skewX/skewY are a named Non-goal
// (TRANSFORM_SKEW_FORBIDDEN) enforced by the Style Pass, not by omission
// here, so that a skew attempt produces a specific diagnostic instead
// of an UNKNOWN_NODE_TYPE-style generic parse failure.
type TransformSpec struct {
	TranslateX *float64 `json:"translateX,omitempty"`
	TranslateY *float64 `json:"translateY,omitempty"`
	Scale      *float64 `json:"scale,omitempty"`
	Rotate     *float64 `json:"rotate,omitempty"`
	SkewX      *float64 `json:"skewX,omitempty"`
	SkewY      *float64 `json:"skewY,omitempty"`
}

// BoxShadowSpec models one entry of the "boxShadow" property.
type BoxShadowSpec struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
	Spread  float64 `json:"spread"`
	Color   string  `json:"color"`
}

// BackgroundGradientSpec models the "backgroundGradient" property:
// either a linear gradient (the default, using Angle) or a radial one
// (Angle is ignored; §4.10 fixes the shape to "circle"). Any other
// "type" discriminant is rejected by the Style Pass.
type BackgroundGradientSpec struct {
	Type   string             `json:"type"`
	Angle  float64            `json:"angle"`
	Stops  []GradientStopSpec `json:"stops"`
}

type GradientStopSpec struct {
	Color  string  `json:"color"`
	Offset float64 `json:"offset"`
}

// BorderSpec models the "border" property's structured literal form.
type BorderSpec struct {
	Width float64 `json:"width"`
	Style string  `json:"style"`
	Color string  `json:"color"`
}

// styleCategory buckets a property name for the Style Pass's
// per-category validators (color.go, length.go, and the structured-shape
// checks in pass_style.go).
type styleCategory int

const (
	styleCatUnknown styleCategory = iota
	styleCatColor
	styleCatLength
	styleCatEnum
	styleCatTransform
	styleCatBoxShadow
	styleCatBackgroundGradient
	styleCatBorder
	styleCatOverflow
	styleCatPosition
)

// styleProperties is the closed whitelist of style properties the Style
// Pass recognizes (§4.5). A property absent from this map is
// FORBIDDEN_STYLE_PROPERTY only if it is listed in
// forbiddenStyleProperties; any other absent property is ignored by the
// Style Pass and dropped by the renderer.
var styleProperties = map[string]styleCategory{
	"backgroundColor": styleCatColor,
	"color":           styleCatColor,
	"borderColor":     styleCatColor,

	"width":         styleCatLength,
	"height":        styleCatLength,
	"minWidth":      styleCatLength,
	"minHeight":     styleCatLength,
	"maxWidth":      styleCatLength,
	"maxHeight":     styleCatLength,
	"padding":       styleCatLength,
	"paddingTop":    styleCatLength,
	"paddingRight":  styleCatLength,
	"paddingBottom": styleCatLength,
	"paddingLeft":   styleCatLength,
	"margin":        styleCatLength,
	"marginTop":     styleCatLength,
	"marginRight":   styleCatLength,
	"marginBottom":  styleCatLength,
	"marginLeft":    styleCatLength,
	"gap":           styleCatLength,
	"borderRadius":  styleCatLength,
	"borderWidth":   styleCatLength,
	"fontSize":      styleCatLength,
	"letterSpacing": styleCatLength,
	"lineHeight":    styleCatLength,
	"zIndex":        styleCatLength,
	"top":           styleCatLength,
	"right":         styleCatLength,
	"bottom":        styleCatLength,
	"left":          styleCatLength,

	"fontWeight":     styleCatEnum,
	"textAlign":      styleCatEnum,
	"justifyContent": styleCatEnum,
	"alignItems":     styleCatEnum,
	"flexWrap":       styleCatEnum,
	"flexDirection":  styleCatEnum,
	"borderStyle":    styleCatEnum,
	"display":        styleCatEnum,
	"opacity":        styleCatLength,

	"overflow": styleCatOverflow,
	"position": styleCatPosition,

	"transform":          styleCatTransform,
	"boxShadow":          styleCatBoxShadow,
	"backgroundGradient": styleCatBackgroundGradient,
	"border":             styleCatBorder,
	"borderTop":          styleCatBorder,
	"borderRight":        styleCatBorder,
	"borderBottom":       styleCatBorder,
	"borderLeft":         styleCatBorder,
}

// forbiddenStyleProperties is the named Style Pass reject set (§4.5):
// these keys are recognized (unlike a typo'd property, which the
// renderer silently drops) but always diagnosed.
var forbiddenStyleProperties = map[string]bool{
	"backgroundImage": true,
	"cursor":          true,
	"listStyleImage":  true,
	"content":         true,
	"filter":          true,
	"backdropFilter":  true,
	"mixBlendMode":    true,
	"animation":       true,
	"transition":      true,
	"clipPath":        true,
	"mask":            true,
}
