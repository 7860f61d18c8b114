package safeui

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind is the closed set of the 16 component kinds a Node may carry as its
// "type". Grouped into four families per SPEC_FULL.md's Data Model:
// Layout, Content, Display, Interaction.
type Kind string

const (
	KindBox    Kind = "Box"
	KindRow    Kind = "Row"
	KindColumn Kind = "Column"
	KindStack  Kind = "Stack"
	KindGrid   Kind = "Grid"

	KindText  Kind = "Text"
	KindImage Kind = "Image"

	KindProgressBar Kind = "ProgressBar"
	KindAvatar      Kind = "Avatar"
	KindIcon        Kind = "Icon"
	KindBadge       Kind = "Badge"
	KindChip        Kind = "Chip"
	KindDivider     Kind = "Divider"
	KindSpacer      Kind = "Spacer"

	KindButton Kind = "Button"
	KindToggle Kind = "Toggle"
)

var layoutKinds = map[Kind]bool{
	KindBox: true, KindRow: true, KindColumn: true, KindStack: true, KindGrid: true,
}

var knownKinds = map[Kind]bool{
	KindBox: true, KindRow: true, KindColumn: true, KindStack: true, KindGrid: true,
	KindText: true, KindImage: true,
	KindProgressBar: true, KindAvatar: true, KindIcon: true, KindBadge: true,
	KindChip: true, KindDivider: true, KindSpacer: true,
	KindButton: true, KindToggle: true,
}

func isLayoutKind(k Kind) bool { return layoutKinds[k] }

// Meta identifies the card. Non-empty Name/Version is enforced both by a
// go-playground/validator struct tag (used by the Schema Pass for the
// document-level shape assertion, see pass_schema.go) and, defensively, by
// hand in case a host constructs a Card value directly without routing
// through ValidateRaw.
type Meta struct {
	Name    string `json:"name" validate:"required"`
	Version string `json:"version" validate:"required"`
}

// Card is the whole validated document (§3).
type Card struct {
	Meta   Meta                    `json:"meta"`
	Assets map[string]string       `json:"assets,omitempty"`
	State  map[string]interface{}  `json:"state,omitempty"`
	Styles map[string]*StyleObject `json:"styles,omitempty"`
	Views  map[string]*Node        `json:"views"`

	// viewOrder preserves first-seen document order so "first view" (§6,
	// when viewName is omitted) is well-defined even though Go maps have
	// no iteration order of their own.
	viewOrder []string
}

// FirstView returns the name of the first view in document order, or ""
// if the card has no views.
func (c *Card) FirstView() string {
	if len(c.viewOrder) == 0 {
		return ""
	}
	return c.viewOrder[0]
}

// ForLoop expands Template once per element of an array resolved from In,
// introducing a fresh local scope {For: item, index: i} per iteration (§3).
type ForLoop struct {
	For      string `json:"for"`
	In       string `json:"in"`
	Template *Node  `json:"template"`
}

// Children is either an ordered list of Nodes or a ForLoop. Exactly one of
// Items/Loop is non-nil for a well-formed layout node; Node Pass enforces
// ForLoop shape (pass_node.go).
type Children struct {
	Items []*Node
	Loop  *ForLoop
}

func (c *Children) IsForLoop() bool { return c != nil && c.Loop != nil }

// Node is a tagged variant over the 16-kind set (§3). All fields beyond
// Type/Style/Condition/Children are kind-specific and populated only for
// the kinds that use them; Node Pass (pass_node.go) is the single place
// that knows which fields a given Kind requires.
type Node struct {
	Type      Kind
	Style     *StyleObject
	Condition *Value
	Children  *Children

	// Text
	Content *Value
	// Image / Avatar
	Src *Value
	Alt *Value
	// Avatar.size / Icon.size / Icon.color
	Size      *Value
	IconColor *Value
	// Icon.name (Static only)
	IconName *Value
	// ProgressBar
	ProgressValue *Value
	ProgressMax   *Value
	// Badge / Chip / Button
	Label *Value
	// Button.action / Toggle.onToggle (Static only)
	Action   *Value
	OnToggle *Value
	// Toggle.value
	ToggleValue *Value
	// Divider
	Thickness *Value

	// rawFields retains the original field map for passes that need to
	// re-inspect a field the typed struct didn't model (forward
	// compatibility with unknown-but-harmless keys the renderer ignores).
	rawFields map[string]json.RawMessage
}

// nodeField is one kind-specific field present on a node (its name and
// value), as listed by Node.fields for the Node Pass to check required
// fields and for the Value-Type Pass to walk exactly the fields present.
type nodeField struct {
	name  string
	value *Value
}

// fields returns the populated kind-specific (Value-typed) fields on n,
// labeled with their JSON field name for error paths.
func (n *Node) fields() []nodeField {
	var out []nodeField
	add := func(name string, v *Value) {
		if v != nil {
			out = append(out, nodeField{name, v})
		}
	}
	add("content", n.Content)
	add("src", n.Src)
	add("alt", n.Alt)
	add("size", n.Size)
	add("color", n.IconColor)
	add("name", n.IconName)
	add("value", n.ProgressValue)
	add("max", n.ProgressMax)
	add("label", n.Label)
	add("action", n.Action)
	add("onToggle", n.OnToggle)
	add("value", n.ToggleValue)
	add("thickness", n.Thickness)
	return out
}

// UnmarshalJSON builds the typed Node from a raw field map. It only
// recognizes the flat-field shape (§9 Open Question): a node missing
// "type" but carrying a nested "props" object is flagged with a dedicated
// SCHEMA_ERROR message by the Schema Pass before this is ever called, so
// by the time UnmarshalJSON runs the document has already been shown to
// be shape-valid — this method still defends against a directly
// constructed, un-validated Card.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.rawFields = raw

	var typ string
	if tr, ok := raw["type"]; ok {
		if err := json.Unmarshal(tr, &typ); err != nil {
			return fmt.Errorf("type is not a string")
		}
	}
	n.Type = Kind(typ)

	if sr, ok := raw["style"]; ok {
		var style StyleObject
		if err := json.Unmarshal(sr, &style); err != nil {
			return err
		}
		n.Style = &style
	}
	if cr, ok := raw["condition"]; ok {
		v, err := parseValue(cr)
		if err != nil {
			return err
		}
		n.Condition = v
	}
	if chr, ok := raw["children"]; ok {
		children, err := parseChildren(chr)
		if err != nil {
			return err
		}
		n.Children = children
	}

	assign := func(key string) (*Value, error) {
		r, ok := raw[key]
		if !ok {
			return nil, nil
		}
		return parseValue(r)
	}

	var err error
	if n.Content, err = assign("content"); err != nil {
		return err
	}
	if n.Src, err = assign("src"); err != nil {
		return err
	}
	if n.Alt, err = assign("alt"); err != nil {
		return err
	}
	if n.Size, err = assign("size"); err != nil {
		return err
	}
	if n.IconColor, err = assign("color"); err != nil {
		return err
	}
	if n.IconName, err = assign("name"); err != nil {
		return err
	}
	if n.Label, err = assign("label"); err != nil {
		return err
	}
	if n.Action, err = assign("action"); err != nil {
		return err
	}
	if n.OnToggle, err = assign("onToggle"); err != nil {
		return err
	}
	if n.Thickness, err = assign("thickness"); err != nil {
		return err
	}
	if n.ProgressMax, err = assign("max"); err != nil {
		return err
	}

	// "value" is shared on the wire between ProgressBar and Toggle; route
	// by Type since the two never coexist on one node.
	if vr, ok := raw["value"]; ok {
		v, verr := parseValue(vr)
		if verr != nil {
			return verr
		}
		switch n.Type {
		case KindToggle:
			n.ToggleValue = v
		default:
			n.ProgressValue = v
		}
	}

	return nil
}

func parseChildren(data []byte) (*Children, error) {
	var arr []*Node
	if err := json.Unmarshal(data, &arr); err == nil {
		return &Children{Items: arr}, nil
	}

	var loop ForLoop
	if err := json.Unmarshal(data, &loop); err != nil {
		return nil, fmt.Errorf("children is neither a node list nor a ForLoop: %w", err)
	}
	return &Children{Loop: &loop}, nil
}

// UnmarshalJSON on Card preserves view document order (viewOrder) since
// encoding/json's map decode loses key order, and §6 requires "the first
// view in document order" to be well-defined.
func (c *Card) UnmarshalJSON(data []byte) error {
	type cardShape struct {
		Meta   Meta                    `json:"meta"`
		Assets map[string]string       `json:"assets,omitempty"`
		State  map[string]interface{}  `json:"state,omitempty"`
		Styles map[string]*StyleObject `json:"styles,omitempty"`
		Views  map[string]*Node        `json:"views"`
	}
	var shape cardShape
	if err := json.Unmarshal(data, &shape); err != nil {
		return err
	}
	c.Meta = shape.Meta
	c.Assets = shape.Assets
	c.State = shape.State
	c.Styles = shape.Styles
	c.Views = shape.Views
	c.viewOrder = jsonObjectKeyOrder(data, "views")
	return nil
}

// jsonObjectKeyOrder extracts the key order of the object at the given
// top-level field using json.Decoder's token stream, since Go's map
// decoding does not preserve it.
func jsonObjectKeyOrder(data []byte, field string) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil
		}
		if key == field {
			return jsonObjectKeys(raw)
		}
	}
	return nil
}

func jsonObjectKeys(data []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}
	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, _ := keyTok.(string)
		keys = append(keys, key)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return keys
		}
	}
	return keys
}
