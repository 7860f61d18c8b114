package safeui

import "encoding/json"

// ValueKind tags which of the three dynamic-value forms a Value holds.
type ValueKind int

const (
	ValueLiteral ValueKind = iota
	ValueRef
	ValueExpr
)

// Value is any field value per §3: a literal, a Ref ({$ref: "..."}), or an
// Expr ({$expr: "..."}). Permission (Dynamic/RefOnly/Static) is not baked
// into the type itself — the Value-Type Pass (pass_valuetype.go) consults
// a per-field permission table and checks Kind against it, so that a
// disallowed arm produces an accumulated Error rather than aborting parse
// (SPEC_FULL.md §3 notes this as the Go adaptation of the TS source's
// phantom-typed RefOnly/Static constructors, which reject at construction
// rather than accumulate).
type Value struct {
	Kind ValueKind

	// Literal holds the decoded JSON literal (string, float64, bool, nil,
	// map[string]interface{}, or []interface{}) when Kind == ValueLiteral.
	Literal interface{}

	// Ref holds the raw "$dotted.path[0].segments" text when Kind == ValueRef.
	Ref string

	// Expr holds the raw expression text when Kind == ValueExpr.
	Expr string
}

// IsLiteral, IsRef, IsExpr are small readability helpers used throughout
// the passes and the renderer.
func (v *Value) IsLiteral() bool { return v == nil || v.Kind == ValueLiteral }
func (v *Value) IsRef() bool     { return v != nil && v.Kind == ValueRef }
func (v *Value) IsExpr() bool    { return v != nil && v.Kind == ValueExpr }

// LiteralString returns the literal as a string and whether it was in
// fact a string literal (not a ref, expr, or non-string literal).
func (v *Value) LiteralString() (string, bool) {
	if v == nil || v.Kind != ValueLiteral {
		return "", false
	}
	s, ok := v.Literal.(string)
	return s, ok
}

// LiteralFloat returns the literal as a float64 and whether it was in
// fact a numeric literal.
func (v *Value) LiteralFloat() (float64, bool) {
	if v == nil || v.Kind != ValueLiteral {
		return 0, false
	}
	f, ok := v.Literal.(float64)
	return f, ok
}

// parseValue decodes one field's raw JSON into the three-way union. An
// object with exactly one key, "$ref" (string-valued) or "$expr"
// (string-valued), is a Ref/Expr; everything else — including an object
// that merely happens to contain a "$ref" key alongside other keys — is
// treated as a literal, since §3 defines Ref/Expr by exact shape.
func parseValue(data []byte) (*Value, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err == nil && len(probe) == 1 {
		if refRaw, ok := probe["$ref"]; ok {
			var ref string
			if err := json.Unmarshal(refRaw, &ref); err == nil {
				return &Value{Kind: ValueRef, Ref: ref}, nil
			}
		}
		if exprRaw, ok := probe["$expr"]; ok {
			var expr string
			if err := json.Unmarshal(exprRaw, &expr); err == nil {
				return &Value{Kind: ValueExpr, Expr: expr}, nil
			}
		}
	}

	var literal interface{}
	if err := json.Unmarshal(data, &literal); err != nil {
		return nil, err
	}
	return &Value{Kind: ValueLiteral, Literal: literal}, nil
}

// UnmarshalJSON lets Value be used directly as a struct field type (used
// by StyleObject's per-property map).
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := parseValue(data)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

// permission is the closed set of dynamic-value permissions from §4.4.
type permission int

const (
	permDynamic permission = iota
	permRefOnly
	permStatic
)

func (p permission) allows(k ValueKind) bool {
	switch p {
	case permDynamic:
		return true
	case permRefOnly:
		return k != ValueExpr
	case permStatic:
		return k == ValueLiteral
	}
	return false
}
