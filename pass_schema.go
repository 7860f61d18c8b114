package safeui

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New()

// schemaShape describes the loose top-level shape (meta, views). It is
// not used: runSchemaPass probes the document as a plain map before any
// typed decode.
type schemaShape struct {
	Meta   json.RawMessage            `json:"meta"`
	Views  map[string]json.RawMessage `json:"views"`
	hasAll bool
}

// runSchemaPass performs §4.2: verify top-level shape, then a full
// structural check that every node has a recognized "type". It always
// runs first and, on failure, short-circuits the rest of the pipeline —
// validate.go is the only caller that enforces the short-circuit; this
// function just reports what it found.
func runSchemaPass(raw []byte) (*Card, *errorList) {
	errs := &errorList{}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		errs.add(ErrInvalidJSON, "", "card is not a JSON object: %v", err)
		return nil, errs
	}

	metaRaw, hasMeta := top["meta"]
	if !hasMeta {
		errs.add(ErrMissingField, "meta", "missing required field %q", "meta")
	} else {
		var meta Meta
		if err := json.Unmarshal(metaRaw, &meta); err != nil {
			errs.add(ErrInvalidType, "meta", "meta must be an object with string name/version")
		} else if err := structValidator.Struct(meta); err != nil {
			errs.add(ErrMissingField, "meta", "meta.name and meta.version must be non-empty")
		}
	}

	viewsRaw, hasViews := top["views"]
	var rawViews map[string]json.RawMessage
	if !hasViews {
		errs.add(ErrMissingField, "views", "missing required field %q", "views")
	} else if err := json.Unmarshal(viewsRaw, &rawViews); err != nil {
		errs.add(ErrInvalidType, "views", "views must be an object")
	} else if len(rawViews) == 0 {
		errs.add(ErrSchemaError, "views", "views must contain at least one entry")
	}

	if !errs.ok() {
		return nil, errs
	}

	for name, nodeRaw := range rawViews {
		checkNodeShape(nodeRaw, "views."+name, errs)
	}
	if !errs.ok() {
		return nil, errs
	}

	var card Card
	if err := json.Unmarshal(raw, &card); err != nil {
		errs.add(ErrSchemaError, "", "card failed structural decode after shape check: %v", err)
		return nil, errs
	}
	if err := structValidator.Struct(&card.Meta); err != nil {
		errs.add(ErrMissingField, "meta", "meta.name and meta.version must be non-empty")
		return nil, errs
	}

	if dupErrs := checkUniqueNames(&card); !dupErrs.ok() {
		errs.merge(dupErrs)
		return nil, errs
	}

	return &card, errs
}

// checkNodeShape recursively verifies every node (and ForLoop template)
// has a recognized "type" string, and flags the rejected legacy
// {props:{...}} shape with a dedicated message (§9 Open Question / the
// SPEC_FULL supplement) instead of a generic "missing type".
func checkNodeShape(raw json.RawMessage, path string, errs *errorList) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		errs.add(ErrSchemaError, path, "node must be a JSON object")
		return
	}

	typeRaw, hasType := obj["type"]
	if !hasType {
		if _, hasProps := obj["props"]; hasProps {
			errs.add(ErrSchemaError, path,
				"node uses the legacy {type, props:{...}} shape; this build only accepts flat fields (type alongside its own fields directly, not nested under props)")
			return
		}
		errs.add(ErrMissingField, path, "node is missing required field %q", "type")
		return
	}

	var typ string
	if err := json.Unmarshal(typeRaw, &typ); err != nil {
		errs.add(ErrInvalidType, fieldPath(path, "type"), "type must be a string")
		return
	}
	if !knownKinds[Kind(typ)] {
		errs.add(ErrUnknownNodeType, fieldPath(path, "type"), "unrecognized node type %q", typ)
		return
	}

	if childrenRaw, ok := obj["children"]; ok {
		checkChildrenShape(childrenRaw, path, errs)
	}
}

func checkChildrenShape(raw json.RawMessage, path string, errs *errorList) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		for i, item := range arr {
			checkNodeShape(item, fmt.Sprintf("%s.children[%d]", path, i), errs)
		}
		return
	}

	var loop struct {
		For      json.RawMessage `json:"for"`
		In       json.RawMessage `json:"in"`
		Template json.RawMessage `json:"template"`
	}
	if err := json.Unmarshal(raw, &loop); err != nil {
		errs.add(ErrSchemaError, fieldPath(path, "children"), "children must be a node list or a ForLoop")
		return
	}
	if loop.Template == nil {
		errs.add(ErrMissingField, fieldPath(path, "children"), "ForLoop is missing required field %q", "template")
		return
	}
	checkNodeShape(loop.Template, path+".children.template", errs)
}

// checkUniqueNames enforces "every style name and view name is unique
// within its map" (§3). Names are compared exactly, with no case
// folding, and Go maps can't hold duplicate keys, so over a decoded
// Card's maps these checks never report anything; this function exists
// as the single place that invariant is named, rather than leaving it
// implicit.
func checkUniqueNames(card *Card) *errorList {
	errs := &errorList{}
	seenViews := make(map[string]bool, len(card.Views))
	for name := range card.Views {
		if seenViews[name] {
			errs.add(ErrSchemaError, "views", "duplicate view name %q", name)
		}
		seenViews[name] = true
	}
	seenStyles := make(map[string]bool, len(card.Styles))
	for name := range card.Styles {
		if seenStyles[name] {
			errs.add(ErrSchemaError, "styles", "duplicate style name %q", name)
		}
		seenStyles[name] = true
	}
	return errs
}
