package safeui

import "strings"

// requiredFields lists, per Kind, the kind-specific Value-typed fields
// that must be present (§4.3). Layout kinds require none of their own;
// they are omitted from this map and treated as "no requirements".
var requiredFields = map[Kind][]string{
	KindText:        {"content"},
	KindImage:       {"src"},
	KindAvatar:      {"src"},
	KindIcon:        {"name"},
	KindProgressBar: {"value", "max"},
	KindBadge:       {"label"},
	KindChip:        {"label"},
	KindButton:      {"label", "action"},
	KindToggle:      {"value", "onToggle"},
}

// runNodePass walks the whole card verifying, per node: type is one of
// the 16 kinds; the kind's required fields are present; a ForLoop's
// shape (for/in/template) is well-formed.
func runNodePass(card *Card) *errorList {
	errs := &errorList{}
	walkCard(card, func(n *Node, ctx walkContext) bool {
		checkNodeRequiredFields(n, ctx.path, errs)
		if n.Children != nil && n.Children.IsForLoop() {
			checkForLoopShape(n.Children.Loop, ctx.path, errs)
		}
		return true
	})
	return errs
}

func checkNodeRequiredFields(n *Node, path string, errs *errorList) {
	if !knownKinds[n.Type] {
		errs.add(ErrUnknownNodeType, fieldPath(path, "type"), "unrecognized node type %q", n.Type)
		return
	}

	present := make(map[string]bool, len(n.fields())+2)
	for _, f := range n.fields() {
		present[f.name] = true
	}

	for _, field := range requiredFields[n.Type] {
		if !present[field] {
			errs.add(ErrMissingField, path, "%s requires field %q", n.Type, field)
		}
	}
}

// checkForLoopShape verifies §4.3's ForLoop shape: `for` is a non-empty
// identifier, `in` is a string starting with `$`, `template` has a type.
func checkForLoopShape(loop *ForLoop, path string, errs *errorList) {
	loopPath := path + ".children"
	if loop.For == "" || !isIdentifier(loop.For) {
		errs.add(ErrInvalidValue, fieldPath(loopPath, "for"), "ForLoop.for must be a non-empty identifier")
	}
	if !strings.HasPrefix(loop.In, "$") {
		errs.add(ErrInvalidValue, fieldPath(loopPath, "in"), "ForLoop.in must be a ref path starting with \"$\"")
	}
	if loop.Template == nil {
		errs.add(ErrMissingField, fieldPath(loopPath, "template"), "ForLoop is missing required field %q", "template")
		return
	}
	if !knownKinds[loop.Template.Type] {
		errs.add(ErrUnknownNodeType, loopPath+".template.type", "unrecognized node type %q", loop.Template.Type)
	}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
