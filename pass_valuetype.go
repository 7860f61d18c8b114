package safeui

// fieldPermissions assigns a permission to every kind-specific field
// named in §4.4's table, keyed by (Kind, field name). Fields not listed
// here but present on a node (the Node Pass does not reject extra
// fields) default to permStatic, the most conservative choice.
var fieldPermissions = map[Kind]map[string]permission{
	KindText:        {"content": permDynamic},
	KindBadge:       {"label": permDynamic},
	KindChip:        {"label": permDynamic},
	KindButton:      {"label": permDynamic, "action": permStatic},
	KindToggle:      {"value": permDynamic, "onToggle": permStatic},
	KindProgressBar: {"value": permDynamic, "max": permDynamic},
	KindAvatar:      {"size": permDynamic, "src": permRefOnly},
	KindIcon:        {"size": permDynamic, "color": permDynamic, "name": permStatic},
	KindImage:       {"src": permRefOnly, "alt": permDynamic},
	KindDivider:     {"thickness": permDynamic},
}

// stylePermissions assigns a permission to each style property by
// category (§4.4's "Style: position, top/right/bottom/left, overflow,
// zIndex, transform, border*, boxShadow, backgroundGradient" row is
// Static; color and size/spacing properties are Dynamic; everything
// else defaults to Dynamic as the least surprising choice for an
// unlisted property, since the Style Pass whitelist is what actually
// gates which properties are legal at all).
func stylePermissionFor(property string) permission {
	switch property {
	case "position", "top", "right", "bottom", "left", "overflow", "zIndex",
		"transform", "boxShadow", "backgroundGradient",
		"border", "borderTop", "borderRight", "borderBottom", "borderLeft":
		return permStatic
	default:
		return permDynamic
	}
}

// runValueTypePass walks every node, checking its kind-specific fields
// and its style properties against their permissions.
func runValueTypePass(card *Card) *errorList {
	errs := &errorList{}
	walkCard(card, func(n *Node, ctx walkContext) bool {
		checkFieldPermissions(n, ctx.path, errs)
		checkStylePermissions(n.Style, ctx.path, errs)
		// condition is not named in §4.4's table and is treated as
		// Dynamic, which admits literal, Ref and Expr alike, so it is not
		// checked here. The renderer resolves a literal or Ref condition
		// and hides a node whose condition is an Expr.
		return true
	})
	return errs
}

func checkFieldPermissions(n *Node, path string, errs *errorList) {
	perms := fieldPermissions[n.Type]
	for _, f := range n.fields() {
		perm := permStatic
		if perms != nil {
			if p, ok := perms[f.name]; ok {
				perm = p
			}
		}
		checkValuePermission(f.value, perm, fieldPath(path, f.name), errs)
	}
}

func checkStylePermissions(style *StyleObject, path string, errs *errorList) {
	if style == nil {
		return
	}
	for _, name := range style.Names() {
		perm := stylePermissionFor(name)
		checkValuePermission(style.Get(name), perm, path+".style."+name, errs)
	}
}

func checkValuePermission(v *Value, perm permission, path string, errs *errorList) {
	if v == nil {
		return
	}
	if perm.allows(v.Kind) {
		return
	}
	switch v.Kind {
	case ValueExpr:
		errs.add(ErrExprNotAllowed, path, "$expr is not allowed here")
	case ValueRef:
		errs.add(ErrRefNotAllowed, path, "$ref is not allowed here")
	default:
		errs.add(ErrDynamicNotAllowed, path, "a dynamic value is not allowed here")
	}
}
