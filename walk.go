package safeui

import "fmt"

// walkContext is threaded through every visit, extended by one level per
// recursive call. It is a plain value (not a pointer) so each call gets
// its own copy and callers never need to undo a mutation on the way
// back up.
type walkContext struct {
	path                 string
	depth                int
	parentType           Kind
	hasParent            bool
	loopDepth            int
	overflowAutoAncestor bool
	stackDepth           int

	// styles is the enclosing card's top-level style registry, carried
	// along so effectiveStyle can resolve a node's "$style" base without
	// every pass having to thread *Card through by hand.
	styles map[string]*StyleObject
}

func rootWalkContext(styles map[string]*StyleObject) walkContext {
	return walkContext{styles: styles}
}

// child returns the context for a child of n reached via a named/indexed
// path segment, one level deeper than the receiver; n is the parent node,
// whose type becomes the child's parentType.
func (c walkContext) child(segment string, n *Node) walkContext {
	next := c
	next.path = joinPath(c.path, segment)
	next.depth = c.depth + 1
	next.hasParent = true
	next.parentType = n.Type
	return next
}

// enterLoop returns the context for a ForLoop's template, one loop level
// deeper.
func (c walkContext) enterLoop(segment string) walkContext {
	next := c
	next.path = joinPath(c.path, segment)
	next.depth = c.depth + 1
	next.loopDepth = c.loopDepth + 1
	return next
}

// withMergedStyle folds in the effects a node's merged style has on the
// context passed to its children: overflow:auto stickiness and Stack
// nesting depth. Called once per node, after style merge, before
// descending into children.
func (c walkContext) withMergedStyle(n *Node, merged *StyleObject) walkContext {
	next := c
	if styleOverflowIsAuto(merged) {
		next.overflowAutoAncestor = true
	}
	if n.Type == KindStack {
		next.stackDepth = c.stackDepth + 1
	}
	return next
}

func styleOverflowIsAuto(s *StyleObject) bool {
	v := s.Get("overflow")
	if v == nil {
		return false
	}
	lit, ok := v.LiteralString()
	return ok && lit == "auto"
}

func joinPath(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + segment
}

func fieldPath(base, field string) string {
	if field == "" {
		return base
	}
	return base + "." + field
}

// visitFunc is called once per node in document order. Returning false
// tells the walker to skip the subtree rooted at this node; every pass
// in this package returns true and visits the whole tree.
type visitFunc func(n *Node, ctx walkContext) (descend bool)

// walkCard visits every view's root, in view document order, then walks
// each view's tree.
func walkCard(c *Card, visit visitFunc) {
	for _, name := range viewOrderOrFallback(c) {
		root := c.Views[name]
		if root == nil {
			continue
		}
		ctx := rootWalkContext(c.Styles)
		ctx.path = "views." + name
		walkNode(root, ctx, visit)
	}
}

// viewOrderOrFallback returns c.viewOrder, or (if a Card was constructed
// by hand rather than via UnmarshalJSON and never populated it) every
// view name in map order as a best-effort fallback.
func viewOrderOrFallback(c *Card) []string {
	if len(c.viewOrder) > 0 {
		return c.viewOrder
	}
	names := make([]string, 0, len(c.Views))
	for name := range c.Views {
		names = append(names, name)
	}
	return names
}

// walkNode visits n, then (if visit allows) its children or ForLoop
// template, recursively.
func walkNode(n *Node, ctx walkContext, visit visitFunc) {
	if n == nil {
		return
	}
	if !visit(n, ctx) {
		return
	}
	if n.Children == nil {
		return
	}
	merged := effectiveStyle(n, ctx.styles, nil)
	childCtx := ctx.withMergedStyle(n, merged)

	if n.Children.IsForLoop() {
		loop := n.Children.Loop
		if loop.Template != nil {
			loopCtx := childCtx.enterLoop(".children.template")
			loopCtx.hasParent = true
			loopCtx.parentType = n.Type
			walkNode(loop.Template, loopCtx, visit)
		}
		return
	}
	for i, item := range n.Children.Items {
		walkNode(item, childCtx.child(fmt.Sprintf(".children[%d]", i), n), visit)
	}
}

// effectiveStyle resolves a node's "$style" base (looked up in styles,
// the enclosing card's top-level style registry) merged under its
// inline keys, per §4.9 step 1 and §4.6's "merged style" language.
// seen guards against a $style cycle; on a cycle, or an unresolvable
// name, it degrades to the inline style alone — pass_style.go is the
// place that turns an unresolvable/cyclic $style into a reported
// STYLE_REF_NOT_FOUND/STYLE_CIRCULAR_REF, so by the time other passes
// call this helper any such problem has already been (or will be)
// diagnosed independently; silently degrading here just keeps the
// walker itself from looping forever.
func effectiveStyle(n *Node, styles map[string]*StyleObject, seen map[string]bool) *StyleObject {
	if n.Style == nil || n.Style.StyleRef == "" {
		return n.Style
	}
	if seen == nil {
		seen = map[string]bool{}
	}
	if seen[n.Style.StyleRef] {
		return n.Style
	}
	base, ok := styles[n.Style.StyleRef]
	if !ok || base == nil {
		return n.Style
	}
	seen[n.Style.StyleRef] = true

	merged := &StyleObject{Properties: make(map[string]*Value, len(base.Properties)+len(n.Style.Properties))}
	baseResolved := base
	if base.StyleRef != "" {
		baseResolved = resolveChainProps(base, styles, seen)
	}
	for _, name := range baseResolved.order {
		merged.Properties[name] = baseResolved.Properties[name]
		merged.order = append(merged.order, name)
	}
	for _, name := range n.Style.order {
		if _, exists := merged.Properties[name]; !exists {
			merged.order = append(merged.order, name)
		}
		merged.Properties[name] = n.Style.Properties[name]
	}
	return merged
}

func resolveChainProps(s *StyleObject, styles map[string]*StyleObject, seen map[string]bool) *StyleObject {
	fake := &Node{Style: s}
	return effectiveStyle(fake, styles, seen)
}
