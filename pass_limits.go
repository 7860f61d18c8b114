package safeui

import "encoding/json"

// limitCounters mirrors the four per-card aggregate tallies the
// Resource-Limits Pass accumulates in one traversal (§4.7). It is also
// reused, unexported, as the per-template metrics unit when scaling a
// ForLoop's contribution by (N-1).
type limitCounters struct {
	nodes        int
	textBytes    int
	styleBytes   int
	overflowAuto int
}

func (c *limitCounters) add(other limitCounters) {
	c.nodes += other.nodes
	c.textBytes += other.textBytes
	c.styleBytes += other.styleBytes
	c.overflowAuto += other.overflowAuto
}

func (c limitCounters) scaled(factor int) limitCounters {
	return limitCounters{
		nodes:        c.nodes * factor,
		textBytes:    c.textBytes * factor,
		styleBytes:   c.styleBytes * factor,
		overflowAuto: c.overflowAuto * factor,
	}
}

// runLimitsPass implements §4.7: a single traversal accumulating node
// count, text bytes, style bytes and overflow:auto count, with
// ForLoop iteration scaling and the two structural checks
// (STACK_NESTING_EXCEEDED, NESTED_LOOPS_EXCEEDED) folded in along the
// way. limits is normally DefaultLimits() but a host may supply a
// tuned Limits (config.go) instead.
func runLimitsPass(card *Card, limits Limits) *errorList {
	errs := &errorList{}
	total := limitCounters{}

	walkCard(card, func(n *Node, ctx walkContext) bool {
		total.add(nodeOwnMetrics(n, ctx.styles))

		if ctx.stackDepth >= limits.StackNestingDepth && n.Type == KindStack {
			errs.add(ErrStackNestingExceeded, ctx.path, "Stack nesting depth exceeds %d", limits.StackNestingDepth)
		}

		if n.Children != nil && n.Children.IsForLoop() {
			if ctx.loopDepth >= limits.NestedLoopDepth {
				errs.add(ErrNestedLoopsExceeded, ctx.path+".children", "nested loop depth exceeds %d", limits.NestedLoopDepth)
			}
			addForLoopMetrics(n.Children.Loop, card.State, ctx, &total, limits, errs)
		}
		return true
	})

	if total.nodes > limits.NodeCount {
		errs.add(ErrNodeCountExceeded, "", "card has %d nodes%s (limit %d)", total.nodes, overBy(total.nodes, limits.NodeCount), limits.NodeCount)
	}
	if total.textBytes > limits.TextContentBytes {
		errs.add(ErrTextContentSizeExceeded, "", "text content totals %s%s (limit %s)", humanBytes(total.textBytes), overBy(total.textBytes, limits.TextContentBytes), humanBytes(limits.TextContentBytes))
	}
	if total.styleBytes > limits.StyleBytes {
		errs.add(ErrStyleSizeExceeded, "", "style objects total %s%s (limit %s)", humanBytes(total.styleBytes), overBy(total.styleBytes, limits.StyleBytes), humanBytes(limits.StyleBytes))
	}
	if total.overflowAuto > limits.OverflowAutoCount {
		errs.add(ErrOverflowAutoCountExceed, "", "overflow:auto appears %d times (limit %d)", total.overflowAuto, limits.OverflowAutoCount)
	}

	return errs
}

// nodeOwnMetrics computes one node's own contribution to the counters
// (not including children, which the walker visits separately): +1
// node, UTF-8 bytes of literal Text.content, UTF-8 JSON bytes of the
// merged style, +1 if merged overflow is "auto".
func nodeOwnMetrics(n *Node, styles map[string]*StyleObject) limitCounters {
	m := limitCounters{nodes: 1}

	if n.Type == KindText && n.Content != nil {
		if s, ok := n.Content.LiteralString(); ok {
			m.textBytes = len(s)
		}
	}

	merged := effectiveStyle(n, styles, nil)
	if merged != nil {
		m.styleBytes = mergedStyleJSONSize(merged)
		if styleOverflowIsAuto(merged) {
			m.overflowAuto = 1
		}
	}
	return m
}

func mergedStyleJSONSize(style *StyleObject) int {
	out := make(map[string]interface{}, len(style.Properties))
	for _, name := range style.Names() {
		v := style.Get(name)
		if v == nil {
			continue
		}
		out[name] = valueJSONRepr(v)
	}
	b, err := json.Marshal(out)
	if err != nil {
		return 0
	}
	return len(b)
}

func valueJSONRepr(v *Value) interface{} {
	switch v.Kind {
	case ValueRef:
		return map[string]string{"$ref": v.Ref}
	case ValueExpr:
		return map[string]string{"$expr": v.Expr}
	default:
		return v.Literal
	}
}

// addForLoopMetrics resolves a ForLoop's "in" path against state and,
// per §4.7, either flags LOOP_SOURCE_NOT_ARRAY, flags
// LOOP_ITERATIONS_EXCEEDED, or scales the template's own metrics by
// (N-1) and adds them to total (the base walk already counted the
// template once, as the child the walker will visit next).
func addForLoopMetrics(loop *ForLoop, state map[string]interface{}, ctx walkContext, total *limitCounters, limits Limits, errs *errorList) {
	resolved, ok := resolveStaticRef(loop.In, state)
	if !ok {
		// Unresolvable (e.g. a loop-local): skip silently (§4.7).
		return
	}
	arr, ok := resolved.([]interface{})
	if !ok {
		errs.add(ErrLoopSourceNotArray, ctx.path+".children.in", "ForLoop.in must resolve to an array")
		return
	}
	n := len(arr)
	if n > limits.LoopIterations {
		errs.add(ErrLoopIterationsExceeded, ctx.path+".children.in", "ForLoop would iterate %d times (limit %d)", n, limits.LoopIterations)
		return
	}
	if n <= 1 || loop.Template == nil {
		return
	}
	templateMetrics := subtreeMetrics(loop.Template, ctx.styles)
	total.add(templateMetrics.scaled(n - 1))
}

// subtreeMetrics computes the own-metrics of a node and every
// descendant, for scaling a ForLoop template by its iteration count.
func subtreeMetrics(n *Node, styles map[string]*StyleObject) limitCounters {
	var total limitCounters
	walkNode(n, rootWalkContext(styles), func(node *Node, ctx walkContext) bool {
		total.add(nodeOwnMetrics(node, styles))
		return true
	})
	return total
}
