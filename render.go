package safeui

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// logger is package-level and writes to stderr by default; reportError
// writes each error to it when a call has no OnError callback. It is
// never used for control flow — mirrors the teacher's own plain
// *log.Logger usage in template.go's New/Parse.
var logger = log.New(os.Stderr, "safeui: ", 0)

// SetLogger lets a host redirect or silence the renderer's log output.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// IconResolver supplies the glyph for an icon name that already passed
// static validation. May return nil to render nothing.
type IconResolver func(name string) *HostNode

// OnAction is invoked on Button/Toggle activation. payload is non-nil
// only for Toggle, carrying {"value": bool}.
type OnAction func(actionKind, actionID string, payload map[string]interface{})

// OnError receives accumulated errors (validation or runtime-budget).
// Render invokes it at most once per call; RenderMany invokes it once
// if the card fails validation, otherwise once per view whose Render
// reports errors.
type OnError func(errors []Error)

// RenderInput is the Renderer's parameter object (§6): either a
// pre-validated Card or raw bytes, a view selector, and every optional
// collaborator.
type RenderInput struct {
	Card *Card
	Raw  []byte

	ViewName string
	State    map[string]interface{}
	Assets   map[string]string

	IconResolver IconResolver
	OnAction     OnAction
	OnError      OnError

	Limits Limits

	// ContainerStyle is host CSS appended after the non-negotiable
	// sandbox rules (§4.9) on the outer container every render is
	// wrapped in. Never lets a host opt out of the sandbox itself.
	ContainerStyle string
}

// RuntimeBudget is the Renderer's mutable per-call counters (§4.9,
// §5: "owns a mutable RuntimeBudget from creation to return, never
// shared across calls"). sessionID exists for log correlation only.
type RuntimeBudget struct {
	sessionID string

	nodes        int
	styleBytes   int
	overflowAuto int
	textBytes    int

	limits Limits
}

func newRuntimeBudget(limits Limits) *RuntimeBudget {
	return &RuntimeBudget{sessionID: uuid.NewString(), limits: limits}
}

// checkAndCommit implements §4.9 step 3: an all-or-nothing batch check
// against the four runtime counters. If any delta would push its
// counter over budget, nothing commits and the caller renders nothing
// for the node in question.
func (b *RuntimeBudget) checkAndCommit(deltaNodes, deltaStyleBytes, deltaOverflowAuto, deltaTextBytes int) (ok bool, failCode ErrorCode) {
	switch {
	case b.nodes+deltaNodes > b.limits.NodeCount:
		return false, ErrRuntimeNodeLimit
	case b.styleBytes+deltaStyleBytes > b.limits.StyleBytes:
		return false, ErrRuntimeStyleLimit
	case b.overflowAuto+deltaOverflowAuto > b.limits.OverflowAutoCount:
		return false, ErrRuntimeOverflowLimit
	case b.textBytes+deltaTextBytes > b.limits.TextContentBytes:
		return false, ErrRuntimeTextLimit
	}
	b.nodes += deltaNodes
	b.styleBytes += deltaStyleBytes
	b.overflowAuto += deltaOverflowAuto
	b.textBytes += deltaTextBytes
	return true, ""
}

// Render is the Renderer's entry point (§6). It validates first
// (ValidateRaw if Raw was given, Validate if a pre-built Card was
// given); on failure it reports via OnError and returns nil, never
// partial output.
func Render(in RenderInput) *HostNode {
	limits := in.Limits
	if (limits == Limits{}) {
		limits = DefaultLimits()
	}

	card, ok := resolveCard(in, limits)
	if !ok {
		return nil
	}

	viewName := in.ViewName
	if viewName == "" {
		viewName = card.FirstView()
	}
	root, ok := card.Views[viewName]
	if !ok || root == nil {
		return nil
	}

	rc := &renderCtx{
		assets:       mergedAssets(card.Assets, in.Assets),
		styles:       card.Styles,
		iconResolver: in.IconResolver,
		onAction:     in.OnAction,
		budget:       newRuntimeBudget(limits),
		errs:         &errorList{},
	}

	rootCtx := rootWalkContext(card.Styles)
	rootCtx.path = "views." + viewName
	out := rc.renderNode(root, newRootScope(in.State), rootCtx)
	if !rc.errs.ok() {
		reportError(in.OnError, rc.errs.errs)
	}
	return wrapInSandbox(out, in.ContainerStyle)
}

// wrapInSandbox implements §4.9/§6: every rendered tree is returned
// inside an outer container carrying the non-negotiable sandbox CSS
// (overflow:hidden;isolation:isolate;contain:content;position:relative)
// plus any host containerStyle. A nil rendered root (condition false,
// budget exhausted before the first node) produces no output at all —
// there is nothing to sandbox.
func wrapInSandbox(root *HostNode, containerStyle string) *HostNode {
	if root == nil {
		return nil
	}
	container := newHostNode("div", sandboxContainerCSS(containerStyle))
	container.Children = []*HostNode{root}
	return container
}

// RenderMany runs Render once per view name in the card, the
// SPEC_FULL supplemental batch convenience (§5). It validates the card
// once up front, and each per-view Render call validates the decoded
// Card again.
func RenderMany(in RenderInput) map[string]*HostNode {
	limits := in.Limits
	if (limits == Limits{}) {
		limits = DefaultLimits()
	}

	card, ok := resolveCard(in, limits)
	if !ok {
		return nil
	}

	out := make(map[string]*HostNode, len(card.Views))
	for name := range card.Views {
		single := in
		single.Card = card
		single.Raw = nil
		single.ViewName = name
		single.Limits = limits
		out[name] = Render(single)
	}
	return out
}

// resolveCard validates in.Raw or in.Card (whichever was supplied) and
// returns the decoded Card, reporting via in.OnError on failure.
func resolveCard(in RenderInput, limits Limits) (*Card, bool) {
	if in.Card != nil {
		result := validateWithLimits(in.Card, nil, limits)
		if !result.Valid {
			reportError(in.OnError, result.Errors)
			return nil, false
		}
		return in.Card, true
	}
	if in.Raw == nil {
		return nil, false
	}
	result := ValidateRaw(in.Raw, ValidateOptions{Limits: limits})
	if !result.Valid {
		reportError(in.OnError, result.Errors)
		return nil, false
	}
	card, schemaErrs := runSchemaPass(in.Raw)
	if !schemaErrs.ok() {
		reportError(in.OnError, schemaErrs.errs)
		return nil, false
	}
	return card, true
}

func mergedAssets(cardAssets, hostAssets map[string]string) map[string]string {
	if len(cardAssets) == 0 {
		return hostAssets
	}
	merged := make(map[string]string, len(cardAssets)+len(hostAssets))
	for k, v := range cardAssets {
		merged[k] = v
	}
	for k, v := range hostAssets {
		merged[k] = v
	}
	return merged
}

func reportError(onError OnError, errs []Error) {
	if onError != nil {
		onError(errs)
		return
	}
	for _, e := range errs {
		logger.Printf("%s", e.Error())
	}
}

// renderCtx carries the Renderer's read-only collaborators plus the
// one mutable RuntimeBudget for the duration of a single Render call
// (§5).
type renderCtx struct {
	assets       map[string]string
	styles       map[string]*StyleObject
	iconResolver IconResolver
	onAction     OnAction
	budget       *RuntimeBudget
	errs         *errorList
}

// renderNode implements §4.9's per-node pipeline, in order: evaluate
// Condition, merge style, compute deltas, batch-check-and-commit,
// resolve CSS, dispatch by kind, recurse.
func (rc *renderCtx) renderNode(n *Node, s *scope, ctx walkContext) *HostNode {
	if n == nil {
		return nil
	}
	if n.Condition != nil && !rc.conditionHolds(n.Condition, s) {
		return nil
	}

	merged := effectiveStyle(n, rc.styles, nil)
	styleBytes := 0
	overflowDelta := 0
	if merged != nil {
		styleBytes = mergedStyleJSONSize(merged)
		if styleOverflowIsAuto(merged) {
			overflowDelta = 1
		}
	}

	textDelta := 0
	var resolvedText string
	if n.Type == KindText {
		resolvedText, _ = resolveString(n.Content, s)
		textDelta = len(resolvedText)
	}

	ok, failCode := rc.budget.checkAndCommit(1, styleBytes, overflowDelta, textDelta)
	if !ok {
		rc.errs.add(failCode, ctx.path, "runtime budget exceeded")
		return nil
	}

	css := resolveNodeCSS(merged, s)
	childCtx := ctx.withMergedStyle(n, merged)

	return rc.dispatchRenderKind(n, s, childCtx, resolvedText, css)
}

func (rc *renderCtx) conditionHolds(v *Value, s *scope) bool {
	resolved, ok := resolveValue(v, s)
	if !ok {
		// An Expr condition is never evaluated by this package (§4.11);
		// a host that wants condition-driven rendering is expected to
		// pre-resolve Expr fields into refs/state before calling Render.
		// An unresolved/Expr condition defaults to "hidden", the
		// conservative direction for untrusted content.
		return false
	}
	b, ok := resolved.(bool)
	return ok && b
}

func (rc *renderCtx) dispatchRenderKind(n *Node, s *scope, ctx walkContext, resolvedText, css string) *HostNode {
	switch n.Type {
	case KindBox, KindRow, KindColumn, KindStack, KindGrid:
		return rc.renderLayout(n, s, ctx, css)
	case KindText:
		host := newHostNode("span", css)
		host.Text = resolvedText
		return host
	case KindImage, KindAvatar:
		return rc.renderImage(n, s, css)
	case KindIcon:
		return rc.renderIcon(n)
	case KindProgressBar:
		return rc.renderProgressBar(n, s, css)
	case KindBadge, KindChip:
		return rc.renderLabelNode(n, s, css)
	case KindDivider:
		return rc.renderDivider(n, s, css)
	case KindSpacer:
		return newHostNode("div", css)
	case KindButton:
		return rc.renderButton(n, s, css)
	case KindToggle:
		return rc.renderToggle(n, s, css)
	default:
		return nil
	}
}

func (rc *renderCtx) renderLayout(n *Node, s *scope, ctx walkContext, css string) *HostNode {
	host := newHostNode("div", css)
	if n.Children == nil {
		return host
	}
	if n.Children.IsForLoop() {
		host.Children = rc.renderForLoop(n.Children.Loop, s, ctx)
		return host
	}
	for i, child := range n.Children.Items {
		childCtx := ctx.child(childSegment(i), n)
		if rendered := rc.renderNode(child, s, childCtx); rendered != nil {
			host.Children = append(host.Children, rendered)
		}
	}
	return host
}

func childSegment(i int) string {
	return ".children[" + strconv.Itoa(i) + "]"
}

func (rc *renderCtx) renderForLoop(loop *ForLoop, s *scope, ctx walkContext) []*HostNode {
	arr, resolved, isArray := resolveArray(loop.In, s)
	if !resolved {
		return nil
	}
	if !isArray {
		rc.errs.add(ErrRuntimeLoopSourceInvalid, ctx.path+".children.in", "ForLoop.in did not resolve to an array")
		return nil
	}
	n := len(arr)
	if n > rc.budget.limits.LoopIterations {
		n = rc.budget.limits.LoopIterations
	}
	loopCtx := ctx.enterLoop(".children.template")
	var out []*HostNode
	for i := 0; i < n; i++ {
		iterScope := s.child(loop.For, arr[i], i)
		if rendered := rc.renderNode(loop.Template, iterScope, loopCtx); rendered != nil {
			out = append(out, rendered)
		}
	}
	return out
}

func (rc *renderCtx) renderImage(n *Node, s *scope, css string) *HostNode {
	src, ok := resolveString(n.Src, s)
	if !ok {
		return nil
	}
	// Defense in depth: the Security Pass already rejected external
	// URLs and path traversal statically where it could; a Ref-typed
	// src that only resolves at render time is re-checked here exactly
	// the same way (§4.6's "re-checked when resolved").
	if isExternalURL(src) || strings.Contains(src, "../") || !strings.HasPrefix(src, "@assets/") {
		return nil
	}
	url, ok := resolveAssetURL(rc.assets, src)
	if !ok {
		return nil
	}
	if strings.HasPrefix(foldLower(url), "javascript:") {
		return nil
	}

	host := newHostNode("img", css)
	host.Attrs["src"] = url
	if alt, ok := resolveString(n.Alt, s); ok {
		host.Attrs["alt"] = alt
	}
	return host
}

func resolveAssetURL(assets map[string]string, src string) (string, bool) {
	if url, ok := assets[src]; ok {
		return url, true
	}
	suffix := strings.TrimPrefix(src, "@assets/")
	url, ok := assets[suffix]
	return url, ok
}

func (rc *renderCtx) renderIcon(n *Node) *HostNode {
	if rc.iconResolver == nil {
		return nil
	}
	name, ok := n.IconName.LiteralString()
	if !ok {
		return nil
	}
	return rc.iconResolver(name)
}

func (rc *renderCtx) renderProgressBar(n *Node, s *scope, css string) *HostNode {
	value, _ := resolveNumber(n.ProgressValue, s)
	max, _ := resolveNumber(n.ProgressMax, s)

	var pct float64
	if max != 0 {
		pct = clamp(value/max*100, 0, 100)
	}

	host := newHostNode("div", css)
	host.Attrs["role"] = "progressbar"
	host.Attrs["aria-valuenow"] = strconv.FormatFloat(pct, 'f', -1, 64)
	return host
}

func (rc *renderCtx) renderLabelNode(n *Node, s *scope, css string) *HostNode {
	host := newHostNode("span", css)
	if label, ok := resolveString(n.Label, s); ok {
		host.Text = label
	}
	return host
}

func (rc *renderCtx) renderDivider(n *Node, s *scope, css string) *HostNode {
	host := newHostNode("hr", css)
	if thickness, ok := resolveValue(n.Thickness, s); ok {
		host.Attrs["data-thickness"] = cssLengthString(thickness)
	}
	return host
}

func (rc *renderCtx) renderButton(n *Node, s *scope, css string) *HostNode {
	host := newHostNode("button", css)
	if label, ok := resolveString(n.Label, s); ok {
		host.Text = label
	}
	actionID, _ := n.Action.LiteralString()
	host.ActionKind = "button"
	host.ActionID = actionID
	if rc.onAction != nil {
		host.Attrs["data-action"] = actionID
	}
	return host
}

func (rc *renderCtx) renderToggle(n *Node, s *scope, css string) *HostNode {
	host := newHostNode("button", css)
	actionID, _ := n.OnToggle.LiteralString()
	host.ActionKind = "toggle"
	host.ActionID = actionID

	value, _ := resolveValue(n.ToggleValue, s)
	if b, _ := value.(bool); b {
		host.Attrs["aria-pressed"] = "true"
	} else {
		host.Attrs["aria-pressed"] = "false"
	}
	return host
}

// Dispatch sends an activated host node's action to onAction,
// computing the Toggle payload {"value": !current} the host is
// expected to re-render with. Layout adapters call this from their own
// click/activation wiring; RenderHTML's string output carries no
// interactivity of its own.
func Dispatch(onAction OnAction, host *HostNode) {
	if onAction == nil || host == nil || host.ActionKind == "" {
		return
	}
	var payload map[string]interface{}
	if host.ActionKind == "toggle" {
		payload = map[string]interface{}{"value": host.Attrs["aria-pressed"] != "true"}
	}
	onAction(host.ActionKind, host.ActionID, payload)
}

func resolveNumber(v *Value, s *scope) (float64, bool) {
	resolved, ok := resolveValue(v, s)
	if !ok {
		return 0, false
	}
	f, ok := resolved.(float64)
	return f, ok
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
