package safeui

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// HostNode is the renderer's output: a host UI toolkit's primitive,
// wrapped with its resolved CSS. The renderer builds a tree of these;
// a host adapter (like RenderHTML below) walks it into whatever the
// target toolkit actually wants.
type HostNode struct {
	Tag      string
	CSS      string
	Text     string
	Attrs    map[string]string
	Children []*HostNode

	// ActionID/ActionKind are set on Button/Toggle host nodes so a host
	// adapter can wire up its own activation handling without having to
	// re-derive them from Attrs.
	ActionKind string
	ActionID   string
}

func newHostNode(tag, css string) *HostNode {
	return &HostNode{Tag: tag, CSS: css, Attrs: map[string]string{}}
}

// RenderHTML is the bundled reference host adapter: it walks a
// *HostNode tree into a sandboxed HTML string, the same defense-in-
// depth escaping style the teacher's own tree analyzer applies when it
// inspects HTML text nodes — text is never interpolated raw.
func RenderHTML(root *HostNode) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	writeHostNodeHTML(&b, root)
	return b.String()
}

func writeHostNodeHTML(b *strings.Builder, n *HostNode) {
	if n == nil {
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Tag)
	if n.CSS != "" {
		b.WriteString(` style="`)
		b.WriteString(htmlEscapeAttr(n.CSS))
		b.WriteByte('"')
	}
	for _, key := range sortedAttrKeys(n.Attrs) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(htmlEscapeAttr(n.Attrs[key]))
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if n.Text != "" {
		b.WriteString(htmlEscapeText(n.Text))
	}
	for _, child := range n.Children {
		writeHostNodeHTML(b, child)
	}

	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

func sortedAttrKeys(attrs map[string]string) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// htmlEscapeText renders a Text node's resolved string as an inert text
// node: html.EscapeString covers the five XML-significant characters,
// never a raw-HTML mechanism (§4.9's "never via any raw-HTML
// mechanism").
func htmlEscapeText(s string) string {
	return html.EscapeString(s)
}

func htmlEscapeAttr(s string) string {
	return html.EscapeString(s)
}

// cssLengthString implements Divider's thickness formatting (§4.9):
// integer -> append "px", numeric string -> append "px", unit-bearing
// string -> pass through.
func cssLengthString(v interface{}) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64) + "px"
	case string:
		if isValidLength("thickness", t) {
			if _, err := strconv.ParseFloat(t, 64); err == nil {
				return t + "px"
			}
			return t
		}
		return ""
	default:
		return ""
	}
}
