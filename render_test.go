package safeui

import "strings"

import "testing"

func TestRenderSimpleTree(t *testing.T) {
	raw := []byte(`{
		"meta": {"name": "card", "version": "1.0"},
		"views": {
			"main": {
				"type": "Column",
				"style": {"backgroundColor": "#fff"},
				"children": [
					{"type": "Text", "content": "<script>alert(1)</script>"},
					{"type": "Button", "label": "Go", "action": "go"}
				]
			}
		}
	}`)

	var gotErrs []Error
	wrapper := Render(RenderInput{Raw: raw, OnError: func(errs []Error) { gotErrs = errs }})
	if wrapper == nil {
		t.Fatalf("expected a rendered tree, got nil; errors: %v", gotErrs)
	}
	if !strings.Contains(wrapper.CSS, "overflow:hidden") {
		t.Errorf("Render's returned root should be the sandbox container, got CSS %q", wrapper.CSS)
	}
	if len(wrapper.Children) != 1 {
		t.Fatalf("expected the sandbox container to hold exactly the rendered root, got %d children", len(wrapper.Children))
	}
	host := wrapper.Children[0]
	if host.Tag != "div" {
		t.Errorf("Column should render as a div, got %q", host.Tag)
	}
	if len(host.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(host.Children))
	}

	text := host.Children[0]
	if text.Tag != "span" {
		t.Errorf("Text should render as a span, got %q", text.Tag)
	}
	if text.Text != "<script>alert(1)</script>" {
		t.Errorf("HostNode.Text should hold the raw resolved string; escaping happens at the adapter")
	}

	button := host.Children[1]
	if button.ActionKind != "button" || button.ActionID != "go" {
		t.Errorf("button action metadata wrong: %+v", button)
	}
}

func TestRenderHTMLEscapesText(t *testing.T) {
	host := newHostNode("span", "")
	host.Text = "<script>alert(1)</script>"
	out := RenderHTML(host)
	if strings.Contains(out, "<script>") {
		t.Fatalf("RenderHTML must never emit raw HTML from text content, got %q", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("expected escaped script tag, got %q", out)
	}
}

func TestRenderConditionHiddenByDefault(t *testing.T) {
	raw := []byte(`{
		"meta": {"name": "card", "version": "1.0"},
		"views": {
			"main": {
				"type": "Column",
				"children": [
					{"type": "Text", "content": "hidden", "condition": {"$ref": "$missing"}}
				]
			}
		}
	}`)
	wrapper := Render(RenderInput{Raw: raw})
	if wrapper == nil || len(wrapper.Children) != 1 {
		t.Fatal("expected the Column itself to render")
	}
	host := wrapper.Children[0]
	if len(host.Children) != 0 {
		t.Errorf("an unresolved condition should hide its node, got %d children", len(host.Children))
	}
}

func TestRenderForLoopExpandsWithScopedLocals(t *testing.T) {
	raw := []byte(`{
		"meta": {"name": "card", "version": "1.0"},
		"views": {
			"main": {
				"type": "Column",
				"children": {
					"for": "item",
					"in": "$items",
					"template": {"type": "Text", "content": {"$ref": "$item"}}
				}
			}
		}
	}`)
	wrapper := Render(RenderInput{
		Raw:   raw,
		State: map[string]interface{}{"items": []interface{}{"a", "b", "c"}},
	})
	if wrapper == nil || len(wrapper.Children) != 1 {
		t.Fatal("expected a rendered tree")
	}
	host := wrapper.Children[0]
	if len(host.Children) != 3 {
		t.Fatalf("expected 3 expanded iterations, got %d", len(host.Children))
	}
	for i, want := range []string{"a", "b", "c"} {
		if host.Children[i].Text != want {
			t.Errorf("iteration %d: got %q want %q", i, host.Children[i].Text, want)
		}
	}
}

func TestRenderImageRejectsExternalURLEvenViaRef(t *testing.T) {
	raw := []byte(`{
		"meta": {"name": "card", "version": "1.0"},
		"views": {
			"main": {"type": "Image", "src": {"$ref": "$userSrc"}}
		}
	}`)
	// The Security Pass can't resolve $userSrc (it's not in card.State
	// at validate time in this test — it's supplied only at render time),
	// so validation passes; the renderer must still re-check on resolve.
	host := Render(RenderInput{
		Raw:   raw,
		State: map[string]interface{}{"userSrc": "https://evil.example/x.png"},
	})
	if host != nil {
		t.Errorf("expected nil (external URL rejected at render time), got %+v", host)
	}
}

func TestRenderImageResolvesAssetPath(t *testing.T) {
	raw := []byte(`{
		"meta": {"name": "card", "version": "1.0"},
		"assets": {"logo": "@assets/logo.png"},
		"views": {
			"main": {"type": "Image", "src": "@assets/logo.png"}
		}
	}`)
	wrapper := Render(RenderInput{
		Raw:    raw,
		Assets: map[string]string{"logo.png": "https://cdn.example/logo.png"},
	})
	if wrapper == nil || len(wrapper.Children) != 1 {
		t.Fatal("expected rendered image")
	}
	host := wrapper.Children[0]
	if host.Attrs["src"] != "https://cdn.example/logo.png" {
		t.Errorf("got src=%q", host.Attrs["src"])
	}
}

func TestRenderNodeCountBudgetStopsRendering(t *testing.T) {
	raw := []byte(`{
		"meta": {"name": "card", "version": "1.0"},
		"views": {
			"main": {
				"type": "Column",
				"children": {
					"for": "item",
					"in": "$items",
					"template": {"type": "Text", "content": {"$ref": "$item"}}
				}
			}
		}
	}`)
	var gotErrs []Error
	limits := DefaultLimits()
	limits.NodeCount = 2
	wrapper := Render(RenderInput{
		Raw:     raw,
		State:   map[string]interface{}{"items": []interface{}{"a", "b", "c"}},
		Limits:  limits,
		OnError: func(errs []Error) { gotErrs = errs },
	})
	if wrapper == nil || len(wrapper.Children) != 1 {
		t.Fatal("the root Column itself should still render (it's within budget)")
	}
	host := wrapper.Children[0]
	if len(host.Children) >= 3 {
		t.Errorf("expected the budget to cut off at least one child, got %d children", len(host.Children))
	}
	if len(gotErrs) == 0 {
		t.Error("expected a RUNTIME_NODE_LIMIT error to be reported")
	}
}

func TestRenderWrapsSandboxContainerWithHostStyle(t *testing.T) {
	raw := []byte(`{
		"meta": {"name": "card", "version": "1.0"},
		"views": {
			"main": {"type": "Text", "content": "hi"}
		}
	}`)
	wrapper := Render(RenderInput{Raw: raw, ContainerStyle: "background-color:#000;"})
	if wrapper == nil {
		t.Fatal("expected a rendered tree")
	}
	for _, rule := range []string{"overflow:hidden", "isolation:isolate", "contain:content", "position:relative", "background-color:#000"} {
		if !strings.Contains(wrapper.CSS, rule) {
			t.Errorf("sandbox container CSS %q missing %q", wrapper.CSS, rule)
		}
	}
	if len(wrapper.Children) != 1 || wrapper.Children[0].Text != "hi" {
		t.Fatalf("expected the Text node nested one level under the sandbox container, got %+v", wrapper)
	}
}

func TestRenderManyWrapsEachViewIndependently(t *testing.T) {
	raw := []byte(`{
		"meta": {"name": "card", "version": "1.0"},
		"views": {
			"a": {"type": "Text", "content": "A"},
			"b": {"type": "Text", "content": "B"}
		}
	}`)
	out := RenderMany(RenderInput{Raw: raw})
	if len(out) != 2 {
		t.Fatalf("expected 2 rendered views, got %d", len(out))
	}
	for name, wrapper := range out {
		if wrapper == nil || len(wrapper.Children) != 1 {
			t.Fatalf("view %q: expected a sandboxed single-child wrapper, got %+v", name, wrapper)
		}
		if !strings.Contains(wrapper.CSS, "overflow:hidden") {
			t.Errorf("view %q: expected sandbox CSS, got %q", name, wrapper.CSS)
		}
	}
}

func TestDispatchTogglesPayload(t *testing.T) {
	var gotKind, gotID string
	var gotPayload map[string]interface{}
	onAction := func(kind, id string, payload map[string]interface{}) {
		gotKind, gotID, gotPayload = kind, id, payload
	}

	host := newHostNode("button", "")
	host.ActionKind = "toggle"
	host.ActionID = "flip"
	host.Attrs["aria-pressed"] = "false"

	Dispatch(onAction, host)

	if gotKind != "toggle" || gotID != "flip" {
		t.Fatalf("got kind=%q id=%q", gotKind, gotID)
	}
	if v, _ := gotPayload["value"].(bool); !v {
		t.Errorf("toggling from pressed=false should dispatch value=true, got %v", gotPayload)
	}
}
