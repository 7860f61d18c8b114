package safeui

import "testing"

func TestCardUnmarshalPreservesViewOrder(t *testing.T) {
	raw := []byte(`{
		"meta": {"name": "test", "version": "1.0"},
		"views": {
			"second": {"type": "Text", "content": "b"},
			"first": {"type": "Text", "content": "a"},
			"third": {"type": "Text", "content": "c"}
		}
	}`)
	var card Card
	if err := card.UnmarshalJSON(raw); err != nil {
		t.Fatal(err)
	}
	if got := card.FirstView(); got != "second" {
		t.Errorf("FirstView() = %q, want %q (document order, not map order)", got, "second")
	}
	if len(card.viewOrder) != 3 {
		t.Fatalf("viewOrder = %v, want 3 entries", card.viewOrder)
	}
}

func TestNodeUnmarshalRoutesSharedValueField(t *testing.T) {
	var progress Node
	if err := progress.UnmarshalJSON([]byte(`{"type":"ProgressBar","value":0.5,"max":1}`)); err != nil {
		t.Fatal(err)
	}
	if progress.ProgressValue == nil || progress.ToggleValue != nil {
		t.Fatalf("ProgressBar node should populate ProgressValue, not ToggleValue")
	}
	if f, ok := progress.ProgressValue.LiteralFloat(); !ok || f != 0.5 {
		t.Errorf("got %v", progress.ProgressValue)
	}

	var toggle Node
	if err := toggle.UnmarshalJSON([]byte(`{"type":"Toggle","value":true,"onToggle":"flip"}`)); err != nil {
		t.Fatal(err)
	}
	if toggle.ToggleValue == nil || toggle.ProgressValue != nil {
		t.Fatalf("Toggle node should populate ToggleValue, not ProgressValue")
	}
}

func TestParseChildrenNodeListVsForLoop(t *testing.T) {
	children, err := parseChildren([]byte(`[{"type":"Text","content":"a"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if children.IsForLoop() || len(children.Items) != 1 {
		t.Fatalf("expected a 1-item node list, got %+v", children)
	}

	children, err = parseChildren([]byte(`{"for":"item","in":"$items","template":{"type":"Text","content":"a"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if !children.IsForLoop() || children.Loop.For != "item" {
		t.Fatalf("expected a ForLoop, got %+v", children)
	}
}

func TestIsLayoutKind(t *testing.T) {
	for _, k := range []Kind{KindBox, KindRow, KindColumn, KindStack, KindGrid} {
		if !isLayoutKind(k) {
			t.Errorf("%s should be a layout kind", k)
		}
	}
	if isLayoutKind(KindText) {
		t.Errorf("Text should not be a layout kind")
	}
}
