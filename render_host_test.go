package safeui

import (
	"strings"
	"testing"
)

func TestSortedAttrKeysIsDeterministic(t *testing.T) {
	attrs := map[string]string{"src": "a", "alt": "b", "data-action": "c"}
	got := sortedAttrKeys(attrs)
	want := []string{"alt", "data-action", "src"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestWriteHostNodeHTMLEscapesAttrsAndNestsChildren(t *testing.T) {
	root := newHostNode("div", "color:red")
	root.Attrs["data-x"] = `"><script>`
	child := newHostNode("span", "")
	child.Text = "hi"
	root.Children = append(root.Children, child)

	out := RenderHTML(root)
	if !strings.HasPrefix(out, `<div style="color:red"`) {
		t.Fatalf("got %q", out)
	}
	if strings.Contains(out, `"><script>`) {
		t.Errorf("attribute value must be escaped, got %q", out)
	}
	if !strings.Contains(out, "<span>hi</span>") {
		t.Errorf("expected nested child, got %q", out)
	}
	if !strings.HasSuffix(out, "</div>") {
		t.Errorf("expected closing tag, got %q", out)
	}
}

func TestCSSLengthString(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{float64(16), "16px"},
		{"16", "16px"},
		{"2em", "2em"},
		{"not-a-length", ""},
	}
	for _, tt := range tests {
		if got := cssLengthString(tt.in); got != tt.want {
			t.Errorf("cssLengthString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
