package safeui

import "strconv"

// refSegment is one step of a parsed ref path: either a dotted field
// name or a bracketed array index.
type refSegment struct {
	name    string
	isIndex bool
	index   int
}

// parseRefPath splits a ref string like "$a.b[0].c" into its leading
// "$" plus segments ["a", "b", 0, "c"]. It never errors: an
// unparseable tail is simply dropped, on the theory that the
// Expression-Constraints Pass (pass_expr.go) is the place that reports
// a malformed ref path as an error; this helper's callers either
// pollution-scan (where a dropped trailing segment just means one
// fewer thing scanned) or best-effort resolve (where failure to parse
// is indistinguishable from failure to resolve).
func parseRefPath(ref string) []refSegment {
	s := ref
	if len(s) > 0 && s[0] == '$' {
		s = s[1:]
	}

	var segments []refSegment
	i := 0
	for i < len(s) {
		switch {
		case s[i] == '.':
			i++
		case s[i] == '[':
			j := i + 1
			for j < len(s) && s[j] != ']' {
				j++
			}
			if j >= len(s) {
				return segments
			}
			idx, err := strconv.Atoi(s[i+1 : j])
			if err != nil {
				return segments
			}
			segments = append(segments, refSegment{isIndex: true, index: idx})
			i = j + 1
		default:
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			segments = append(segments, refSegment{name: s[i:j]})
			i = j
		}
	}
	return segments
}

// splitRefSegments returns just the dotted-field names of a ref path,
// for the prototype-pollution scan (§4.6), which only cares about
// named segments, never array indices.
func splitRefSegments(ref string) []string {
	parsed := parseRefPath(ref)
	names := make([]string, 0, len(parsed))
	for _, seg := range parsed {
		if !seg.isIndex {
			names = append(names, seg.name)
		}
	}
	return names
}

// resolveStaticRef resolves a ref path against a plain map (no locals
// scope), used by validate-time passes that only ever see the card's
// top-level `state` (the Security Pass's src check, the Resource-Limits
// Pass's ForLoop source lookup). It returns ok=false for any
// unresolvable path, mirroring §4.6/§4.7's "skip silently" behavior for
// refs that can only resolve during an outer loop iteration.
func resolveStaticRef(ref string, state map[string]interface{}) (interface{}, bool) {
	var cur interface{} = state
	for _, seg := range parseRefPath(ref) {
		if seg.isIndex {
			arr, ok := cur.([]interface{})
			if !ok || seg.index < 0 || seg.index >= len(arr) {
				return nil, false
			}
			cur = arr[seg.index]
			continue
		}
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, present := m[seg.name]
		if !present {
			return nil, false
		}
		cur = v
	}
	return cur, true
}
