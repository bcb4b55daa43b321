package payload

import (
	"strconv"
	"strings"
)

// Resolve walks path through root and returns the canonical string at the end.
//
// Paths are dot-separated member names, each optionally followed by one or
// more bracketed indices: "condition.code.coding[0].code", "a[0][1].b".
// Empty segments are ignored. Any miss (absent node, unknown member,
// non-sequence under a bracket, out-of-range or malformed index) yields
// ("", false).
func Resolve(root Node, path string) (string, bool) {
	return Lookup(root, path).Canonical()
}

// Lookup returns the node at path, or Absent.
func Lookup(root Node, path string) Node {
	node := root
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			continue
		}
		node = walkSegment(node, segment)
		if node.IsAbsent() {
			return node
		}
	}
	return node
}

func walkSegment(node Node, segment string) Node {
	open := strings.IndexByte(segment, '[')
	if open < 0 {
		return node.Get(segment)
	}
	if name := segment[:open]; name != "" {
		node = node.Get(name)
	}
	rest := segment[open:]
	for strings.HasPrefix(rest, "[") {
		if node.IsAbsent() {
			return node
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return Absent()
		}
		idx, ok := parseIndex(rest[1:end])
		if !ok || node.Kind() != KindSequence {
			return Absent()
		}
		node = node.Index(idx)
		rest = rest[end+1:]
	}
	if rest != "" {
		node = node.Get(rest)
	}
	return node
}

// parseIndex accepts only plain decimal digits without sign or leading zeros.
func parseIndex(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return idx, true
}
