// Package payload models clinical credential payloads as a typed tree and
// resolves field paths against it.
//
// A payload is one of four node kinds: Absent, Scalar, Sequence or Mapping.
// JSON null decodes to Absent, so a missing member and an explicit null are
// indistinguishable to callers.
package payload

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"time"
)

// Kind discriminates the node variants.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindScalar
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	}
	return "unknown"
}

// Node is an immutable payload tree node. The zero value is Absent.
type Node struct {
	kind    Kind
	scalar  any
	items   []Node
	members map[string]Node
}

// Absent returns the absent node.
func Absent() Node { return Node{} }

// String returns a string scalar.
func String(s string) Node { return Node{kind: KindScalar, scalar: s} }

// Number returns a numeric scalar that keeps its literal text.
func Number(literal string) Node { return Node{kind: KindScalar, scalar: json.Number(literal)} }

// Int returns an integer scalar.
func Int(i int64) Node { return Number(strconv.FormatInt(i, 10)) }

// Float returns a float scalar rendered in its shortest form.
func Float(f float64) Node { return Node{kind: KindScalar, scalar: f} }

// Bool returns a boolean scalar.
func Bool(b bool) Node { return Node{kind: KindScalar, scalar: b} }

// Time returns a timestamp scalar.
func Time(t time.Time) Node { return Node{kind: KindScalar, scalar: t} }

// Seq returns a sequence of the given nodes.
func Seq(items ...Node) Node {
	return Node{kind: KindSequence, items: slices.Clone(items)}
}

// Map returns a mapping. Absent members are dropped.
func Map(members map[string]Node) Node {
	out := make(map[string]Node, len(members))
	for k, v := range members {
		if v.kind != KindAbsent {
			out[k] = v
		}
	}
	return Node{kind: KindMapping, members: out}
}

// Kind returns the node variant.
func (n Node) Kind() Kind { return n.kind }

// IsAbsent reports whether the node carries no value.
func (n Node) IsAbsent() bool { return n.kind == KindAbsent }

// Get returns a mapping member, or Absent when n is not a mapping or the member is missing.
func (n Node) Get(name string) Node {
	if n.kind != KindMapping {
		return Absent()
	}
	return n.members[name]
}

// Index returns a sequence element, or Absent when n is not a sequence or i is out of range.
func (n Node) Index(i int) Node {
	if n.kind != KindSequence || i < 0 || i >= len(n.items) {
		return Absent()
	}
	return n.items[i]
}

// Len returns the number of elements or members.
func (n Node) Len() int {
	switch n.kind {
	case KindSequence:
		return len(n.items)
	case KindMapping:
		return len(n.members)
	}
	return 0
}

// Keys returns mapping member names in sorted order.
func (n Node) Keys() []string {
	if n.kind != KindMapping {
		return nil
	}
	return slices.Sorted(maps.Keys(n.members))
}

// With returns a copy of the mapping n with member name set to v.
// A non-mapping n is treated as an empty mapping.
func (n Node) With(name string, v Node) Node {
	out := make(map[string]Node, len(n.members)+1)
	if n.kind == KindMapping {
		maps.Copy(out, n.members)
	}
	if v.kind == KindAbsent {
		delete(out, name)
	} else {
		out[name] = v
	}
	return Node{kind: KindMapping, members: out}
}

// Canonical renders the node as its canonical string. The boolean is false
// for Absent.
func (n Node) Canonical() (string, bool) {
	switch n.kind {
	case KindAbsent:
		return "", false
	case KindScalar:
		return canonicalScalar(n.scalar), true
	case KindSequence, KindMapping:
		b, err := json.Marshal(n.Interface())
		if err != nil {
			return "", false
		}
		return string(b), true
	}
	return "", false
}

func canonicalScalar(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case time.Time:
		return s.UTC().Format(time.RFC3339Nano)
	}
	return ""
}

// Interface converts the tree to plain Go values suitable for encoding/json.
// Mapping keys are emitted sorted by the encoder.
func (n Node) Interface() any {
	switch n.kind {
	case KindScalar:
		if t, ok := n.scalar.(time.Time); ok {
			return t.UTC().Format(time.RFC3339Nano)
		}
		return n.scalar
	case KindSequence:
		out := make([]any, len(n.items))
		for i, item := range n.items {
			out[i] = item.Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(n.members))
		for k, v := range n.members {
			out[k] = v.Interface()
		}
		return out
	}
	return nil
}

// Equal reports deep equality by canonical form.
func (n Node) Equal(other Node) bool {
	a, okA := n.Canonical()
	b, okB := other.Canonical()
	return okA == okB && a == b && n.kind == other.kind
}
