package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// FromJSON decodes raw JSON into a node tree. Numbers keep their literal text.
func FromJSON(data []byte) (Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Absent(), nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Absent(), fmt.Errorf("decode payload: %w", err)
	}
	return FromValue(v)
}

// FromValue converts decoded Go values into a node tree.
func FromValue(v any) (Node, error) {
	switch t := v.(type) {
	case nil:
		return Absent(), nil
	case Node:
		return t, nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case float64:
		return Float(t), nil
	case float32:
		return Float(float64(t)), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case bool:
		return Bool(t), nil
	case time.Time:
		return Time(t), nil
	case []any:
		items := make([]Node, len(t))
		for i, item := range t {
			n, err := FromValue(item)
			if err != nil {
				return Absent(), err
			}
			items[i] = n
		}
		return Node{kind: KindSequence, items: items}, nil
	case map[string]any:
		members := make(map[string]Node, len(t))
		for k, item := range t {
			n, err := FromValue(item)
			if err != nil {
				return Absent(), err
			}
			members[k] = n
		}
		return Map(members), nil
	}
	return Absent(), fmt.Errorf("unsupported payload value of type %T", v)
}

// MarshalJSON implements json.Marshaler.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Interface())
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	decoded, err := FromJSON(data)
	if err != nil {
		return err
	}
	*n = decoded
	return nil
}

// ScalarStrings renders each scalar value in its canonical form. Keys whose
// value is absent or structured are returned sorted in rejected.
func ScalarStrings(values map[string]Node) (out map[string]string, rejected []string) {
	if values == nil {
		return nil, nil
	}
	out = make(map[string]string, len(values))
	for k, v := range values {
		if v.Kind() != KindScalar {
			rejected = append(rejected, k)
			continue
		}
		out[k], _ = v.Canonical()
	}
	slices.Sort(rejected)
	return out, rejected
}
