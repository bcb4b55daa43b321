package payload

import "maps"

// Merge overlays overlay onto base. Mappings merge recursively; any other
// overlay value replaces the base value; absent overlay members are skipped.
func Merge(base, overlay Node) Node {
	if overlay.kind == KindAbsent {
		return base
	}
	if base.kind != KindMapping || overlay.kind != KindMapping {
		return overlay
	}
	out := make(map[string]Node, len(base.members)+len(overlay.members))
	maps.Copy(out, base.members)
	for k, v := range overlay.members {
		if existing, ok := out[k]; ok {
			out[k] = Merge(existing, v)
			continue
		}
		out[k] = v
	}
	return Node{kind: KindMapping, members: out}
}
