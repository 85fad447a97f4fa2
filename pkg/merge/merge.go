package merge

// Map is an arbitrarily nested mapping. Values are scalars, sequences ([]any)
// or nested mappings (map[string]any or Map).
type Map = map[string]any

// Deep merges overlay into base and returns a new map.
//
// For every key of base, if both base[key] and overlay[key] are mappings they
// are merged recursively; otherwise base[key] wins. Keys only present in
// overlay are passed through unchanged. A nil overlay returns base unchanged.
//
// Neither argument is mutated.
func Deep(base, overlay Map) Map {
	if overlay == nil {
		return base
	}

	out := make(Map, len(base)+len(overlay))
	for k, v := range overlay {
		out[k] = v
	}

	for k, bv := range base {
		bm, baseIsMap := asMap(bv)
		om, overlayIsMap := asMap(overlay[k])
		if baseIsMap && overlayIsMap {
			out[k] = Deep(bm, om)
			continue
		}
		out[k] = bv
	}

	return out
}

// DeepAll folds maps left to right with Deep, so earlier maps take precedence
// over later ones.
func DeepAll(maps ...Map) Map {
	if len(maps) == 0 {
		return Map{}
	}
	out := maps[0]
	for _, m := range maps[1:] {
		out = Deep(out, m)
	}
	if out == nil {
		return Map{}
	}
	return out
}

// asMap reports whether v is a mapping. A nil map is still a mapping.
func asMap(v any) (Map, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// Clone returns a deep copy of m. Nested mappings and sequences are copied;
// other values are shared.
func Clone(m Map) Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return Clone(x)
	case []any:
		s := make([]any, len(x))
		for i, item := range x {
			s[i] = cloneValue(item)
		}
		return s
	default:
		return v
	}
}
