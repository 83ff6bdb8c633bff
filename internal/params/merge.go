// Package params provides the parameter-map plumbing shared by the builder:
// deep merging of defaults with file-supplied overrides.
package params

// Merge deep-merges overlay into base and returns base. Wherever both sides
// hold a nested map the merge recurses; otherwise the overlay value wins,
// including a scalar replacing a map or the reverse. base is mutated;
// overlay is never modified (nested overlay maps are merged into fresh maps
// when base has no counterpart).
func Merge(base, overlay map[string]any) map[string]any {
	if base == nil {
		base = make(map[string]any, len(overlay))
	}
	for k, v := range overlay {
		if nested, ok := v.(map[string]any); ok {
			sub, _ := base[k].(map[string]any)
			base[k] = Merge(sub, nested)
			continue
		}
		base[k] = v
	}
	return base
}
