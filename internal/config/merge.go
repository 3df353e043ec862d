package config

// DeepMerge merges src into dst and returns dst. Nested maps present in both
// are merged; any other value in src replaces the one in dst.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if cur, ok := dst[key].(map[string]any); ok {
				dst[key] = DeepMerge(cur, sub)
				continue
			}
		}
		dst[key] = v
	}
	return dst
}
