package archive

import "strings"

// DetectRoot returns the single top-level path segment shared by every entry
// path. Detection fails (ok=false) when any entry sits directly at the top
// level or when entries span multiple top-level segments; callers then report
// paths relative to the extraction base instead.
func DetectRoot(paths []string) (string, bool) {
	root := ""
	for _, p := range paths {
		p = NormalizePath(p)
		idx := strings.Index(p, "/")
		if idx < 0 {
			return "", false
		}
		first := p[:idx]
		if root == "" {
			root = first
		} else if root != first {
			return "", false
		}
	}
	if root == "" {
		return "", false
	}
	return root, true
}
