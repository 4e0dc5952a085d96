package utils

import (
	"strings"
)

// DedupEndpoints drops blank and repeated endpoint URLs, ignoring trailing slashes, and keeps the first-seen order.
func DedupEndpoints(in []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, e := range in {
		e = strings.TrimRight(strings.TrimSpace(e), "/")
		if e == "" {
			continue
		}
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}
