package sanitize

import (
	"slices"
	"strings"
)

// MediaPrefix is where uploaded media is served from.
const MediaPrefix = "/media/"

// ImageURLs returns the distinct img src values in fragment that start with
// prefix, sorted. Hosts use it to find which uploads a piece of content uses.
func ImageURLs(fragment, prefix string) []string {
	if fragment == "" {
		return nil
	}
	root, err := parseFragment(fragment)
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{})
	var urls []string
	for _, n := range elements(root, "img") {
		src, ok := getAttr(n, "src")
		if !ok || !strings.HasPrefix(src, prefix) {
			continue
		}
		if _, dup := seen[src]; dup {
			continue
		}
		seen[src] = struct{}{}
		urls = append(urls, src)
	}
	slices.Sort(urls)
	return urls
}
