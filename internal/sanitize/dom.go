package sanitize

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// elements returns the element descendants of root in document order. The
// slice is built before callers mutate, so removing or renaming is safe.
func elements(root *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (len(tags) == 0 || slices.Contains(tags, c.Data)) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func classList(n *html.Node) []string {
	v, ok := getAttr(n, "class")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

// addClasses appends the tokens that are not already present.
func addClasses(n *html.Node, tokens ...string) {
	classes := classList(n)
	for _, t := range tokens {
		if !slices.Contains(classes, t) {
			classes = append(classes, t)
		}
	}
	setAttr(n, "class", strings.Join(classes, " "))
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// hasSegmentPrefix reports whether s starts with prefix and the prefix ends
// on a URL boundary, so "/en" matches "/en/page" but not "/enterprise".
func hasSegmentPrefix(s, prefix string) bool {
	if !strings.HasPrefix(s, prefix) {
		return false
	}
	if len(s) == len(prefix) {
		return true
	}
	switch s[len(prefix)] {
	case '/', '?', '#':
		return true
	}
	return false
}
