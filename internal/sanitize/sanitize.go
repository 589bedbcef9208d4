// Package sanitize reduces an HTML fragment to the whitelisted subset shown
// to readers and applies the site's presentation rules: lazy images,
// bootstrap table classes, prettyprint code blocks and optional heading
// anchors.
//
// Steps run in a fixed order on a parsed tree; each step assumes the previous
// ones have already run. Sanitize never fails on malformed markup, the parser
// recovers the same way a browser would.
package sanitize

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sanitize cleans fragment according to opts. Empty input yields "".
func Sanitize(fragment string, opts Options) string {
	if fragment == "" {
		return ""
	}
	root, err := parseFragment(fragment)
	if err != nil {
		return ""
	}

	stripTags(root, append(slices.Clone(strippedTags), lower(opts.ExtraStrippedTags)...))
	whitelistAttrs(root)
	if !opts.DoFollow {
		addNoFollow(root, opts.SiteBaseURL)
	}
	if opts.SiteBaseURL != "" && len(opts.LocaleCodes) > 1 {
		stripLocales(root, opts.SiteBaseURL, opts.LocaleCodes)
	}
	for _, n := range elements(root, "img") {
		setAttr(n, "loading", "lazy")
	}
	for _, n := range elements(root, "img") {
		addClasses(n, ImageClasses...)
	}
	for _, n := range elements(root, "table") {
		addClasses(n, TableClasses...)
	}
	for _, n := range elements(root, "code") {
		addClasses(n, CodeClasses...)
	}
	for _, n := range elements(root, "code") {
		n.Data = "pre"
		n.DataAtom = atom.Pre
	}
	if opts.AddHeaderAnchors {
		addHeaderAnchors(root)
	}

	out, err := render(root)
	if err != nil {
		return ""
	}
	return guard(out)
}

func parseFragment(fragment string) (*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return body, nil
}

func render(root *html.Node) (string, error) {
	var b strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	out := strings.ReplaceAll(b.String(), "<body>", "")
	return strings.ReplaceAll(out, "</body>", ""), nil
}

func stripTags(root *html.Node, tags []string) {
	for _, n := range elements(root, tags...) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// whitelistAttrs drops every attribute outside the whitelist. Whitelisted
// classes are collected first and restored on any element.
func whitelistAttrs(root *html.Node) {
	for _, n := range elements(root) {
		var kept []string
		if classes := classList(n); len(classes) > 0 {
			for _, c := range WhitelistClasses {
				if slices.Contains(classes, c) {
					kept = append(kept, c)
				}
			}
		}

		if slices.Contains(WhitelistTags, n.Data) {
			attrs := n.Attr[:0]
			for _, a := range n.Attr {
				if a.Namespace == "" && slices.Contains(WhitelistAttrs, a.Key) {
					attrs = append(attrs, a)
				}
			}
			n.Attr = attrs
		} else {
			n.Attr = nil
		}

		if len(kept) > 0 {
			setAttr(n, "class", strings.Join(kept, " "))
		}
	}
}

// isInternal reports whether a link points at this site: a path on the same
// host or a URL under base. Protocol-relative URLs are external.
func isInternal(v, base string) bool {
	if strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//") {
		return true
	}
	base = strings.TrimRight(base, "/")
	return base != "" && hasSegmentPrefix(v, base)
}

func addNoFollow(root *html.Node, base string) {
	for _, n := range elements(root, "a", "img") {
		key := "href"
		if n.Data == "img" {
			key = "src"
		}
		v, ok := getAttr(n, key)
		if !ok || v == "" || isInternal(v, base) {
			continue
		}
		setAttr(n, "rel", "nofollow")
	}
}

// stripLocales rewrites {base}/{code}... to {base}... and /{code}... to ...
// on a[href] and img[src].
func stripLocales(root *html.Node, base string, codes []string) {
	base = strings.TrimRight(base, "/")
	for _, n := range elements(root, "a", "img") {
		key := "href"
		if n.Data == "img" {
			key = "src"
		}
		v, ok := getAttr(n, key)
		if !ok || v == "" {
			continue
		}
		setAttr(n, key, StripLocale(v, base, codes))
	}
}

// StripLocale removes the first matching locale prefix from u.
func StripLocale(u, base string, codes []string) string {
	for _, code := range codes {
		if p := base + "/" + code; hasSegmentPrefix(u, p) {
			u = base + u[len(p):]
			break
		}
	}
	for _, code := range codes {
		if p := "/" + code; hasSegmentPrefix(u, p) {
			u = u[len(p):]
			break
		}
	}
	return u
}

func addHeaderAnchors(root *html.Node) {
	for _, h := range elements(root, "h1", "h2", "h3", "h4", "h5", "h6") {
		anchor := &html.Node{
			Type:     html.ElementNode,
			Data:     "a",
			DataAtom: atom.A,
			Attr: []html.Attribute{
				{Key: "class", Val: "anchor"},
				{Key: "id", Val: "header_" + strings.ReplaceAll(textContent(h), " ", "_")},
			},
		}
		h.InsertBefore(anchor, h.FirstChild)
	}
}

func lower(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
