package sanitize

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// schemeGuard admits exactly the markup produced by the pipeline and only
// rejects link and source URLs with a scheme other than http, https or
// mailto. Relative and protocol-relative URLs pass.
var schemeGuard *bluemonday.Policy

func init() {
	schemeGuard = bluemonday.NewPolicy()
	anyElement := regexp.MustCompile(`^[a-z][a-z0-9]*$`)
	schemeGuard.AllowElementsMatching(anyElement)
	schemeGuard.AllowNoAttrs().OnElementsMatching(anyElement)
	schemeGuard.AllowAttrs("class").Globally()
	schemeGuard.AllowAttrs(WhitelistAttrs...).OnElements(WhitelistTags...)
	schemeGuard.AllowAttrs("rel").OnElements("a", "img")
	schemeGuard.AllowAttrs("id").OnElements("a")
	schemeGuard.AllowAttrs("loading").OnElements("img")

	schemeGuard.RequireParseableURLs(true)
	schemeGuard.AllowRelativeURLs(true)
	schemeGuard.AllowURLSchemes("http", "https", "mailto")
}

func guard(fragment string) string {
	return schemeGuard.Sanitize(fragment)
}
