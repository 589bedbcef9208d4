package sanitize

// Options control the optional steps of Sanitize. The zero value strips
// script and style, marks external links nofollow and skips locale rewriting.
type Options struct {
	// ExtraStrippedTags are removed together with their content, in addition
	// to script and style.
	ExtraStrippedTags []string
	// DoFollow disables rel="nofollow" on external links and images.
	DoFollow bool
	// AddHeaderAnchors prepends an empty <a class="anchor"> to every heading.
	AddHeaderAnchors bool
	// SiteBaseURL marks links as internal and is the base for locale rewriting.
	SiteBaseURL string
	// LocaleCodes are stripped from link paths when more than one is set.
	LocaleCodes []string
}

// Tags that keep the whitelisted attributes; every other tag loses all of
// its attributes except whitelisted classes.
var (
	WhitelistTags  = []string{"img", "a", "iframe"}
	WhitelistAttrs = []string{"src", "href", "name", "width", "height", "alt"}
)

// WhitelistClasses survive on any element. Order is preserved in output.
var WhitelistClasses = []string{
	"youtube-wrapper", "youtube-iframe", "prettyprint",
	"lang-bsh", "lang-c", "lang-cc", "lang-cpp", "lang-cs", "lang-csh",
	"lang-cyc", "lang-cv", "lang-htm", "lang-html", "lang-java", "lang-js",
	"lang-m", "lang-mxml", "lang-perl", "lang-pl", "lang-pm", "lang-py",
	"lang-rb", "lang-sh", "lang-xhtml", "lang-xml", "lang-xsl",
}

var strippedTags = []string{"script", "style"}

// Classes injected after whitelisting.
var (
	ImageClasses = []string{"img-fluid"}
	TableClasses = []string{"table", "table-bordered", "table-hover"}
	CodeClasses  = []string{"prettyprint", "linenums"}
)
