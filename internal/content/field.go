package content

import (
	"strings"

	"github.com/acgh213/socialkit/internal/sanitize"
)

// Field binds a markdown column to the column holding its rendered HTML.
//
// On multi-locale sites markdown columns carry a locale suffix
// (content_markdown_en) and render into the matching suffixed HTML column
// (content_en).
type Field struct {
	Name             string
	HTMLName         string
	AddHeaderAnchors bool
}

// HTMLColumn returns the column that receives the rendered HTML.
func (f Field) HTMLColumn(locales []string) string {
	if len(locales) > 1 {
		for _, code := range locales {
			if strings.HasSuffix(f.Name, "_"+code) {
				return f.HTMLName + "_" + code
			}
		}
	}
	return f.HTMLName
}

// Set stores source under the field's column and, when source is not empty,
// its rendered HTML under the companion column. An empty source leaves the
// existing HTML untouched.
func (f Field) Set(record map[string]string, source string, opts sanitize.Options) {
	record[f.Name] = source
	if source == "" {
		return
	}
	if f.AddHeaderAnchors {
		opts.AddHeaderAnchors = true
	}
	record[f.HTMLColumn(opts.LocaleCodes)] = RenderMarkdown(source, opts)
}
