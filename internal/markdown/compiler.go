// Package markdown compiles user-authored markdown into an HTML5 fragment.
//
// The output is not safe for display on its own: raw HTML in the source is
// passed through and must go through package sanitize afterwards.
package markdown

import (
	"bytes"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

var md goldmark.Markdown

func init() {
	md = goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			Video,
			AttributeList,
		),
		goldmark.WithParserOptions(
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)
}

// Compile converts markdown source to HTML. It never fails: if conversion
// errors, the escaped source is returned as a single paragraph.
func Compile(source string) string {
	if source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		slog.Error("markdown conversion failed", "error", err, "bytes", len(source))
		return "<p>" + string(util.EscapeHTML([]byte(source))) + "</p>"
	}
	return buf.String()
}
