package markdown

import (
	"fmt"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Provider describes a video host whose links are turned into embeds.
type Provider struct {
	Name string
	// Pattern must be anchored at the start of the URL; group 1 is the video ID.
	Pattern *regexp.Regexp
	// Src is a fmt template taking the video ID.
	Src string
}

// Providers are tried in order; the first match wins.
var Providers = []Provider{
	{
		Name:    "dailymotion",
		Pattern: regexp.MustCompile(`^https?://www\.dailymotion\.com/video/([a-zA-Z0-9]+)(?:_[\w-]*)?`),
		Src:     "//www.dailymotion.com/embed/video/%s",
	},
	{
		Name:    "metacafe",
		Pattern: regexp.MustCompile(`^https://www\.metacafe\.com/watch/(\d+)(?:/[\w-]*)*/?`),
		Src:     "//www.metacafe.com/embed/%s/",
	},
	{
		Name:    "vimeo",
		Pattern: regexp.MustCompile(`^https://(?:www\.)?vimeo\.com/(\d+)\b(?:[/?#]\S*)?`),
		Src:     "//player.vimeo.com/video/%s",
	},
	{
		Name:    "youtube",
		Pattern: regexp.MustCompile(`^https?://www\.youtube\.com/watch\?(?:\S*?&)?v=([\w-]+)(?:&\S*)?`),
		Src:     "//www.youtube.com/embed/%s",
	},
	{
		Name:    "youtube_short",
		Pattern: regexp.MustCompile(`^https?://youtu\.be/([\w-]+)(?:\?\S*)?`),
		Src:     "//www.youtube.com/embed/%s",
	},
}

// Wrapper and iframe classes emitted for every embed.
const (
	WrapperClass = "youtube-wrapper pb-3 border-0"
	IframeClass  = "youtube-iframe"
)

// KindVideoEmbed is the AST kind of a video embed.
var KindVideoEmbed = ast.NewNodeKind("VideoEmbed")

// VideoEmbed is an inline node holding a resolved embed URL.
type VideoEmbed struct {
	ast.BaseInline
	Provider string
	Src      string
}

func (n *VideoEmbed) Kind() ast.NodeKind {
	return KindVideoEmbed
}

func (n *VideoEmbed) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Provider": n.Provider,
		"Src":      n.Src,
	}, nil)
}

// MatchVideo resolves a bare URL against Providers. It returns the provider
// name, the embed src and the number of bytes of url consumed.
func MatchVideo(url []byte) (name, src string, n int, ok bool) {
	for _, p := range Providers {
		m := p.Pattern.FindSubmatchIndex(url)
		if m == nil || m[2] < 0 {
			continue
		}
		return p.Name, fmt.Sprintf(p.Src, url[m[2]:m[3]]), m[1], true
	}
	return "", "", 0, false
}

type videoParser struct{}

// Trigger fires on whitespace; goldmark also dispatches ' ' parsers at the
// head of every line.
func (p *videoParser) Trigger() []byte {
	return []byte{' '}
}

func (p *videoParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	if pc.IsInLinkLabel() {
		return nil
	}
	line, segment := block.PeekLine()
	if len(line) == 0 {
		return nil
	}
	consumes := 0
	if util.IsSpace(line[0]) {
		consumes++
		line = line[1:]
	}
	name, src, n, ok := MatchVideo(line)
	if !ok {
		return nil
	}
	if consumes != 0 {
		ast.MergeOrAppendTextSegment(parent, segment.WithStop(segment.Start+consumes))
	}
	block.Advance(consumes + n)
	return &VideoEmbed{Provider: name, Src: src}
}

type videoRenderer struct{}

func (r *videoRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindVideoEmbed, r.renderVideoEmbed)
}

func (r *videoRenderer) renderVideoEmbed(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*VideoEmbed)
	_, _ = w.WriteString(`<div class="` + WrapperClass + `"><iframe src="`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Src)))
	_, _ = w.WriteString(`" allowfullscreen="true" frameborder="0" class="` + IframeClass + `"></iframe></div>`)
	return ast.WalkSkipChildren, nil
}

type videoExtension struct{}

// Video replaces links to known video hosts with an embedded player.
var Video goldmark.Extender = &videoExtension{}

func (e *videoExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&videoParser{}, 990),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&videoRenderer{}, 500),
	))
}
