package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/acgh213/socialkit/internal/sanitize"
)

var siteOpts = sanitize.Options{
	SiteBaseURL: "https://example.com",
	LocaleCodes: []string{"en", "ru"},
}

// ---------------------------------------------------------------------------
// XSS regression tests
// ---------------------------------------------------------------------------

func TestRenderMarkdown_XSS(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		rejected string // substring that must NOT appear in output
	}{
		{
			name:     "script tag",
			input:    `<script>alert('xss')</script>`,
			rejected: "<script",
		},
		{
			name:     "style tag",
			input:    "text\n\n<style>body{display:none}</style>",
			rejected: "<style",
		},
		{
			name:     "img onerror",
			input:    `<img src=x onerror=alert('xss')>`,
			rejected: "onerror",
		},
		{
			name:     "javascript link in markdown",
			input:    `[click](javascript:alert('xss'))`,
			rejected: "javascript:",
		},
		{
			name:     "raw javascript href",
			input:    `<a href="javascript:void(0)">link</a>`,
			rejected: "javascript:",
		},
		{
			name:     "event handler on div",
			input:    `<div onmouseover="alert('xss')">hover</div>`,
			rejected: "onmouseover",
		},
		{
			name:     "svg onload",
			input:    `<svg onload=alert('xss')>`,
			rejected: "onload",
		},
		{
			name:     "inline style attribute",
			input:    `<p style="background:url(javascript:x)">p</p>`,
			rejected: "style=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderMarkdown(tt.input, sanitize.Options{})
			if strings.Contains(strings.ToLower(out), strings.ToLower(tt.rejected)) {
				t.Errorf("output contains rejected %q:\n%s", tt.rejected, out)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Normal markdown rendering
// ---------------------------------------------------------------------------

func TestRenderMarkdown_Normal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"heading", "# Hello", "<h1>Hello</h1>"},
		{"bold", "**bold**", "<strong>bold</strong>"},
		{"italic", "*italic*", "<em>italic</em>"},
		{"link", "[Go](https://go.dev)", `<a href="https://go.dev" rel="nofollow">Go</a>`},
		{"internal link", "[Home](/ru/home)", `<a href="/home">Home</a>`},
		{"code block", "```\ncode\n```", `<pre class="prettyprint linenums">code`},
		{"inline code", "`inline`", `<pre class="prettyprint linenums">inline</pre>`},
		{"image", "![alt](/media/a.png)", `<img src="/media/a.png" alt="alt" loading="lazy" class="img-fluid"/>`},
		{"table", "| A | B |\n| - | - |\n| 1 | 2 |", `<table class="table table-bordered table-hover">`},
		{"line break", "one\ntwo", "one<br/>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderMarkdown(tt.input, siteOpts)
			if !strings.Contains(out, tt.contains) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.contains, out)
			}
		})
	}
}

func TestRenderMarkdown_AttributeList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "image size survives",
			input: "![cat](/media/cat.png){: width=300 height=200}",
			want:  `<p><img src="/media/cat.png" alt="cat" width="300" height="200" loading="lazy" class="img-fluid"/></p>`,
		},
		{
			name:  "link name survives",
			input: "[link](/x){: name=top}",
			want:  `<p><a href="/x" name="top">link</a></p>`,
		},
		{
			name:  "paragraph class",
			input: "para\n{: .prettyprint}",
			want:  `<p class="prettyprint">para</p>`,
		},
		{
			name:  "unlisted attributes dropped",
			input: "![cat](/media/cat.png){: onerror=alert(1) #pic .big}",
			want:  `<p><img src="/media/cat.png" alt="cat" loading="lazy" class="img-fluid"/></p>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := strings.TrimSpace(RenderMarkdown(tt.input, sanitize.Options{}))
			if out != tt.want {
				t.Errorf("RenderMarkdown(%q)\n got: %s\nwant: %s", tt.input, out, tt.want)
			}
			if strings.Contains(out, "{:") {
				t.Errorf("attribute list leaked into output: %s", out)
			}
		})
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	if out := RenderMarkdown("", siteOpts); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestRenderMarkdown_NoCodeElements(t *testing.T) {
	out := RenderMarkdown("```go\nfmt.Println(1)\n```\n\nand `x`", siteOpts)
	if strings.Contains(out, "<code") {
		t.Errorf("expected code renamed to pre, got:\n%s", out)
	}
}

func TestRenderMarkdown_VideoEmbed(t *testing.T) {
	out := RenderMarkdown("Check https://youtu.be/abc123 out", siteOpts)

	if !strings.Contains(out, `<div class="youtube-wrapper"><iframe src="//www.youtube.com/embed/abc123" class="youtube-iframe"></iframe></div>`) {
		t.Errorf("expected embedded player, got:\n%s", out)
	}
	if strings.Contains(out, `href="https://youtu.be`) {
		t.Errorf("expected no plain link, got:\n%s", out)
	}
}

func TestRenderMarkdown_HeaderAnchors(t *testing.T) {
	opts := siteOpts
	opts.AddHeaderAnchors = true
	out := RenderMarkdown("## Hello World", opts)
	if want := `<h2><a class="anchor" id="header_Hello_World"></a>Hello World</h2>`; !strings.Contains(out, want) {
		t.Errorf("expected %q, got:\n%s", want, out)
	}
}

func TestRenderMarkdown_Concurrent(t *testing.T) {
	inputs := make([]string, 32)
	want := make([]string, len(inputs))
	for i := range inputs {
		inputs[i] = fmt.Sprintf("# Post %d\n\n![img](/media/%d.png) https://vimeo.com/%d\n\n| a |\n| - |\n| %d |", i, i, i+1, i)
		want[i] = RenderMarkdown(inputs[i], siteOpts)
	}

	var wg sync.WaitGroup
	got := make([]string, len(inputs))
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = RenderMarkdown(inputs[i], siteOpts)
		}(i)
	}
	wg.Wait()

	for i := range inputs {
		if got[i] != want[i] {
			t.Errorf("input %d: concurrent render differs:\n got: %s\nwant: %s", i, got[i], want[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Bounded rendering
// ---------------------------------------------------------------------------

func TestRenderMarkdownContext(t *testing.T) {
	ctx := context.Background()

	out, err := RenderMarkdownContext(ctx, "**hi**", siteOpts, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != RenderMarkdown("**hi**", siteOpts) {
		t.Errorf("bounded render differs from RenderMarkdown: %s", out)
	}

	if _, err := RenderMarkdownContext(ctx, strings.Repeat("a", 101), siteOpts, 100); !errors.Is(err, ErrSourceTooLarge) {
		t.Errorf("expected ErrSourceTooLarge, got %v", err)
	}

	if out, err := RenderMarkdownContext(ctx, "", siteOpts, 0); err != nil || out != "" {
		t.Errorf("expected empty output, got %q, %v", out, err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := RenderMarkdownContext(canceled, "text", siteOpts, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
