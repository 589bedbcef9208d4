// Package content turns user-authored markdown into the HTML stored and shown
// for posts, articles, sections and comments.
package content

import (
	"context"
	"errors"

	"github.com/acgh213/socialkit/internal/markdown"
	"github.com/acgh213/socialkit/internal/sanitize"
)

// ErrSourceTooLarge is returned by RenderMarkdownContext for sources over the limit.
var ErrSourceTooLarge = errors.New("markdown source too large")

// RenderMarkdown compiles source and sanitizes the result. Empty source
// renders to "". It is safe for concurrent use.
func RenderMarkdown(source string, opts sanitize.Options) string {
	if source == "" {
		return ""
	}
	return sanitize.Sanitize(markdown.Compile(source), opts)
}

// RenderMarkdownContext is RenderMarkdown bounded by a size limit (0 for none)
// and by ctx. When ctx ends first the render is abandoned and ctx.Err() is
// returned.
func RenderMarkdownContext(ctx context.Context, source string, opts sanitize.Options, limit int) (string, error) {
	if limit > 0 && len(source) > limit {
		return "", ErrSourceTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if source == "" {
		return "", nil
	}

	done := make(chan string, 1)
	go func() {
		done <- RenderMarkdown(source, opts)
	}()

	select {
	case out := <-done:
		return out, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
