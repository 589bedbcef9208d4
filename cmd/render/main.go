// Command render compiles markdown files (or stdin) to sanitized HTML using
// the same settings as the server.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/acgh213/socialkit/internal/config"
	"github.com/acgh213/socialkit/internal/content"
	"github.com/acgh213/socialkit/internal/sanitize"
)

func main() {
	anchors := flag.Bool("anchors", false, "add header anchors")
	images := flag.Bool("images", false, "list referenced media images instead of printing HTML")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	opts := cfg.SanitizeOptions()
	if *anchors {
		opts.AddHeaderAnchors = true
	}

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	for _, path := range paths {
		source, err := readSource(path)
		if err != nil {
			log.Fatalf("failed to read %s: %v", path, err)
		}

		html := content.RenderMarkdown(source, opts)
		if !*images {
			fmt.Println(html)
			continue
		}
		for _, u := range sanitize.ImageURLs(html, sanitize.MediaPrefix) {
			fmt.Println(u)
		}
	}
}

func readSource(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	var b strings.Builder
	if _, err := io.Copy(&b, r); err != nil {
		return "", err
	}
	return b.String(), nil
}
