package markdown

import (
	"strings"
	"testing"
)

func TestCompile_Empty(t *testing.T) {
	if out := Compile(""); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestCompile_Extensions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"heading", "# Hello", "<h1>Hello</h1>"},
		{"attribute list", "# Title {#custom .lead}", `id="custom"`},
		{"table", "| A | B |\n| - | - |\n| 1 | 2 |", "<table>"},
		{"fenced code", "```py\nprint(1)\n```", `<code class="language-py">print(1)`},
		{"hard wrap", "line one\nline two", "line one<br>"},
		{"strikethrough", "~~gone~~", "<del>gone</del>"},
		{"raw html passes", `<span class="x">raw</span>`, `<span class="x">raw</span>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Compile(tt.input)
			if !strings.Contains(out, tt.contains) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.contains, out)
			}
		})
	}
}

func TestCompile_MalformedDegrades(t *testing.T) {
	inputs := []string{
		"| A | B |\n| - |\n",
		"```\nunterminated fence",
		"[broken](link",
		"<div><p>unclosed",
		strings.Repeat(">", 500) + " deep quote",
	}
	for _, in := range inputs {
		if out := Compile(in); out == "" {
			t.Errorf("expected best-effort output for %q", in)
		}
	}
}
