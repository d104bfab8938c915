package markdown

import (
	"strings"
	"testing"
)

func renderers(t *testing.T) map[string]Renderer {
	t.Helper()

	out := make(map[string]Renderer)
	for _, engine := range []string{EngineGomarkdown, EngineGoldmark} {
		r, err := New(engine)
		if err != nil {
			t.Fatalf("New(%q) error = %v", engine, err)
		}
		out[engine] = r
	}
	return out
}

func TestRender_BasicMarkup(t *testing.T) {
	for engine, r := range renderers(t) {
		t.Run(engine, func(t *testing.T) {
			html, err := r.Render("# Hello\n\nSome **bold** text.")
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			got := string(html)
			if !strings.Contains(got, "Hello</h1>") {
				t.Errorf("expected heading, got %s", got)
			}
			if !strings.Contains(got, "<strong>bold</strong>") {
				t.Errorf("expected bold text, got %s", got)
			}
		})
	}
}

func TestRender_StripsFrontMatter(t *testing.T) {
	source := "---\ntags: [shared]\naliases: []\n---\nBody text"

	for engine, r := range renderers(t) {
		t.Run(engine, func(t *testing.T) {
			html, err := r.Render(source)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			got := string(html)
			if strings.Contains(got, "tags") {
				t.Errorf("expected front matter to be stripped, got %s", got)
			}
			if !strings.Contains(got, "Body text") {
				t.Errorf("expected body, got %s", got)
			}
		})
	}
}

func TestRender_DropsRawHTML(t *testing.T) {
	for engine, r := range renderers(t) {
		t.Run(engine, func(t *testing.T) {
			html, err := r.Render("hi <script>alert(1)</script>")
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if strings.Contains(string(html), "<script>") {
				t.Errorf("expected raw html to be dropped, got %s", html)
			}
		})
	}
}

func TestRender_Blank(t *testing.T) {
	for engine, r := range renderers(t) {
		t.Run(engine, func(t *testing.T) {
			html, err := r.Render("  \n\t")
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if html != "" {
				t.Errorf("expected empty output, got %q", html)
			}
		})
	}
}

func TestGomarkdown_HighlightsCodeBlocks(t *testing.T) {
	html, err := NewGomarkdownRenderer().Render("```go\nfmt.Println(\"hello\")\n```")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	got := string(html)
	if !strings.Contains(got, `class="chroma"`) {
		t.Fatalf("expected chroma class for fenced code block, got %s", got)
	}
	if !strings.Contains(got, "Println") {
		t.Fatalf("expected code content in rendered block, got %s", got)
	}
}

func TestGomarkdown_InlineCodeClass(t *testing.T) {
	html, err := NewGomarkdownRenderer().Render("Run `go test ./...` now.")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(string(html), `<code class="inline-code">go test ./...</code>`) {
		t.Fatalf("expected inline code class, got %s", html)
	}
}

func TestNew_UnknownEngine(t *testing.T) {
	if _, err := New("pandoc"); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestStripFrontMatter_NoBlock(t *testing.T) {
	source := "plain note\n---\nwith a rule"
	if got := StripFrontMatter(source); got != source {
		t.Errorf("StripFrontMatter() = %q, want unchanged", got)
	}
}

func TestChromaCSS(t *testing.T) {
	css := string(ChromaCSS())
	if !strings.Contains(css, "prefers-color-scheme: dark") {
		t.Errorf("expected dark palette, got %s", css)
	}
}
