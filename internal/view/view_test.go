package view

import (
	"bytes"
	"html"
	"regexp"
	"strings"
	"testing"
	"time"

	"obsidian-relay/internal/domain"
)

var hrefPattern = regexp.MustCompile(`href="([^"]+)"`)

func newPages(t *testing.T, opts Options) *Pages {
	t.Helper()

	p, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestPages_Redirect(t *testing.T) {
	p := newPages(t, Options{})
	target := "obsidian://open?vault=Notes&file=a%2Fb.md"

	var buf bytes.Buffer
	if err := p.Redirect(&buf, target); err != nil {
		t.Fatalf("Redirect() error = %v", err)
	}
	out := buf.String()

	m := hrefPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("expected fallback button, got %s", out)
	}
	if got := html.UnescapeString(m[1]); got != target {
		t.Errorf("button href = %q, want %q", got, target)
	}
	if !strings.Contains(out, "window.location.href") {
		t.Error("expected automatic navigation script")
	}
	if !strings.Contains(out, "Opening in Obsidian") {
		t.Error("expected page title")
	}
}

func TestPages_Note(t *testing.T) {
	p := newPages(t, Options{CodeCSS: ".chroma { color: red }"})
	note := &domain.PublishedNote{
		Slug:        "hello",
		Title:       "Hello <World>",
		PublishedAt: time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	if err := p.Note(&buf, note, "<p>rendered</p>"); err != nil {
		t.Fatalf("Note() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Hello &lt;World&gt;") {
		t.Errorf("expected escaped title, got %s", out)
	}
	if !strings.Contains(out, "<p>rendered</p>") {
		t.Errorf("expected rendered content, got %s", out)
	}
	if !strings.Contains(out, "October 18, 2026") {
		t.Errorf("expected long-form date, got %s", out)
	}
	if !strings.Contains(out, ".chroma { color: red }") {
		t.Errorf("expected code css, got %s", out)
	}
}

func TestPages_FormatDate_Locale(t *testing.T) {
	p := newPages(t, Options{DateLocale: "de_DE", DateLayout: "2. January 2006"})

	got := p.FormatDate(time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC))
	if got != "18. Oktober 2026" {
		t.Errorf("FormatDate() = %q", got)
	}
}

func TestPages_NotFound(t *testing.T) {
	p := newPages(t, Options{})

	var buf bytes.Buffer
	if err := p.NotFound(&buf, "missing-note"); err != nil {
		t.Fatalf("NotFound() error = %v", err)
	}
	if !strings.Contains(buf.String(), "missing-note") {
		t.Errorf("expected slug in page, got %s", buf.String())
	}
}

func TestAppName(t *testing.T) {
	if got := AppName("obsidian"); got != "Obsidian" {
		t.Errorf("AppName() = %q", got)
	}
	if got := AppName(""); got != "Obsidian" {
		t.Errorf("AppName(\"\") = %q", got)
	}
}
