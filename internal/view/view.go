// Package view renders the HTML pages served to browsers.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/goodsign/monday"

	"obsidian-relay/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	DefaultLocale = "en_US"
	DefaultLayout = "January 2, 2006"
)

type Options struct {
	AppName    string
	DateLocale string
	DateLayout string
	CodeCSS    template.CSS
}

type Pages struct {
	tmpl    *template.Template
	appName string
	locale  monday.Locale
	layout  string
	codeCSS template.CSS
}

type redirectData struct {
	AppName string
	Target  template.URL
}

type noteData struct {
	Title        string
	PublishedOn  string
	PublishedISO string
	Content      template.HTML
	CodeCSS      template.CSS
}

type notFoundData struct {
	Slug string
}

func New(opts Options) (*Pages, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	if opts.AppName == "" {
		opts.AppName = "Obsidian"
	}
	if opts.DateLocale == "" {
		opts.DateLocale = DefaultLocale
	}
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultLayout
	}

	return &Pages{
		tmpl:    tmpl,
		appName: opts.AppName,
		locale:  monday.Locale(opts.DateLocale),
		layout:  opts.DateLayout,
		codeCSS: opts.CodeCSS,
	}, nil
}

// AppName turns a deep-link scheme into the display name used on pages.
func AppName(scheme string) string {
	if scheme == "" {
		return "Obsidian"
	}
	return strings.ToUpper(scheme[:1]) + scheme[1:]
}

// FormatDate renders t as a localized long-form date.
func (p *Pages) FormatDate(t time.Time) string {
	return monday.Format(t.UTC(), p.layout, p.locale)
}

// Redirect writes the deep-link landing page. target comes from the deeplink
// builder, so it is marked as a trusted URL to keep its custom scheme.
func (p *Pages) Redirect(w io.Writer, target string) error {
	return p.tmpl.ExecuteTemplate(w, "redirect", redirectData{
		AppName: p.appName,
		Target:  template.URL(target),
	})
}

func (p *Pages) Note(w io.Writer, note *domain.PublishedNote, content template.HTML) error {
	return p.tmpl.ExecuteTemplate(w, "note", noteData{
		Title:        note.Title,
		PublishedOn:  p.FormatDate(note.PublishedAt),
		PublishedISO: note.PublishedAt.UTC().Format(time.RFC3339),
		Content:      content,
		CodeCSS:      p.codeCSS,
	})
}

func (p *Pages) NotFound(w io.Writer, slug string) error {
	return p.tmpl.ExecuteTemplate(w, "not_found", notFoundData{Slug: slug})
}

func (p *Pages) Error(w io.Writer) error {
	return p.tmpl.ExecuteTemplate(w, "error", nil)
}
