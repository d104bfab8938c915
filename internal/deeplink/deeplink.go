// Package deeplink turns incoming request URLs into obsidian:// style links.
package deeplink

import (
	"net/url"
	"regexp"
	"strings"
)

const DefaultScheme = "obsidian"

var shorthandPattern = regexp.MustCompile(`^/([^/]+)/(.+)$`)

// url.QueryEscape is stricter than encodeURIComponent, which leaves these
// marks alone.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

type Builder struct {
	scheme string
}

func NewBuilder(scheme string) *Builder {
	if scheme == "" {
		scheme = DefaultScheme
	}
	return &Builder{scheme: scheme}
}

func (b *Builder) base() string {
	return b.scheme + "://open"
}

// FromQuery appends the raw query string unchanged, so any encoding the
// caller used (a%2Fb.md) reaches the application as-is.
func (b *Builder) FromQuery(rawQuery string) string {
	if rawQuery == "" {
		return b.base()
	}
	return b.base() + "?" + rawQuery
}

// FromPath handles /<vault>/<file-path>. The path must be the escaped form
// (r.URL.EscapedPath) so the file part is forwarded without re-encoding.
func (b *Builder) FromPath(escapedPath string) (string, bool) {
	vault, file, ok := SplitShorthand(escapedPath)
	if !ok {
		return "", false
	}

	if decoded, err := url.PathUnescape(vault); err == nil {
		vault = decoded
	}

	return b.base() + "?vault=" + EncodeComponent(vault) + "&file=" + file, true
}

func SplitShorthand(escapedPath string) (vault, file string, ok bool) {
	m := shorthandPattern.FindStringSubmatch(escapedPath)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// EncodeComponent escapes s for use as a single query value the way
// encodeURIComponent does: spaces become %20 and !'()* stay literal.
func EncodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
