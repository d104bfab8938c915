// Package markdown renders published note bodies to HTML.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/adrg/frontmatter"
)

const (
	EngineGomarkdown = "gomarkdown"
	EngineGoldmark   = "goldmark"
)

// Renderer converts markdown source into trusted HTML.
type Renderer interface {
	Render(source string) (template.HTML, error)
}

func New(engine string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineGomarkdown:
		return NewGomarkdownRenderer(), nil
	case EngineGoldmark:
		return NewGoldmarkRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown markdown engine %q", engine)
	}
}

// StripFrontMatter drops a leading YAML/TOML front matter block. Sources
// without one, or with one that does not parse, are returned unchanged.
func StripFrontMatter(source string) string {
	var meta map[string]any
	body, err := frontmatter.Parse(bytes.NewReader([]byte(source)), &meta)
	if err != nil {
		return source
	}
	return string(body)
}
