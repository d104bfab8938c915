package markdown

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	chromaLightStyle = "github"
	chromaDarkStyle  = "catppuccin-mocha"
)

var (
	chromaCSSOnce sync.Once
	chromaCSS     template.CSS
)

// ChromaCSS returns the stylesheet for class-based code highlighting,
// switching palettes with prefers-color-scheme.
func ChromaCSS() template.CSS {
	chromaCSSOnce.Do(func() {
		chromaCSS = template.CSS(buildChromaCSS())
	})

	return chromaCSS
}

func buildChromaCSS() string {
	var out strings.Builder
	if css := styleCSS(chromaLightStyle); css != "" {
		out.WriteString("@media (prefers-color-scheme: light) {\n")
		out.WriteString(css)
		out.WriteString("}\n")
	}
	if css := styleCSS(chromaDarkStyle); css != "" {
		out.WriteString("@media (prefers-color-scheme: dark) {\n")
		out.WriteString(css)
		out.WriteString("}\n")
	}
	return out.String()
}

func styleCSS(name string) string {
	style := styles.Get(name)
	if style == nil {
		style = styles.Fallback
	}

	formatter := chromahtml.New(chromahtml.WithClasses(true))
	var buffer bytes.Buffer
	if err := formatter.WriteCSS(&buffer, style); err != nil {
		return ""
	}
	return buffer.String()
}
