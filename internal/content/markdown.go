package content

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			// Heading ids let the client build a table of contents.
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	htmlPolicy = bluemonday.UGCPolicy()
)

func init() {
	htmlPolicy.AllowImages()
	htmlPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	htmlPolicy.RequireNoReferrerOnLinks(true)
}

// RenderMarkdown converts a markdown body to sanitized HTML. On a conversion
// failure the raw source is returned after sanitization so a rendering bug
// never blanks the page.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return string(htmlPolicy.SanitizeBytes([]byte(source)))
	}
	return string(htmlPolicy.SanitizeBytes(buf.Bytes()))
}
