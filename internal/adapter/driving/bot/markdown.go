package bot

import (
	"bytes"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
	userIDPattern *regexp.Regexp
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()

	userIDPattern = regexp.MustCompile(`@[a-zA-Z0-9._=/-]+:[a-zA-Z0-9.-]+\.[a-z]+`)
}

// RenderMarkdown converts a markdown string to sanitized HTML suitable for a
// formatted message body. Returns empty string for empty input.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return Pillify(htmlSanitizer.Sanitize(src))
	}

	return Pillify(htmlSanitizer.Sanitize(buf.String()))
}

// Pillify wraps bare Matrix user IDs in matrix.to links so clients render
// them as mention pills. Runs after sanitization, on text that already
// contained the IDs as plain text.
func Pillify(html string) string {
	return userIDPattern.ReplaceAllString(html, `<a href="https://matrix.to/#/$0">$0</a>`)
}
