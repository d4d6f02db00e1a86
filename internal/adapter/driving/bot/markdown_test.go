package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}

func TestRenderMarkdown_Bold(t *testing.T) {
	result := RenderMarkdown("**bold text**")
	assert.Contains(t, result, "<strong>bold text</strong>")
}

func TestRenderMarkdown_Link(t *testing.T) {
	result := RenderMarkdown("[[MSC123](https://github.com/example/proposals/pull/123)] - Title")
	assert.Contains(t, result, `<a href="https://github.com/example/proposals/pull/123"`)
	assert.Contains(t, result, "MSC123</a>")
}

func TestRenderMarkdown_CodeBlock(t *testing.T) {
	result := RenderMarkdown("<pre><code>show all\n</code></pre>")
	assert.Contains(t, result, "<code>")
	assert.Contains(t, result, "show all")
}

func TestRenderMarkdown_SanitizesScript(t *testing.T) {
	result := RenderMarkdown(`<script>alert("xss")</script>`)
	assert.NotContains(t, result, "<script>")
}

func TestPillify(t *testing.T) {
	got := Pillify("To review: @bob:example.org, carol")

	assert.Contains(t, got, `<a href="https://matrix.to/#/@bob:example.org">@bob:example.org</a>`)
	assert.Contains(t, got, "carol")
}

func TestPillify_LeavesPlainTextAlone(t *testing.T) {
	assert.Equal(t, "no mentions here", Pillify("no mentions here"))
}

func TestRenderMarkdown_PillifiesMentions(t *testing.T) {
	result := RenderMarkdown("To review: @bob:example.org")
	assert.Contains(t, result, `https://matrix.to/#/@bob:example.org`)
}
