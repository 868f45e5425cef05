package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML(t *testing.T) {
	out, err := HTML("Social work is **stressful**.\n\n<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>stressful</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"emphasis", "Protect **client** data.", "Protect client data."},
		{"list", "- Feelings\n- Assess\n- Refer", "Feelings\nAssess\nRefer"},
		{"heading and paragraph", "# Title\n\nBody text", "Title\nBody text"},
		{"blockquote", "> quoted words", "quoted words"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarkdownText(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShareLinks(t *testing.T) {
	assert.Equal(t, "self-care-in-high-stress-environments", Slug("Self-Care in High-Stress Environments"))
	assert.Equal(t, "https://sw.example/research/abc", CanonicalURL("https://sw.example/", "/research", "abc"))
	assert.Equal(t, "https://sw.example/blog#ai-and-ethics", BlogLink("https://sw.example", "/blog", "AI & Ethics"))

	got := MailtoShare("AI & Ethics", "Can AI help?", "https://sw.example/blog#ai-and-ethics")
	assert.Equal(t, "mailto:?subject=AI%20%26%20Ethics&body=Can%20AI%20help%3F%0A%0ARead%20more%20at%3A%20https%3A%2F%2Fsw.example%2Fblog%23ai-and-ethics", got)
}
