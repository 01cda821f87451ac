package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTMLMarkdown(t *testing.T) {
	html := ToHTML("# Big Sale\n\nEverything **must** go")
	assert.Contains(t, html, "<h1>Big Sale</h1>")
	assert.Contains(t, html, "<strong>must</strong>")
}

func TestToHTMLPlainTextPassesThrough(t *testing.T) {
	html := ToHTML("just a plain sentence")
	assert.Contains(t, html, "just a plain sentence")
}

func TestTrackingPixel(t *testing.T) {
	pixel := TrackingPixel("http://localhost:5001/", "email_abc_20300101120000")
	assert.Contains(t, pixel, `src="http://localhost:5001/track_open?job_id=email_abc_20300101120000"`)
	assert.Contains(t, pixel, "opacity:0;")
	assert.True(t, strings.HasPrefix(pixel, "<img "))
}

func TestRenderFullBody(t *testing.T) {
	body := Render("Visit [our store](https://example.com/offer) today", "http://localhost:5001", "job-1")

	assert.True(t, strings.HasPrefix(body, "<html><body"))
	assert.True(t, strings.HasSuffix(body, "</body></html>"))
	assert.Contains(t, body, "/track_open?job_id=job-1")
	assert.Contains(t, body, `href="http://localhost:5001/track_click?job_id=job-1&url=https%3A%2F%2Fexample.com%2Foffer"`)
	assert.NotContains(t, body, `href="https://example.com/offer"`)
}
