package render

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapLinksRewritesAbsoluteAnchors(t *testing.T) {
	in := `<p><a href="https://example.com/page">go</a> and <a href="http://other.example/x">here</a></p>`
	out := WrapLinks(in, "http://localhost:5001", "job-9")

	assert.Contains(t, out, `href="http://localhost:5001/track_click?job_id=job-9&url=https%3A%2F%2Fexample.com%2Fpage"`)
	assert.Contains(t, out, `href="http://localhost:5001/track_click?job_id=job-9&url=http%3A%2F%2Fother.example%2Fx"`)
	assert.NotContains(t, out, `href="https://example.com/page"`)
}

func TestWrapLinksLeavesOtherContentAlone(t *testing.T) {
	cases := []string{
		`<p>no links here at all</p>`,
		`<a href="mailto:someone@example.com">write</a>`,
		`<a href="/relative/path">rel</a>`,
		`<img src="https://example.com/banner.png" />`,
	}
	for _, in := range cases {
		assert.Equal(t, in, WrapLinks(in, "http://localhost:5001", "job-9"))
	}
}

// The rewritten url parameter must decode back to the exact original,
// including reserved characters.
func TestWrapLinksRoundTripsReservedCharacters(t *testing.T) {
	originals := []string{
		"https://example.com/search?q=a&b=c",
		"https://example.com/path?x=1+1",
		"https://example.com/p?msg=hello%20world",
		"https://example.com/p?eq=a=b",
	}

	for _, original := range originals {
		out := WrapLinks(`<a href="`+original+`">x</a>`, "http://localhost:5001", "job-9")

		// Pull the rewritten href back out and decode it the way the
		// tracking endpoint does.
		sub := hrefPattern.FindStringSubmatch(out)
		require.Len(t, sub, 2, "rewritten link should still be an absolute href: %s", out)

		parsed, err := url.Parse(sub[1])
		require.NoError(t, err)
		assert.Equal(t, original, parsed.Query().Get("url"))
		assert.Equal(t, "job-9", parsed.Query().Get("job_id"))
	}
}
