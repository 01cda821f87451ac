package render

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Only absolute http(s) anchors are rewritten. Relative links, mailto links
// and the tracking pixel's img src are left alone.
var hrefPattern = regexp.MustCompile(`href="(https?://[^"]+)"`)

// WrapLinks rewrites every anchor href in the HTML body to route through the
// click tracking endpoint, carrying the original destination as an escaped
// query parameter.
func WrapLinks(html, baseURL, jobID string) string {
	base := strings.TrimRight(baseURL, "/")
	escapedJob := url.QueryEscape(jobID)
	return hrefPattern.ReplaceAllStringFunc(html, func(match string) string {
		original := hrefPattern.FindStringSubmatch(match)[1]
		return fmt.Sprintf(
			`href="%s/track_click?job_id=%s&url=%s"`,
			base, escapedJob, url.QueryEscape(original),
		)
	})
}
