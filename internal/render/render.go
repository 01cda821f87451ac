// Package render turns campaign markdown into the HTML email body,
// instrumented with an open-tracking pixel and click-tracked links.
package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// ToHTML converts markdown content to an HTML fragment. Plain text comes out
// wrapped in paragraph tags, which renders fine inside the envelope.
func ToHTML(markdown string) string {
	return strings.TrimSpace(string(blackfriday.Run([]byte(markdown))))
}

// TrackingPixel returns an invisible 1x1 image tag pointing at the open
// tracking endpoint for the given job.
func TrackingPixel(baseURL, jobID string) string {
	return fmt.Sprintf(
		`<img src="%s/track_open?job_id=%s" alt="" style="width:1px; height:1px; border:0; margin:0; padding:0; opacity:0;" />`,
		strings.TrimRight(baseURL, "/"),
		url.QueryEscape(jobID),
	)
}

// Envelope wraps the rendered fragment in the full HTML document sent over
// the wire, with the base styling applied inline for mail client support.
func Envelope(inner string) string {
	return fmt.Sprintf(
		`<html><body style="font-family: Arial, sans-serif; font-size: 14px; line-height: 1.6; margin: 20px;"><div>%s</div></body></html>`,
		inner,
	)
}

// Render produces the final email body for a campaign: markdown converted to
// HTML, pixel appended, envelope applied, and every absolute link rewritten
// through the click tracker.
func Render(content, baseURL, jobID string) string {
	body := Envelope(ToHTML(content) + TrackingPixel(baseURL, jobID))
	return WrapLinks(body, baseURL, jobID)
}
