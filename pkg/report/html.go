// CLAUDE:SUMMARY HTML rendering of an analysis report: goldmark over the Markdown body, sanitized with bluemonday.
package report

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hazyhaar/vietdanh/pkg/cuc"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.Table))
	policy   = newReportPolicy()
)

func newReportPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("p", "span", "li", "table")
	p.RequireNoFollowOnLinks(true)
	return p
}

// HTML renders rep as a sanitized HTML fragment.
func HTML(rep *cuc.Report) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(rep)), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}
