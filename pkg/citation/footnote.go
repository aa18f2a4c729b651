package citation

import (
	"fmt"
	"strconv"
	"strings"
)

// Annotate renders citations into content as Markdown footnotes. For each
// citation the marker [^n] is inserted directly after the first occurrence
// of its answer span, and the footnote body is appended to the end of the
// text. Citations whose answer span no longer occurs verbatim in the
// content are skipped.
func Annotate(content string, citations []Citation) string {
	for _, c := range citations {
		annotated, ok := c.footnote(content)
		if !ok {
			continue
		}
		content = annotated
	}
	return content
}

func (c Citation) footnote(content string) (string, bool) {
	at := strings.Index(content, c.TextInAnswer)
	if at < 0 || c.TextInAnswer == "" {
		return "", false
	}
	split := at + len(c.TextInAnswer)
	return fmt.Sprintf("%s[^%d]%s\n\n[^%d]: \"%s\" [source](%s)",
		content[:split], c.Index, content[split:], c.Index, escapeSource(c.TextInSource), c.Reference), true
}

// escapeSource flattens the source span onto one line so it cannot break
// the footnote it is quoted in.
func escapeSource(s string) string {
	quoted := strconv.Quote(s)
	return quoted[1 : len(quoted)-1]
}
