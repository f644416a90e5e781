package tui

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// highlightJSON colors a compact JSON document for the log. The result stays
// on one line; anything chroma cannot handle falls back to resultStyle.
func highlightJSON(doc string) string {
	if strings.TrimSpace(doc) == "" {
		return resultStyle.Render(doc)
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, doc, "json", highlightFormatter, highlightStyle); err != nil {
		return resultStyle.Render(doc)
	}
	return strings.ReplaceAll(buffer.String(), "\n", "")
}
