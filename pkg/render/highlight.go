package render

import (
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/rubiojr/armory/pkg/log"
	"github.com/rubiojr/armory/pkg/normalize"
)

const (
	markOpen  = `<span class="mark">`
	markClose = `</span>`
)

// Highlight escapes original and wraps the first case-insensitive literal
// occurrence of query in a mark span.
func Highlight(original, query string) string {
	loc := MatchSpan(original, query)
	if loc == nil {
		return templ.EscapeString(original)
	}

	var b strings.Builder
	b.WriteString(templ.EscapeString(original[:loc[0]]))
	b.WriteString(markOpen)
	b.WriteString(templ.EscapeString(original[loc[0]:loc[1]]))
	b.WriteString(markClose)
	b.WriteString(templ.EscapeString(original[loc[1]:]))
	return b.String()
}

// MatchSpan returns the byte span of the first case-insensitive literal
// occurrence of query in original, or nil. Nothing is found unless the
// normalized original contains the normalized query, and folding that a
// literal scan cannot see (kana, width) yields nil.
func MatchSpan(original, query string) []int {
	if query == "" {
		return nil
	}
	if !strings.Contains(normalize.String(original), normalize.String(query)) {
		return nil
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		log.ForService("render").Debugf("highlight pattern for %q: %v", query, err)
		return nil
	}
	return re.FindStringIndex(original)
}
