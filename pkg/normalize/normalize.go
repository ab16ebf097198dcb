// Package normalize turns arbitrary text into the canonical form used for
// comparisons. The normalized form is never displayed.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	katakanaFirst = 'ァ'
	katakanaLast  = 'ヶ'
	kanaOffset    = 0x60
)

// foldKana maps katakana to the matching hiragana code point.
var foldKana = runes.Map(func(r rune) rune {
	if r >= katakanaFirst && r <= katakanaLast {
		return r - kanaOffset
	}
	return r
})

// chain builds a fresh transformer. cases.Caser keeps state and is not safe
// for concurrent use, so every call gets its own.
func chain() transform.Transformer {
	return transform.Chain(norm.NFKC, cases.Lower(language.Und), foldKana)
}

// String returns the normalized form of s: NFKC, lowercase, katakana folded
// to hiragana and every whitespace run collapsed to a single space.
func String(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(chain(), s)
	if err != nil {
		// transform only fails on invalid state; fall back to the
		// stdlib pieces so the function stays total.
		out = strings.ToLower(norm.NFKC.String(s))
	}
	return collapseSpace(out)
}

// Value normalizes an arbitrary decoded value. nil yields "".
func Value(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return String(t)
	case fmt.Stringer:
		return String(t.String())
	default:
		return String(fmt.Sprint(t))
	}
}

func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
