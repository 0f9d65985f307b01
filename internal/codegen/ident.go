package codegen

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words splits s on every run of non-alphanumeric runes and on lower-to-upper
// case boundaries, so "Valid login", "valid-login" and "validLogin" all yield
// the same words.
func Words(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	var prev rune
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) && len(cur) > 0:
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return words
}

// Camel joins the words of s with the first word lower-cased and the rest
// title-cased. The result is never empty: fallback is used when s has no
// words, and a leading digit gets an "x" prefix.
func Camel(s, fallback string) string {
	words := Words(s)
	if len(words) == 0 {
		words = Words(fallback)
	}
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)

	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(lower.String(w))
			continue
		}
		b.WriteString(title.String(w))
	}
	out := b.String()
	if startsWithDigit(out) {
		out = "x" + out
	}
	return out
}

// Pascal is Camel with the first letter upper-cased; a leading digit gets an
// "X" prefix.
func Pascal(s, fallback string) string {
	words := Words(s)
	if len(words) == 0 {
		words = Words(fallback)
	}
	title := cases.Title(language.Und)

	var b strings.Builder
	for _, w := range words {
		b.WriteString(title.String(w))
	}
	out := b.String()
	if startsWithDigit(out) {
		out = "X" + out
	}
	return out
}

func startsWithDigit(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}

// namer hands out identifiers unique within one generated module.
type namer struct {
	used map[string]bool
}

func newNamer(reserved ...string) *namer {
	n := &namer{used: map[string]bool{}}
	for _, r := range reserved {
		n.used[r] = true
	}
	return n
}

// unique returns id, or id with the smallest numeric suffix not yet taken.
func (n *namer) unique(id string) string {
	if !n.used[id] {
		n.used[id] = true
		return id
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s%d", id, i)
		if !n.used[candidate] {
			n.used[candidate] = true
			return candidate
		}
	}
}
