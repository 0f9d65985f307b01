package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NameInferrer derives a logical element name for a step no rule recognized.
type NameInferrer interface {
	InferName(text string) string
}

// maxNameWords bounds how many content words make up an inferred name.
const maxNameWords = 3

var stopwords = map[string]bool{
	"a": true, "am": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "by": true, "for": true, "from": true, "has": true,
	"have": true, "i": true, "in": true, "into": true, "is": true, "it": true,
	"its": true, "me": true, "message": true, "my": true, "of": true, "on": true,
	"page": true, "see": true, "should": true, "that": true, "the": true,
	"then": true, "there": true, "this": true, "to": true, "text": true,
	"was": true, "we": true, "with": true,
}

// KeywordInferrer names an element after a quoted literal when the step has
// one, otherwise after its first few non-stopword words.
type KeywordInferrer struct{}

func (KeywordInferrer) InferName(text string) string {
	if lit := Literal(text); lit != "" {
		if name := camelJoin(words(lit)); name != "" {
			return name
		}
	}

	var content []string
	for _, w := range words(text) {
		if stopwords[w] {
			continue
		}
		content = append(content, w)
		if len(content) == maxNameWords {
			break
		}
	}
	if name := camelJoin(content); name != "" {
		return name
	}

	if name := strings.Join(words(text), ""); name != "" {
		return name
	}
	return "element"
}

// words lowercases text and splits it on every non-alphanumeric rune.
func words(text string) []string {
	lower := cases.Lower(language.Und).String(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func camelJoin(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	title := cases.Title(language.Und)
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		b.WriteString(title.String(p))
	}
	return b.String()
}
