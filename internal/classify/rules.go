package classify

import (
	"regexp"

	"github.com/chriserin/testgen/internal/stepmap"
)

// NameRule maps step text matching Pattern to a logical element name.
type NameRule struct {
	Pattern *regexp.Regexp
	Name    string
}

// ActionRule maps lowercased step text matching Pattern to an action kind.
type ActionRule struct {
	Pattern *regexp.Regexp
	Kind    stepmap.ActionKind
}

// NameRules are evaluated in order and the first match wins, so a sentence
// mentioning both a password and a submit button names the password field.
var NameRules = []NameRule{
	{regexp.MustCompile(`(?i)username|user name|email`), "userNameField"},
	{regexp.MustCompile(`(?i)password`), "passwordField"},
	{regexp.MustCompile(`(?i)login|submit`), "loginButton"},
	{regexp.MustCompile(`(?i)dropdown.*country|country.*dropdown`), "countryDropdown"},
	{regexp.MustCompile(`(?i)checkbox`), "termsCheckbox"},
	{regexp.MustCompile(`(?i)link`), "link"},
	{regexp.MustCompile(`(?i)title`), "pageTitle"},
	{regexp.MustCompile(`(?i)url`), "currentUrl"},
	{regexp.MustCompile(`(?i)welcome message`), "welcomeBanner"},
	{regexp.MustCompile(`(?i)profile picture`), "avatar"},
}

// ActionRules are evaluated in order against the lowercased step; the first
// match wins. Verbs are word-bounded so "settings" is not "set" and "center"
// is not "enter". "input", "type" and "set" double as nouns, so they only
// count after a subject, in the third person, or before a quoted value.
var ActionRules = []ActionRule{
	{regexp.MustCompile(`\b(?:enters?|provides?|fills?)\b` +
		`|\b(?:i|user|he|she|they|we|you)\s+(?:input|type|set)\b` +
		`|\b(?:inputs|types|sets)\b` +
		`|\b(?:input|type|set)\s+"`), stepmap.ActionSetValue},
	{regexp.MustCompile(`\b(?:clicks?|press(?:es)?|taps?)\b`), stepmap.ActionClick},
	{regexp.MustCompile(`\bhovers?\b`), stepmap.ActionHover},
	{regexp.MustCompile(`\buploads?\b`), stepmap.ActionUploadFile},
	{regexp.MustCompile(`\b(?:selects?|chooses?)\b`), stepmap.ActionSelectDropdown},
	{regexp.MustCompile(`\bscrolls? to\b`), stepmap.ActionScrollTo},
	{regexp.MustCompile(`\bclears?\b`), stepmap.ActionClearText},
	{regexp.MustCompile(`\bwaits? for\b.*\bvisible\b`), stepmap.ActionWaitForVisible},
	{regexp.MustCompile(`should see|\bsees\b`), stepmap.ActionAssertVisible},
	{regexp.MustCompile(`should have text`), stepmap.ActionAssertText},
	{regexp.MustCompile(`should be enabled`), stepmap.ActionAssertEnabled},
	{regexp.MustCompile(`should be disabled`), stepmap.ActionAssertDisabled},
	{regexp.MustCompile(`title should be`), stepmap.ActionAssertTitle},
	{regexp.MustCompile(`url should contain`), stepmap.ActionAssertURLContains},
}

var quotedLiteral = regexp.MustCompile(`"(.*?)"`)

// Literal returns the first double-quoted substring of text, or "".
func Literal(text string) string {
	m := quotedLiteral.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
