// Package classify maps a step sentence to the UI action it describes and the
// logical element it acts on.
package classify

import (
	"fmt"
	"strings"

	"github.com/chriserin/testgen/internal/config"
	"github.com/chriserin/testgen/internal/stepmap"
)

// Classifier is a stepmap.Classifier driven by ordered rule tables.
type Classifier struct {
	selectors config.Selectors
	inferrer  NameInferrer
}

// Option customizes a Classifier.
type Option func(*Classifier)

// WithInferrer replaces the built-in KeywordInferrer.
func WithInferrer(in NameInferrer) Option {
	return func(c *Classifier) { c.inferrer = in }
}

// New returns a Classifier reading aliases and fallbacks from selectors.
func New(selectors config.Selectors, opts ...Option) *Classifier {
	c := &Classifier{selectors: selectors, inferrer: KeywordInferrer{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify never fails: text matching no action rule is ActionUnknown and text
// matching no name rule gets an inferred name.
func (c *Classifier) Classify(text string) stepmap.ActionDescriptor {
	name := c.SelectorName(text)
	return stepmap.ActionDescriptor{
		Action:           Action(text),
		SelectorName:     name,
		Selector:         c.selector(name),
		FallbackSelector: c.selectors.Fallbacks[name],
		Note:             Literal(text),
	}
}

// SelectorName returns the name of the first matching NameRule, else the
// inferred name.
func (c *Classifier) SelectorName(text string) string {
	for _, rule := range NameRules {
		if rule.Pattern.MatchString(text) {
			return rule.Name
		}
	}
	return c.inferrer.InferName(text)
}

func (c *Classifier) selector(name string) string {
	if alias, ok := c.selectors.Aliases[name]; ok && alias != "" {
		return alias
	}
	return Synthesize(name)
}

// Action returns the kind of the first ActionRule matching text.
func Action(text string) stepmap.ActionKind {
	lower := strings.ToLower(text)
	for _, rule := range ActionRules {
		if rule.Pattern.MatchString(lower) {
			return rule.Kind
		}
	}
	return stepmap.ActionUnknown
}

// Synthesize builds the default selector for a logical name.
func Synthesize(name string) string {
	return fmt.Sprintf(`[data-testid="%s"]`, name)
}
