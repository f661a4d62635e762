package classify

import (
	"net/url"

	"clicktrack/internal/model"
)

// Result is a classified click: the event kind and its payload.
type Result struct {
	Kind    model.Kind
	Payload model.Payload
	Rule    string // name of the rule that fired
}

// Classifier maps a clicked element to at most one event.
type Classifier struct {
	rules     []Rule
	fullEmail bool
}

type Option func(*Classifier)

// WithFullEmail keeps the local part of mailto addresses.
func WithFullEmail(full bool) Option {
	return func(c *Classifier) { c.fullEmail = full }
}

// WithRules replaces DefaultRules.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) { c.rules = rules }
}

func New(opts ...Option) *Classifier {
	c := &Classifier{rules: DefaultRules}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Classify inspects target and its ancestors on page.
// ok is false when nothing is instrumented or no rule applies.
func (c *Classifier) Classify(page *url.URL, target Element) (Result, bool) {
	el := Closest(target)
	if el == nil {
		return Result{}, false
	}
	in := Click{Page: page, El: el, FullEmail: c.fullEmail}
	for _, r := range c.rules {
		if r.Match(in) {
			return Result{Kind: r.Kind, Payload: r.Payload(in), Rule: r.Name}, true
		}
	}
	return Result{}, false
}

// SanitizeEmail applies this classifier's email capture mode.
func (c *Classifier) SanitizeEmail(href string) (string, bool) {
	return SanitizeEmail(href, c.fullEmail)
}
