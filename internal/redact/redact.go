// Package redact applies ordered pattern→replacement rules to text.
//
// Rules run sequentially, each over the output of the previous one. Order is
// load-bearing: longer patterns must be listed before shorter patterns that
// could match their interior, otherwise a 7-digit rule would fire on the tail
// of a 10-digit number and leave a half-redacted fragment behind.
package redact

import (
	"regexp"
)

// Rule rewrites every match of Pattern to Replacement.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Redactor holds an ordered rule list. It is stateless and safe for
// concurrent use.
type Redactor struct {
	rules []Rule
}

// New builds a Redactor that applies rules in the given order.
func New(rules []Rule) *Redactor {
	return &Redactor{rules: rules}
}

// Phone number rules: parenthesized 10-digit first, then plain 10-digit,
// then the 7-digit local form.
var phoneRules = []Rule{
	{regexp.MustCompile(`\(\d{3}\)\s?\d{3}[-.]?\d{4}`), "[REDACTED]"},
	{regexp.MustCompile(`\b\d{3}[-.\s]\d{3}[-.\s]\d{4}\b`), "[REDACTED]"},
	{regexp.MustCompile(`\b\d{3}[-.]?\d{4}\b`), "[REDACTED]"},
}

// Phones returns a Redactor with the built-in phone number rules.
func Phones() *Redactor {
	return New(phoneRules)
}

// Apply runs every rule in order and returns the rewritten text.
// Non-matching content is preserved byte for byte, and the transform is
// idempotent on text already free of matches.
func (r *Redactor) Apply(text string) string {
	out := text
	for _, rule := range r.rules {
		out = rule.Pattern.ReplaceAllString(out, rule.Replacement)
	}
	return out
}
