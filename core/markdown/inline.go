// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package markdown

import "regexp"

// inlineRule pairs a delimiter pattern with the span it produces.
//
// Each pattern has exactly one capture group holding the inner text.
type inlineRule struct {
	name    string
	pattern *regexp.Regexp
	build   func(inner string) Span
}

// inlineRules is ordered by precedence.
//
// When two rules match at the same offset the earlier rule wins. The order
// bold, italic, code is kept for compatibility with existing content; it does
// not follow from any markdown rule. With this order `**a*b**` is one bold span.
var inlineRules = []inlineRule{
	{
		name:    "bold",
		pattern: regexp.MustCompile(`\*\*(.+?)\*\*`),
		build:   func(inner string) Span { return Bold(inner) },
	},
	{
		name:    "italic",
		pattern: regexp.MustCompile(`\*(.+?)\*`),
		build:   func(inner string) Span { return Italic(inner) },
	},
	{
		name:    "code",
		pattern: regexp.MustCompile("`(.+?)`"),
		build:   func(inner string) Span { return Code(inner) },
	},
}

// FormatInline splits text into styled spans.
//
// The earliest match of any rule in the remaining text is taken, ties going to
// the rule listed first in inlineRules. Text before a match becomes PlainText.
// The inner text of a match is not scanned again. Unmatched markers stay in
// the output as plain text.
func FormatInline(text string) []Span {
	var spans []Span

	rest := text
	for rest != "" {
		start, end, span := nextInline(rest)
		if span == nil {
			spans = append(spans, PlainText(rest))

			break
		}

		if start > 0 {
			spans = append(spans, PlainText(rest[:start]))
		}

		spans = append(spans, span)
		rest = rest[end:]
	}

	return spans
}

// nextInline returns the leftmost match in s, or a nil span if nothing matches.
func nextInline(s string) (start, end int, span Span) {
	start = -1

	for _, rule := range inlineRules {
		loc := rule.pattern.FindStringSubmatchIndex(s)
		if loc == nil {
			continue
		}

		// Strictly less: an equal offset keeps the higher precedence rule.
		if start == -1 || loc[0] < start {
			start, end = loc[0], loc[1]
			span = rule.build(s[loc[2]:loc[3]])
		}
	}

	return start, end, span
}
