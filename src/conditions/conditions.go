// Package conditions implements the rule mini-language gating which
// endpoints receive a transaction.
//
// A rule string is a sequence of numbered clauses of the form *N#body#.
// Clauses are evaluated left to right and combined with AND; the first
// failing clause short-circuits to false. Two body shapes are recognized:
//
//	min=max   any numeric token in the content falls within [min,max]
//	*kw1*kw2  the content contains any keyword, case-insensitive
//
// Any other body fails its clause. An empty rule string, or a rule string
// containing zero well-formed clauses, evaluates to true. The latter is a
// deliberately preserved permissive default: a malformed rule is
// indistinguishable from an absent one.
package conditions

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	clausePattern = regexp.MustCompile(`\*(\d+)#([^#]+)#`)
	numberPattern = regexp.MustCompile(`\d+`)
)

// Evaluate reports whether the transaction content satisfies every clause
// of the rule string.
func Evaluate(rule, content string) bool {
	if strings.TrimSpace(rule) == "" {
		return true
	}

	clauses := clausePattern.FindAllStringSubmatch(rule, -1)
	if len(clauses) == 0 {
		return true
	}

	for _, clause := range clauses {
		if !matchClause(clause[2], content) {
			return false
		}
	}
	return true
}

func matchClause(body, content string) bool {
	switch {
	case strings.HasPrefix(body, "*"):
		return matchKeywords(body, content)
	case strings.Contains(body, "="):
		return matchAmountRange(body, content)
	default:
		return false
	}
}

// matchAmountRange handles "min=max" bodies. An absent max means unbounded.
func matchAmountRange(body, content string) bool {
	parts := strings.Split(body, "=")
	if len(parts) != 2 {
		return false
	}

	min, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || min < 0 {
		min = 0
	}
	max := int64(math.MaxInt64)
	if n, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
		max = n
	}

	for _, token := range numberPattern.FindAllString(content, -1) {
		amount, err := strconv.ParseInt(token, 10, 64)
		if err != nil || amount <= 0 {
			continue
		}
		if amount >= min && amount <= max {
			return true
		}
	}
	return false
}

// matchKeywords handles "*kw1*kw2*..." bodies.
func matchKeywords(body, content string) bool {
	lower := strings.ToLower(content)
	for _, keyword := range strings.Split(body, "*") {
		if keyword == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
