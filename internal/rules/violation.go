// Package rules implements the NPCI Common Code validation catalog. Every
// rule for a message is evaluated; violations are collected into a single
// aggregate failure so callers can build a complete rejection response.
package rules

import (
	"fmt"
	"strings"
)

// Violation is one failed rule: a stable rule id plus a human message.
type Violation struct {
	RuleID  string
	Message string
}

// ValidationFailure aggregates every violation found in one validation
// pass. It is returned as a value, never thrown: callers branch on it with
// errors.As.
type ValidationFailure struct {
	Violations []Violation
}

func (f *ValidationFailure) Error() string {
	ids := f.RuleIDs()
	return fmt.Sprintf("validation failed: %d rule violation(s): %s",
		len(f.Violations), strings.Join(ids, ", "))
}

// RuleIDs lists the ids of every violated rule in evaluation order.
func (f *ValidationFailure) RuleIDs() []string {
	ids := make([]string, 0, len(f.Violations))
	for _, v := range f.Violations {
		ids = append(ids, v.RuleID)
	}
	return ids
}

// Has reports whether the given rule id is among the violations.
func (f *ValidationFailure) Has(ruleID string) bool {
	for _, v := range f.Violations {
		if v.RuleID == ruleID {
			return true
		}
	}
	return false
}

func failureOrNil(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationFailure{Violations: violations}
}
