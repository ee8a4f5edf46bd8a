// Package saferegex implements the Safe-Regex Oracle spec.md §1 lists as
// an external collaborator: a predicate over a regex source reporting
// whether the pattern is free of catastrophic backtracking.
//
// It combines two checks:
//  1. a static nested-quantifier (star-height) heuristic that catches the
//     classic ReDoS shapes like (a+)+ or (a*)* without ever running the
//     pattern;
//  2. a dynamic timeout probe, matching the pattern against a short
//     adversarial string through github.com/dlclark/regexp2 (chosen for
//     its per-match timeout and its ECMAScript-flavored syntax, which is
//     closer to the JS regex literals under validation than the standard
//     library's RE2 dialect).
package saferegex

import (
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Oracle checks regex sources for catastrophic-backtracking risk.
type Oracle struct {
	// ProbeTimeout bounds the dynamic match probe. A pattern that cannot
	// finish matching a short adversarial string within this window is
	// reported unsafe.
	ProbeTimeout time.Duration
	// ProbeRepeat is how many times the adversarial character is
	// repeated to build the probe input.
	ProbeRepeat int
}

// Default is the Oracle used when callers don't need custom probe
// parameters.
var Default = Oracle{ProbeTimeout: 50 * time.Millisecond, ProbeRepeat: 24}

// nestedQuantifier matches a parenthesized group whose own content ends in
// a quantified atom, immediately followed by a group-level quantifier —
// the textual signature of (a+)+, (a*)*, ([a-z]+)*, and similar classic
// ReDoS shapes.
var nestedQuantifier = regexp.MustCompile(`\([^()]*[+*][^()]*\)[+*]`)

// Check reports whether pattern is safe. A non-nil error means the
// pattern is not even syntactically a valid regex (spec.md §4.5 literal
// argument rule 6: "regex: pattern length <= max_string_length and the
// Safe-Regex Oracle returns 'safe'; otherwise error").
func (o Oracle) Check(pattern string) (safe bool, reason string, err error) {
	compiled, cerr := regexp2.Compile(pattern, regexp2.ECMAScript)
	if cerr != nil {
		return false, "", &InvalidPatternError{Pattern: pattern, Cause: cerr}
	}

	if nestedQuantifier.MatchString(pattern) {
		return false, "pattern is not safe: nested quantifiers risk catastrophic backtracking", nil
	}

	if o.timesOut(compiled) {
		return false, "pattern is not safe: matching did not complete within the probe timeout", nil
	}

	return true, "", nil
}

// timesOut runs a short adversarial probe against re and reports whether
// it exceeds the configured timeout.
func (o Oracle) timesOut(re *regexp2.Regexp) bool {
	timeout := o.ProbeTimeout
	if timeout <= 0 {
		timeout = Default.ProbeTimeout
	}
	repeat := o.ProbeRepeat
	if repeat <= 0 {
		repeat = Default.ProbeRepeat
	}
	re.MatchTimeout = timeout

	probe := strings.Repeat("a", repeat) + "!"
	_, err := re.FindStringMatch(probe)
	return err != nil
}

// InvalidPatternError wraps a regex that failed to compile at all.
type InvalidPatternError struct {
	Pattern string
	Cause   error
}

func (e *InvalidPatternError) Error() string {
	return "invalid regex pattern: " + e.Cause.Error()
}

func (e *InvalidPatternError) Unwrap() error { return e.Cause }
