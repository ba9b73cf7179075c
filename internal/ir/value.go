package ir

import (
	"strconv"
	"strings"
)

// ValueKind tells the canonicalizer which normalization rules apply to a
// raw expected/actual candidate.
type ValueKind uint8

const (
	// ValueInvalid indicates a malformed observation.
	ValueInvalid ValueKind = iota
	// ValueNumber is a numeric literal: counts, status codes, durations.
	ValueNumber
	// ValueBool is a boolean literal.
	ValueBool
	// ValueText is free-form text: messages, names, rendered values.
	ValueText
	// ValueType is a type name from a build or type diagnostic.
	ValueType
	// ValueStatus is a test outcome word such as pass or fail.
	ValueStatus
	// ValueLines is a block of lines, newline separated, as diff hunks
	// carry.
	ValueLines
)

// String returns the string representation of ValueKind.
func (k ValueKind) String() string {
	switch k {
	case ValueNumber:
		return "number"
	case ValueBool:
		return "bool"
	case ValueText:
		return "text"
	case ValueType:
		return "type"
	case ValueStatus:
		return "status"
	case ValueLines:
		return "lines"
	default:
		return "invalid"
	}
}

// InferValueKind guesses the kind from the raw texts when a resolver does
// not know better. Both sides must agree on a shape before a specific kind
// wins; empty sides abstain. Free-form text is the fallback.
func InferValueKind(expected, actual string) ValueKind {
	if strings.Contains(expected, "\n") || strings.Contains(actual, "\n") {
		return ValueLines
	}
	if bothParse(expected, actual, func(s string) bool {
		_, ok := canonNumber(strings.TrimSpace(s))
		return ok
	}) {
		return ValueNumber
	}
	if bothParse(expected, actual, func(s string) bool {
		_, err := strconv.ParseBool(strings.TrimSpace(s))
		return err == nil
	}) {
		return ValueBool
	}
	return ValueText
}

// bothParse applies the probe to every non-empty side; at least one side
// must be non-empty and every non-empty side must pass.
func bothParse(expected, actual string, probe func(string) bool) bool {
	seen := false
	for _, s := range []string{expected, actual} {
		if strings.TrimSpace(s) == "" {
			continue
		}
		if !probe(s) {
			return false
		}
		seen = true
	}
	return seen
}

// Value is one side of a divergence. Canonical is the normalized form used
// for equality; Raw preserves the tool's original text for display.
type Value struct {
	Kind      ValueKind
	Canonical string
	Raw       string
}

// Equal reports whether two values denote the same thing: same kind, same
// canonical form. Raw text never participates.
func (v Value) Equal(other Value) bool {
	return v.Kind == other.Kind && v.Canonical == other.Canonical
}
