package ir

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Canonicalizer maps raw observations to Deviations. It is a pure
// function of its input plus the configured limits; the same observation
// always yields the same deviation.
//
// The normalization applied to canonical values, in order:
//  1. Unicode NFC, so composed and decomposed text compares equal.
//  2. Outer whitespace trimmed, interior runs collapsed to one space.
//  3. Matching outer quote pairs stripped, up to three layers deep.
//  4. Kind-specific rules: numbers reformatted through strconv, booleans
//     and status words lowercased, line blocks right-trimmed per line.
type Canonicalizer struct {
	limits Limits
}

// NewCanonicalizer creates a canonicalizer with the given limits.
func NewCanonicalizer(limits Limits) *Canonicalizer {
	return &Canonicalizer{limits: limits}
}

// Canonicalize turns one observation into a Deviation. ok=false means the
// expected and actual values agree canonically: no deviation exists and
// nothing reaches the reducer. A non-nil error is a ContractError, a front
// end defect.
func (c *Canonicalizer) Canonicalize(obs Observation) (Deviation, bool, error) {
	if !obs.Kind.Valid() {
		return Deviation{}, false, &ContractError{Kind: ContractErrBadKind, Obs: obs}
	}
	if obs.ValueKind > ValueLines {
		return Deviation{}, false, &ContractError{Kind: ContractErrBadValueKind, Obs: obs}
	}
	if obs.ValueKind == ValueInvalid {
		obs.ValueKind = InferValueKind(obs.ExpectedRaw, obs.ActualRaw)
	}
	if strings.TrimSpace(obs.ExpectedRaw) == "" && strings.TrimSpace(obs.ActualRaw) == "" {
		return Deviation{}, false, &ContractError{Kind: ContractErrNoValues, Obs: obs}
	}

	expected := Value{
		Kind:      obs.ValueKind,
		Canonical: CanonicalText(obs.ValueKind, obs.ExpectedRaw),
		Raw:       obs.ExpectedRaw,
	}
	actual := Value{
		Kind:      obs.ValueKind,
		Canonical: CanonicalText(obs.ValueKind, obs.ActualRaw),
		Raw:       obs.ActualRaw,
	}
	if expected.Equal(actual) {
		return Deviation{}, false, nil
	}

	dev := Deviation{
		ID:         ComputeID(obs.Kind, obs.Location, expected.Canonical, actual.Canonical),
		Kind:       obs.Kind,
		Expected:   expected,
		Actual:     actual,
		Location:   obs.Location,
		Trace:      NewTrace(obs.Frames, c.limits.MaxTraceFrames),
		Confidence: c.confidence(obs),
		Summary:    renderSummary(obs.Kind, expected, actual, obs.Location),
		Hint:       obs.Hint,
	}
	return dev, true, nil
}

// confidence scores source completeness. Exact test assertions start at
// 1.0; everything diagnostic-derived starts at 0.9 and loses ground per
// missing field, with a floor of 0.3.
func (c *Canonicalizer) confidence(obs Observation) float64 {
	conf := 0.9
	if obs.Kind == DevTest {
		conf = 1.0
	}
	if !obs.Location.Valid() {
		conf *= 0.85
	}
	if len(obs.Frames) == 0 {
		conf *= 0.95
	}
	if obs.ProviderDegraded {
		conf *= 0.8
	}
	if conf < 0.3 {
		conf = 0.3
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}

// CanonicalText normalizes one raw value under the given kind's rules.
func CanonicalText(kind ValueKind, raw string) string {
	s := norm.NFC.String(raw)
	if kind == ValueLines {
		return canonLines(s)
	}

	s = strings.TrimSpace(s)
	s = collapseSpace(s)
	s = stripQuotes(s)

	switch kind {
	case ValueNumber:
		if n, ok := canonNumber(s); ok {
			return n
		}
	case ValueBool, ValueStatus:
		return strings.ToLower(s)
	}
	return s
}

// canonNumber reformats numeric literals so 401, +401, and 401.0 agree.
// Integers parse in any Go literal base to keep hex addresses stable;
// everything else goes through float formatting.
func canonNumber(s string) (string, bool) {
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return strconv.FormatInt(v, 10), true
	}
	if v, err := strconv.ParseUint(s, 0, 64); err == nil {
		return strconv.FormatUint(v, 10), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(f, 'g', -1, 64), true
	}
	return s, false
}

// canonLines right-trims each line and drops trailing blank lines.
// Interior structure is significant for line blocks and stays untouched.
func canonLines(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func collapseSpace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inRun := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inRun {
				sb.WriteByte(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// stripQuotes removes matching outer quote pairs, at most three layers, so
// tool-added quoting never defeats equality: `"401"` equals 401.
func stripQuotes(s string) string {
	for layer := 0; layer < 3; layer++ {
		if len(s) < 2 {
			return s
		}
		open := s[0]
		if open != '"' && open != '\'' && open != '`' {
			return s
		}
		if s[len(s)-1] != open {
			return s
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

const summaryValueLimit = 48

func renderSummary(kind DevKind, expected, actual Value, loc Location) string {
	var sb strings.Builder
	switch {
	case expected.Canonical == "":
		fmt.Fprintf(&sb, "%s: %s", kind, clipValue(actual.Canonical))
	case actual.Canonical == "":
		fmt.Fprintf(&sb, "%s: expected %s, got nothing", kind, clipValue(expected.Canonical))
	default:
		fmt.Fprintf(&sb, "%s: expected %s, got %s",
			kind, clipValue(expected.Canonical), clipValue(actual.Canonical))
	}
	if loc.Valid() {
		sb.WriteString(" at ")
		sb.WriteString(loc.String())
	}
	return sb.String()
}

// clipValue makes any canonical value fit a one-line summary.
func clipValue(s string) string {
	if s == "" {
		return `""`
	}
	s = strings.ReplaceAll(s, "\n", `\n`)
	if len(s) <= summaryValueLimit {
		return s
	}
	rs := []rune(s)
	if len(rs) <= summaryValueLimit {
		return s
	}
	return string(rs[:summaryValueLimit]) + "..."
}
