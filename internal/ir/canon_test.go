package ir

import (
	"strings"
	"testing"
)

func TestCanonicalTextNumbers(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"401", "401"},
		{"401 ", "401"},
		{" 401", "401"},
		{"+401", "401"},
		{"401.0", "401"},
		{"0.050", "0.05"},
		{`"401"`, "401"},
		{"'401'", "401"},
		{"0x1f", "31"},
		{"1e3", "1000"},
		{"-3.14", "-3.14"},
		{"18446744073709551615", "18446744073709551615"},
		{"not a number", "not a number"},
	}
	for _, tt := range tests {
		if got := CanonicalText(ValueNumber, tt.raw); got != tt.want {
			t.Errorf("CanonicalText(number, %q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCanonicalTextStrings(t *testing.T) {
	tests := []struct {
		kind ValueKind
		raw  string
		want string
	}{
		{ValueText, "  hello   world  ", "hello world"},
		{ValueText, "tab\tand\nnewline", "tab and newline"},
		{ValueText, `"quoted"`, "quoted"},
		{ValueText, "`left == right`", "left == right"},
		{ValueText, `"'nested'"`, "nested"},
		{ValueText, `""`, ""},
		{ValueBool, "True", "true"},
		{ValueBool, " FALSE ", "false"},
		{ValueStatus, "FAILED", "failed"},
		{ValueStatus, "ok", "ok"},
		{ValueType, "Vec<String>", "Vec<String>"},
	}
	for _, tt := range tests {
		if got := CanonicalText(tt.kind, tt.raw); got != tt.want {
			t.Errorf("CanonicalText(%v, %q) = %q, want %q", tt.kind, tt.raw, got, tt.want)
		}
	}
}

func TestCanonicalTextLines(t *testing.T) {
	raw := "line one   \nline two\t\n\n\n"
	want := "line one\nline two"
	if got := CanonicalText(ValueLines, raw); got != want {
		t.Errorf("lines canonical = %q, want %q", got, want)
	}

	// interior blank lines are structure and must survive
	raw = "a\n\nb"
	if got := CanonicalText(ValueLines, raw); got != "a\n\nb" {
		t.Errorf("interior blank dropped: %q", got)
	}
}

func TestCanonicalTextUnicodeNormalization(t *testing.T) {
	// "é" composed vs decomposed
	composed := "café"
	decomposed := "café"
	if CanonicalText(ValueText, composed) != CanonicalText(ValueText, decomposed) {
		t.Error("NFC must unify composed and decomposed forms")
	}
}

func TestEliminationOfEqualValues(t *testing.T) {
	c := NewCanonicalizer(DefaultLimits())

	// §8 round trip: textually different, semantically equal
	pairs := [][2]string{
		{"401", "401 "},
		{"401", `"401"`},
		{"401.0", "401"},
		{"  a  b ", "a b"},
	}
	for _, p := range pairs {
		_, ok, err := c.Canonicalize(Observation{
			Kind:        DevTest,
			ValueKind:   ValueNumber,
			ExpectedRaw: p[0],
			ActualRaw:   p[1],
			Location:    Location{File: "auth.rs", Line: 89},
		})
		if err != nil {
			t.Fatalf("Canonicalize(%q, %q) error: %v", p[0], p[1], err)
		}
		if ok {
			t.Errorf("pair (%q, %q) must be eliminated, a deviation was emitted", p[0], p[1])
		}
	}
}

func TestCanonicalizeEmitsDeviation(t *testing.T) {
	c := NewCanonicalizer(DefaultLimits())
	dev, ok, err := c.Canonicalize(Observation{
		Kind:        DevTest,
		ValueKind:   ValueNumber,
		ExpectedRaw: "401",
		ActualRaw:   "403",
		Location:    Location{File: "auth.rs", Line: 89, Col: 5},
		Frames:      []string{"test_auth_invalid_token", "validate_token", "token_expired"},
	})
	if err != nil {
		t.Fatalf("Canonicalize error: %v", err)
	}
	if !ok {
		t.Fatal("divergent values must emit a deviation")
	}

	if dev.Kind != DevTest {
		t.Errorf("kind = %v", dev.Kind)
	}
	if dev.Expected.Canonical != "401" || dev.Actual.Canonical != "403" {
		t.Errorf("canonicals = %q, %q", dev.Expected.Canonical, dev.Actual.Canonical)
	}
	if dev.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0 for a complete test assertion", dev.Confidence)
	}
	if dev.Trace.Depth() != 3 || dev.Trace.Outermost() != "test_auth_invalid_token" {
		t.Errorf("trace = %v", dev.Trace)
	}
	if dev.ID == "" {
		t.Error("id must be computed")
	}
	if !strings.Contains(dev.Summary, "expected 401") || !strings.Contains(dev.Summary, "got 403") {
		t.Errorf("summary = %q", dev.Summary)
	}
	if !strings.Contains(dev.Summary, "auth.rs:89") {
		t.Errorf("summary lacks location: %q", dev.Summary)
	}
}

func TestConfidenceScaling(t *testing.T) {
	c := NewCanonicalizer(DefaultLimits())

	base := Observation{
		Kind:        DevType,
		ValueKind:   ValueType,
		ExpectedRaw: "String",
		ActualRaw:   "i32",
		Location:    Location{File: "main.rs", Line: 4},
		Frames:      []string{"main"},
	}

	conf := func(obs Observation) float64 {
		t.Helper()
		dev, ok, err := c.Canonicalize(obs)
		if err != nil || !ok {
			t.Fatalf("Canonicalize failed: ok=%v err=%v", ok, err)
		}
		return dev.Confidence
	}

	full := conf(base)

	noLoc := base
	noLoc.Location = Location{}
	noTrace := base
	noTrace.Frames = nil
	degraded := base
	degraded.ProviderDegraded = true

	if full != 0.9 {
		t.Errorf("diagnostic baseline = %v, want 0.9", full)
	}
	if got := conf(noLoc); got >= full {
		t.Errorf("missing location must lower confidence: %v >= %v", got, full)
	}
	if got := conf(noTrace); got >= full {
		t.Errorf("missing trace must lower confidence: %v >= %v", got, full)
	}
	if got := conf(degraded); got >= full {
		t.Errorf("provider timeout must lower confidence: %v >= %v", got, full)
	}

	// floor and bounds
	worst := base
	worst.Location = Location{}
	worst.Frames = nil
	worst.ProviderDegraded = true
	got := conf(worst)
	if got < 0.3 || got > 1.0 {
		t.Errorf("confidence %v out of [0.3, 1.0]", got)
	}
}

func TestConfidenceFloor(t *testing.T) {
	c := NewCanonicalizer(DefaultLimits())
	// every scale-down at once: 0.9 * 0.85 * 0.95 * 0.8 = 0.5814, above
	// the floor; the floor guards future factors, bounds still hold
	dev, ok, err := c.Canonicalize(Observation{
		Kind:             DevBehavioral,
		ValueKind:        ValueText,
		ExpectedRaw:      "a",
		ActualRaw:        "b",
		ProviderDegraded: true,
	})
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if dev.Confidence < 0.3 {
		t.Errorf("confidence %v below floor", dev.Confidence)
	}
}

func TestContractViolations(t *testing.T) {
	c := NewCanonicalizer(DefaultLimits())

	cases := []struct {
		name string
		obs  Observation
		kind ContractErrorKind
	}{
		{
			name: "unknown deviation kind",
			obs:  Observation{Kind: DevKind(99), ValueKind: ValueText, ExpectedRaw: "a", ActualRaw: "b"},
			kind: ContractErrBadKind,
		},
		{
			name: "unknown value kind",
			obs:  Observation{Kind: DevTest, ValueKind: ValueKind(99), ExpectedRaw: "a", ActualRaw: "b"},
			kind: ContractErrBadValueKind,
		},
		{
			name: "both values empty",
			obs:  Observation{Kind: DevTest, ValueKind: ValueText, ExpectedRaw: "  ", ActualRaw: ""},
			kind: ContractErrNoValues,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := c.Canonicalize(tt.obs)
			if err == nil {
				t.Fatal("contract violation must error")
			}
			ce, isContract := err.(*ContractError)
			if !isContract {
				t.Fatalf("error type = %T", err)
			}
			if ce.Kind != tt.kind {
				t.Errorf("contract kind = %v, want %v", ce.Kind, tt.kind)
			}
		})
	}
}

func TestTraceCapTruncates(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxTraceFrames = 4
	c := NewCanonicalizer(limits)

	frames := make([]string, 10)
	for i := range frames {
		frames[i] = "frame"
	}
	dev, ok, err := c.Canonicalize(Observation{
		Kind:        DevRuntime,
		ValueKind:   ValueText,
		ExpectedRaw: "clean exit",
		ActualRaw:   "panic",
		Frames:      frames,
	})
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if dev.Trace.Depth() != 4 {
		t.Errorf("trace depth = %d, want 4", dev.Trace.Depth())
	}
	if !dev.Trace.Truncated {
		t.Error("truncation must be marked, never silent")
	}
}

func TestSummaryIsOneLine(t *testing.T) {
	c := NewCanonicalizer(DefaultLimits())
	dev, ok, err := c.Canonicalize(Observation{
		Kind:        DevBehavioral,
		ValueKind:   ValueLines,
		ExpectedRaw: "old line 1\nold line 2",
		ActualRaw:   "new line 1\nnew line 2",
		Location:    Location{File: "golden.txt", Line: 1},
	})
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if strings.Contains(dev.Summary, "\n") {
		t.Errorf("summary must be one line: %q", dev.Summary)
	}
}
