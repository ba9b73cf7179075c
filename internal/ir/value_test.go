package ir

import "testing"

func TestInferValueKind(t *testing.T) {
	tests := []struct {
		expected string
		actual   string
		want     ValueKind
	}{
		{"403", "401", ValueNumber},
		{"0x1f", "31", ValueNumber},
		{"3.14", "2.72", ValueNumber},
		{" 401 ", "403", ValueNumber},
		{"true", "false", ValueBool},
		{"True", " FALSE ", ValueBool},
		{"401", "unauthorized", ValueText},
		{"hit", "miss", ValueText},
		{"", "403", ValueNumber},
		{"403", "", ValueNumber},
		{"", "", ValueText},
		{"a\nb", "a\nc", ValueLines},
		{"one line", "two\nlines", ValueLines},
	}
	for _, tt := range tests {
		if got := InferValueKind(tt.expected, tt.actual); got != tt.want {
			t.Errorf("InferValueKind(%q, %q) = %s, want %s", tt.expected, tt.actual, got, tt.want)
		}
	}
}

func TestValueEqual(t *testing.T) {
	a := Value{Kind: ValueNumber, Canonical: "403", Raw: "403"}
	b := Value{Kind: ValueNumber, Canonical: "403", Raw: `"403"`}
	if !a.Equal(b) {
		t.Error("raw text must not participate in equality")
	}
	c := Value{Kind: ValueText, Canonical: "403"}
	if a.Equal(c) {
		t.Error("different kinds must not compare equal")
	}
	d := Value{Kind: ValueNumber, Canonical: "401"}
	if a.Equal(d) {
		t.Error("different canonical forms must not compare equal")
	}
}
