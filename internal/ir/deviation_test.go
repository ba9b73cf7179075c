package ir

import "testing"

func TestComputeIDStable(t *testing.T) {
	loc := Location{File: "auth.rs", Line: 89, Col: 5}
	a := ComputeID(DevTest, loc, "401", "403")
	b := ComputeID(DevTest, loc, "401", "403")
	if a != b {
		t.Fatalf("same inputs, different ids: %s vs %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("id length = %d, want 16 hex chars", len(a))
	}
}

func TestComputeIDIgnoresColumn(t *testing.T) {
	withCol := Location{File: "auth.rs", Line: 89, Col: 5}
	noCol := Location{File: "auth.rs", Line: 89}
	if ComputeID(DevTest, withCol, "401", "403") != ComputeID(DevTest, noCol, "401", "403") {
		t.Error("column detail must not split one root cause into two ids")
	}
}

func TestComputeIDSeparatesFields(t *testing.T) {
	loc := Location{File: "a.rs", Line: 1}
	// concatenation ambiguity: ("ab","c") vs ("a","bc")
	if ComputeID(DevTest, loc, "ab", "c") == ComputeID(DevTest, loc, "a", "bc") {
		t.Error("field boundaries must be hashed, not just bytes")
	}
}

func TestComputeIDVariesByInput(t *testing.T) {
	loc := Location{File: "auth.rs", Line: 89}
	base := ComputeID(DevTest, loc, "401", "403")

	variants := []string{
		ComputeID(DevBuild, loc, "401", "403"),
		ComputeID(DevTest, Location{File: "auth.rs", Line: 90}, "401", "403"),
		ComputeID(DevTest, Location{File: "other.rs", Line: 89}, "401", "403"),
		ComputeID(DevTest, loc, "402", "403"),
		ComputeID(DevTest, loc, "401", "404"),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collides with base id", i)
		}
	}
}

func TestDevKindValid(t *testing.T) {
	for _, k := range []DevKind{DevBuild, DevType, DevTest, DevRuntime, DevBehavioral} {
		if !k.Valid() {
			t.Errorf("%v should be valid", k)
		}
	}
	if DevInvalid.Valid() || DevKind(200).Valid() {
		t.Error("invalid kinds must not pass Valid")
	}
}

func TestDevKindString(t *testing.T) {
	want := map[DevKind]string{
		DevBuild:      "build",
		DevType:       "type",
		DevTest:       "test",
		DevRuntime:    "runtime",
		DevBehavioral: "behavioral",
		DevInvalid:    "invalid",
	}
	for k, s := range want {
		if k.String() != s {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), s)
		}
	}
}
