package ir

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
)

// DevKind classifies what diverged. The order of the constants is the
// severity rank: a build break blocks everything behind it.
type DevKind uint8

const (
	// DevInvalid indicates a malformed observation.
	DevInvalid DevKind = iota
	// DevBuild is a failed compilation or build step.
	DevBuild
	// DevType is a type mismatch diagnostic.
	DevType
	// DevTest is a failed test assertion.
	DevTest
	// DevRuntime is a crash, panic, or unexpected exit.
	DevRuntime
	// DevBehavioral is output differing from a recorded expectation,
	// such as a diff against a golden file.
	DevBehavioral
)

// String returns the string representation of DevKind.
func (k DevKind) String() string {
	switch k {
	case DevBuild:
		return "build"
	case DevType:
		return "type"
	case DevTest:
		return "test"
	case DevRuntime:
		return "runtime"
	case DevBehavioral:
		return "behavioral"
	default:
		return "invalid"
	}
}

// Valid reports whether k is one of the five deviation kinds.
func (k DevKind) Valid() bool {
	return k >= DevBuild && k <= DevBehavioral
}

// Deviation is the canonical record of one divergence from expectation.
// Created only by the canonicalizer and treated as immutable afterwards;
// the reducer builds enriched copies rather than mutating.
type Deviation struct {
	ID         string
	Kind       DevKind
	Expected   Value
	Actual     Value
	Location   Location
	Trace      Trace
	Confidence float64
	Summary    string
	Hint       string

	// Dedup enrichment, populated by the reducer only. AltTraces holds a
	// bounded sample of the equivalent routes that reached the same root
	// cause; RouteCount is the true total, sample bound notwithstanding.
	AltTraces  []Trace
	RouteCount int
}

// ComputeID hashes the identity fields of a deviation: kind, location
// file and line, and both canonical values. Column, trace, confidence,
// and raw text never participate, so the same root cause reported with
// different surface text or column detail collapses to one id.
func ComputeID(kind DevKind, loc Location, expected, actual string) string {
	h := sha256.New()
	var kindByte [1]byte
	kindByte[0] = byte(kind)
	h.Write(kindByte[:])
	writeField(h, loc.File)
	var line [4]byte
	binary.LittleEndian.PutUint32(line[:], loc.Line)
	h.Write(line[:])
	writeField(h, expected)
	writeField(h, actual)
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8])
}

// writeField writes a length-prefixed string so adjacent fields can never
// bleed into each other ("ab"+"c" vs "a"+"bc").
func writeField(w io.Writer, s string) {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
	w.Write(n[:])
	io.WriteString(w, s)
}
