package ir

import "strings"

// Trace is an ordered execution path, outermost frame first. Frames are
// symbolic names; the cap on length comes from Limits and truncation is
// always explicit.
type Trace struct {
	Frames    []string
	Truncated bool
}

// NewTrace copies frames into a Trace, truncating at maxFrames when the
// source is longer. maxFrames <= 0 means no bound.
func NewTrace(frames []string, maxFrames int) Trace {
	if maxFrames > 0 && len(frames) > maxFrames {
		return Trace{
			Frames:    append([]string(nil), frames[:maxFrames]...),
			Truncated: true,
		}
	}
	return Trace{Frames: append([]string(nil), frames...)}
}

// Empty reports whether the trace carries no frames.
func (t Trace) Empty() bool { return len(t.Frames) == 0 }

// Depth returns the number of frames.
func (t Trace) Depth() int { return len(t.Frames) }

// String joins frames outermost to innermost.
func (t Trace) String() string {
	s := strings.Join(t.Frames, " > ")
	if t.Truncated {
		s += " > ..."
	}
	return s
}

// Equal reports frame-for-frame equality, truncation flag included.
func (t Trace) Equal(other Trace) bool {
	if t.Truncated != other.Truncated || len(t.Frames) != len(other.Frames) {
		return false
	}
	for i := range t.Frames {
		if t.Frames[i] != other.Frames[i] {
			return false
		}
	}
	return true
}

// CommonPrefixLen returns how many outermost frames two traces share.
func (t Trace) CommonPrefixLen(other Trace) int {
	n := min(len(t.Frames), len(other.Frames))
	for i := 0; i < n; i++ {
		if t.Frames[i] != other.Frames[i] {
			return i
		}
	}
	return n
}

// Outermost returns the first frame, or "" for an empty trace.
func (t Trace) Outermost() string {
	if len(t.Frames) == 0 {
		return ""
	}
	return t.Frames[0]
}
