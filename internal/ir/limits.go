package ir

import "time"

// Limits bounds the resource-sensitive parts of a run: trace depth,
// alternate-route retention after dedup, and how long one code-context
// query may block.
type Limits struct {
	MaxTraceFrames  int
	MaxAltTraces    int
	ProviderTimeout time.Duration
}

// DefaultLimits returns the bounds used when a caller configures nothing.
func DefaultLimits() Limits {
	return Limits{
		MaxTraceFrames:  32,
		MaxAltTraces:    8,
		ProviderTimeout: 300 * time.Millisecond,
	}
}
