package ir

// Observation is what an expectation resolver emits: one candidate
// divergence, raw and unjudged. The canonicalizer decides whether it is a
// real deviation and what it is worth.
type Observation struct {
	Kind      DevKind
	ValueKind ValueKind

	// ExpectedRaw and ActualRaw are candidate texts exactly as the tool
	// printed them. Empty strings are legitimate for ValueLines (a pure
	// addition diffs against an empty block); both empty is a contract
	// violation.
	ExpectedRaw string
	ActualRaw   string

	Location Location
	Frames   []string

	// Hint is the optional context-provider enrichment, empty when the
	// provider was unavailable or had nothing.
	Hint string

	// ProviderDegraded marks that a context query was attempted and timed
	// out or failed; confidence drops but the observation survives.
	ProviderDegraded bool
}
