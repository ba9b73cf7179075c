// Package reportfmt renders sealed reports and pipeline intermediates
// for humans and for machines. Pretty output goes line-per-fact so it
// stays grep-friendly; JSON output mirrors the domain types through
// dedicated DTOs.
package reportfmt

// PrettyOpts configures human-readable report rendering.
type PrettyOpts struct {
	Color    bool
	Width    int // detail lines wider than this are cut; 0 means no limit
	Max      int // deviations shown; 0 means all
	Traces   bool
	Hints    bool
	Clusters bool
	Footer   bool // provenance summary after the listing
}

// JSONOpts configures JSON report output.
type JSONOpts struct {
	Max               int // deviations included; 0 means all
	IncludeRaw        bool
	IncludeTraces     bool
	IncludeProvenance bool
}
