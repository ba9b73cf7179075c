package ir

import "fmt"

// ContractErrorKind enumerates the ways a front end can hand the
// canonicalizer a malformed observation.
type ContractErrorKind uint8

const (
	// ContractErrBadKind means the observation's deviation kind is not
	// one of the five known kinds.
	ContractErrBadKind ContractErrorKind = iota + 1
	// ContractErrBadValueKind means the value kind is unknown.
	ContractErrBadValueKind
	// ContractErrNoValues means both candidate values are empty.
	ContractErrNoValues
)

// ContractError reports a front end defect: an observation that violates
// the resolver contract. It is surfaced loudly, never swallowed, because
// recovering would hide the defect.
type ContractError struct {
	Kind ContractErrorKind
	Obs  Observation
}

func (e *ContractError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ContractErrBadKind:
		return fmt.Sprintf("observation carries unknown deviation kind %d", uint8(e.Obs.Kind))
	case ContractErrBadValueKind:
		return fmt.Sprintf("observation carries unknown value kind %d", uint8(e.Obs.ValueKind))
	case ContractErrNoValues:
		return fmt.Sprintf("observation at %s has neither expected nor actual value", e.Obs.Location)
	default:
		return fmt.Sprintf("observation contract violation kind=%d", e.Kind)
	}
}
