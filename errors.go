package deriv

import "fmt"

// StructuralError reports a defect in a Syntax value itself, as opposed
// to a rejection of some input. Per the engine's contract these are
// programmer errors, never returned as a parse result: they surface
// either from Validate (as an error) or as a panic of this same type
// from the hot derivation path if a defective syntax slips past
// validation and is driven anyway.
type StructuralError struct {
	Kind    StructuralDefect
	Message string
}

func (e *StructuralError) Error() string {
	return e.Message
}

// StructuralDefect enumerates the ways a Syntax can fail to be LL(1).
type StructuralDefect int

const (
	// DisjointnessViolated means two alternatives of a Disjunction
	// share a token kind in their FIRST sets, or both are nullable.
	DisjointnessViolated StructuralDefect = iota
	// UnreachableFailure means derive() descended into a Failure node,
	// which never happens for a well-formed LL(1) syntax driven within
	// its own FIRST set. Accept also panics with this kind when its
	// conversion rejects a token of its own kind.
	UnreachableFailure
)

func newDisjointnessError(shared Kind, bothNullable bool) *StructuralError {
	msg := fmt.Sprintf("disjunction is not LL(1): both alternatives accept kind %v", shared)
	if bothNullable {
		msg = "disjunction is not LL(1): both alternatives are nullable"
	}
	return &StructuralError{Kind: DisjointnessViolated, Message: msg}
}

func newUnreachableFailureError() *StructuralError {
	return &StructuralError{Kind: UnreachableFailure, Message: "derive reached a Failure node"}
}
