package types

import (
	"github.com/sable-lang/sable/frontend/sberr"
)

// matchState is the two-shape outcome of one candidate attempt. The
// candidate-selection loop produces and consumes these; no transition
// logic exists here
type matchState interface {
	isMatchState()
}

var (
	_ matchState = (*noMatch)(nil)
	_ matchState = (*conditionalMatch)(nil)
)

// noMatch means the candidate's direct (non-deferred) checks failed
// outright. The errors are ordinary type-check failures, always
// recoverable by trying the next candidate
type noMatch struct {
	errors []sberr.SableError
}

func (noMatch) isMatchState() {}

// conditionalMatch means the direct checks succeeded, but the case's log
// holds obligations whose validity is contingent on this candidate being
// the final choice; they must be replayed through the ordinary solving
// path before the candidate is fully accepted
type conditionalMatch struct {
	kase *speculationCase
}

func (conditionalMatch) isMatchState() {}
