package types

import (
	"slices"

	set "github.com/hashicorp/go-set/v3"
)

type caseLogEntry struct {
	benign bool
	action constraintAction
}

// speculationCase accumulates everything one candidate attempt deferred:
// the ordered log of intercepted obligations and the open variables the
// attempt actually constrained. It is owned by exactly one attempt and read
// once, at the end, by the candidate-selection loop.
//
// openVariables is always a subset of the variables appearing in the log's
// non-benign entries; the log preserves discovery order, which is also
// replay order
type speculationCase struct {
	ordinal       int
	openVariables *set.HashSet[*typeVariable, uint64]
	log           []caseLogEntry
}

func newSpeculationCase(ordinal int) *speculationCase {
	return &speculationCase{
		ordinal:       ordinal,
		openVariables: set.NewHashSet[*typeVariable, uint64](0),
	}
}

// record appends the obligation to the log unconditionally. Benign entries
// never enlarge openVariables, but they must still be logged: caseDiff has
// to recognise them as "also present" when comparing against another
// candidate's log. relevant must already be filtered to variables that are
// registered as open for the owning speculation
func (c *speculationCase) record(benign bool, action constraintAction, relevant []*typeVariable) {
	c.log = append(c.log, caseLogEntry{benign: benign, action: action})
	if benign {
		return
	}
	c.openVariables.InsertSlice(relevant)
}

// caseDiff returns the open variables pinned down by obligations unique to
// a's attempt: non-benign entries of a whose action has no equal
// counterpart anywhere in b's log, benign or not.
//
// An empty result means every informative obligation a produced also
// appears in b, so a is no more constrained than b: if a's obligations
// eventually fail on replay, b's would have failed too, and a contributes
// no new information. The candidate-selection loop commits the candidate
// whose diff against every tentative alternative is empty.
//
// The result is ordered by ascending variable id so callers see a
// deterministic sequence
func caseDiff(a, b *speculationCase) []*typeVariable {
	pinned := set.NewTreeSet[*typeVariable](compareTypeVars)
	for _, entry := range a.log {
		if entry.benign {
			continue
		}
		alsoInB := slices.ContainsFunc(b.log, func(other caseLogEntry) bool {
			return actionsEqual(entry.action, other.action)
		})
		if alsoInB {
			continue
		}
		for _, t := range entry.action.actionVariables() {
			tv, ok := unwrapProvenance(t).(*typeVariable)
			if ok && a.openVariables.Contains(tv) {
				pinned.Insert(tv)
			}
		}
	}
	return pinned.Slice()
}
