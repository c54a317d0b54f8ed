package types

import (
	set "github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
)

// speculationID identifies one union/intersection resolution for the
// lifetime of a checking session. Allocated by TypeState.newSpeculationID
type speculationID = int

// speculationState maps each live speculation to the set of type variables
// still open (unresolved) for it. It is a service owned by TypeState: ids
// are registered once, grow monotonically, and are never torn down
// individually. An ancestor speculation's set must stay valid while its
// nested descendants run, and the whole state is dropped with its session.
//
// Misuse (double init, lookup of an unknown id) is a programmer defect,
// not a type error: it panics with a stacked error so it can never be
// mistaken for an ordinary NoMatch
type speculationState struct {
	unresolved map[speculationID]*set.HashSet[*typeVariable, uint64]
}

func newSpeculationState() *speculationState {
	return &speculationState{
		unresolved: make(map[speculationID]*set.HashSet[*typeVariable, uint64]),
	}
}

func (s *speculationState) init(id speculationID) {
	if _, ok := s.unresolved[id]; ok {
		panic(errors.Errorf("speculation %d initialised twice", id))
	}
	s.unresolved[id] = set.NewHashSet[*typeVariable, uint64](0)
}

// add marks tv as open for speculation id. Adding the same variable twice
// is fine; adding to an unregistered id is not
func (s *speculationState) add(id speculationID, tv *typeVariable) {
	s.lookup(id).Insert(tv)
}

func (s *speculationState) lookup(id speculationID) *set.HashSet[*typeVariable, uint64] {
	found, ok := s.unresolved[id]
	if !ok {
		panic(errors.Errorf("lookup of unregistered speculation %d", id))
	}
	return found
}
