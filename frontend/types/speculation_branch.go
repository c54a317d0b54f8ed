package types

// speculationBranch is the transient handle passed to the solver while one
// union/intersection candidate is being attempted. It ties the attempt's
// case to its owning speculation id and carries the registry service
// explicitly (never ambient state).
//
// It lives only for the duration of one attempt and is never shared across
// attempts
type speculationBranch struct {
	// ignore, when non-nil, is a type whose involvement never counts
	// against the candidate; may stay nil
	ignore        SimpleType
	speculationID speculationID
	kase          *speculationCase
	state         *speculationState
}

// shouldDefer decides, for an obligation the solver is about to execute,
// whether it must be recorded on the branch's case instead. It returns true
// exactly when the obligation touches a variable still open for this
// speculation; the caller must execute the obligation immediately through
// the ordinary solving path when it returns false, in which case the case
// is left untouched.
//
// A deferred obligation is benign when every type it touches (not only the
// open ones) is either the ignored type or an instantiable placeholder:
// such an obligation resolves the same way whichever candidate wins, so it
// is logged for later diffing but never enlarges openVariables
func (b *speculationBranch) shouldDefer(action constraintAction) bool {
	registered := b.state.lookup(b.speculationID)

	touched := action.actionVariables()
	var relevant []*typeVariable
	for _, t := range touched {
		if tv, ok := unwrapProvenance(t).(*typeVariable); ok && registered.Contains(tv) {
			relevant = append(relevant, tv)
		}
	}
	if len(relevant) == 0 {
		return false
	}

	benign := true
	for _, t := range touched {
		if b.ignore != nil && reasonlessEqual(t, b.ignore) {
			continue
		}
		if isInstantiablePlaceholder(t) {
			continue
		}
		benign = false
		break
	}

	if benign {
		b.kase.record(true, action, nil)
	} else {
		b.kase.record(false, action, relevant)
	}
	return true
}
