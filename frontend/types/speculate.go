package types

import (
	set "github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
	"github.com/sable-lang/sable/frontend/sberr"
	"github.com/sable-lang/sable/internal/log"
)

var speculateLogger = log.ForSection("speculate")

// unionMembers flattens nested unions, preserving declaration order
func unionMembers(t SimpleType) []SimpleType {
	if u, ok := unwrapProvenance(t).(unionType); ok {
		return append(unionMembers(u.lhs), unionMembers(u.rhs)...)
	}
	return []SimpleType{t}
}

// intersectionMembers flattens nested intersections, preserving declaration order
func intersectionMembers(t SimpleType) []SimpleType {
	if i, ok := unwrapProvenance(t).(intersectionType); ok {
		return append(intersectionMembers(i.lhs), intersectionMembers(i.rhs)...)
	}
	return []SimpleType{t}
}

// speculateUnionRhs resolves `lhs <: A|B|...` by tentatively trying each
// member as the one lhs flows into
func (cs *constraintSolver) speculateUnionRhs(lhs SimpleType, rhs unionType, cctx constraintContext) bool {
	return cs.speculate(lhs, rhs, unionMembers(rhs), func(sub *constraintSolver, candidate SimpleType) bool {
		return sub.rec(lhs, candidate, true, cctx)
	}, cctx)
}

// speculateIntersectionLhs resolves `A&B&... <: rhs` by tentatively trying
// each member as the one that satisfies rhs
func (cs *constraintSolver) speculateIntersectionLhs(lhs intersectionType, rhs SimpleType, cctx constraintContext) bool {
	return cs.speculate(lhs, rhs, intersectionMembers(lhs), func(sub *constraintSolver, candidate SimpleType) bool {
		return sub.rec(candidate, rhs, true, cctx)
	}, cctx)
}

// speculate tries candidates in order, each against a fresh case on a
// sub-solver whose branch records relevant obligations instead of executing
// them. Tentative successes are ranked with caseDiff and the least
// additionally-constrained one is committed by replaying its log; outright
// failures across the board aggregate into a single error
func (cs *constraintSolver) speculate(
	scrutinee, target SimpleType,
	candidates []SimpleType,
	attempt func(sub *constraintSolver, candidate SimpleType) bool,
	cctx constraintContext,
) bool {
	cs.speculations++
	specID := cs.ctx.newSpeculationID()
	cs.ctx.speculation.init(specID)
	for _, tv := range openVariablesOf(scrutinee, target) {
		cs.ctx.speculation.add(specID, tv)
	}
	cs.ctx.speculateLogger.Debug("speculate: begin",
		"scrutinee", scrutinee, "target", target,
		"id", specID, "open", cs.ctx.speculation.lookup(specID).Size())

	var conditional []*speculationCase
	var failures []sberr.SableError
	for i, candidate := range candidates {
		kase := newSpeculationCase(i)
		branch := &speculationBranch{
			ignore:        cs.ctx.speculationIgnore,
			speculationID: specID,
			kase:          kase,
			state:         cs.ctx.speculation,
		}
		var attemptErrs []sberr.SableError
		sub := cs.speculativeSub(branch, &attemptErrs)
		terminated := attempt(sub, candidate)
		cs.fuel = sub.fuel
		cs.constrainCalls = sub.constrainCalls
		cs.speculations = sub.speculations

		state := matchStateOf(terminated, attemptErrs, kase)
		switch state := state.(type) {
		case noMatch:
			cs.ctx.speculateLogger.Debug("speculate: candidate failed outright",
				"id", specID, "ordinal", i, "candidate", candidate, "errors", len(state.errors))
			failures = append(failures, state.errors...)
		case conditionalMatch:
			cs.ctx.speculateLogger.Debug("speculate: candidate matched conditionally",
				"id", specID, "ordinal", i, "candidate", candidate, "deferred", len(state.kase.log))
			conditional = append(conditional, state.kase)
		}
	}

	if len(conditional) == 0 {
		return cs.onErr(sberr.New(sberr.NewNoCandidateMatch{
			Positioner:      cs.prov.Range,
			Scrutinee:       scrutinee.String(),
			Target:          target.String(),
			CandidateErrors: failures,
		}))
	}

	// commit the tentative success that is no more constrained than every
	// alternative: its failure on replay would be implied by any of theirs
	for _, kase := range conditional {
		extra := false
		for _, other := range conditional {
			if other == kase {
				continue
			}
			if len(caseDiff(kase, other)) > 0 {
				extra = true
				break
			}
		}
		if !extra {
			cs.ctx.speculateLogger.Debug("speculate: committing candidate",
				"id", specID, "ordinal", kase.ordinal, "deferred", len(kase.log))
			terminated := cs.replay(kase, cctx)
			cs.ctx.speculateLogger.Debug("speculate: replayed",
				"id", specID, "bounds", boundsString(scrutinee))
			return terminated
		}
	}

	// several candidates each pin down variables the others do not:
	// committing any one of them could produce misleading errors
	pinned := set.NewTreeSet[*typeVariable](compareTypeVars)
	for _, kase := range conditional {
		for _, other := range conditional {
			if other != kase {
				pinned.InsertSlice(caseDiff(kase, other))
			}
		}
	}
	varNames := make([]string, 0, pinned.Size())
	for _, tv := range pinned.Slice() {
		varNames = append(varNames, tv.String())
	}
	return cs.onErr(sberr.New(sberr.NewAmbiguousCandidates{
		Positioner: cs.prov.Range,
		Scrutinee:  scrutinee.String(),
		Target:     target.String(),
		Variables:  varNames,
	}))
}

// matchStateOf classifies one finished attempt
func matchStateOf(terminated bool, errs []sberr.SableError, kase *speculationCase) matchState {
	if terminated || len(errs) > 0 {
		return noMatch{errors: errs}
	}
	return conditionalMatch{kase: kase}
}

// openVariablesOf collects every type variable reachable from either side,
// bounds included. Instantiable placeholders are registered too: they make
// obligations relevant (hence recorded) while keeping them benign
func openVariablesOf(scrutinee, target SimpleType) []*typeVariable {
	vars := getVariables(scrutinee)
	seen := set.HashSetFrom[*typeVariable, uint64](vars)
	for _, tv := range getVariables(target) {
		if seen.Insert(tv) {
			vars = append(vars, tv)
		}
	}
	return vars
}

// speculativeSub derives a solver for one candidate attempt. It shares fuel
// and counters with its parent but collects errors locally (the first one
// abandons the attempt) and gets a fresh cache: conclusions cached during a
// rejected attempt must not leak into the next
func (cs *constraintSolver) speculativeSub(branch *speculationBranch, errs *[]sberr.SableError) *constraintSolver {
	return &constraintSolver{
		ctx:  cs.ctx,
		prov: cs.prov,
		onErr: func(err sberr.SableError) bool {
			*errs = append(*errs, err)
			return true
		},
		level:          cs.level,
		branch:         branch,
		cache:          set.NewHashSet[*constraintPair, uint64](0),
		fuel:           cs.fuel,
		depth:          cs.depth,
		stack:          nil,
		constrainCalls: cs.constrainCalls,
		speculations:   cs.speculations,
	}
}

// replay executes a winning candidate's deferred obligations through the
// ordinary solving path, in discovery order. When this speculation is
// itself nested inside another candidate attempt, the replayed obligations
// are offered to the enclosing branch like any others
func (cs *constraintSolver) replay(kase *speculationCase, cctx constraintContext) bool {
	for _, entry := range kase.log {
		if cs.replayAction(entry.action, cctx) {
			return true
		}
	}
	return false
}

func (cs *constraintSolver) replayAction(action constraintAction, cctx constraintContext) bool {
	switch action := action.(type) {
	case flowAction:
		switch sink := action.sink.(type) {
		case upperBoundSink:
			return cs.rec(action.source, sink.target, true, cctx)
		case callSink:
			return cs.constrainCall(action.source, sink.args, sink.ret, cctx)
		}
	case unifyAction:
		return cs.unify(action.left, action.right, cctx)
	}
	panic(errors.Errorf("unhandled constraint action %T", action))
}
