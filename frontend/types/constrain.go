package types

import (
	"fmt"
	"slices"

	set "github.com/hashicorp/go-set/v3"
	"github.com/sable-lang/sable/frontend/ir"
	"github.com/sable-lang/sable/frontend/sberr"
	"github.com/sable-lang/sable/util"
)

// constraintPair holds a pair of types being constrained.
type constraintPair struct {
	lhs SimpleType
	rhs SimpleType
}

func (p *constraintPair) Hash() uint64 {
	return 31*p.lhs.Hash() ^ p.rhs.Hash()
}

// constraintContext tracks the chain of constraints for error reporting.
type constraintContext struct {
	lhsChain []SimpleType
	rhsChain []SimpleType
}

// constraintSolver holds the state for a single constrain call.
type constraintSolver struct {
	ctx   *TypeCtx
	prov  typeProvenance
	onErr func(err sberr.SableError) (terminateEarly bool)
	level level

	// branch is non-nil while a union/intersection candidate attempt is
	// running; every obligation is offered to it before execution
	branch *speculationBranch

	cache *set.HashSet[*constraintPair, uint64]
	fuel  int
	depth int
	stack []constraintPair

	constrainCalls int
	speculations   int
}

const (
	defaultStartingFuel = 10000
	defaultDepthLimit   = 250
)

func (ctx *TypeCtx) newConstraintSolver(
	prov typeProvenance,
	onErr func(err sberr.SableError) (terminateEarly bool),
) *constraintSolver {
	return &constraintSolver{
		ctx:   ctx,
		prov:  prov,
		onErr: onErr,
		level: ctx.level,
		cache: set.NewHashSet[*constraintPair, uint64](0),
		fuel:  defaultStartingFuel,
		stack: make([]constraintPair, 0, defaultDepthLimit),
	}
}

func (cs *constraintSolver) consumeFuel(currentLhs, currentRhs SimpleType) bool {
	cs.fuel--
	cs.depth++
	if cs.depth > defaultDepthLimit {
		return cs.onErr(sberr.New(sberr.NewTypeMismatch{
			Positioner: cs.prov.Range,
			First:      fmt.Sprintf("%s (%s)", currentLhs, currentLhs.prov().desc),
			Second:     fmt.Sprintf("%s (%s)", currentRhs, currentRhs.prov().desc),
			Reason:     "exceeded max depth limit",
		}))
	}
	if cs.fuel <= 0 {
		return cs.onErr(sberr.New(sberr.NewTypeMismatch{
			Positioner: cs.prov.Range,
			First:      fmt.Sprintf("%s (%s)", currentLhs, currentLhs.prov().desc),
			Second:     fmt.Sprintf("%s (%s)", currentRhs, currentRhs.prov().desc),
			Reason:     "ran out of fuel",
		}))
	}
	return false // Continue
}

func (cs *constraintSolver) reportError(failureMsg string, lhs, rhs SimpleType, cctx constraintContext) bool {
	lhsProv := lhs.prov()
	if len(cctx.lhsChain) > 0 {
		lhsProv = cctx.lhsChain[0].prov() // Use the start of the chain
	}
	rhsProv := rhs.prov()
	if len(cctx.rhsChain) > 0 {
		rhsProv = cctx.rhsChain[0].prov()
	}

	err := sberr.New(sberr.NewTypeMismatch{
		Positioner: cs.prov.Range,
		First:      fmt.Sprintf("%s (%s)", lhs.String(), lhsProv.desc),
		Second:     fmt.Sprintf("%s (%s)", rhs.String(), rhsProv.desc),
		Reason:     failureMsg,
	})
	return cs.onErr(err)
}

// push pushes a constraint onto the stack for depth tracking.
func (cs *constraintSolver) push(lhs, rhs SimpleType) {
	if cs.stack != nil { // Avoid allocation if stack tracking is disabled
		cs.stack = append(cs.stack, constraintPair{lhs, rhs})
	}
}

// pop removes the last constraint from the stack.
func (cs *constraintSolver) pop() {
	cs.depth--
	if len(cs.stack) > 0 {
		cs.stack = cs.stack[:len(cs.stack)-1]
	}
}

// makeProxy wraps a type with provenance information from the constraint chain.
func makeProxy(ty SimpleType, prov typeProvenance) SimpleType {
	if prov == emptyProv {
		return ty
	}
	return wrappingProvType{
		SimpleType:      ty,
		proxyProvenance: prov,
	}
}

// addUpperBound adds rhs as an upper bound to the type variable tv.
func (cs *constraintSolver) addUpperBound(tv *typeVariable, rhs SimpleType, cctx constraintContext) bool {
	cs.ctx.logger.Debug("constrain: adding upper bound", "bound", rhs, "var", tv)
	chains := util.ConcatIter(sliceSeq(cctx.rhsChain), util.Reverse(cctx.lhsChain))
	newBound := rhs
	for bound := range chains {
		newBound = makeProxy(newBound, bound.prov())
	}

	tv.upperBounds = append(tv.upperBounds, newBound)

	// Propagate constraints: L <: new_rhs for all L in lowerBounds
	for _, lb := range tv.lowerBounds {
		if cs.rec(lb, rhs, true, cctx) {
			return true
		}
	}
	return false
}

// addLowerBound adds lhs as a lower bound to the type variable tv.
func (cs *constraintSolver) addLowerBound(tv *typeVariable, lhs SimpleType, cctx constraintContext) bool {
	cs.ctx.logger.Debug("constrain: adding lower bound", "bound", lhs, "var", tv)
	newBound := lhs
	for c := range util.ConcatIter(sliceSeq(cctx.lhsChain), util.Reverse(cctx.rhsChain)) {
		newBound = makeProxy(newBound, c.prov())
	}

	tv.lowerBounds = append(tv.lowerBounds, newBound)

	// Propagate constraints: new_lhs <: U for all U in upperBounds
	for _, ub := range tv.upperBounds {
		if cs.rec(lhs, ub, true, cctx) {
			return true
		}
	}
	return false
}

// Constrain enforces lhs <: rhs and records any failures on the context's
// Errors. This is the public entry point; callers that need custom error
// handling use constrain directly
func (ctx *TypeCtx) Constrain(lhs, rhs SimpleType, pos ir.Positioner) {
	prov := typeProvenance{Range: ir.RangeOf(pos), desc: "constraint"}
	ctx.constrain(lhs, rhs, prov, func(err sberr.SableError) bool {
		ctx.addError(err)
		return false
	})
}

// constrain enforces a subtyping relationship `lhs` <: `rhs`.
// It returns true if constraint solving should terminate early due to an error.
func (ctx *TypeCtx) constrain(
	lhs, rhs SimpleType,
	prov typeProvenance,
	onErr func(err sberr.SableError) (terminateEarly bool),
) bool {
	solver := ctx.newConstraintSolver(prov, onErr)
	ctx.logger.Debug("constrain: begin for", "lhs", lhs, "rhs", rhs)
	return solver.rec(lhs, rhs, true, constraintContext{})
}

// rec is the main recursive function for constraining.
// It handles fuel, depth, the speculation hook, context propagation, and caching.
// Returns true if constraint solving should terminate early.
func (cs *constraintSolver) rec(
	lhs, rhs SimpleType,
	sameLevel bool,
	cctx constraintContext,
) bool {
	cs.constrainCalls++
	cs.push(lhs, rhs)
	defer cs.pop()

	if cs.consumeFuel(lhs, rhs) {
		return true
	}

	// A live candidate attempt may claim this obligation before any of it
	// executes: recording instead of executing is what keeps a rejected
	// candidate from leaving wrong bounds behind
	if cs.branch != nil && cs.branch.shouldDefer(flowAction{source: lhs, sink: upperBoundSink{target: rhs}}) {
		cs.ctx.logger.Debug("constrain: deferred", "lhs", lhs, "rhs", rhs, "case", cs.branch.kase.ordinal)
		return false
	}

	var nextCctx constraintContext
	if sameLevel {
		nextCctx = cctx
		if len(cctx.lhsChain) == 0 || !reasonlessEqual(cctx.lhsChain[0], lhs) {
			nextCctx.lhsChain = slices.Insert(cctx.lhsChain, 0, lhs)
		}
		if len(cctx.rhsChain) == 0 || !reasonlessEqual(cctx.rhsChain[0], rhs) {
			nextCctx.rhsChain = slices.Insert(cctx.rhsChain, 0, rhs)
		}
	} else {
		nextCctx = constraintContext{
			lhsChain: []SimpleType{lhs},
			rhsChain: []SimpleType{rhs},
		}
	}

	return cs.recImpl(lhs, rhs, nextCctx)
}

// unify enforces `t1 = t2` by constraining in both directions, unless a
// live candidate attempt defers the whole equality as one obligation
func (cs *constraintSolver) unify(t1, t2 SimpleType, cctx constraintContext) bool {
	if cs.branch != nil && cs.branch.shouldDefer(unifyAction{left: t1, right: t2}) {
		cs.ctx.logger.Debug("constrain: deferred unification", "left", t1, "right", t2, "case", cs.branch.kase.ordinal)
		return false
	}
	if cs.rec(t1, t2, true, cctx) {
		return true
	}
	return cs.rec(t2, t1, true, cctx)
}

// constrainCall enforces that fn can be applied to args yielding ret. The
// sink keeps its call shape while deferred so that diffing sees a call
// obligation, not the function type it lowers to
func (cs *constraintSolver) constrainCall(fn SimpleType, args []SimpleType, ret SimpleType, cctx constraintContext) bool {
	if cs.branch != nil && cs.branch.shouldDefer(flowAction{source: fn, sink: callSink{args: args, ret: ret}}) {
		cs.ctx.logger.Debug("constrain: deferred call", "fn", fn, "case", cs.branch.kase.ordinal)
		return false
	}
	wanted := funcType{args: args, ret: ret, withProvenance: fn.prov().embed()}
	return cs.rec(fn, wanted, true, cctx)
}

// recImpl contains the core subtyping logic based on type structure.
// Returns true if constraint solving should terminate early.
func (cs *constraintSolver) recImpl(
	lhs, rhs SimpleType,
	cctx constraintContext,
) bool {
	cs.ctx.logger.Debug(fmt.Sprintf("constrain %s <: %s", lhs, rhs), "level", cs.level, "fuel", cs.fuel)

	if cs.ctx.TypesEquivalent(lhs, rhs) {
		return false // Success
	}

	pair := &constraintPair{lhs, rhs}
	if cs.cache.Contains(pair) {
		return false // Success (already processed)
	}
	cs.cache.Insert(pair)

	// unwrap provenance wrappers so the checks below see the underlying types
	lhs, rhs = unwrapProvenance(lhs), unwrapProvenance(rhs)

	if isBottom(lhs) || isAny(lhs) {
		return false
	}
	if isTop(rhs) || isAny(rhs) {
		return false
	}
	if isErrorType(lhs) || isErrorType(rhs) {
		return false // errors absorb constraints to avoid cascading reports
	}

	if lhsNeg, ok := lhs.(negType); ok {
		if rhsNeg, ok := rhs.(negType); ok {
			// ~L <: ~R  =>  R <: L
			return cs.rec(rhsNeg.negated, lhsNeg.negated, true, cctx)
		}
	}

	if lhsFn, ok := lhs.(funcType); ok {
		if rhsFn, ok := rhs.(funcType); ok {
			return cs.constrainFuncFunc(lhsFn, rhsFn, cctx)
		}
	}

	if lhsClassTag, ok := lhs.(classTag); ok {
		if rhsClassTag, ok := rhs.(classTag); ok {
			if reasonlessEqual(lhsClassTag, rhsClassTag) || lhsClassTag.containsParentST(rhsClassTag.id) {
				return false
			}
		}
	}

	if lhsVar, ok := lhs.(*typeVariable); ok {
		return cs.addUpperBound(lhsVar, rhs, cctx)
	}
	if rhsVar, ok := rhs.(*typeVariable); ok {
		return cs.addLowerBound(rhsVar, lhs, cctx)
	}

	if lhsTuple, ok := lhs.(tupleType); ok {
		if rhsTuple, ok := rhs.(tupleType); ok {
			return cs.constrainTupleTuple(lhsTuple, rhsTuple, cctx)
		}
	}

	if lhsUnion, ok := lhs.(unionType); ok {
		// (A|B) <: R  =>  A <: R and B <: R
		if cs.rec(lhsUnion.lhs, rhs, true, cctx) {
			return true
		}
		return cs.rec(lhsUnion.rhs, rhs, true, cctx)
	}
	if rhsInter, ok := rhs.(intersectionType); ok {
		// L <: (A&B)  =>  L <: A and L <: B
		if cs.rec(lhs, rhsInter.lhs, true, cctx) {
			return true
		}
		return cs.rec(lhs, rhsInter.rhs, true, cctx)
	}

	// the remaining composite shapes admit several ways to succeed, so
	// they go through speculative candidate attempts
	if rhsUnion, ok := rhs.(unionType); ok {
		return cs.speculateUnionRhs(lhs, rhsUnion, cctx)
	}
	if lhsInter, ok := lhs.(intersectionType); ok {
		return cs.speculateIntersectionLhs(lhsInter, rhs, cctx)
	}

	return cs.reportError(fmt.Sprintf("cannot constrain %T <: %T", lhs, rhs), lhs, rhs, cctx)
}

// constrainFuncFunc handles `FunctionType <: FunctionType`
func (cs *constraintSolver) constrainFuncFunc(
	lhs, rhs funcType,
	cctx constraintContext,
) bool {
	if len(lhs.args) != len(rhs.args) {
		return cs.reportError(fmt.Sprintf("function arity mismatch: %d vs %d", len(lhs.args), len(rhs.args)), lhs, rhs, cctx)
	}
	// constrain arguments contravariantly: rhs.arg <: lhs.arg
	for i := range lhs.args {
		if cs.rec(rhs.args[i], lhs.args[i], false, cctx) {
			return true
		}
	}
	// constrain return type covariantly: lhs.ret <: rhs.ret
	return cs.rec(lhs.ret, rhs.ret, false, cctx)
}

// constrainTupleTuple handles `TupleType <: TupleType`
func (cs *constraintSolver) constrainTupleTuple(
	lhs, rhs tupleType,
	cctx constraintContext,
) bool {
	if len(lhs.fields) != len(rhs.fields) {
		return cs.reportError(fmt.Sprintf("tuple size mismatch: %d vs %d", len(lhs.fields), len(rhs.fields)), lhs, rhs, cctx)
	}

	// constrain fields covariantly: lhs.field <: rhs.field
	for i := range lhs.fields {
		if cs.rec(lhs.fields[i], rhs.fields[i], false, cctx) {
			return true
		}
	}
	return false
}
