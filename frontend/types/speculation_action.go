package types

import (
	"fmt"

	"github.com/sable-lang/sable/util"
)

// constraintSink is the receiving end of a directional obligation: what the
// source type is being asked to flow into. The shapes form a closed sum;
// every consumption site switches exhaustively over them.
type constraintSink interface {
	fmt.Stringer
	isConstraintSink()
}

var (
	_ constraintSink = (*upperBoundSink)(nil)
	_ constraintSink = (*callSink)(nil)
)

// upperBoundSink is a plain subtype constraint: source <: target
type upperBoundSink struct {
	target SimpleType
}

func (upperBoundSink) isConstraintSink() {}
func (s upperBoundSink) String() string  { return "<: " + s.target.String() }

// callSink asks the source to be applicable to args, yielding ret
type callSink struct {
	args []SimpleType
	ret  SimpleType
}

func (callSink) isConstraintSink() {}
func (s callSink) String() string {
	return fmt.Sprintf("call(%s) -> %s", util.JoinString(s.args, ", "), s.ret.String())
}

// constraintAction is an obligation the solver was about to execute when a
// speculative candidate attempt intercepted it. Exactly two shapes exist: a
// directional subtype obligation and a symmetric equality obligation.
// Immutable once created.
type constraintAction interface {
	fmt.Stringer
	// actionVariables yields the types whose resolution state decides
	// whether this obligation is relevant to a speculation. Trivially
	// satisfiable obligations yield nothing
	actionVariables() []SimpleType
	isConstraintAction()
}

var (
	_ constraintAction = (*flowAction)(nil)
	_ constraintAction = (*unifyAction)(nil)
)

// flowAction is the directional obligation `source flows into sink`
type flowAction struct {
	source SimpleType
	sink   constraintSink
}

func (flowAction) isConstraintAction() {}
func (a flowAction) String() string {
	return a.source.String() + " " + a.sink.String()
}

func (a flowAction) actionVariables() []SimpleType {
	// nothing flows out of bottom, and everything flows into mixed/any:
	// such obligations hold regardless of how any variable resolves
	if isBottom(a.source) {
		return nil
	}
	switch sink := a.sink.(type) {
	case upperBoundSink:
		if isTop(sink.target) || isAny(sink.target) {
			return nil
		}
		return []SimpleType{a.source, sink.target}
	default:
		return []SimpleType{a.source}
	}
}

// unifyAction is the symmetric obligation `left = right`
type unifyAction struct {
	left, right SimpleType
}

func (unifyAction) isConstraintAction() {}
func (a unifyAction) String() string {
	return a.left.String() + " = " + a.right.String()
}

func (a unifyAction) actionVariables() []SimpleType {
	return []SimpleType{a.left, a.right}
}

// actionsEqual recognises "the same obligation produced twice" across
// independently-executed candidate attempts. It is a free function rather
// than a method so the shape mismatch cases live in one place.
//
// Provenance never participates (see reasonlessCompare): the two attempts
// discover their obligations at unrelated source locations
func actionsEqual(a1, a2 constraintAction) bool {
	switch a1 := a1.(type) {
	case flowAction:
		a2, ok := a2.(flowAction)
		if !ok {
			return false
		}
		sink1, ok1 := a1.sink.(upperBoundSink)
		sink2, ok2 := a2.sink.(upperBoundSink)
		if !ok1 || !ok2 {
			// only plain subtype sinks have a comparable payload;
			// mismatched or richer sink shapes are never equal
			return false
		}
		return reasonlessEqual(a1.source, a2.source) && reasonlessEqual(sink1.target, sink2.target)
	case unifyAction:
		a2, ok := a2.(unifyAction)
		return ok &&
			reasonlessEqual(a1.left, a2.left) &&
			reasonlessEqual(a1.right, a2.right)
	}
	return false
}
