package types

import (
	"cmp"
	"fmt"
	"hash/fnv"
	"iter"
	"strconv"
	"strings"

	set "github.com/hashicorp/go-set/v3"
	"github.com/sable-lang/sable/frontend/ir"
	"github.com/sable-lang/sable/util"
)

type typeName = string

// SimpleType is a type without universally quantified type variables
type SimpleType interface {
	fmt.Stringer
	// Hash is structural and deliberately excludes provenance, see reasonlessCompare
	Hash() uint64
	level() level
	children(includeBounds bool) iter.Seq[SimpleType]
	prov() typeProvenance
}

var (
	_ SimpleType = (*extremeType)(nil)
	_ SimpleType = (*anyType)(nil)
	_ SimpleType = (*unionType)(nil)
	_ SimpleType = (*intersectionType)(nil)
	_ SimpleType = (*negType)(nil)
	_ SimpleType = (*funcType)(nil)
	_ SimpleType = (*tupleType)(nil)
	_ SimpleType = (*typeVariable)(nil)
	_ SimpleType = (*classTag)(nil)
	_ SimpleType = (*wrappingProvType)(nil)
)

// typeProvenance tracks the origin and description of types
type typeProvenance struct {
	Range      ir.Range
	desc       string
	originName string
	isType     bool
}

var emptyProv = typeProvenance{}

type withProvenance struct {
	provenance typeProvenance
}

func (w withProvenance) prov() typeProvenance { return w.provenance }

func (tp typeProvenance) embed() withProvenance {
	return withProvenance{provenance: tp}
}

func (tp typeProvenance) IsOrigin() bool { return tp.originName != "" }

func newOriginProv(pos ir.Positioner, description string, name string) typeProvenance {
	return typeProvenance{
		Range:      ir.RangeOf(pos),
		desc:       description,
		originName: name,
		isType:     true,
	}
}

// reasonlessCompare orders two types by structure alone: provenance and
// source locations never participate. It is the only identity notion used
// when comparing deferred constraint actions, where the "same" obligation
// is routinely rediscovered with different provenance on every candidate
// attempt. Ordinary equality including provenance would make caseDiff
// overly conservative.
func reasonlessCompare(t1, t2 SimpleType) int {
	return cmp.Compare(t1.Hash(), t2.Hash())
}

func reasonlessEqual(t1, t2 SimpleType) bool {
	return reasonlessCompare(t1, t2) == 0
}

// extremeType is bottom when polarity is true, and top ("mixed") otherwise
type extremeType struct {
	polarity bool
	withProvenance
}

var bottomType = extremeType{polarity: true}
var topType = extremeType{polarity: false}
var emptySeqSimpleType iter.Seq[SimpleType] = func(_ func(SimpleType) bool) {}

func (extremeType) level() level                         { return 0 }
func (t extremeType) children(bool) iter.Seq[SimpleType] { return emptySeqSimpleType }
func (t extremeType) String() string {
	if t.polarity {
		return "bottom"
	}
	return "mixed"
}
func (t extremeType) Hash() uint64 {
	if t.polarity {
		return 16777619
	}
	return 1099511628211
}

// anyType is compatible with every type in both directions. It is kept
// apart from the extremes because obligations flowing into it (or out of
// it) carry no discriminating information whatsoever
type anyType struct {
	withProvenance
}

var anyTypeInstance = anyType{}

func (anyType) level() level                         { return 0 }
func (t anyType) children(bool) iter.Seq[SimpleType] { return emptySeqSimpleType }
func (t anyType) String() string                     { return "any" }
func (t anyType) Hash() uint64                       { return 9576890767 }

func isBottom(t SimpleType) bool {
	et, ok := unwrapProvenance(t).(extremeType)
	return ok && et.polarity
}

func isTop(t SimpleType) bool {
	et, ok := unwrapProvenance(t).(extremeType)
	return ok && !et.polarity
}

func isAny(t SimpleType) bool {
	_, ok := unwrapProvenance(t).(anyType)
	return ok
}

// unionType is a composedType with positive polarity in the mlstruct lineage
type unionType struct {
	lhs, rhs SimpleType
	withProvenance
}

func (t unionType) level() level { return max(t.lhs.level(), t.rhs.level()) }
func (t unionType) String() string {
	return "(" + t.lhs.String() + "|" + t.rhs.String() + ")"
}
func (t unionType) Hash() uint64 {
	return t.lhs.Hash()*31 + t.rhs.Hash()*37
}
func (t unionType) children(bool) iter.Seq[SimpleType] {
	return func(yield func(SimpleType) bool) {
		if yield(t.lhs) {
			yield(t.rhs)
		}
	}
}

// intersectionType is a composedType with negative polarity in the mlstruct lineage
type intersectionType struct {
	lhs, rhs SimpleType
	withProvenance
}

func (t intersectionType) level() level { return max(t.lhs.level(), t.rhs.level()) }
func (t intersectionType) String() string {
	return "(" + t.lhs.String() + "&" + t.rhs.String() + ")"
}
func (t intersectionType) Hash() uint64 {
	return t.lhs.Hash()*41 + t.rhs.Hash()*43
}
func (t intersectionType) children(bool) iter.Seq[SimpleType] {
	return func(yield func(SimpleType) bool) {
		if yield(t.lhs) {
			yield(t.rhs)
		}
	}
}

type negType struct {
	negated SimpleType
	withProvenance
}

func (t negType) level() level   { return t.negated.level() }
func (t negType) String() string { return "~(" + t.negated.String() + ")" }
func (t negType) Hash() uint64   { return t.negated.Hash() * 53 }
func (t negType) children(bool) iter.Seq[SimpleType] {
	return func(yield func(SimpleType) bool) { yield(t.negated) }
}

type funcType struct {
	args []SimpleType
	ret  SimpleType
	withProvenance
}

func (t funcType) level() level {
	maxArgLevel := level(0)
	for _, arg := range t.args {
		maxArgLevel = max(maxArgLevel, arg.level())
	}
	return max(maxArgLevel, t.ret.level())
}
func (t funcType) String() string {
	return fmt.Sprintf("(fn %s -> %s)", util.JoinString(t.args, ", "), t.ret.String())
}
func (t funcType) Hash() uint64 {
	var hash uint64 = 2166136261
	for _, arg := range t.args {
		hash = hash*16777619 ^ arg.Hash()
	}
	return hash*16777619 ^ t.ret.Hash()
}
func (t funcType) children(bool) iter.Seq[SimpleType] {
	return func(yield func(SimpleType) bool) {
		for _, arg := range t.args {
			if !yield(arg) {
				return
			}
		}
		yield(t.ret)
	}
}

// tupleType is for known-width structures with specific types (say, [Int, String, Int])
type tupleType struct {
	fields []SimpleType
	withProvenance
}

func (t tupleType) level() level {
	l := level(0)
	for _, field := range t.fields {
		l = max(l, field.level())
	}
	return l
}
func (t tupleType) String() string {
	return "(" + util.JoinString(t.fields, ", ") + ")"
}
func (t tupleType) Hash() uint64 {
	const prime1 uint64 = 433
	hash := uint64(9973)
	for _, elem := range t.fields {
		hash = hash*prime1 ^ elem.Hash()
	}
	return hash
}
func (t tupleType) children(bool) iter.Seq[SimpleType] {
	return func(yield func(SimpleType) bool) {
		for _, field := range t.fields {
			if !yield(field) {
				return
			}
		}
	}
}

type classTag struct {
	id      ir.AtomicExpr
	parents set.Collection[typeName]
	withProvenance
}

func (t classTag) level() level { return 0 }
func (t classTag) String() string {
	return fmt.Sprintf("#%s", t.id.CanonicalSyntax())
}
func (t classTag) Hash() uint64 {
	const prime1 uint64 = 1299709
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(t.id.CanonicalSyntax()))
	return prime1 ^ hasher.Sum64()
}
func (t classTag) children(bool) iter.Seq[SimpleType] { return emptySeqSimpleType }

// containsParentST returns true if (not only if) other is a parent of this classTag (meaning t <: other)
func (t classTag) containsParentST(other ir.AtomicExpr) bool {
	asVar, isVar := other.(*ir.Var)
	return isVar && t.parents.Contains(asVar.Name)
}

type TypeVarID = uint64

// typeVariable lives at a certain polymorphism level, with mutable bounds.
// Invariant: types appearing in the bounds never have a level higher than
// this variable's level.
//
// Construct with Fresher.newTypeVariable
type typeVariable struct {
	id                       TypeVarID
	level_                   level
	lowerBounds, upperBounds []SimpleType
	origin                   varOrigin
	// may be "" when not set
	nameHint string
	withProvenance
}

func (t *typeVariable) String() string {
	name := t.nameHint
	if name == "" {
		name = "α"
	}
	return name + strconv.FormatUint(t.id, 10) + strings.Repeat("'", int(t.level_+1))
}
func (t *typeVariable) level() level { return t.level_ }
func (t *typeVariable) Hash() uint64 {
	const prime1 uint64 = 31
	const prime2 uint64 = 7919
	// two variables with the same ID never coexist within one session,
	// so the ID alone identifies the variable regardless of bound growth
	return prime1 * prime2 * t.id
}
func (t *typeVariable) children(includeBounds bool) iter.Seq[SimpleType] {
	if !includeBounds {
		return emptySeqSimpleType
	}
	return util.ConcatIter(sliceSeq(t.lowerBounds), sliceSeq(t.upperBounds))
}

func sliceSeq(ts []SimpleType) iter.Seq[SimpleType] {
	return func(yield func(SimpleType) bool) {
		for _, t := range ts {
			if !yield(t) {
				return
			}
		}
	}
}

// isInstantiablePlaceholder reports whether t is a placeholder variable the
// checker is free to instantiate on its own: one arising from a type
// parameter, a self type, or an existential. Constraints fully explained by
// such variables resolve the same way no matter which union member is
// chosen, so they never distinguish candidates
func isInstantiablePlaceholder(t SimpleType) bool {
	tv, ok := unwrapProvenance(t).(*typeVariable)
	return ok && tv.origin.instantiable()
}

func compareTypeVars(a, b *typeVariable) int {
	return cmp.Compare(a.id, b.id)
}

// wrappingProvType encapsulates another SimpleType but carries different
// provenance info. It hashes as its underlying type, so the two compare
// equal under reasonlessCompare by construction
type wrappingProvType struct {
	SimpleType
	proxyProvenance typeProvenance
}

func (t wrappingProvType) underlying() SimpleType { return t.SimpleType }

// we show the underlying type directly to be more readable
func (t wrappingProvType) String() string       { return t.SimpleType.String() }
func (t wrappingProvType) prov() typeProvenance { return t.proxyProvenance }
func (t wrappingProvType) Hash() uint64         { return t.SimpleType.Hash() }
