package types

import (
	"go/token"
	"testing"

	"github.com/sable-lang/sable/frontend/ir"
	"github.com/stretchr/testify/assert"
)

func TestCaseDiffAgainstItselfIsEmpty(t *testing.T) {
	ctx := NewEmptyTypeCtx()
	v := ctx.newTypeVariable(emptyProv, "v", originInference)

	kase := newSpeculationCase(0)
	kase.record(false, flowAction{source: v, sink: upperBoundSink{target: intType}}, []*typeVariable{v})
	kase.record(true, flowAction{source: v, sink: upperBoundSink{target: stringType}}, nil)

	assert.Empty(t, caseDiff(kase, kase))
}

func TestCaseDiffIgnoresProvenanceOfEqualObligations(t *testing.T) {
	ctx := NewEmptyTypeCtx()
	v := ctx.newTypeVariable(emptyProv, "v", originInference)

	prov0 := newOriginProv(ir.Range{PosStart: token.Pos(1), PosEnd: token.Pos(5)}, "application", "")
	prov1 := newOriginProv(ir.Range{PosStart: token.Pos(40), PosEnd: token.Pos(48)}, "application", "")

	c0 := newSpeculationCase(0)
	c0.record(false, flowAction{
		source: wrappingProvType{SimpleType: v, proxyProvenance: prov0},
		sink:   upperBoundSink{target: stringType},
	}, []*typeVariable{v})

	c1 := newSpeculationCase(1)
	c1.record(false, flowAction{
		source: wrappingProvType{SimpleType: v, proxyProvenance: prov1},
		sink:   upperBoundSink{target: stringType},
	}, []*typeVariable{v})

	assert.Empty(t, caseDiff(c0, c1))
	assert.Empty(t, caseDiff(c1, c0))
}

func TestCaseDiffIsAsymmetricForExtraObligations(t *testing.T) {
	ctx := NewEmptyTypeCtx()
	v := ctx.newTypeVariable(emptyProv, "v", originInference)
	w := ctx.newTypeVariable(emptyProv, "w", originInference)

	shared := flowAction{source: v, sink: upperBoundSink{target: stringType}}

	c0 := newSpeculationCase(0)
	c0.record(false, shared, []*typeVariable{v})

	c1 := newSpeculationCase(1)
	c1.record(false, shared, []*typeVariable{v})
	c1.record(false, flowAction{source: w, sink: upperBoundSink{target: intType}}, []*typeVariable{w})

	assert.Equal(t, []*typeVariable{w}, caseDiff(c1, c0),
		"the extra obligation pins w in c1 only")
	assert.Empty(t, caseDiff(c0, c1),
		"everything c0 produced also appears in c1")
}

func TestCaseDiffSkipsBenignEntries(t *testing.T) {
	ctx := NewEmptyTypeCtx()
	v := ctx.newTypeVariable(emptyProv, "v", originInference)
	p := ctx.newTypeVariable(emptyProv, "p", originTypeParam)

	c0 := newSpeculationCase(0)
	c0.record(false, flowAction{source: v, sink: upperBoundSink{target: intType}}, []*typeVariable{v})
	c0.record(true, flowAction{source: p, sink: upperBoundSink{target: intType}}, nil)

	c1 := newSpeculationCase(1)
	c1.record(false, flowAction{source: v, sink: upperBoundSink{target: intType}}, []*typeVariable{v})

	assert.Empty(t, caseDiff(c0, c1),
		"a benign entry unique to c0 pins nothing down")
}

func TestCaseDiffMatchesAgainstBenignEntriesToo(t *testing.T) {
	ctx := NewEmptyTypeCtx()
	p := ctx.newTypeVariable(emptyProv, "p", originTypeParam)

	action := flowAction{source: p, sink: upperBoundSink{target: intType}}

	// the same obligation was benign in one attempt and informative in the
	// other (a different candidate can change the classification); it still
	// counts as "also present"
	c0 := newSpeculationCase(0)
	c0.record(false, action, []*typeVariable{p})
	c1 := newSpeculationCase(1)
	c1.record(true, action, nil)

	assert.Empty(t, caseDiff(c0, c1))
}

func TestCaseDiffIsBoundedByOpenVariables(t *testing.T) {
	ctx := NewEmptyTypeCtx()
	v := ctx.newTypeVariable(emptyProv, "v", originInference)
	w := ctx.newTypeVariable(emptyProv, "w", originInference)

	// the obligation touches both v and w but the attempt only ever
	// constrained v, so only v can appear in the diff
	c0 := newSpeculationCase(0)
	c0.record(false, flowAction{source: v, sink: upperBoundSink{target: w}}, []*typeVariable{v})

	diff := caseDiff(c0, newSpeculationCase(1))
	assert.Equal(t, []*typeVariable{v}, diff)
	for _, tv := range diff {
		assert.True(t, c0.openVariables.Contains(tv))
	}
}

func TestCaseDiffOrdersByVariableID(t *testing.T) {
	ctx := NewEmptyTypeCtx()
	older := ctx.newTypeVariable(emptyProv, "a", originInference)
	newer := ctx.newTypeVariable(emptyProv, "b", originInference)
	assert.Less(t, older.id, newer.id)

	// recorded newest-first; the diff still comes out in ascending id order
	c0 := newSpeculationCase(0)
	c0.record(false, flowAction{source: newer, sink: upperBoundSink{target: intType}}, []*typeVariable{newer})
	c0.record(false, flowAction{source: older, sink: upperBoundSink{target: stringType}}, []*typeVariable{older})

	assert.Equal(t, []*typeVariable{older, newer}, caseDiff(c0, newSpeculationCase(1)))
}
