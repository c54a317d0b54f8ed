package sberr

import (
	"errors"
	"testing"

	"github.com/sable-lang/sable/frontend/ir"
	"github.com/stretchr/testify/assert"
)

func TestErrorsNilSafety(t *testing.T) {
	var errs *Errors
	assert.False(t, errs.HasError())
	assert.Nil(t, errs.Errors())

	errs = errs.With(New(NewUndefinedVariable{Positioner: ir.Range{}, Name: "x"}))
	assert.True(t, errs.HasError())
	assert.Len(t, errs.Errors(), 1)
}

func TestErrorsMerge(t *testing.T) {
	left := (&Errors{}).With(New(NewUndefinedVariable{Positioner: ir.Range{}, Name: "x"}))
	right := (&Errors{}).With(
		New(NewUndefinedVariable{Positioner: ir.Range{}, Name: "y"}),
		New(NewUndefinedVariable{Positioner: ir.Range{}, Name: "z"}),
	)

	assert.Len(t, left.Merge(right).Errors(), 3)
	assert.Len(t, (*Errors)(nil).Merge(right).Errors(), 2)
	assert.Same(t, left, left.Merge(nil))
}

func TestErrorCodes(t *testing.T) {
	testCases := []struct {
		name     string
		err      SableError
		expected ErrCode
	}{
		{name: "mismatch", err: NewTypeMismatch{First: "Int", Second: "String"}, expected: TypeMismatch},
		{name: "no candidate", err: NewNoCandidateMatch{Scrutinee: "Int", Target: "(String|True)"}, expected: NoCandidateMatch},
		{name: "ambiguous", err: NewAmbiguousCandidates{Scrutinee: "a", Target: "(Int|String)"}, expected: AmbiguousCandidates},
		{name: "undefined", err: NewUndefinedVariable{Name: "x"}, expected: UndefinedVariable},
		{name: "unclassified", err: Unclassified{From: errors.New("boom")}, expected: None},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Code())
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}
