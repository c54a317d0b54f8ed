package sberr

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/sable-lang/sable/frontend/ir"
)

// enableDebugErrorPrinting makes errors include their stacktrace when printed
const enableDebugErrorPrinting bool = true
const enableDebugFullStacktrace bool = false

type ErrCode int

const (
	None ErrCode = iota
	TypeMismatch
	NoCandidateMatch
	AmbiguousCandidates
	UndefinedVariable
)

type SableError interface {
	Error() string
	Code() ErrCode
	ir.Positioner

	withStack([]byte) SableError
	getStack() []byte
}

func FormatWithCode(e SableError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			stack = strings.Split(stack, "\n")[6]
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

func New[E SableError](err E) SableError {
	return err.withStack(debug.Stack())
}

type Unclassified struct {
	From error
	ir.Positioner
	stack []byte
}

func (e Unclassified) Error() string {
	return fmt.Sprintf("unclassified error: %v", e.From)
}
func (e Unclassified) Code() ErrCode    { return None }
func (e Unclassified) getStack() []byte { return e.stack }
func (e Unclassified) withStack(stack []byte) SableError {
	e.stack = stack
	return e
}

// NewTypeMismatch reports that two types could not be made to agree
type NewTypeMismatch struct {
	ir.Positioner
	First  string
	Second string
	Reason string
	stack  []byte
}

func (e NewTypeMismatch) Error() string {
	msg := fmt.Sprintf("type mismatch: %s is not compatible with %s", e.First, e.Second)
	if e.Reason != "" {
		msg = msg + " (" + e.Reason + ")"
	}
	return msg
}
func (e NewTypeMismatch) Code() ErrCode    { return TypeMismatch }
func (e NewTypeMismatch) getStack() []byte { return e.stack }
func (e NewTypeMismatch) withStack(stack []byte) SableError {
	e.stack = stack
	return e
}

// NewNoCandidateMatch reports that no member of a union (or intersection)
// could satisfy an obligation. It carries the per-candidate errors so the
// caller can aggregate them into one user-facing diagnostic
type NewNoCandidateMatch struct {
	ir.Positioner
	Scrutinee       string
	Target          string
	CandidateErrors []SableError
	stack           []byte
}

func (e NewNoCandidateMatch) Error() string {
	return fmt.Sprintf("no member of %s accepts %s (%d candidates failed)",
		e.Target, e.Scrutinee, len(e.CandidateErrors))
}
func (e NewNoCandidateMatch) Code() ErrCode    { return NoCandidateMatch }
func (e NewNoCandidateMatch) getStack() []byte { return e.stack }
func (e NewNoCandidateMatch) withStack(stack []byte) SableError {
	e.stack = stack
	return e
}

// NewAmbiguousCandidates reports that several members of a union matched
// tentatively and none of them was no-more-constrained than every other,
// so committing any one of them could be misleading
type NewAmbiguousCandidates struct {
	ir.Positioner
	Scrutinee string
	Target    string
	Variables []string
	stack     []byte
}

func (e NewAmbiguousCandidates) Error() string {
	return fmt.Sprintf("cannot decide between members of %s for %s: candidates disagree on %s",
		e.Target, e.Scrutinee, strings.Join(e.Variables, ", "))
}
func (e NewAmbiguousCandidates) Code() ErrCode    { return AmbiguousCandidates }
func (e NewAmbiguousCandidates) getStack() []byte { return e.stack }
func (e NewAmbiguousCandidates) withStack(stack []byte) SableError {
	e.stack = stack
	return e
}

type NewUndefinedVariable struct {
	ir.Positioner
	Name  string
	stack []byte
}

func (e NewUndefinedVariable) Error() string {
	return fmt.Sprintf("undefined: %s", e.Name)
}
func (e NewUndefinedVariable) Code() ErrCode    { return UndefinedVariable }
func (e NewUndefinedVariable) getStack() []byte { return e.stack }
func (e NewUndefinedVariable) withStack(stack []byte) SableError {
	e.stack = stack
	return e
}
