package types

import (
	"log/slog"

	"github.com/benbjohnson/immutable"
	"github.com/google/uuid"
	"github.com/sable-lang/sable/frontend/sberr"
	"github.com/sable-lang/sable/internal/log"
)

var logger = log.ForSection("constrain")

// TypeCtx holds mutable state during the inference process, as well as settings
type TypeCtx struct {
	parent *TypeCtx // can be nil
	env    *immutable.Map[string, SimpleType]
	level  level

	// per-section loggers tagged with the session id, so lines from
	// concurrent sessions can be told apart
	logger          *slog.Logger
	speculateLogger *slog.Logger

	*TypeState
}

// TypeState is part of TypeCtx and is shared across all copies of it during
// a single checking session. It is not concurrency safe.
type TypeState struct {
	// sessionID correlates log lines across nested contexts of one session
	sessionID string

	// fresher keeps track of new type variables
	fresher *Fresher

	// speculation tracks open variables per speculation id; it lives and
	// dies with this TypeState, ids are never reclaimed individually
	speculation *speculationState

	// nextSpecID hands out speculation ids; see newSpeculationID
	nextSpecID speculationID

	// speculationIgnore, when non-nil, marks a type whose involvement in a
	// deferred obligation never counts against a candidate
	speculationIgnore SimpleType

	// Errors are language problems that a malformed program could cause
	Errors *sberr.Errors
}

// NewEmptyTypeCtx should be the entry point to get a TypeCtx, but not how
// you produce a TypeCtx from another one. For that use nest.
//
// TypeState is shared across nested levels of TypeCtx
func NewEmptyTypeCtx() *TypeCtx {
	sessionID := uuid.NewString()
	return &TypeCtx{
		parent: nil,
		env:    universeEnv(),
		level:  0,
		TypeState: &TypeState{
			sessionID:   sessionID,
			fresher:     NewFresher(),
			speculation: newSpeculationState(),
		},
		logger:          logger.With("session", sessionID),
		speculateLogger: speculateLogger.With("session", sessionID),
	}
}

func (ctx *TypeCtx) nest() *TypeCtx {
	copied := *ctx
	copied.parent = ctx
	return &copied
}

// WithBinding returns a nested TypeCtx where name is bound to t
func (ctx *TypeCtx) WithBinding(name string, t SimpleType) *TypeCtx {
	newCtx := ctx.nest()
	newCtx.env = ctx.env.Set(name, t)
	return newCtx
}

func (ctx *TypeCtx) get(name string) (t SimpleType, ok bool) {
	t, ok = ctx.env.Get(name)
	if ok {
		return t, true
	}
	if ctx.parent != nil {
		return ctx.parent.get(name)
	}
	return t, false
}

func (ctx *TypeCtx) newTypeVariable(prov typeProvenance, nameHint string, origin varOrigin) *typeVariable {
	return ctx.fresher.newTypeVariable(ctx.level, prov, nameHint, origin, nil, nil)
}

func (ctx *TypeCtx) addError(err sberr.SableError) {
	ctx.Errors = ctx.Errors.With(err)
}

// IgnoreInSpeculation marks t as a type whose involvement in a deferred
// obligation never counts against a union or intersection candidate
func (ts *TypeState) IgnoreInSpeculation(t SimpleType) {
	ts.speculationIgnore = t
}

// newSpeculationID allocates a fresh speculation id. Nested speculations
// (a union inside another union's candidate) must each call this; the sets
// of distinct ids never interfere
func (ts *TypeState) newSpeculationID() speculationID {
	id := ts.nextSpecID
	ts.nextSpecID++
	return id
}

// TypesEquivalent is the cheap structural equivalence used to short-circuit
// constraining; it deliberately ignores provenance
func (ctx *TypeCtx) TypesEquivalent(this, that SimpleType) bool {
	return reasonlessEqual(this, that)
}
