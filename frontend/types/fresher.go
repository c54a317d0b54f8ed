package types

type level uint16

// varOrigin records what introduced a type variable. Variables born from
// ordinary inference must be pinned down by constraints; the other origins
// are placeholders the checker may instantiate freely
type varOrigin uint8

const (
	originInference varOrigin = iota
	originTypeParam
	originSelfType
	originExistential
)

func (o varOrigin) instantiable() bool { return o != originInference }

func (o varOrigin) String() string {
	switch o {
	case originInference:
		return "inference"
	case originTypeParam:
		return "type parameter"
	case originSelfType:
		return "self type"
	case originExistential:
		return "existential"
	}
	return "unknown"
}

// Fresher keeps track of new variable IDs.
// It is mutable and not suitable for concurrent use
type Fresher struct {
	freshCount uint64
}

func NewFresher() *Fresher {
	return &Fresher{}
}

func (t *Fresher) newTypeVariable(
	level level,
	prov typeProvenance,
	nameHint string,
	origin varOrigin,
	lowerBounds, upperBounds []SimpleType,
) *typeVariable {
	variable := &typeVariable{
		id:             t.freshCount,
		level_:         level,
		lowerBounds:    lowerBounds,
		upperBounds:    upperBounds,
		origin:         origin,
		nameHint:       nameHint,
		withProvenance: prov.embed(),
	}
	t.freshCount++
	return variable
}
