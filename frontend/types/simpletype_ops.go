package types

type unionOpts struct {
	prov    typeProvenance
	swapped bool
}

// Union builds the type `this | that`, simplifying trivial combinations.
// It is the public way to form union inputs to Constrain
func Union(this, that SimpleType) SimpleType {
	return unionOf(this, that, unionOpts{})
}

// Intersection builds the type `this & that`, simplifying trivial
// combinations
func Intersection(this, that SimpleType) SimpleType {
	return intersectionOf(this, that, unionOpts{})
}

// unionOf corresponds to the `|` operation in the mlstruct lineage
func unionOf(this, that SimpleType, opts unionOpts) SimpleType {
	if isTop(this) || isAny(this) {
		return this
	}
	if isBottom(this) {
		return that
	}
	if reasonlessEqual(this, that) {
		return this
	}
	if !opts.swapped {
		return unionOf(that, this, unionOpts{prov: opts.prov, swapped: true})
	}
	if thisAsNeg, thisIsNeg := this.(negType); thisIsNeg {
		if reasonlessEqual(thisAsNeg.negated, that) {
			// ~A | A = mixed
			return topType
		}
	}
	return unionType{lhs: this, rhs: that, withProvenance: opts.prov.embed()}
}

// intersectionOf corresponds to the `&` operation in the mlstruct lineage
func intersectionOf(this, that SimpleType, opts unionOpts) SimpleType {
	if isBottom(this) {
		return this
	}
	if isTop(this) || isAny(this) {
		return that
	}
	if reasonlessEqual(this, that) {
		return this
	}
	if !opts.swapped {
		return intersectionOf(that, this, unionOpts{prov: opts.prov, swapped: true})
	}
	if thisAsNeg, thisIsNeg := this.(negType); thisIsNeg {
		if reasonlessEqual(thisAsNeg.negated, that) {
			// ~A & A = nothing
			return bottomType
		}
	}
	return intersectionType{lhs: this, rhs: that, withProvenance: opts.prov.embed()}
}
