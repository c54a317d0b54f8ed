package types

import (
	"github.com/benbjohnson/immutable"
	set "github.com/hashicorp/go-set/v3"
	"github.com/sable-lang/sable/frontend/ir"
)

const (
	anyTypeName    = "Any"
	intTypeName    = "Int"
	stringTypeName = "String"
	trueName       = "True"
	falseName      = "False"
)

var builtinProv = newOriginProv(ir.Range{}, "builtin", "builtin")

var intType = classTag{
	id:             &ir.Var{Name: intTypeName},
	parents:        set.From([]typeName{anyTypeName}),
	withProvenance: withProvenance{builtinProv},
}

var stringType = classTag{
	id:             &ir.Var{Name: stringTypeName},
	parents:        set.From([]typeName{anyTypeName}),
	withProvenance: withProvenance{builtinProv},
}

var trueType = classTag{
	id:             &ir.Var{Name: trueName},
	parents:        set.From([]typeName{anyTypeName}),
	withProvenance: withProvenance{builtinProv},
}

var falseType = classTag{
	id:             &ir.Var{Name: falseName},
	parents:        set.From([]typeName{anyTypeName}),
	withProvenance: withProvenance{builtinProv},
}

var boolType = unionOf(trueType, falseType, unionOpts{prov: builtinProv})

var comparisonBinOp = funcType{
	args:           []SimpleType{intType, intType},
	ret:            boolType,
	withProvenance: withProvenance{builtinProv},
}

var errorTypeInstance = classTag{
	id:      &ir.Var{Name: "Error"},
	parents: set.New[typeName](0),
	withProvenance: withProvenance{
		provenance: typeProvenance{desc: "Error"},
	},
}

func isErrorType(ty SimpleType) bool {
	return reasonlessEqual(ty, errorTypeInstance)
}

// universeEnv are the built-in bindings
func universeEnv() *immutable.Map[string, SimpleType] {
	numberOp := funcType{
		args:           []SimpleType{intType, intType},
		ret:            intType,
		withProvenance: withProvenance{builtinProv},
	}
	env := immutable.NewMap[string, SimpleType](nil)
	for name, t := range map[string]SimpleType{
		"+":       numberOp,
		"*":       numberOp,
		"-":       numberOp,
		"/":       numberOp,
		"%":       numberOp,
		trueName:  trueType,
		falseName: falseType,
		">":       comparisonBinOp,
		"<":       comparisonBinOp,
		"==":      comparisonBinOp,
		"!=":      comparisonBinOp,
	} {
		env = env.Set(name, t)
	}
	return env
}
