package compiler

import (
	"github.com/inputlayer/inputlayer-go/dlast"
	"github.com/inputlayer/inputlayer-go/dltypes"
)

// CompileValue serializes a literal to its Datalog textual form. It is a
// thin forward to the type registry's value encoder, kept here so callers
// of the compiler package never need to import dltypes directly.
func CompileValue(lit dlast.Literal) (string, error) {
	return dltypes.EncodeLiteral(lit)
}

func encodeLiteral(lit dlast.Literal) (string, error) {
	return dltypes.EncodeLiteral(lit)
}
