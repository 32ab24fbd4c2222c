package compiler

import (
	"strings"

	"github.com/inputlayer/inputlayer-go/dltypes"
	"github.com/inputlayer/inputlayer-go/relation"
)

// CompileSchema compiles a relation's declared columns to a schema
// statement: +name(col1: type1, col2: type2, ...).
func CompileSchema(r relation.Relation) (string, error) {
	fields := r.Fields()
	parts := make([]string, len(fields))
	for i, f := range fields {
		typeName, err := dltypes.TypeName(f.Kind, f.Dim)
		if err != nil {
			return "", err
		}
		parts[i] = f.Name + ": " + typeName
	}
	return "+" + r.Name() + "(" + strings.Join(parts, ", ") + ")", nil
}
