package compiler

import (
	"fmt"

	"github.com/inputlayer/inputlayer-go/dlast"
	"github.com/inputlayer/inputlayer-go/relation"
)

// Fact is one row of a relation: a literal value per column, in the
// relation's declared column order. The compiler has no runtime
// introspection to fall back on (see relation.Field's doc comment), so
// callers build a Fact explicitly instead of passing an arbitrary struct.
type Fact struct {
	Relation relation.Relation
	Values   []dlast.Literal
}

func (f Fact) validate() error {
	cols := f.Relation.Columns()
	if len(f.Values) != len(cols) {
		return fmt.Errorf("relation %q: expected %d values, got %d", f.Relation.Name(), len(cols), len(f.Values))
	}
	return nil
}

func compileValues(values []dlast.Literal) ([]string, error) {
	out := make([]string, len(values))
	for i, v := range values {
		s, err := encodeLiteral(v)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
