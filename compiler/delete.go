package compiler

import (
	"fmt"
	"strings"

	"github.com/inputlayer/inputlayer-go/dlast"
	"github.com/inputlayer/inputlayer-go/relation"
	"github.com/inputlayer/inputlayer-go/varenv"
)

// CompileDelete compiles a single exact-fact deletion: -employee(1, "Alice", ...).
func CompileDelete(fact Fact) (string, error) {
	if err := fact.validate(); err != nil {
		return "", err
	}
	values, err := compileValues(fact.Values)
	if err != nil {
		return "", err
	}
	return "-" + fact.Relation.Name() + "(" + strings.Join(values, ", ") + ")", nil
}

// CompileConditionalDelete compiles a conditional delete:
//
//	-name(X0, X1, ...) <- name(X0, X1, ...), <condition>
//
// where X0..Xn are positional variables pre-bound to the relation's
// columns in declaration order, so the condition's own column references
// resolve against them.
func CompileConditionalDelete(r relation.Relation, condition dlast.BoolExpr) (string, error) {
	cols := r.Columns()
	vars := make([]string, len(cols))
	for i := range cols {
		vars[i] = fmt.Sprintf("X%d", i)
	}
	head := "-" + r.Name() + "(" + strings.Join(vars, ", ") + ")"
	bodyRel := r.Name() + "(" + strings.Join(vars, ", ") + ")"

	env := varenv.New()
	for i, col := range cols {
		env.ForceVar(dlast.Column{Relation: r.Name(), Column: col}, vars[i])
	}

	condParts, err := CompileBoolExpr(condition, env, buildRelationLookup([]relation.Ref{r.Unaliased()}))
	if err != nil {
		return "", err
	}
	var nonEmpty []string
	for _, p := range condParts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	bodyParts := append([]string{bodyRel}, nonEmpty...)
	return head + " <- " + strings.Join(bodyParts, ", "), nil
}
