package compiler

import (
	"strings"

	"github.com/inputlayer/inputlayer-go/dlast"
	"github.com/inputlayer/inputlayer-go/naming"
	"github.com/inputlayer/inputlayer-go/relation"
	"github.com/inputlayer/inputlayer-go/varenv"
)

// RuleClause is one disjunct of a derived relation's defining rule: a set
// of body relations, a projection from head column to expression, and an
// optional filter condition. Multiple clauses compiled for the same head
// form one rule.
type RuleClause struct {
	Relations []relation.Ref
	SelectMap map[string]dlast.Expr
	Condition dlast.BoolExpr
}

// CompileRule compiles one rule clause to Datalog:
//
//	persistent=true  -> +reachable(Src, Dst) <- edge(Src, Dst)
//	persistent=false ->  reachable(Src, Dst) <- edge(Src, Dst)
//
// Head positions come from selectMap when the column has an explicit
// projection, else default to the column's own variable name.
func CompileRule(headName string, headColumns []string, clause RuleClause, persistent bool) (string, error) {
	env := varenv.New()

	if clause.Condition != nil {
		processJoinCondition(clause.Condition, env)
	}

	headParts := make([]string, len(headColumns))
	for i, col := range headColumns {
		if expr, ok := clause.SelectMap[col]; ok {
			compiled, err := CompileExpr(expr, env)
			if err != nil {
				return "", err
			}
			headParts[i] = compiled
		} else {
			headParts[i] = naming.ColumnToVar(col)
		}
	}

	bodyAtoms, err := buildBodyAtoms(clause.Relations, env)
	if err != nil {
		return "", err
	}

	var condParts []string
	if clause.Condition != nil {
		parts, err := CompileBoolExpr(clause.Condition, env, buildRelationLookup(clause.Relations))
		if err != nil {
			return "", err
		}
		condParts = filterEmpty(parts)
	}

	allBody := append(append([]string(nil), bodyAtoms...), condParts...)
	prefix := ""
	if persistent {
		prefix = "+"
	}
	headStr := prefix + headName + "(" + strings.Join(headParts, ", ") + ")"
	return headStr + " <- " + strings.Join(allBody, ", "), nil
}
