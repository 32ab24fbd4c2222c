package compiler

import (
	"strings"

	"github.com/inputlayer/inputlayer-go/dlast"
	"github.com/inputlayer/inputlayer-go/relation"
	"github.com/inputlayer/inputlayer-go/varenv"
)

// relationLookup resolves a column's relation-or-alias key to the
// relation.Relation it came from, so that an atom rendered from a single
// known-bound column (compileIn's target) can still place every other
// column position correctly instead of guessing at arity.
type relationLookup map[string]relation.Relation

// buildRelationLookup indexes refs by alias when present, else by the
// relation's own name — the same key env uses to track bound variables.
func buildRelationLookup(refs []relation.Ref) relationLookup {
	m := make(relationLookup, len(refs))
	for _, ref := range refs {
		key := ref.Alias
		if key == "" {
			key = ref.Relation.Name()
		}
		m[key] = ref.Relation
	}
	return m
}

var arithSymbol = map[dlast.ArithOp]string{
	dlast.Add: "+",
	dlast.Sub: "-",
	dlast.Mul: "*",
	dlast.Div: "/",
	dlast.Mod: "mod",
}

var compareSymbol = map[dlast.CompareOp]string{
	dlast.Eq:  "=",
	dlast.Neq: "!=",
	dlast.Lt:  "<",
	dlast.Lte: "<=",
	dlast.Gt:  ">",
	dlast.Gte: ">=",
}

// CompileExpr lowers a value expression to Datalog text.
func CompileExpr(expr dlast.Expr, env *varenv.Env) (string, error) {
	switch e := expr.(type) {
	case dlast.Column:
		return env.GetVar(e), nil
	case dlast.Literal:
		return CompileValue(e)
	case dlast.Arithmetic:
		left, err := CompileExpr(e.Left, env)
		if err != nil {
			return "", err
		}
		right, err := CompileExpr(e.Right, env)
		if err != nil {
			return "", err
		}
		return left + " " + arithSymbol[e.Op] + " " + right, nil
	case dlast.FuncCall:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			s, err := CompileExpr(a, env)
			if err != nil {
				return "", err
			}
			args[i] = s
		}
		return e.Name + "(" + strings.Join(args, ", ") + ")", nil
	case dlast.OrderedColumn:
		inner, err := CompileExpr(e.Inner, env)
		if err != nil {
			return "", err
		}
		if e.Descending {
			return inner + ":desc", nil
		}
		return inner + ":asc", nil
	case dlast.AggExpr:
		return compileAggExpr(e, env)
	default:
		return "", &UnsupportedNodeError{Node: expr}
	}
}

// compileAggExpr renders func<param1, ..., passthrough1, ..., aggregated>.
func compileAggExpr(agg dlast.AggExpr, env *varenv.Env) (string, error) {
	var parts []string
	for _, p := range agg.Params {
		s, err := CompileExpr(p, env)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	for _, pt := range agg.Passthrough {
		s, err := CompileExpr(pt, env)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	switch {
	case agg.OrderColumn != nil:
		s, err := CompileExpr(agg.OrderColumn, env)
		if err != nil {
			return "", err
		}
		if agg.Desc {
			s += ":desc"
		} else {
			s += ":asc"
		}
		parts = append(parts, s)
	case agg.Column != nil:
		s, err := CompileExpr(agg.Column, env)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return agg.Func + "<" + strings.Join(parts, ", ") + ">", nil
}

// CompileBoolExpr lowers a boolean expression to a list of body literals.
// And flattens into multiple literals; Or returns ErrOrInSingleBranch —
// the caller must route through CompileOrBranches instead. relations
// resolves In/NegatedIn's target column back to its full column list so
// the emitted atom places every other position as "_" rather than
// guessing at arity; pass nil when no relation metadata is available (the
// atom then falls back to a single-argument rendering).
func CompileBoolExpr(expr dlast.BoolExpr, env *varenv.Env, relations relationLookup) ([]string, error) {
	switch e := expr.(type) {
	case dlast.Comparison:
		s, err := compileComparison(e, env)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		return []string{s}, nil
	case dlast.And:
		left, err := CompileBoolExpr(e.Left, env, relations)
		if err != nil {
			return nil, err
		}
		right, err := CompileBoolExpr(e.Right, env, relations)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	case dlast.Or:
		return nil, ErrOrInSingleBranch
	case dlast.Not:
		inner, err := CompileBoolExpr(e.Operand, env, relations)
		if err != nil {
			return nil, err
		}
		return []string{"!(" + strings.Join(inner, ", ") + ")"}, nil
	case dlast.InExpr:
		s, err := compileIn(e.Column, e.TargetColumn, env, false, relations)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	case dlast.NegatedIn:
		s, err := compileIn(e.Column, e.TargetColumn, env, true, relations)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	case dlast.MatchExpr:
		s, err := compileMatch(e, env)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	default:
		return nil, &UnsupportedNodeError{Node: expr}
	}
}

// compileComparison handles the join-unification short-circuit: a
// Column = Column comparison is a join condition expressed entirely
// through shared-variable unification, so it emits no text of its own.
func compileComparison(comp dlast.Comparison, env *varenv.Env) (string, error) {
	if comp.Op == dlast.Eq {
		if lc, ok := comp.Left.(dlast.Column); ok {
			if rc, ok := comp.Right.(dlast.Column); ok {
				env.Unify(lc, rc)
				return "", nil
			}
		}
	}
	left, err := CompileExpr(comp.Left, env)
	if err != nil {
		return "", err
	}
	right, err := CompileExpr(comp.Right, env)
	if err != nil {
		return "", err
	}
	return left + " " + compareSymbol[comp.Op] + " " + right, nil
}

// compileIn compiles In / NegatedIn to the proper positional relation
// atom: the source column is unified with the target column, and the
// target relation's atom is rendered with the bound variable in its
// correct column position and every other position anonymous.
//
// The source this is ported from built this atom as
// "relation(..., Var, ...)" verbatim — not a legal emitted form. That was
// flagged as unintentional; the surrounding unify() calls make the
// intended behavior clear, so this reproduces the intent (a proper
// positional atom) rather than the literal text.
func compileIn(col, target dlast.Column, env *varenv.Env, negated bool, relations relationLookup) (string, error) {
	if _, err := CompileExpr(col, env); err != nil {
		return "", err
	}
	env.Unify(col, target)
	return renderBoundAtom(target, env, negated, relations), nil
}

// renderBoundAtom renders relation(_, ..., Var, ..., _): every column of
// the target's relation is anonymous except the target column itself,
// which carries its bound variable. relations resolves the target's
// alias-or-name key to the full column list; when it has no entry for
// that key (no relation metadata reached this call site), this falls
// back to a single-argument rendering rather than guessing at arity.
func renderBoundAtom(target dlast.Column, env *varenv.Env, negated bool, relations relationLookup) string {
	prefix := ""
	if negated {
		prefix = "!"
	}
	v := env.GetVar(target)

	key := target.Alias
	if key == "" {
		key = target.Relation
	}

	rel, ok := relations[key]
	if !ok {
		return prefix + target.Relation + "(" + v + ")"
	}

	cols := rel.Columns()
	parts := make([]string, len(cols))
	for i, col := range cols {
		if col == target.Column {
			parts[i] = v
		} else {
			parts[i] = "_"
		}
	}
	return prefix + target.Relation + "(" + strings.Join(parts, ", ") + ")"
}

func compileMatch(match dlast.MatchExpr, env *varenv.Env) (string, error) {
	parts := make([]string, len(match.Bindings))
	for i, b := range match.Bindings {
		s, err := CompileExpr(b.Value, env)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	prefix := ""
	if match.Negated {
		prefix = "!"
	}
	return prefix + match.Relation + "(" + strings.Join(parts, ", ") + ")", nil
}

// CompileOrBranches splits a boolean expression containing Or nodes into
// one body-literal list per leaf branch, sharing the same variable
// environment (so join unifications already processed still apply).
func CompileOrBranches(expr dlast.BoolExpr, env *varenv.Env, relations relationLookup) ([][]string, error) {
	if or, ok := expr.(dlast.Or); ok {
		left, err := CompileOrBranches(or.Left, env, relations)
		if err != nil {
			return nil, err
		}
		right, err := CompileOrBranches(or.Right, env, relations)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	}
	parts, err := CompileBoolExpr(expr, env, relations)
	if err != nil {
		return nil, err
	}
	return [][]string{parts}, nil
}

// HasOr reports whether expr contains any Or node reachable without
// crossing into a nested relation reference (And/Not are transparent).
func HasOr(expr dlast.BoolExpr) bool {
	switch e := expr.(type) {
	case dlast.Or:
		return true
	case dlast.And:
		return HasOr(e.Left) || HasOr(e.Right)
	case dlast.Not:
		return HasOr(e.Operand)
	default:
		return false
	}
}
