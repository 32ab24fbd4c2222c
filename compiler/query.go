package compiler

import (
	"fmt"
	"strings"

	"github.com/inputlayer/inputlayer-go/dlast"
	"github.com/inputlayer/inputlayer-go/relation"
	"github.com/inputlayer/inputlayer-go/varenv"
)

// SelectItem is one entry of a query's projection: exactly one of Col,
// FullRelation, or Agg is set.
type SelectItem struct {
	Col          *dlast.Column
	FullRelation *relation.Ref
	Agg          *dlast.AggExpr
}

// SelectColumn projects a single column.
func SelectColumn(c dlast.Column) SelectItem { return SelectItem{Col: &c} }

// SelectAll projects every column of a relation, in declaration order.
func SelectAll(ref relation.Ref) SelectItem { return SelectItem{FullRelation: &ref} }

// SelectAggregation projects an aggregation expression.
func SelectAggregation(a dlast.AggExpr) SelectItem { return SelectItem{Agg: &a} }

// ComputedColumn is a named, order-preserved computed projection (the Go
// analog of the source's computed dict, kept as a slice for determinism).
type ComputedColumn struct {
	Alias string
	Expr  dlast.Expr
}

// QueryParams describes one query to compile.
type QueryParams struct {
	Select    []SelectItem
	Relations []relation.Ref
	On        dlast.BoolExpr
	Where     dlast.BoolExpr
	OrderBy   dlast.Expr // a Column or an OrderedColumn
	Limit     *int
	Offset    *int
	Computed  []ComputedColumn
}

// QueryResult is the compiled program text for a query: exactly one
// string, unless the where-condition contained an Or, in which case it is
// one string per leaf branch (the caller must union the branches' row
// sets; order across branches is not guaranteed).
type QueryResult struct {
	Branches []string
}

// Single returns the sole query string when the result was not OR-split.
func (r QueryResult) Single() (string, bool) {
	if len(r.Branches) == 1 {
		return r.Branches[0], true
	}
	return "", false
}

// CompileQuery lowers a query to its textual program form.
func CompileQuery(p QueryParams) (QueryResult, error) {
	env := varenv.New()

	allRelations := append([]relation.Ref(nil), p.Relations...)

	if p.On != nil {
		processJoinCondition(p.On, env)
	}

	relations := buildRelationLookup(allRelations)

	var whereParts []string
	var orBranches [][]string
	if p.Where != nil {
		if HasOr(p.Where) {
			branches, err := CompileOrBranches(p.Where, env, relations)
			if err != nil {
				return QueryResult{}, err
			}
			orBranches = branches
		} else {
			parts, err := CompileBoolExpr(p.Where, env, relations)
			if err != nil {
				return QueryResult{}, err
			}
			whereParts = filterEmpty(parts)
		}
	}

	hasAgg := false
	for _, s := range p.Select {
		if s.Agg != nil {
			hasAgg = true
			break
		}
	}
	for _, c := range p.Computed {
		if _, ok := c.Expr.(dlast.AggExpr); ok {
			hasAgg = true
			break
		}
	}

	if hasAgg {
		q, err := compileAggQuery(p, env, allRelations, whereParts, limitSuffix(p.Limit, p.Offset))
		if err != nil {
			return QueryResult{}, err
		}
		return QueryResult{Branches: []string{q}}, nil
	}

	var headParts []string

	// Full-relation selections expand to every column, and implicitly join
	// that relation in if it wasn't already listed.
	for _, s := range p.Select {
		if s.FullRelation == nil {
			continue
		}
		ref := *s.FullRelation
		for _, col := range ref.Relation.Columns() {
			astCol := dlast.Column{Relation: ref.Relation.Name(), Column: col, Alias: ref.Alias}
			headParts = append(headParts, env.GetVar(astCol))
		}
		if !containsRef(allRelations, ref) {
			allRelations = append(allRelations, ref)
		}
	}

	for _, s := range p.Select {
		if s.Col != nil {
			headParts = append(headParts, env.GetVar(*s.Col))
		}
	}

	for _, c := range p.Computed {
		compiled, err := CompileExpr(c.Expr, env)
		if err != nil {
			return QueryResult{}, err
		}
		headParts = append(headParts, compiled)
	}

	applyOrderBy(p.OrderBy, env, headParts)

	bodyAtoms, err := buildBodyAtoms(allRelations, env)
	if err != nil {
		return QueryResult{}, err
	}

	headStr := strings.Join(headParts, ", ")
	limitTail := limitSuffix(p.Limit, p.Offset)

	if orBranches != nil {
		queries := make([]string, len(orBranches))
		for i, branch := range orBranches {
			body := append(append([]string(nil), bodyAtoms...), filterEmpty(branch)...)
			if limitTail != "" {
				body = append(body, limitTail)
			}
			queries[i] = "?" + headStr + " <- " + strings.Join(body, ", ")
		}
		return QueryResult{Branches: queries}, nil
	}

	allBody := append(append([]string(nil), bodyAtoms...), whereParts...)
	if limitTail != "" {
		allBody = append(allBody, limitTail)
	}
	if len(allBody) > 0 {
		return QueryResult{Branches: []string{"?" + headStr + " <- " + strings.Join(allBody, ", ")}}, nil
	}
	return QueryResult{Branches: []string{"?" + headStr}}, nil
}

func compileAggQuery(p QueryParams, env *varenv.Env, allRelations []relation.Ref, whereParts []string, limitTail string) (string, error) {
	var headParts, aggParts []string

	for _, s := range p.Select {
		switch {
		case s.Agg != nil:
			compiled, err := compileAggExpr(*s.Agg, env)
			if err != nil {
				return "", err
			}
			aggParts = append(aggParts, compiled)
		case s.Col != nil:
			headParts = append(headParts, env.GetVar(*s.Col))
		case s.FullRelation != nil:
			ref := *s.FullRelation
			for _, col := range ref.Relation.Columns() {
				astCol := dlast.Column{Relation: ref.Relation.Name(), Column: col, Alias: ref.Alias}
				headParts = append(headParts, env.GetVar(astCol))
			}
			if !containsRef(allRelations, ref) {
				allRelations = append(allRelations, ref)
			}
		}
	}

	for _, c := range p.Computed {
		if agg, ok := c.Expr.(dlast.AggExpr); ok {
			compiled, err := compileAggExpr(agg, env)
			if err != nil {
				return "", err
			}
			aggParts = append(aggParts, compiled)
		} else {
			compiled, err := CompileExpr(c.Expr, env)
			if err != nil {
				return "", err
			}
			headParts = append(headParts, compiled)
		}
	}

	bodyAtoms, err := buildBodyAtoms(allRelations, env)
	if err != nil {
		return "", err
	}

	allBody := append(append([]string(nil), bodyAtoms...), whereParts...)
	if limitTail != "" {
		allBody = append(allBody, limitTail)
	}

	allHead := append(append([]string(nil), headParts...), aggParts...)
	headStr := strings.Join(allHead, ", ")

	if len(allBody) > 0 {
		return "?" + headStr + " <- " + strings.Join(allBody, ", "), nil
	}
	return "?" + headStr, nil
}

// buildBodyAtoms renders one relation(...) atom per relation involved in
// the query: each column position holds its bound variable if the column
// was unified or selected, else the anonymous "_".
func buildBodyAtoms(refs []relation.Ref, env *varenv.Env) ([]string, error) {
	atoms := make([]string, len(refs))
	for i, ref := range refs {
		cols := ref.Relation.Columns()
		parts := make([]string, len(cols))
		for j, col := range cols {
			astCol := dlast.Column{Relation: ref.Relation.Name(), Column: col, Alias: ref.Alias}
			if v, ok := env.Lookup(astCol); ok {
				parts[j] = v
			} else {
				parts[j] = "_"
			}
		}
		atoms[i] = ref.Relation.Name() + "(" + strings.Join(parts, ", ") + ")"
	}
	return atoms, nil
}

// applyOrderBy decorates the matching head entry in place with a :asc/:desc
// suffix.
func applyOrderBy(orderBy dlast.Expr, env *varenv.Env, headParts []string) {
	if orderBy == nil {
		return
	}
	var orderVar, suffix string
	switch o := orderBy.(type) {
	case dlast.OrderedColumn:
		v, err := CompileExpr(o.Inner, env)
		if err != nil {
			return
		}
		orderVar = v
		if o.Descending {
			suffix = ":desc"
		} else {
			suffix = ":asc"
		}
	case dlast.Column:
		orderVar = env.GetVar(o)
		suffix = ":asc"
	default:
		return
	}
	for i, hp := range headParts {
		if hp == orderVar {
			headParts[i] = orderVar + suffix
			break
		}
	}
}

func processJoinCondition(cond dlast.BoolExpr, env *varenv.Env) {
	switch c := cond.(type) {
	case dlast.Comparison:
		if c.Op == dlast.Eq {
			if lc, ok := c.Left.(dlast.Column); ok {
				if rc, ok := c.Right.(dlast.Column); ok {
					env.Unify(lc, rc)
				}
			}
		}
	case dlast.And:
		processJoinCondition(c.Left, env)
		processJoinCondition(c.Right, env)
	}
}

func filterEmpty(parts []string) []string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func limitSuffix(limit, offset *int) string {
	if limit == nil {
		return ""
	}
	if offset != nil {
		return fmt.Sprintf("limit(%d, %d)", *limit, *offset)
	}
	return fmt.Sprintf("limit(%d)", *limit)
}

func containsRef(refs []relation.Ref, ref relation.Ref) bool {
	for _, r := range refs {
		if r.Relation.Name() == ref.Relation.Name() && r.Alias == ref.Alias {
			return true
		}
	}
	return false
}
