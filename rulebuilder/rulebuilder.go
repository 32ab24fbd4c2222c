// Package rulebuilder is a fluent From(...).Where(...).Select(...) chain
// that builds a compiler.RuleClause, sugar over the compiler package's
// existing types rather than a new core concern.
//
// Grounded on derived.py's From/FromWhere builder chain: Go has no
// keyword-argument equivalent of Python's select(**columns), so Select
// takes a map[string]dlast.Expr of head column to body expression
// instead; the lambda-where shape (a callable taking relation proxies)
// becomes WhereFunc, accepting a func(...relation.Ref) dlast.BoolExpr.
package rulebuilder

import (
	"github.com/inputlayer/inputlayer-go/compiler"
	"github.com/inputlayer/inputlayer-go/dlast"
	"github.com/inputlayer/inputlayer-go/relation"
)

// Builder holds the relations named in a From(...) call, before a
// condition or column mapping is attached.
type Builder struct {
	refs []relation.Ref
}

// From starts a rule clause over the given relation references (use
// Relation.Unaliased() or Relation.Refs(n) to build self-joins).
func From(refs ...relation.Ref) *Builder {
	return &Builder{refs: refs}
}

// Where attaches a filter condition built directly as a BoolExpr.
func (b *Builder) Where(cond dlast.BoolExpr) *ConditionalBuilder {
	return &ConditionalBuilder{refs: b.refs, cond: cond}
}

// WhereFunc attaches a filter condition built from the clause's own
// relation references, mirroring derived.py's lambda-where shape
// (`.where(lambda r, e: r.dst == e.x)`).
func (b *Builder) WhereFunc(f func(...relation.Ref) dlast.BoolExpr) *ConditionalBuilder {
	return &ConditionalBuilder{refs: b.refs, cond: f(b.refs...)}
}

// Select maps derived columns to body expressions and returns the
// completed, condition-free rule clause.
func (b *Builder) Select(columns map[string]dlast.Expr) compiler.RuleClause {
	return compiler.RuleClause{Relations: b.refs, SelectMap: columns}
}

// ConditionalBuilder is the intermediate state after Where/WhereFunc —
// only Select remains, matching derived.py's FromWhere.
type ConditionalBuilder struct {
	refs []relation.Ref
	cond dlast.BoolExpr
}

// Select maps derived columns to body expressions and returns the
// completed rule clause, carrying the attached condition.
func (c *ConditionalBuilder) Select(columns map[string]dlast.Expr) compiler.RuleClause {
	return compiler.RuleClause{Relations: c.refs, SelectMap: columns, Condition: c.cond}
}
