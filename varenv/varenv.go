// Package varenv implements the variable environment: a union-find
// structure over (relation_or_alias, column) keys that assigns each
// equivalence class a canonical, deterministic Datalog variable name.
//
// A join condition such as "e.department == d.name" must unify those two
// columns onto the same variable wherever either appears in the emitted
// program. Env is the structure that makes that hold.
package varenv

import (
	"fmt"

	"github.com/inputlayer/inputlayer-go/dlast"
	"github.com/inputlayer/inputlayer-go/naming"
)

// Env is a per-compilation, mutable variable environment. It is not safe
// for concurrent use — each compilation owns its own Env and discards it
// once the program text has been produced.
type Env struct {
	parent  map[string]string
	varOf   map[string]string // union-find root -> variable name
	counter int
}

// New returns an empty variable environment.
func New() *Env {
	return &Env{
		parent: make(map[string]string),
		varOf:  make(map[string]string),
	}
}

func key(rel, col string) string {
	return rel + "." + col
}

// find returns the root of key's union-find set, path-compressing as it
// goes. Unknown keys are their own root.
func (e *Env) find(k string) string {
	for {
		p, ok := e.parent[k]
		if !ok || p == k {
			return k
		}
		// path-halving compression, mirroring the source's parent-of-parent hop
		if gp, ok := e.parent[p]; ok {
			e.parent[k] = gp
			k = gp
		} else {
			k = p
		}
	}
}

// union merges the sets containing a and b. First-seen-key-wins: b's root
// is attached under a's root, so repeated unions in source order are
// deterministic.
func (e *Env) union(a, b string) {
	ra, rb := e.find(a), e.find(b)
	if ra != rb {
		e.parent[rb] = ra
	}
}

// assign picks (and records) a variable name for root, derived from
// seedColumn, disambiguating against every name already in use.
func (e *Env) assign(root, seedColumn string) string {
	if v, ok := e.varOf[root]; ok {
		return v
	}
	v := naming.ColumnToVar(seedColumn)
	used := make(map[string]struct{}, len(e.varOf))
	for _, existing := range e.varOf {
		used[existing] = struct{}{}
	}
	if _, taken := used[v]; taken {
		e.counter++
		v = fmt.Sprintf("%s_%d", v, e.counter)
	}
	e.varOf[root] = v
	return v
}

func refKey(c dlast.Column) string {
	rel := c.Alias
	if rel == "" {
		rel = c.Relation
	}
	return key(rel, c.Column)
}

// GetVar returns the variable name for a column, creating one if this is
// the column's first appearance.
func (e *Env) GetVar(c dlast.Column) string {
	k := refKey(c)
	root := e.find(k)
	return e.assign(root, c.Column)
}

// Unify merges two columns' equivalence classes (a join condition) and
// returns the variable name the merged class now resolves to.
func (e *Env) Unify(a, b dlast.Column) string {
	e.union(refKey(a), refKey(b))
	root := e.find(refKey(a))
	return e.assign(root, a.Column)
}

// ForceVar directly binds a column to a specific variable name, bypassing
// the usual disambiguation logic. Used by the conditional-delete compiler
// to pre-bind positional X0..Xn variables before compiling the delete
// condition.
func (e *Env) ForceVar(c dlast.Column, name string) {
	root := e.find(refKey(c))
	e.varOf[root] = name
}

// Lookup returns the existing variable for a column without creating one,
// and whether it has been assigned yet.
func (e *Env) Lookup(c dlast.Column) (string, bool) {
	root := e.find(refKey(c))
	v, ok := e.varOf[root]
	return v, ok
}
