// Package relation describes the typed relation model: a named,
// positionally ordered column list, introspected once at schema-declaration
// time rather than via runtime reflection.
//
// The source this is modeled on introspects Pydantic model field types at
// runtime to build a relation's column list. A statically typed
// implementation cannot do that safely (see spec §9's guidance on dynamic
// schema introspection), so a Relation here is built from an explicit
// schema literal instead — a Field slice the caller declares once, usually
// in a package-level var next to the Go struct the relation mirrors.
package relation

import (
	"fmt"

	"github.com/inputlayer/inputlayer-go/dltypes"
	"github.com/inputlayer/inputlayer-go/naming"
)

// Field is one column declaration: its name, storage kind, and (for
// dimensioned vector kinds) its dimension.
type Field struct {
	Name string
	Kind dltypes.Kind
	Dim  int
}

// Relation is a named, ordered column list. Relations are value-semantic:
// two Relations built from the same name and ordered field list compare
// equal with reflect.DeepEqual.
type Relation struct {
	name   string
	fields []Field
}

// New declares a relation. If name is empty, it is derived from typeName
// via naming.ClassToSnake (the convention used when a Go struct's name is
// passed directly, e.g. New("", "Employee", fields...)).
func New(name string, typeName string, fields ...Field) (Relation, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			return Relation{}, fmt.Errorf("relation %q: duplicate column %q", name, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	if name == "" {
		name = naming.ClassToSnake(typeName)
	}
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return Relation{name: name, fields: cp}, nil
}

// Name is the relation's Datalog name.
func (r Relation) Name() string { return r.name }

// Fields returns the ordered column declarations.
func (r Relation) Fields() []Field {
	cp := make([]Field, len(r.fields))
	copy(cp, r.fields)
	return cp
}

// Columns returns the ordered column names.
func (r Relation) Columns() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.Name
	}
	return out
}

// FieldByName returns the declaration for a column, and whether it exists.
func (r Relation) FieldByName(name string) (Field, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Ref is a relation reference bound to an alias, used to disambiguate
// self-joins. An empty Alias means "refer to the relation by its own
// name".
type Ref struct {
	Relation Relation
	Alias    string
}

// Unaliased returns a reference to r using its own name.
func (r Relation) Unaliased() Ref { return Ref{Relation: r} }

// Refs mints n independent aliased references for self-joins, named
// "<relation>_1".."<relation>_n".
func (r Relation) Refs(n int) []Ref {
	out := make([]Ref, n)
	for i := 0; i < n; i++ {
		out[i] = Ref{Relation: r, Alias: fmt.Sprintf("%s_%d", r.name, i+1)}
	}
	return out
}

// Name resolves the ref's relation name as it appears in an atom: the
// alias if set, otherwise the relation's own name.
func (rf Ref) Name() string {
	if rf.Alias != "" {
		return rf.Alias
	}
	return rf.Relation.Name()
}
