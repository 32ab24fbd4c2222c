// Package ops defines the atomic migration operations: each one is a
// reversible, self-describing schema or rule change that compiles to one
// or more textual Datalog commands.
//
// Grounded on inputlayer's migrations/operations.py: the eight dataclasses
// there (CreateRelation, DropRelation, CreateRule, DropRule, ReplaceRule,
// CreateIndex, DropIndex, RunDatalog) become eight Go structs implementing
// a shared Operation interface — the source's free functions
// (forward_commands/backward_commands/describe/to_dict) become methods,
// and its operation_from_dict registry becomes OperationFromDict below.
package ops

import (
	"fmt"
)

// Column is one relation column's name and storage-type name, matching
// the source's (col_name, datalog_type) tuple.
type Column struct {
	Name string
	Type string
}

func renderColumns(cols []Column) string {
	s := ""
	for i, c := range cols {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s: %s", c.Name, c.Type)
	}
	return s
}

// Operation is one atomic, reversible migration step.
type Operation interface {
	// ForwardCommands returns the textual Datalog commands that apply
	// this operation.
	ForwardCommands() []string
	// BackwardCommands returns the textual Datalog commands that undo
	// this operation.
	BackwardCommands() []string
	// Describe is a one-line human-readable summary, used by
	// showmigrations and generated migration file comments.
	Describe() string
	// ToDict renders the operation to the plain-map wire shape a
	// generated migration file's literal (or a round-trip test) uses.
	ToDict() map[string]any
}

// CreateRelation creates a new relation with a typed schema.
type CreateRelation struct {
	Name    string
	Columns []Column
}

func (o CreateRelation) ForwardCommands() []string {
	return []string{fmt.Sprintf("+%s(%s)", o.Name, renderColumns(o.Columns))}
}

func (o CreateRelation) BackwardCommands() []string {
	return []string{fmt.Sprintf(".rel drop %s", o.Name)}
}

func (o CreateRelation) Describe() string {
	return fmt.Sprintf("Create relation %s", o.Name)
}

func (o CreateRelation) ToDict() map[string]any {
	return map[string]any{"type": "CreateRelation", "name": o.Name, "columns": o.Columns}
}

// DropRelation drops an existing relation. It carries the relation's
// columns so the operation remains reversible.
type DropRelation struct {
	Name    string
	Columns []Column
}

func (o DropRelation) ForwardCommands() []string {
	return []string{fmt.Sprintf(".rel drop %s", o.Name)}
}

func (o DropRelation) BackwardCommands() []string {
	return []string{fmt.Sprintf("+%s(%s)", o.Name, renderColumns(o.Columns))}
}

func (o DropRelation) Describe() string {
	return fmt.Sprintf("Drop relation %s", o.Name)
}

func (o DropRelation) ToDict() map[string]any {
	return map[string]any{"type": "DropRelation", "name": o.Name, "columns": o.Columns}
}

// CreateRule creates a new derived relation's rule, possibly as several
// disjunct clauses.
type CreateRule struct {
	Name    string
	Clauses []string
}

func (o CreateRule) ForwardCommands() []string {
	return append([]string(nil), o.Clauses...)
}

func (o CreateRule) BackwardCommands() []string {
	return []string{fmt.Sprintf(".rule drop %s", o.Name)}
}

func (o CreateRule) Describe() string {
	n := len(o.Clauses)
	plural := "s"
	if n == 1 {
		plural = ""
	}
	return fmt.Sprintf("Create rule %s (%d clause%s)", o.Name, n, plural)
}

func (o CreateRule) ToDict() map[string]any {
	return map[string]any{"type": "CreateRule", "name": o.Name, "clauses": o.Clauses}
}

// DropRule drops an existing rule. It carries the rule's clauses so the
// operation remains reversible.
type DropRule struct {
	Name    string
	Clauses []string
}

func (o DropRule) ForwardCommands() []string {
	return []string{fmt.Sprintf(".rule drop %s", o.Name)}
}

func (o DropRule) BackwardCommands() []string {
	return append([]string(nil), o.Clauses...)
}

func (o DropRule) Describe() string {
	return fmt.Sprintf("Drop rule %s", o.Name)
}

func (o DropRule) ToDict() map[string]any {
	return map[string]any{"type": "DropRule", "name": o.Name, "clauses": o.Clauses}
}

// ReplaceRule replaces a rule's clauses wholesale (drop, then recreate).
type ReplaceRule struct {
	Name       string
	OldClauses []string
	NewClauses []string
}

func (o ReplaceRule) ForwardCommands() []string {
	return append([]string{fmt.Sprintf(".rule drop %s", o.Name)}, o.NewClauses...)
}

func (o ReplaceRule) BackwardCommands() []string {
	return append([]string{fmt.Sprintf(".rule drop %s", o.Name)}, o.OldClauses...)
}

func (o ReplaceRule) Describe() string {
	return fmt.Sprintf("Replace rule %s", o.Name)
}

func (o ReplaceRule) ToDict() map[string]any {
	return map[string]any{
		"type":        "ReplaceRule",
		"name":        o.Name,
		"old_clauses": o.OldClauses,
		"new_clauses": o.NewClauses,
	}
}

// indexTuning is the shared tuning-parameter fields of CreateIndex and
// DropIndex, both of which need every parameter to reconstruct the
// counterpart ".index create" command on their backward path.
type indexTuning struct {
	Name           string
	Relation       string
	Column         string
	Metric         string
	M              int
	EfConstruction int
	EfSearch       int
}

func (t indexTuning) createCommand() string {
	return fmt.Sprintf(
		".index create %s on %s(%s) type hnsw metric %s m %d ef_construction %d ef_search %d",
		t.Name, t.Relation, t.Column, t.Metric, t.M, t.EfConstruction, t.EfSearch,
	)
}

func (t indexTuning) toDict(opType string) map[string]any {
	return map[string]any{
		"type":            opType,
		"name":            t.Name,
		"relation":        t.Relation,
		"column":          t.Column,
		"metric":          t.Metric,
		"m":               t.M,
		"ef_construction": t.EfConstruction,
		"ef_search":       t.EfSearch,
	}
}

// CreateIndex creates an HNSW vector index.
type CreateIndex struct {
	indexTuning
}

// NewCreateIndex builds a CreateIndex, defaulting zero-valued tuning
// fields to the source's dataclass defaults.
func NewCreateIndex(name, relation, column, metric string, m, efConstruction, efSearch int) CreateIndex {
	return CreateIndex{indexTuning{
		Name: name, Relation: relation, Column: column,
		Metric: defaultString(metric, "cosine"),
		M: defaultInt(m, 16), EfConstruction: defaultInt(efConstruction, 100), EfSearch: defaultInt(efSearch, 50),
	}}
}

func (o CreateIndex) ForwardCommands() []string  { return []string{o.createCommand()} }
func (o CreateIndex) BackwardCommands() []string { return []string{fmt.Sprintf(".index drop %s", o.Name)} }
func (o CreateIndex) Describe() string {
	return fmt.Sprintf("Create index %s on %s(%s)", o.Name, o.Relation, o.Column)
}
func (o CreateIndex) ToDict() map[string]any { return o.toDict("CreateIndex") }

// DropIndex drops an HNSW vector index. It carries the full tuning so the
// operation remains reversible.
type DropIndex struct {
	indexTuning
}

// NewDropIndex builds a DropIndex, defaulting zero-valued tuning fields to
// the source's dataclass defaults.
func NewDropIndex(name, relation, column, metric string, m, efConstruction, efSearch int) DropIndex {
	return DropIndex{indexTuning{
		Name: name, Relation: relation, Column: column,
		Metric: defaultString(metric, "cosine"),
		M: defaultInt(m, 16), EfConstruction: defaultInt(efConstruction, 100), EfSearch: defaultInt(efSearch, 50),
	}}
}

func (o DropIndex) ForwardCommands() []string  { return []string{fmt.Sprintf(".index drop %s", o.Name)} }
func (o DropIndex) BackwardCommands() []string { return []string{o.createCommand()} }
func (o DropIndex) Describe() string           { return fmt.Sprintf("Drop index %s", o.Name) }
func (o DropIndex) ToDict() map[string]any     { return o.toDict("DropIndex") }

// RunDatalog is the escape hatch: arbitrary forward/backward command
// lists supplied directly by a hand-written migration.
type RunDatalog struct {
	Forward  []string
	Backward []string
}

func (o RunDatalog) ForwardCommands() []string  { return append([]string(nil), o.Forward...) }
func (o RunDatalog) BackwardCommands() []string { return append([]string(nil), o.Backward...) }
func (o RunDatalog) Describe() string {
	n := len(o.Forward)
	plural := "s"
	if n == 1 {
		plural = ""
	}
	return fmt.Sprintf("Run %d custom Datalog command%s", n, plural)
}
func (o RunDatalog) ToDict() map[string]any {
	return map[string]any{"type": "RunDatalog", "forward": o.Forward, "backward": o.Backward}
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// OperationFromDict deserializes an operation from the map ToDict
// produces, dispatching on its "type" key. Mirrors the source's
// operation_from_dict / _OPERATION_REGISTRY.
func OperationFromDict(d map[string]any) (Operation, error) {
	typ, _ := d["type"].(string)
	switch typ {
	case "CreateRelation":
		return CreateRelation{Name: str(d["name"]), Columns: columnsFromDict(d["columns"])}, nil
	case "DropRelation":
		return DropRelation{Name: str(d["name"]), Columns: columnsFromDict(d["columns"])}, nil
	case "CreateRule":
		return CreateRule{Name: str(d["name"]), Clauses: strSlice(d["clauses"])}, nil
	case "DropRule":
		return DropRule{Name: str(d["name"]), Clauses: strSlice(d["clauses"])}, nil
	case "ReplaceRule":
		return ReplaceRule{
			Name:       str(d["name"]),
			OldClauses: strSlice(d["old_clauses"]),
			NewClauses: strSlice(d["new_clauses"]),
		}, nil
	case "CreateIndex":
		return NewCreateIndex(str(d["name"]), str(d["relation"]), str(d["column"]), str(d["metric"]),
			intOf(d["m"]), intOf(d["ef_construction"]), intOf(d["ef_search"])), nil
	case "DropIndex":
		return NewDropIndex(str(d["name"]), str(d["relation"]), str(d["column"]), str(d["metric"]),
			intOf(d["m"]), intOf(d["ef_construction"]), intOf(d["ef_search"])), nil
	case "RunDatalog":
		return RunDatalog{Forward: strSlice(d["forward"]), Backward: strSlice(d["backward"])}, nil
	default:
		return nil, fmt.Errorf("ops: unknown operation type: %q", typ)
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func intOf(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func strSlice(v any) []string {
	if asStrings, ok := v.([]string); ok {
		return asStrings
	}
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, str(item))
	}
	return out
}

func columnsFromDict(v any) []Column {
	if cols, ok := v.([]Column); ok {
		return cols
	}
	list, _ := v.([]any)
	out := make([]Column, 0, len(list))
	for _, item := range list {
		switch c := item.(type) {
		case Column:
			out = append(out, c)
		case map[string]any:
			out = append(out, Column{Name: str(c["name"]), Type: str(c["type"])})
		case []any:
			if len(c) == 2 {
				out = append(out, Column{Name: str(c[0]), Type: str(c[1])})
			}
		}
	}
	return out
}
