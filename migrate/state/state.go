// Package state holds ModelState, the declarative snapshot the
// autodetector diffs against to produce migration operations: every
// relation's column list, every rule's compiled clause texts, and every
// index's tuning parameters, keyed by name.
//
// Grounded on inputlayer's migrations/state.py: a ModelState is built once
// from the caller's live relation/rule/index declarations (FromModels) and
// is otherwise a plain value compared structurally, the same way the
// source's dataclass-equality ModelState is diffed field by field.
package state

import (
	"sort"

	"github.com/inputlayer/inputlayer-go/dltypes"
	"github.com/inputlayer/inputlayer-go/index"
	"github.com/inputlayer/inputlayer-go/relation"
)

// Column is one relation column's name and storage-type name, in the
// relation's declared order.
type Column struct {
	Name string
	Type string
}

// IndexState is the tuning-parameter snapshot of one HNSW index.
type IndexState struct {
	Relation       string
	Column         string
	Metric         string
	M              int
	EfConstruction int
	EfSearch       int
}

// ModelState is the full declarative snapshot: relations by name, rules
// by name (each a list of compiled clause texts, one per disjunct), and
// indexes by name.
type ModelState struct {
	Relations map[string][]Column
	Rules     map[string][]string
	Indexes   map[string]IndexState
}

// Empty returns a ModelState with no declarations.
func Empty() ModelState {
	return ModelState{
		Relations: make(map[string][]Column),
		Rules:     make(map[string][]string),
		Indexes:   make(map[string]IndexState),
	}
}

// IsEmpty reports whether the state declares nothing at all.
func (s ModelState) IsEmpty() bool {
	return len(s.Relations) == 0 && len(s.Rules) == 0 && len(s.Indexes) == 0
}

// RelationInput pairs a declared relation with the rule-clause texts that
// define it, if it is a derived (rule-backed) relation. A base relation
// with no rule passes nil/empty ruleClauses.
type RelationInput struct {
	Relation    relation.Relation
	RuleClauses []string
}

// FromModels builds a ModelState from the caller's live declarations: the
// relation schemas (plus their defining rule clauses, for derived
// relations) and the HNSW indexes built on top of them. This mirrors the
// source's ModelState.from_models, which walks the app registry's model
// classes instead of an explicit slice — Go has no such registry, so the
// caller passes its declarations directly (see migrate/models for the
// registry a project's init() functions fill with these declarations).
func FromModels(relations []RelationInput, indexes []index.HnswIndex) (ModelState, error) {
	s := Empty()

	for _, ri := range relations {
		fields := ri.Relation.Fields()
		cols := make([]Column, len(fields))
		for i, f := range fields {
			typeName, err := dltypes.TypeName(f.Kind, f.Dim)
			if err != nil {
				return ModelState{}, err
			}
			cols[i] = Column{Name: f.Name, Type: typeName}
		}
		s.Relations[ri.Relation.Name()] = cols
		if len(ri.RuleClauses) > 0 {
			s.Rules[ri.Relation.Name()] = append([]string(nil), ri.RuleClauses...)
		}
	}

	for _, idx := range indexes {
		s.Indexes[idx.Name] = IndexState{
			Relation:       idx.Relation.Name(),
			Column:         idx.Column,
			Metric:         idx.Metric,
			M:              idx.M,
			EfConstruction: idx.EfConstruction,
			EfSearch:       idx.EfSearch,
		}
	}

	return s, nil
}

// ToDict/FromDict use a plain nested-map wire shape (relations as lists of
// {name, type} maps, rules as clause lists, indexes as tuning maps),
// matching the source's to_dict/from_dict JSON-ish round trip used to
// serialize a migration's state snapshot.

// ToDict renders the state to a plain nested-map form suitable for
// generating a migration file's literal state snapshot (see migrate/writer)
// or for equality comparison independent of map iteration order.
func (s ModelState) ToDict() map[string]any {
	out := map[string]any{}

	relNames := sortedMapKeys(s.Relations)
	rels := map[string]any{}
	for _, name := range relNames {
		cols := s.Relations[name]
		colList := make([]any, len(cols))
		for i, c := range cols {
			colList[i] = map[string]any{"name": c.Name, "type": c.Type}
		}
		rels[name] = colList
	}
	out["relations"] = rels

	ruleNames := sortedMapKeys(s.Rules)
	rules := map[string]any{}
	for _, name := range ruleNames {
		clauses := s.Rules[name]
		clauseList := make([]any, len(clauses))
		for i, c := range clauses {
			clauseList[i] = c
		}
		rules[name] = clauseList
	}
	out["rules"] = rules

	idxNames := sortedMapKeys(s.Indexes)
	indexes := map[string]any{}
	for _, name := range idxNames {
		ix := s.Indexes[name]
		indexes[name] = map[string]any{
			"relation":        ix.Relation,
			"column":          ix.Column,
			"metric":          ix.Metric,
			"m":               ix.M,
			"ef_construction": ix.EfConstruction,
			"ef_search":       ix.EfSearch,
		}
	}
	out["indexes"] = indexes

	return out
}

// FromDict reconstructs a ModelState from the map produced by ToDict, or
// from a generated migration's state literal as read back by
// migrate/loader (whose rule clause lists are []string rather than []any).
func FromDict(d map[string]any) ModelState {
	s := Empty()

	if rels, ok := d["relations"].(map[string]any); ok {
		for name, v := range rels {
			list, _ := v.([]any)
			cols := make([]Column, 0, len(list))
			for _, item := range list {
				m, _ := item.(map[string]any)
				cols = append(cols, Column{
					Name: asString(m["name"]),
					Type: asString(m["type"]),
				})
			}
			s.Relations[name] = cols
		}
	}

	if rules, ok := d["rules"].(map[string]any); ok {
		for name, v := range rules {
			if strs, ok := v.([]string); ok {
				s.Rules[name] = append([]string(nil), strs...)
				continue
			}
			list, _ := v.([]any)
			clauses := make([]string, 0, len(list))
			for _, item := range list {
				clauses = append(clauses, asString(item))
			}
			s.Rules[name] = clauses
		}
	}

	if indexes, ok := d["indexes"].(map[string]any); ok {
		for name, v := range indexes {
			m, _ := v.(map[string]any)
			s.Indexes[name] = IndexState{
				Relation:       asString(m["relation"]),
				Column:         asString(m["column"]),
				Metric:         asString(m["metric"]),
				M:              asInt(m["m"]),
				EfConstruction: asInt(m["ef_construction"]),
				EfSearch:       asInt(m["ef_search"]),
			}
		}
	}

	return s
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
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

func sortedMapKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
