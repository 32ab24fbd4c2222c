// Package autodetect diffs two state.ModelState snapshots into an ordered
// list of ops.Operation. Grounded on inputlayer's
// migrations/autodetector.py: the phase order and its rationale (new
// relations before rules that reference them; rules dropped before the
// relations they depend on; modified relations are drop+recreate since
// this system has no ALTER) carries over unchanged, sorted by name within
// each phase so the generated migration is deterministic run to run.
package autodetect

import (
	"sort"

	"github.com/inputlayer/inputlayer-go/migrate/ops"
	"github.com/inputlayer/inputlayer-go/migrate/state"
)

// DetectChanges diffs old against new and returns the ordered operations
// that transform old into new:
//
//  1. Create new relations
//  2. Modified relations (columns changed) -> drop + recreate
//  3. Drop rules that no longer exist
//  4. Replace modified rules
//  5. Create new rules
//  6. Drop removed relations
//  7. Drop removed indexes
//  8. Modified indexes -> drop + recreate
//  9. Create new indexes
func DetectChanges(old, new state.ModelState) []ops.Operation {
	var result []ops.Operation

	oldRels := sortedRelationNames(old)
	newRels := sortedRelationNames(new)
	oldRules := sortedRuleNames(old)
	newRules := sortedRuleNames(new)
	oldIdxs := sortedIndexNames(old)
	newIdxs := sortedIndexNames(new)

	for _, name := range setDiff(newRels, oldRels) {
		result = append(result, ops.CreateRelation{Name: name, Columns: toOpsColumns(new.Relations[name])})
	}

	for _, name := range setIntersect(oldRels, newRels) {
		if !columnsEqual(old.Relations[name], new.Relations[name]) {
			result = append(result, ops.DropRelation{Name: name, Columns: toOpsColumns(old.Relations[name])})
			result = append(result, ops.CreateRelation{Name: name, Columns: toOpsColumns(new.Relations[name])})
		}
	}

	for _, name := range setDiff(oldRules, newRules) {
		result = append(result, ops.DropRule{Name: name, Clauses: old.Rules[name]})
	}

	for _, name := range setIntersect(oldRules, newRules) {
		if !stringsEqual(old.Rules[name], new.Rules[name]) {
			result = append(result, ops.ReplaceRule{
				Name:       name,
				OldClauses: old.Rules[name],
				NewClauses: new.Rules[name],
			})
		}
	}

	for _, name := range setDiff(newRules, oldRules) {
		result = append(result, ops.CreateRule{Name: name, Clauses: new.Rules[name]})
	}

	for _, name := range setDiff(oldRels, newRels) {
		result = append(result, ops.DropRelation{Name: name, Columns: toOpsColumns(old.Relations[name])})
	}

	for _, name := range setDiff(oldIdxs, newIdxs) {
		info := old.Indexes[name]
		result = append(result, ops.NewDropIndex(name, info.Relation, info.Column, info.Metric, info.M, info.EfConstruction, info.EfSearch))
	}

	for _, name := range setIntersect(oldIdxs, newIdxs) {
		oldInfo, newInfo := old.Indexes[name], new.Indexes[name]
		if oldInfo != newInfo {
			result = append(result, ops.NewDropIndex(name, oldInfo.Relation, oldInfo.Column, oldInfo.Metric, oldInfo.M, oldInfo.EfConstruction, oldInfo.EfSearch))
			result = append(result, ops.NewCreateIndex(name, newInfo.Relation, newInfo.Column, newInfo.Metric, newInfo.M, newInfo.EfConstruction, newInfo.EfSearch))
		}
	}

	for _, name := range setDiff(newIdxs, oldIdxs) {
		info := new.Indexes[name]
		result = append(result, ops.NewCreateIndex(name, info.Relation, info.Column, info.Metric, info.M, info.EfConstruction, info.EfSearch))
	}

	return result
}

func toOpsColumns(cols []state.Column) []ops.Column {
	out := make([]ops.Column, len(cols))
	for i, c := range cols {
		out[i] = ops.Column{Name: c.Name, Type: c.Type}
	}
	return out
}

func columnsEqual(a, b []state.Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortedRelationNames(s state.ModelState) []string { return sortedKeysOfRelations(s.Relations) }
func sortedRuleNames(s state.ModelState) []string      { return sortedKeysOfRules(s.Rules) }
func sortedIndexNames(s state.ModelState) []string     { return sortedKeysOfIndexes(s.Indexes) }

func sortedKeysOfRelations(m map[string][]state.Column) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedKeysOfRules(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedKeysOfIndexes(m map[string]state.IndexState) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// setDiff returns the sorted elements of a (already sorted) not present
// in b (already sorted).
func setDiff(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}
	var out []string
	for _, v := range a {
		if _, ok := inB[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// setIntersect returns the sorted elements present in both a and b.
func setIntersect(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}
	var out []string
	for _, v := range a {
		if _, ok := inB[v]; ok {
			out = append(out, v)
		}
	}
	return out
}
