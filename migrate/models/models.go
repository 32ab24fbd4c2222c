// Package models is the model registry makemigrations diffs against: a
// project's relation, derived-rule, and index declarations self-register
// here via init(), the same convention migrate/loader uses for migration
// files (Go has no importlib-style "import this module path and inspect
// its members" the source's _discover_models relies on).
//
// A project wanting `inputlayer-migrate makemigrations` wires its own
// models package to blank-import into a project-specific build of
// cmd/inputlayer-migrate (or calls Register directly from an init in
// that package), mirroring how golang-migrate/goose consumers register
// their own migrations.
package models

import (
	"sync"

	"github.com/inputlayer/inputlayer-go/index"
	"github.com/inputlayer/inputlayer-go/migrate/state"
	"github.com/inputlayer/inputlayer-go/relation"
)

var (
	mu        sync.Mutex
	relations []state.RelationInput
	indexes   []index.HnswIndex
)

// Register declares a relation. ruleClauses is empty for a base relation,
// or the compiled clause texts for a derived (rule-backed) one.
func Register(rel relation.Relation, ruleClauses ...string) {
	mu.Lock()
	defer mu.Unlock()
	relations = append(relations, state.RelationInput{Relation: rel, RuleClauses: ruleClauses})
}

// RegisterIndex declares an HNSW index over an already-registered relation.
func RegisterIndex(idx index.HnswIndex) {
	mu.Lock()
	defer mu.Unlock()
	indexes = append(indexes, idx)
}

// Snapshot returns the current registry contents, for building a
// migrate/state.ModelState with state.FromModels.
func Snapshot() ([]state.RelationInput, []index.HnswIndex) {
	mu.Lock()
	defer mu.Unlock()
	rels := make([]state.RelationInput, len(relations))
	copy(rels, relations)
	idxs := make([]index.HnswIndex, len(indexes))
	copy(idxs, indexes)
	return rels, idxs
}

// Reset clears the registry. Exposed for tests that register fixture
// models and must not leak them into other tests in the same process.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	relations = nil
	indexes = nil
}
