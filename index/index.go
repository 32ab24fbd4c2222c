// Package index compiles HNSW vector index declarations to the
// ".index create" meta command, grounded on index.py's HnswIndex.
package index

import (
	"fmt"

	"github.com/inputlayer/inputlayer-go/relation"
)

// Default tuning parameters, matching the source's dataclass field defaults.
const (
	DefaultMetric         = "cosine"
	DefaultM              = 16
	DefaultEfConstruction = 100
	DefaultEfSearch       = 50
)

// HnswIndex is an HNSW vector index configuration over one relation column.
type HnswIndex struct {
	Name           string
	Relation       relation.Relation
	Column         string
	Metric         string
	M              int
	EfConstruction int
	EfSearch       int
}

// New returns an HnswIndex with the source's default tuning parameters,
// which callers may override by setting the struct fields directly.
func New(name string, rel relation.Relation, column string) HnswIndex {
	return HnswIndex{
		Name:           name,
		Relation:       rel,
		Column:         column,
		Metric:         DefaultMetric,
		M:              DefaultM,
		EfConstruction: DefaultEfConstruction,
		EfSearch:       DefaultEfSearch,
	}
}

// ToDatalog compiles this index definition to a Datalog meta command:
//
//	.index create <name> on <relation>(<column>) type hnsw metric <metric> m <m> ef_construction <efc> ef_search <efs>
func (h HnswIndex) ToDatalog() (string, error) {
	if _, ok := h.Relation.FieldByName(h.Column); !ok {
		return "", fmt.Errorf("index %s: column %q not found on relation %s", h.Name, h.Column, h.Relation.Name())
	}
	return fmt.Sprintf(".index create %s on %s(%s) type hnsw metric %s m %d ef_construction %d ef_search %d",
		h.Name, h.Relation.Name(), h.Column, h.Metric, h.M, h.EfConstruction, h.EfSearch), nil
}
