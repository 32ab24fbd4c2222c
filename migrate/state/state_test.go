package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inputlayer/inputlayer-go/dltypes"
	"github.com/inputlayer/inputlayer-go/index"
	"github.com/inputlayer/inputlayer-go/relation"
)

func mustRelation(t *testing.T, name string, fields ...relation.Field) relation.Relation {
	t.Helper()
	r, err := relation.New(name, "", fields...)
	require.NoError(t, err)
	return r
}

func TestEmptyIsEmpty(t *testing.T) {
	assert.True(t, Empty().IsEmpty())
}

func TestFromModelsBaseRelation(t *testing.T) {
	edge := mustRelation(t, "edge",
		relation.Field{Name: "src", Kind: dltypes.KindInt},
		relation.Field{Name: "dst", Kind: dltypes.KindInt},
	)

	s, err := FromModels([]RelationInput{{Relation: edge}}, nil)
	require.NoError(t, err)
	assert.False(t, s.IsEmpty())
	require.Contains(t, s.Relations, "edge")
	assert.Equal(t, []Column{{Name: "src", Type: "int"}, {Name: "dst", Type: "int"}}, s.Relations["edge"])
	assert.Empty(t, s.Rules)
}

func TestFromModelsDerivedRelation(t *testing.T) {
	reachable := mustRelation(t, "reachable",
		relation.Field{Name: "src", Kind: dltypes.KindInt},
		relation.Field{Name: "dst", Kind: dltypes.KindInt},
	)
	clauses := []string{"+reachable(Src, Dst) <- edge(Src, Dst)"}

	s, err := FromModels([]RelationInput{{Relation: reachable, RuleClauses: clauses}}, nil)
	require.NoError(t, err)
	assert.Equal(t, clauses, s.Rules["reachable"])
}

func TestFromModelsIndex(t *testing.T) {
	doc := mustRelation(t, "doc",
		relation.Field{Name: "id", Kind: dltypes.KindInt},
		relation.Field{Name: "embedding", Kind: dltypes.KindVectorDim, Dim: 128},
	)
	idx := index.New("doc_embedding_idx", doc, "embedding")

	s, err := FromModels(nil, []index.HnswIndex{idx})
	require.NoError(t, err)
	require.Contains(t, s.Indexes, "doc_embedding_idx")
	assert.Equal(t, IndexState{
		Relation:       "doc",
		Column:         "embedding",
		Metric:         index.DefaultMetric,
		M:              index.DefaultM,
		EfConstruction: index.DefaultEfConstruction,
		EfSearch:       index.DefaultEfSearch,
	}, s.Indexes["doc_embedding_idx"])
}

func TestToDictFromDictRoundTrip(t *testing.T) {
	edge := mustRelation(t, "edge",
		relation.Field{Name: "src", Kind: dltypes.KindInt},
		relation.Field{Name: "dst", Kind: dltypes.KindInt},
	)
	doc := mustRelation(t, "doc",
		relation.Field{Name: "id", Kind: dltypes.KindInt},
		relation.Field{Name: "embedding", Kind: dltypes.KindVectorDim, Dim: 128},
	)
	idx := index.New("doc_embedding_idx", doc, "embedding")

	s, err := FromModels(
		[]RelationInput{
			{Relation: edge},
			{Relation: doc, RuleClauses: nil},
		},
		[]index.HnswIndex{idx},
	)
	require.NoError(t, err)

	rehydrated := FromDict(s.ToDict())
	assert.Equal(t, s.Relations, rehydrated.Relations)
	assert.Equal(t, s.Rules, rehydrated.Rules)
	assert.Equal(t, s.Indexes, rehydrated.Indexes)
}
