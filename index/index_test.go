package index

import (
	"testing"

	"github.com/inputlayer/inputlayer-go/dltypes"
	"github.com/inputlayer/inputlayer-go/relation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docRelation(t *testing.T) relation.Relation {
	t.Helper()
	r, err := relation.New("", "Document",
		relation.Field{Name: "id", Kind: dltypes.KindInt},
		relation.Field{Name: "embedding", Kind: dltypes.KindVectorDim, Dim: 128},
	)
	require.NoError(t, err)
	return r
}

func TestToDatalogDefaults(t *testing.T) {
	r := docRelation(t)
	idx := New("doc_embedding_idx", r, "embedding")
	got, err := idx.ToDatalog()
	require.NoError(t, err)
	assert.Equal(t, ".index create doc_embedding_idx on document(embedding) type hnsw metric cosine m 16 ef_construction 100 ef_search 50", got)
}

func TestToDatalogCustomTuning(t *testing.T) {
	r := docRelation(t)
	idx := New("doc_embedding_idx", r, "embedding")
	idx.Metric = "euclidean"
	idx.M = 32
	idx.EfConstruction = 200
	idx.EfSearch = 128
	got, err := idx.ToDatalog()
	require.NoError(t, err)
	assert.Equal(t, ".index create doc_embedding_idx on document(embedding) type hnsw metric euclidean m 32 ef_construction 200 ef_search 128", got)
}

func TestToDatalogUnknownColumn(t *testing.T) {
	r := docRelation(t)
	idx := New("bad_idx", r, "missing")
	_, err := idx.ToDatalog()
	require.Error(t, err)
}
