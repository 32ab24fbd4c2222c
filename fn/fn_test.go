package fn

import (
	"testing"

	"github.com/inputlayer/inputlayer-go/compiler"
	"github.com/inputlayer/inputlayer-go/dlast"
	"github.com/inputlayer/inputlayer-go/varenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, e dlast.Expr) string {
	t.Helper()
	got, err := compiler.CompileExpr(e, varenv.New())
	require.NoError(t, err)
	return got
}

func TestDistanceFunctions(t *testing.T) {
	a := dlast.Column{Relation: "docs", Column: "embedding"}
	b := dlast.Column{Relation: "docs", Column: "query_vec"}
	assert.Equal(t, "euclidean(Embedding, QueryVec)", compile(t, Euclidean(a, b)))
	assert.Equal(t, "cosine(Embedding, QueryVec)", compile(t, Cosine(a, b)))
	assert.Equal(t, "dot(Embedding, QueryVec)", compile(t, Dot(a, b)))
	assert.Equal(t, "manhattan(Embedding, QueryVec)", compile(t, Manhattan(a, b)))
}

func TestVectorOps(t *testing.T) {
	v := dlast.Column{Relation: "docs", Column: "embedding"}
	assert.Equal(t, "normalize(Embedding)", compile(t, Normalize(v)))
	assert.Equal(t, "vec_dim(Embedding)", compile(t, VecDim(v)))
	assert.Equal(t, "vec_scale(Embedding, 2.0)", compile(t, VecScale(v, dlast.FloatLiteral(2.0))))
}

func TestLSH(t *testing.T) {
	v := dlast.Column{Relation: "docs", Column: "embedding"}
	got := compile(t, LSHBucket(v, dlast.IntLiteral(0), dlast.IntLiteral(16)))
	assert.Equal(t, "lsh_bucket(Embedding, 0, 16)", got)
}

func TestTimeNowNoArgs(t *testing.T) {
	assert.Equal(t, "time_now()", compile(t, TimeNow()))
}

func TestTemporalBetween(t *testing.T) {
	ts := dlast.Column{Relation: "events", Column: "ts"}
	s := dlast.Column{Relation: "events", Column: "start"}
	en := dlast.Column{Relation: "events", Column: "end"}
	assert.Equal(t, "time_between(Ts, Start, End)", compile(t, TimeBetween(ts, s, en)))
}

func TestMathFunctions(t *testing.T) {
	x := dlast.Column{Relation: "t", Column: "x"}
	assert.Equal(t, "abs(X)", compile(t, Abs(x)))
	assert.Equal(t, "sqrt(X)", compile(t, Sqrt(x)))
	assert.Equal(t, "pow(X, 2.0)", compile(t, Pow(x, dlast.FloatLiteral(2.0))))
}

func TestStringFunctions(t *testing.T) {
	s := dlast.Column{Relation: "t", Column: "name"}
	assert.Equal(t, "upper(Name)", compile(t, Upper(s)))
	assert.Equal(t, `substr(Name, 0, 3)`, compile(t, Substr(s, dlast.IntLiteral(0), dlast.IntLiteral(3))))
	assert.Equal(t, `concat(Name, "!")`, compile(t, Concat(s, dlast.StringLiteral("!"))))
}

func TestConversion(t *testing.T) {
	x := dlast.Column{Relation: "t", Column: "x"}
	assert.Equal(t, "to_float(X)", compile(t, ToFloat(x)))
	assert.Equal(t, "to_int(X)", compile(t, ToInt(x)))
}

func TestHnswNearestWithoutEfSearch(t *testing.T) {
	qv := dlast.Column{Relation: "docs", Column: "query_vec"}
	got := compile(t, HnswNearest("idx", qv, 10, nil))
	assert.Equal(t, `hnsw_nearest("idx", QueryVec, 10)`, got)
}

func TestHnswNearestWithEfSearch(t *testing.T) {
	qv := dlast.Column{Relation: "docs", Column: "query_vec"}
	ef := 64
	got := compile(t, HnswNearest("idx", qv, 10, &ef))
	assert.Equal(t, `hnsw_nearest("idx", QueryVec, 10, 64)`, got)
}
