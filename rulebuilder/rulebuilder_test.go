package rulebuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inputlayer/inputlayer-go/compiler"
	"github.com/inputlayer/inputlayer-go/dlast"
	"github.com/inputlayer/inputlayer-go/dltypes"
	"github.com/inputlayer/inputlayer-go/relation"
)

func edgeRelation(t *testing.T) relation.Relation {
	t.Helper()
	r, err := relation.New("", "Edge",
		relation.Field{Name: "src", Kind: dltypes.KindInt},
		relation.Field{Name: "dst", Kind: dltypes.KindInt},
	)
	require.NoError(t, err)
	return r
}

func reachableRelation(t *testing.T) relation.Relation {
	t.Helper()
	r, err := relation.New("", "Reachable",
		relation.Field{Name: "src", Kind: dltypes.KindInt},
		relation.Field{Name: "dst", Kind: dltypes.KindInt},
	)
	require.NoError(t, err)
	return r
}

func TestFromSelectBuildsBaseClause(t *testing.T) {
	edge := edgeRelation(t)

	clause := From(edge.Unaliased()).Select(map[string]dlast.Expr{
		"src": dlast.Column{Relation: "edge", Column: "src"},
		"dst": dlast.Column{Relation: "edge", Column: "dst"},
	})

	got, err := compiler.CompileRule("reachable", []string{"src", "dst"}, clause, true)
	require.NoError(t, err)
	assert.Equal(t, "+reachable(Src, Dst) <- edge(Src, Dst)", got)
}

func TestFromWhereSelectBuildsConditionalClause(t *testing.T) {
	reachable := reachableRelation(t)
	edge := edgeRelation(t)

	clause := From(reachable.Unaliased(), edge.Unaliased()).
		Where(dlast.Comparison{
			Op:    dlast.Eq,
			Left:  dlast.Column{Relation: "reachable", Column: "dst"},
			Right: dlast.Column{Relation: "edge", Column: "src"},
		}).
		Select(map[string]dlast.Expr{
			"src": dlast.Column{Relation: "reachable", Column: "src"},
			"dst": dlast.Column{Relation: "edge", Column: "dst"},
		})

	got, err := compiler.CompileRule("reachable", []string{"src", "dst"}, clause, true)
	require.NoError(t, err)
	assert.Contains(t, got, "<-")
	assert.Contains(t, got, "edge(")
	assert.Contains(t, got, "reachable(")
}

func TestWhereFuncReceivesClauseRefs(t *testing.T) {
	edge := edgeRelation(t)

	clause := From(edge.Unaliased()).
		WhereFunc(func(refs ...relation.Ref) dlast.BoolExpr {
			require.Len(t, refs, 1)
			return dlast.Comparison{
				Op:    dlast.Eq,
				Left:  dlast.Column{Relation: refs[0].Name(), Column: "src"},
				Right: dlast.IntLiteral(1),
			}
		}).
		Select(map[string]dlast.Expr{
			"src": dlast.Column{Relation: "edge", Column: "src"},
			"dst": dlast.Column{Relation: "edge", Column: "dst"},
		})

	got, err := compiler.CompileRule("reachable", []string{"src", "dst"}, clause, true)
	require.NoError(t, err)
	assert.Contains(t, got, "= 1")
}
