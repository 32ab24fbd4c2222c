package compiler

import (
	"testing"

	"github.com/inputlayer/inputlayer-go/dlast"
	"github.com/inputlayer/inputlayer-go/dltypes"
	"github.com/inputlayer/inputlayer-go/relation"
	"github.com/inputlayer/inputlayer-go/varenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func employeeRelation(t *testing.T) relation.Relation {
	t.Helper()
	r, err := relation.New("", "Employee",
		relation.Field{Name: "id", Kind: dltypes.KindInt},
		relation.Field{Name: "name", Kind: dltypes.KindString},
		relation.Field{Name: "department", Kind: dltypes.KindString},
		relation.Field{Name: "salary", Kind: dltypes.KindFloat},
		relation.Field{Name: "active", Kind: dltypes.KindBool},
	)
	require.NoError(t, err)
	return r
}

// S1 — schema
func TestS1Schema(t *testing.T) {
	r := employeeRelation(t)
	got, err := CompileSchema(r)
	require.NoError(t, err)
	assert.Equal(t, "+employee(id: int, name: string, department: string, salary: float, active: bool)", got)
}

// S2 — insert
func TestS2Insert(t *testing.T) {
	r := employeeRelation(t)
	fact := Fact{Relation: r, Values: []dlast.Literal{
		dlast.IntLiteral(1),
		dlast.StringLiteral("Alice"),
		dlast.StringLiteral("eng"),
		dlast.FloatLiteral(120000.0),
		dlast.BoolLiteral(true),
	}}
	got, err := CompileInsert(fact, true)
	require.NoError(t, err)
	assert.Equal(t, `+employee(1, "Alice", "eng", 120000.0, true)`, got)

	session, err := CompileInsert(fact, false)
	require.NoError(t, err)
	assert.Equal(t, `employee(1, "Alice", "eng", 120000.0, true)`, session)
}

// property 2: persistent and session inserts differ only by leading "+"
func TestInsertPersistentVsSession(t *testing.T) {
	r := employeeRelation(t)
	fact := Fact{Relation: r, Values: []dlast.Literal{
		dlast.IntLiteral(2), dlast.StringLiteral("Bob"), dlast.StringLiteral("sales"),
		dlast.FloatLiteral(90000), dlast.BoolLiteral(false),
	}}
	persistent, err := CompileInsert(fact, true)
	require.NoError(t, err)
	session, err := CompileInsert(fact, false)
	require.NoError(t, err)
	assert.Equal(t, "+"+session, persistent)
}

func TestBulkInsertSingleFactStillBulkForm(t *testing.T) {
	r := employeeRelation(t)
	fact := Fact{Relation: r, Values: []dlast.Literal{
		dlast.IntLiteral(1), dlast.StringLiteral("Alice"), dlast.StringLiteral("eng"),
		dlast.FloatLiteral(1), dlast.BoolLiteral(true),
	}}
	got, err := CompileBulkInsert([]Fact{fact}, true)
	require.NoError(t, err)
	assert.Equal(t, `+employee[(1, "Alice", "eng", 1.0, true)]`, got)
}

// S3 — filtered query
func TestS3FilteredQuery(t *testing.T) {
	r := employeeRelation(t)
	where := dlast.And{
		Left: dlast.Comparison{
			Op:   dlast.Eq,
			Left: dlast.Column{Relation: "employee", Column: "department"},
			Right: dlast.Literal{Kind: dlast.ScalarString, Str: "eng"},
		},
		Right: dlast.Comparison{
			Op:    dlast.Eq,
			Left:  dlast.Column{Relation: "employee", Column: "active"},
			Right: dlast.Literal{Kind: dlast.ScalarBool, Bool: true},
		},
	}
	result, err := CompileQuery(QueryParams{
		Select: []SelectItem{SelectAll(r.Unaliased())},
		Where:  where,
	})
	require.NoError(t, err)
	q, ok := result.Single()
	require.True(t, ok)
	assert.Contains(t, q, "employee(Id, Name, Department, Salary, Active)")
	assert.Contains(t, q, `Department = "eng"`)
	assert.Contains(t, q, "Active = true")
}

func TestJoinUnification(t *testing.T) {
	r := employeeRelation(t)
	refs := r.Refs(2)
	result, err := CompileQuery(QueryParams{
		Select:    []SelectItem{SelectColumn(dlast.Column{Relation: refs[0].Relation.Name(), Column: "id", Alias: refs[0].Alias})},
		Relations: refs,
		On: dlast.Comparison{
			Op:    dlast.Eq,
			Left:  dlast.Column{Relation: refs[0].Relation.Name(), Column: "department", Alias: refs[0].Alias},
			Right: dlast.Column{Relation: refs[1].Relation.Name(), Column: "department", Alias: refs[1].Alias},
		},
	})
	require.NoError(t, err)
	q, ok := result.Single()
	require.True(t, ok)
	assert.NotEmpty(t, q)
}

func TestOrSplitting(t *testing.T) {
	r := employeeRelation(t)
	where := dlast.Or{
		Left: dlast.Comparison{
			Op:    dlast.Eq,
			Left:  dlast.Column{Relation: "employee", Column: "department"},
			Right: dlast.Literal{Kind: dlast.ScalarString, Str: "eng"},
		},
		Right: dlast.Or{
			Left: dlast.Comparison{
				Op:    dlast.Eq,
				Left:  dlast.Column{Relation: "employee", Column: "department"},
				Right: dlast.Literal{Kind: dlast.ScalarString, Str: "sales"},
			},
			Right: dlast.Comparison{
				Op:    dlast.Eq,
				Left:  dlast.Column{Relation: "employee", Column: "department"},
				Right: dlast.Literal{Kind: dlast.ScalarString, Str: "ops"},
			},
		},
	}
	result, err := CompileQuery(QueryParams{
		Select: []SelectItem{SelectAll(r.Unaliased())},
		Where:  where,
	})
	require.NoError(t, err)
	assert.Len(t, result.Branches, 3)
}

func departmentRelation(t *testing.T) relation.Relation {
	t.Helper()
	r, err := relation.New("", "Department",
		relation.Field{Name: "name", Kind: dltypes.KindString},
		relation.Field{Name: "budget", Kind: dltypes.KindFloat},
	)
	require.NoError(t, err)
	return r
}

// TestCompileIn asserts that an InExpr targeting a multi-column relation
// renders a proper positional atom — the bound column in its correct
// slot, every other column anonymous — not a single-argument atom.
func TestCompileIn(t *testing.T) {
	emp := employeeRelation(t)
	dept := departmentRelation(t)
	env := varenv.New()
	relations := buildRelationLookup([]relation.Ref{emp.Unaliased(), dept.Unaliased()})

	parts, err := CompileBoolExpr(dlast.InExpr{
		Column:       dlast.Column{Relation: "employee", Column: "department"},
		TargetColumn: dlast.Column{Relation: "department", Column: "name"},
	}, env, relations)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "department(Department, _)", parts[0])
}

// TestCompileNegatedIn is TestCompileIn's negated counterpart.
func TestCompileNegatedIn(t *testing.T) {
	emp := employeeRelation(t)
	dept := departmentRelation(t)
	env := varenv.New()
	relations := buildRelationLookup([]relation.Ref{emp.Unaliased(), dept.Unaliased()})

	parts, err := CompileBoolExpr(dlast.NegatedIn{
		Column:       dlast.Column{Relation: "employee", Column: "department"},
		TargetColumn: dlast.Column{Relation: "department", Column: "name"},
	}, env, relations)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "!department(Department, _)", parts[0])
}

func TestCompileBoolExprRejectsOr(t *testing.T) {
	_, err := CompileBoolExpr(dlast.Or{
		Left:  dlast.Comparison{Op: dlast.Eq, Left: dlast.Column{Relation: "r", Column: "a"}, Right: dlast.IntLiteral(1)},
		Right: dlast.Comparison{Op: dlast.Eq, Left: dlast.Column{Relation: "r", Column: "b"}, Right: dlast.IntLiteral(2)},
	}, varenv.New(), nil)
	assert.ErrorIs(t, err, ErrOrInSingleBranch)
}

// S4 — recursive rule
func TestS4RecursiveRule(t *testing.T) {
	edge, err := relation.New("", "Edge",
		relation.Field{Name: "src", Kind: dltypes.KindInt},
		relation.Field{Name: "dst", Kind: dltypes.KindInt},
	)
	require.NoError(t, err)
	reachable, err := relation.New("", "Reachable",
		relation.Field{Name: "src", Kind: dltypes.KindInt},
		relation.Field{Name: "dst", Kind: dltypes.KindInt},
	)
	require.NoError(t, err)

	base, err := CompileRule("reachable", []string{"src", "dst"}, RuleClause{
		Relations: []relation.Ref{edge.Unaliased()},
		SelectMap: map[string]dlast.Expr{
			"src": dlast.Column{Relation: "edge", Column: "src"},
			"dst": dlast.Column{Relation: "edge", Column: "dst"},
		},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "+reachable(Src, Dst) <- edge(Src, Dst)", base)

	recursive, err := CompileRule("reachable", []string{"src", "dst"}, RuleClause{
		Relations: []relation.Ref{reachable.Unaliased(), edge.Unaliased()},
		SelectMap: map[string]dlast.Expr{
			"src": dlast.Column{Relation: "reachable", Column: "src"},
			"dst": dlast.Column{Relation: "edge", Column: "dst"},
		},
		Condition: dlast.Comparison{
			Op:    dlast.Eq,
			Left:  dlast.Column{Relation: "reachable", Column: "dst"},
			Right: dlast.Column{Relation: "edge", Column: "src"},
		},
	}, true)
	require.NoError(t, err)
	assert.Contains(t, recursive, "reachable(")
	assert.Contains(t, recursive, "edge(")
	assert.Contains(t, recursive, "<-")
	assert.Regexp(t, `^\+reachable\(Src,`, recursive)
}

func TestConditionalDelete(t *testing.T) {
	r := employeeRelation(t)
	got, err := CompileConditionalDelete(r, dlast.Comparison{
		Op:    dlast.Eq,
		Left:  dlast.Column{Relation: "employee", Column: "department"},
		Right: dlast.StringLiteral("sales"),
	})
	require.NoError(t, err)
	assert.Equal(t, `-employee(X0, X1, X2, X3, X4) <- employee(X0, X1, X2, X3, X4), X2 = "sales"`, got)
}

