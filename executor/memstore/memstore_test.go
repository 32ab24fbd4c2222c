package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndQuery(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Execute(ctx, "+employee(id: int, name: string, department: string, salary: float, active: bool)")
	require.NoError(t, err)

	_, err = s.Execute(ctx, `+employee(1, "Alice", "eng", 120000.0, true)`)
	require.NoError(t, err)
	_, err = s.Execute(ctx, `+employee(2, "Bob", "sales", 90000.0, false)`)
	require.NoError(t, err)

	res, err := s.Execute(ctx, "?Id, Name <- employee(Id, Name, Department, Salary, Active)")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
}

func TestQueryWithCondition(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, _ = s.Execute(ctx, "+employee(id: int, name: string, department: string, salary: float, active: bool)")
	_, _ = s.Execute(ctx, `+employee(1, "Alice", "eng", 120000.0, true)`)
	_, _ = s.Execute(ctx, `+employee(2, "Bob", "sales", 90000.0, false)`)

	res, err := s.Execute(ctx, `?Name <- employee(Id, Name, Department, Salary, Active), Department = "eng"`)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Alice", res.Rows[0][0])
}

func TestBulkInsert(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, _ = s.Execute(ctx, "+edge(src: int, dst: int)")
	_, err := s.Execute(ctx, "+edge[(1, 2), (3, 4)]")
	require.NoError(t, err)

	res, err := s.Execute(ctx, "?Src, Dst <- edge(Src, Dst)")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
}

func TestExactDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, _ = s.Execute(ctx, "+edge(src: int, dst: int)")
	_, _ = s.Execute(ctx, "+edge(1, 2)")
	_, err := s.Execute(ctx, "-edge(1, 2)")
	require.NoError(t, err)

	res, err := s.Execute(ctx, "?Src, Dst <- edge(Src, Dst)")
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
}

func TestConditionalDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, _ = s.Execute(ctx, "+employee(id: int, name: string, department: string, salary: float, active: bool)")
	_, _ = s.Execute(ctx, `+employee(1, "Alice", "eng", 120000.0, true)`)
	_, _ = s.Execute(ctx, `+employee(2, "Bob", "sales", 90000.0, false)`)

	_, err := s.Execute(ctx, `-employee(X0, X1, X2, X3, X4) <- employee(X0, X1, X2, X3, X4), X2 = "sales"`)
	require.NoError(t, err)

	res, err := s.Execute(ctx, "?Id <- employee(Id, Name, Department, Salary, Active)")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.EqualValues(t, 1, res.Rows[0][0])
}

func TestRelDrop(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, _ = s.Execute(ctx, "+edge(src: int, dst: int)")
	_, err := s.Execute(ctx, ".rel drop edge")
	require.NoError(t, err)

	_, err = s.Execute(ctx, "?Src, Dst <- edge(Src, Dst)")
	require.ErrorIs(t, err, ErrUnknownRelation)
}

func TestMigrationRecorderShape(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, err := s.Execute(ctx, "+__inputlayer_migrations__(name: string, applied_at: string)")
	require.NoError(t, err)

	_, err = s.Execute(ctx, `+__inputlayer_migrations__("0001_initial", "2026-07-31T00:00:00+00:00")`)
	require.NoError(t, err)

	res, err := s.Execute(ctx, "?Name, At <- __inputlayer_migrations__(Name, At)")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "0001_initial", res.Rows[0][0])

	_, err = s.Execute(ctx, `-__inputlayer_migrations__(Name, At) <- __inputlayer_migrations__(Name, At), Name = "0001_initial"`)
	require.NoError(t, err)

	res, err = s.Execute(ctx, "?Name, At <- __inputlayer_migrations__(Name, At)")
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
}
