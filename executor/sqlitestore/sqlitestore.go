// Package sqlitestore is a durable reference implementation of the
// executor.Executor contract, backed by modernc.org/sqlite. It accepts
// the same textual subset as executor/memstore (schema declarations,
// inserts, exact/conditional deletes, meta commands, single-relation-body
// queries) but persists relations as real SQLite tables instead of
// in-process maps, using executor/dlparse for the shared textual parsing.
//
// Like memstore, this is a demo/test fixture standing in for the external
// knowledge-graph engine the core expects in production: joins,
// OR-splitting, and aggregation queries are rejected with
// ErrUnsupportedQuery.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/inputlayer/inputlayer-go/executor"
	"github.com/inputlayer/inputlayer-go/executor/dlparse"
)

// ErrUnsupportedQuery is returned for query shapes beyond this reference
// store's single-relation-body subset.
var ErrUnsupportedQuery = errors.New("sqlitestore: unsupported query shape")

// ErrUnknownRelation is returned when a command references a relation
// that was never declared with a schema statement.
var ErrUnknownRelation = errors.New("sqlitestore: unknown relation")

// Store is a sql.DB-backed Executor. The zero value is not usable; build
// one with Open.
type Store struct {
	db   *sql.DB
	cols map[string][]string // relation name -> declared column order
}

// Open opens (creating if absent) a SQLite database at dsn and returns a
// Store that already knows the columns of every table in it, so relations
// declared through an earlier Store on the same file stay usable. Use
// ":memory:" for a volatile store with the same on-disk semantics as a
// real one.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT m.name, p.name FROM sqlite_master AS m JOIN pragma_table_info(m.name) AS p WHERE m.type = 'table' ORDER BY m.name, p.cid`)
	if err != nil {
		db.Close()
		return nil, err
	}
	defer rows.Close()
	cols := make(map[string][]string)
	for rows.Next() {
		var table, col string
		if err := rows.Scan(&table, &col); err != nil {
			db.Close()
			return nil, err
		}
		cols[table] = append(cols[table], col)
	}
	return &Store{db: db, cols: cols}, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

var (
	reSchema      = regexp.MustCompile(`^\+(\w+)\((.*)\)$`)
	reBulkInsert  = regexp.MustCompile(`^(\+?)(\w+)\[(.*)\]$`)
	reFactOrQuery = regexp.MustCompile(`^([+-]?)(\w+)\((.*)\)$`)
	reCondDelete  = regexp.MustCompile(`^-(\w+)\((.*)\)\s*<-\s*(.*)$`)
	reRelDrop     = regexp.MustCompile(`^\.rel drop (\S+)$`)
	reRuleDrop    = regexp.MustCompile(`^\.rule drop (\S+)$`)
	reIndexCreate = regexp.MustCompile(`^\.index create (\S+) on (\S+)\((\S+)\) type hnsw .*$`)
	reIndexDrop   = regexp.MustCompile(`^\.index drop (\S+)$`)
	reKgDrop      = regexp.MustCompile(`^\.kg drop (\S+)$`)
)

// Execute interprets one textual program and applies or evaluates it
// against the backing SQLite database.
func (s *Store) Execute(ctx context.Context, program string) (executor.Result, error) {
	p := strings.TrimSpace(program)

	switch {
	case reRelDrop.MatchString(p):
		m := reRelDrop.FindStringSubmatch(p)
		return executor.Result{}, s.dropRelation(ctx, m[1])

	case reRuleDrop.MatchString(p):
		// Rules have no SQLite-side representation; nothing to drop.
		return executor.Result{}, nil

	case reIndexDrop.MatchString(p), reIndexCreate.MatchString(p):
		// HNSW indexes are an external knowledge-graph engine concern;
		// this reference store has no vector index of its own.
		return executor.Result{}, nil

	case reKgDrop.MatchString(p):
		return executor.Result{}, s.dropAll(ctx)

	case strings.HasPrefix(p, "?"):
		return s.executeQuery(ctx, p)

	case reCondDelete.MatchString(p):
		return s.executeConditionalDelete(ctx, p)

	case reSchema.MatchString(p) && looksLikeSchema(p):
		return s.executeSchema(ctx, p)

	case reBulkInsert.MatchString(p):
		return s.executeBulkInsert(ctx, p)

	case reFactOrQuery.MatchString(p):
		return s.executeFact(ctx, p)
	}

	return executor.Result{}, fmt.Errorf("sqlitestore: unrecognized program: %s", p)
}

func looksLikeSchema(p string) bool {
	m := reSchema.FindStringSubmatch(p)
	if m == nil {
		return false
	}
	body := m[2]
	if body == "" {
		return false
	}
	for _, part := range dlparse.SplitTopLevel(body) {
		if !strings.Contains(part, ":") {
			return false
		}
	}
	return true
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// sqlColumnType maps the dialect's scalar type names to SQLite storage
// classes. Vector columns are stored as their rendered literal text;
// similarity search over them is an external knowledge-graph concern.
func sqlColumnType(typ string) string {
	switch {
	case typ == "int":
		return "INTEGER"
	case typ == "float":
		return "REAL"
	case typ == "bool":
		return "INTEGER"
	case typ == "string":
		return "TEXT"
	case strings.HasPrefix(typ, "vector"):
		return "TEXT"
	default:
		return "TEXT"
	}
}

func (s *Store) executeSchema(ctx context.Context, p string) (executor.Result, error) {
	m := reSchema.FindStringSubmatch(p)
	name, body := m[1], m[2]

	var cols []string
	var defs []string
	for _, part := range dlparse.SplitTopLevel(body) {
		nameType := strings.SplitN(part, ":", 2)
		col := strings.TrimSpace(nameType[0])
		typ := strings.TrimSpace(nameType[1])
		cols = append(cols, col)
		defs = append(defs, fmt.Sprintf("%s %s", quoteIdent(col), sqlColumnType(typ)))
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return executor.Result{}, err
	}
	s.cols[name] = cols
	return executor.Result{}, nil
}

func (s *Store) dropRelation(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(name)))
	delete(s.cols, name)
	return err
}

func (s *Store) dropAll(ctx context.Context) error {
	for name := range s.cols {
		if err := s.dropRelation(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertRow(ctx context.Context, name string, vals []string) error {
	cols, ok := s.cols[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRelation, name)
	}
	if len(vals) != len(cols) {
		return fmt.Errorf("sqlitestore: arity mismatch inserting into %s", name)
	}

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, v := range vals {
		placeholders[i] = "?"
		args[i] = dlparse.ParseValue(v)
	}

	stmt := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(name), strings.Join(placeholders, ", "))
	_, err := s.db.ExecContext(ctx, stmt, args...)
	return err
}

func (s *Store) executeBulkInsert(ctx context.Context, p string) (executor.Result, error) {
	m := reBulkInsert.FindStringSubmatch(p)
	name, tuplesBody := m[2], m[3]

	for _, tuple := range dlparse.SplitTopLevelTuples(tuplesBody) {
		inner := strings.TrimSuffix(strings.TrimPrefix(tuple, "("), ")")
		vals := dlparse.TrimAll(dlparse.SplitTopLevel(inner))
		if err := s.insertRow(ctx, name, vals); err != nil {
			return executor.Result{}, err
		}
	}
	return executor.Result{}, nil
}

func (s *Store) executeFact(ctx context.Context, p string) (executor.Result, error) {
	m := reFactOrQuery.FindStringSubmatch(p)
	sign, name, body := m[1], m[2], m[3]
	cols, ok := s.cols[name]
	if !ok {
		return executor.Result{}, fmt.Errorf("%w: %s", ErrUnknownRelation, name)
	}
	vals := dlparse.TrimAll(dlparse.SplitTopLevel(body))
	if len(vals) != len(cols) {
		return executor.Result{}, fmt.Errorf("sqlitestore: arity mismatch for %s", name)
	}

	if sign == "-" {
		where := make([]string, len(cols))
		args := make([]any, len(cols))
		for i, col := range cols {
			where[i] = quoteIdent(col) + " = ?"
			args[i] = dlparse.ParseValue(vals[i])
		}
		stmt := fmt.Sprintf("DELETE FROM %s WHERE %s", quoteIdent(name), strings.Join(where, " AND "))
		_, err := s.db.ExecContext(ctx, stmt, args...)
		return executor.Result{}, err
	}

	return executor.Result{}, s.insertRow(ctx, name, vals)
}

// conditionSQL renders "Col = value" body-atom conditions against bodyVars
// into a parameterized SQL WHERE fragment.
func conditionSQL(parts []string, bodyVars []string, cols []string) (string, []any, error) {
	varIdx := make(map[string]int, len(bodyVars))
	for i, v := range bodyVars {
		varIdx[v] = i
	}

	var clauses []string
	var args []any
	for _, part := range parts {
		part = strings.TrimSpace(part)
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return "", nil, fmt.Errorf("%w: malformed condition %q", ErrUnsupportedQuery, part)
		}
		key := strings.TrimSpace(kv[0])
		idx, ok := varIdx[key]
		if !ok {
			return "", nil, fmt.Errorf("%w: unbound condition variable %q", ErrUnsupportedQuery, key)
		}
		clauses = append(clauses, quoteIdent(cols[idx])+" = ?")
		args = append(args, dlparse.ParseValue(strings.TrimSpace(kv[1])))
	}
	return strings.Join(clauses, " AND "), args, nil
}

func (s *Store) executeConditionalDelete(ctx context.Context, p string) (executor.Result, error) {
	m := reCondDelete.FindStringSubmatch(p)
	name, condText := m[1], m[3]
	cols, ok := s.cols[name]
	if !ok {
		return executor.Result{}, fmt.Errorf("%w: %s", ErrUnknownRelation, name)
	}

	parts := dlparse.SplitTopLevel(condText)
	if len(parts) == 0 {
		return executor.Result{}, fmt.Errorf("%w: empty delete condition", ErrUnsupportedQuery)
	}
	atomMatch := reFactOrQuery.FindStringSubmatch(strings.TrimSpace(parts[0]))
	if atomMatch == nil || atomMatch[2] != name {
		return executor.Result{}, fmt.Errorf("%w: conditional delete must self-join %s first", ErrUnsupportedQuery, name)
	}
	bodyVars := dlparse.TrimAll(dlparse.SplitTopLevel(atomMatch[3]))
	if len(bodyVars) != len(cols) {
		return executor.Result{}, fmt.Errorf("%w: arity mismatch for %s", ErrUnsupportedQuery, name)
	}

	where, args, err := conditionSQL(parts[1:], bodyVars, cols)
	if err != nil {
		return executor.Result{}, err
	}

	stmt := fmt.Sprintf("DELETE FROM %s", quoteIdent(name))
	if where != "" {
		stmt += " WHERE " + where
	}
	_, err = s.db.ExecContext(ctx, stmt, args...)
	return executor.Result{}, err
}

// executeQuery supports the single-relation-body shape used by the
// migration recorder (and most simple lookups):
//
//	?Col1, Col2 <- relname(Col1, Col2)
//	?Col1, Col2 <- relname(Col1, Col2), Col2 = "value"
func (s *Store) executeQuery(ctx context.Context, p string) (executor.Result, error) {
	rest := strings.TrimPrefix(p, "?")
	headText, bodyText, hasBody := strings.Cut(rest, " <- ")
	if !hasBody {
		return executor.Result{}, fmt.Errorf("%w: no-body query", ErrUnsupportedQuery)
	}

	bodyParts := dlparse.SplitTopLevel(bodyText)
	if len(bodyParts) == 0 {
		return executor.Result{}, ErrUnsupportedQuery
	}
	atomMatch := reFactOrQuery.FindStringSubmatch(bodyParts[0])
	if atomMatch == nil {
		return executor.Result{}, ErrUnsupportedQuery
	}
	relName := atomMatch[2]
	bodyVars := dlparse.TrimAll(dlparse.SplitTopLevel(atomMatch[3]))

	cols, ok := s.cols[relName]
	if !ok {
		return executor.Result{}, fmt.Errorf("%w: %s", ErrUnknownRelation, relName)
	}
	if len(bodyVars) != len(cols) {
		return executor.Result{}, fmt.Errorf("%w: arity mismatch for %s", ErrUnsupportedQuery, relName)
	}

	for _, extra := range bodyParts[1:] {
		if strings.Contains(extra, "(") {
			return executor.Result{}, fmt.Errorf("%w: join not supported", ErrUnsupportedQuery)
		}
	}
	where, args, err := conditionSQL(bodyParts[1:], bodyVars, cols)
	if err != nil {
		return executor.Result{}, err
	}

	headVars := dlparse.TrimAll(dlparse.SplitTopLevel(headText))
	varIdx := make(map[string]int, len(bodyVars))
	for i, v := range bodyVars {
		varIdx[v] = i
	}
	selectCols := make([]string, len(headVars))
	for i, hv := range headVars {
		idx, ok := varIdx[dlparse.StripOrderSuffix(hv)]
		if !ok {
			return executor.Result{}, fmt.Errorf("%w: head var %q not bound in body", ErrUnsupportedQuery, hv)
		}
		selectCols[i] = quoteIdent(cols[idx])
	}

	stmt := fmt.Sprintf("SELECT %s FROM %s", strings.Join(selectCols, ", "), quoteIdent(relName))
	if where != "" {
		stmt += " WHERE " + where
	}
	stmt += " ORDER BY " + strings.Join(selectCols, ", ")

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return executor.Result{}, err
	}
	defer rows.Close()

	var outRows [][]any
	for rows.Next() {
		scan := make([]any, len(headVars))
		ptrs := make([]any, len(headVars))
		for i := range scan {
			ptrs[i] = &scan[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return executor.Result{}, err
		}
		outRows = append(outRows, scan)
	}
	if err := rows.Err(); err != nil {
		return executor.Result{}, err
	}

	return executor.Result{Columns: headVars, Rows: outRows}, nil
}
