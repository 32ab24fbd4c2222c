// Package memstore is an in-memory reference implementation of the
// executor.Executor contract. It understands the textual subset the
// compiler in github.com/inputlayer/inputlayer-go/compiler emits: schema
// declarations, inserts (single/bulk/session), exact and conditional
// deletes, rule clauses (recorded under their rule name, never
// evaluated), meta commands, and single-relation-body queries.
// Re-declaring an existing relation with the same columns keeps its rows.
//
// It is a demo/test fixture, not a Datalog engine: queries with joins,
// OR-splitting, or aggregations are rejected with ErrUnsupportedQuery —
// the core never needs its own executor to evaluate those; an external
// knowledge-graph engine does that in production.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/inputlayer/inputlayer-go/executor"
	"github.com/inputlayer/inputlayer-go/executor/dlparse"
)

// ErrUnsupportedQuery is returned for query shapes beyond this reference
// store's single-relation-body subset.
var ErrUnsupportedQuery = errors.New("memstore: unsupported query shape")

// ErrUnknownRelation is returned when a command references a relation
// that was never declared with a schema statement.
var ErrUnknownRelation = errors.New("memstore: unknown relation")

type row struct {
	values []string // rendered Datalog literal text, one per column
}

type relState struct {
	columns []string
	rows    map[string]row // keyed by a synthetic id, independent of column values
}

func newRelState(columns []string) *relState {
	return &relState{columns: columns, rows: make(map[string]row)}
}

// Store is a concurrency-safe in-memory Executor.
type Store struct {
	mu    sync.Mutex
	rels  map[string]*relState
	rules map[string][]string // rule name -> clause texts (for describe/debug only)
}

// New returns an empty store.
func New() *Store {
	return &Store{
		rels:  make(map[string]*relState),
		rules: make(map[string][]string),
	}
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

// Execute interprets one textual program and applies or evaluates it.
func (s *Store) Execute(ctx context.Context, program string) (executor.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := strings.TrimSpace(program)

	switch {
	case reRelDrop.MatchString(p):
		m := reRelDrop.FindStringSubmatch(p)
		delete(s.rels, m[1])
		return executor.Result{}, nil

	case reRuleDrop.MatchString(p):
		m := reRuleDrop.FindStringSubmatch(p)
		delete(s.rules, m[1])
		return executor.Result{}, nil

	case reIndexDrop.MatchString(p):
		return executor.Result{}, nil

	case reIndexCreate.MatchString(p):
		return executor.Result{}, nil

	case reKgDrop.MatchString(p):
		s.rels = make(map[string]*relState)
		s.rules = make(map[string][]string)
		return executor.Result{}, nil

	case strings.HasPrefix(p, "?"):
		return s.executeQuery(p)

	case reCondDelete.MatchString(p):
		return s.executeConditionalDelete(p)

	case strings.Contains(p, "<-"):
		head, _, _ := strings.Cut(p, "(")
		name := strings.TrimPrefix(strings.TrimSpace(head), "+")
		s.rules[name] = append(s.rules[name], p)
		return executor.Result{}, nil

	case reSchema.MatchString(p) && looksLikeSchema(p):
		return s.executeSchema(p)

	case reBulkInsert.MatchString(p):
		return s.executeBulkInsert(p)

	case reFactOrQuery.MatchString(p):
		return s.executeFact(p)
	}

	return executor.Result{}, fmt.Errorf("memstore: unrecognized program: %s", p)
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

func (s *Store) executeSchema(p string) (executor.Result, error) {
	m := reSchema.FindStringSubmatch(p)
	name, body := m[1], m[2]
	var cols []string
	for _, part := range dlparse.SplitTopLevel(body) {
		col := strings.TrimSpace(strings.SplitN(part, ":", 2)[0])
		cols = append(cols, col)
	}
	if existing, ok := s.rels[name]; ok && equalValues(existing.columns, cols) {
		return executor.Result{}, nil
	}
	s.rels[name] = newRelState(cols)
	return executor.Result{}, nil
}

func (s *Store) executeBulkInsert(p string) (executor.Result, error) {
	m := reBulkInsert.FindStringSubmatch(p)
	name, tuplesBody := m[2], m[3]
	rel, ok := s.rels[name]
	if !ok {
		return executor.Result{}, fmt.Errorf("%w: %s", ErrUnknownRelation, name)
	}
	for _, tuple := range dlparse.SplitTopLevelTuples(tuplesBody) {
		vals := dlparse.SplitTopLevel(strings.TrimSuffix(strings.TrimPrefix(tuple, "("), ")"))
		rel.rows[uuid.NewString()] = row{values: dlparse.TrimAll(vals)}
	}
	return executor.Result{}, nil
}

func (s *Store) executeFact(p string) (executor.Result, error) {
	m := reFactOrQuery.FindStringSubmatch(p)
	sign, name, body := m[1], m[2], m[3]
	rel, ok := s.rels[name]
	if !ok {
		return executor.Result{}, fmt.Errorf("%w: %s", ErrUnknownRelation, name)
	}
	vals := dlparse.TrimAll(dlparse.SplitTopLevel(body))

	if sign == "-" {
		for id, r := range rel.rows {
			if equalValues(r.values, vals) {
				delete(rel.rows, id)
			}
		}
		return executor.Result{}, nil
	}

	rel.rows[uuid.NewString()] = row{values: vals}
	return executor.Result{}, nil
}

func (s *Store) executeConditionalDelete(p string) (executor.Result, error) {
	m := reCondDelete.FindStringSubmatch(p)
	name, condText := m[1], m[3]
	rel, ok := s.rels[name]
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
	if len(bodyVars) != len(rel.columns) {
		return executor.Result{}, fmt.Errorf("%w: arity mismatch for %s", ErrUnsupportedQuery, name)
	}

	conds, err := parseEqualityConditionsOverVars(parts[1:], bodyVars)
	if err != nil {
		return executor.Result{}, err
	}

	for id, r := range rel.rows {
		if varRowMatches(r, bodyVars, conds) {
			delete(rel.rows, id)
		}
	}
	return executor.Result{}, nil
}

// executeQuery supports the single-relation-body shape used by the
// migration recorder (and most simple lookups):
//
//	?Col1, Col2 <- relname(Col1, Col2)
//	?Col1, Col2 <- relname(Col1, Col2), Col2 = "value"
func (s *Store) executeQuery(p string) (executor.Result, error) {
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

	rel, ok := s.rels[relName]
	if !ok {
		return executor.Result{}, fmt.Errorf("%w: %s", ErrUnknownRelation, relName)
	}
	if len(bodyVars) != len(rel.columns) {
		return executor.Result{}, fmt.Errorf("%w: arity mismatch for %s", ErrUnsupportedQuery, relName)
	}

	for _, extra := range bodyParts[1:] {
		if strings.Contains(extra, "(") {
			return executor.Result{}, fmt.Errorf("%w: join not supported", ErrUnsupportedQuery)
		}
	}
	conds, err := parseEqualityConditionsOverVars(bodyParts[1:], bodyVars)
	if err != nil {
		return executor.Result{}, err
	}

	headVars := dlparse.TrimAll(dlparse.SplitTopLevel(headText))
	varIndex := make(map[string]int, len(bodyVars))
	for i, v := range bodyVars {
		varIndex[dlparse.StripOrderSuffix(v)] = i
	}

	var outRows [][]any
	for _, r := range rel.rows {
		if !varRowMatches(r, bodyVars, conds) {
			continue
		}
		outRow := make([]any, len(headVars))
		for i, hv := range headVars {
			idx, ok := varIndex[dlparse.StripOrderSuffix(hv)]
			if !ok {
				return executor.Result{}, fmt.Errorf("%w: head var %q not bound in body", ErrUnsupportedQuery, hv)
			}
			outRow[i] = dlparse.ParseValue(r.values[idx])
		}
		outRows = append(outRows, outRow)
	}

	sort.Slice(outRows, func(i, j int) bool {
		return fmt.Sprint(outRows[i]) < fmt.Sprint(outRows[j])
	})

	return executor.Result{Columns: headVars, Rows: outRows}, nil
}

type equalityCond struct {
	colIdx int
	value  string
}

func parseEqualityConditionsOverVars(parts []string, bodyVars []string) ([]equalityCond, error) {
	varIdx := make(map[string]int, len(bodyVars))
	for i, v := range bodyVars {
		varIdx[v] = i
	}
	var out []equalityCond
	for _, part := range parts {
		part = strings.TrimSpace(part)
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("%w: malformed condition %q", ErrUnsupportedQuery, part)
		}
		key := strings.TrimSpace(kv[0])
		idx, ok := varIdx[key]
		if !ok {
			return nil, fmt.Errorf("%w: unbound condition variable %q", ErrUnsupportedQuery, key)
		}
		out = append(out, equalityCond{colIdx: idx, value: strings.TrimSpace(kv[1])})
	}
	return out, nil
}

func varRowMatches(r row, bodyVars []string, conds []equalityCond) bool {
	for _, c := range conds {
		if c.colIdx >= len(r.values) || r.values[c.colIdx] != c.value {
			return false
		}
	}
	return true
}

func equalValues(a, b []string) bool {
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
