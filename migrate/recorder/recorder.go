// Package recorder tracks which migrations have been applied, using a
// reserved relation in the same knowledge graph the migrations themselves
// modify.
//
// Grounded on inputlayer's migrations/recorder.py: the same reserved
// relation name and schema, the same four operations, and the same
// literal command shapes (a name/applied_at schema, a literal insert, a
// sorted-name query, and a conditional delete keyed by name).
package recorder

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/inputlayer/inputlayer-go/executor"
)

// MigrationRelation is the reserved relation name migration application
// state is tracked under.
const MigrationRelation = "__inputlayer_migrations__"

// Recorder tracks applied migrations via an Executor.
type Recorder struct {
	kg executor.Executor
}

// New returns a Recorder backed by kg.
func New(kg executor.Executor) *Recorder {
	return &Recorder{kg: kg}
}

// EnsureSchema declares the migration tracking relation, if it does not
// already exist.
func (r *Recorder) EnsureSchema(ctx context.Context) error {
	_, err := r.kg.Execute(ctx, fmt.Sprintf("+%s(name: string, applied_at: string)", MigrationRelation))
	return err
}

// GetApplied returns the sorted list of applied migration names.
func (r *Recorder) GetApplied(ctx context.Context) ([]string, error) {
	result, err := r.kg.Execute(ctx, fmt.Sprintf("?Name, At <- %s(Name, At)", MigrationRelation))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		if len(row) == 0 {
			continue
		}
		names = append(names, fmt.Sprint(row[0]))
	}
	sort.Strings(names)
	return names, nil
}

// RecordApplied records that a migration has been applied, stamped with
// the current UTC time.
func (r *Recorder) RecordApplied(ctx context.Context, name string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.kg.Execute(ctx, fmt.Sprintf(`+%s("%s", "%s")`, MigrationRelation, name, now))
	return err
}

// RecordReverted removes the applied-record for a reverted migration.
func (r *Recorder) RecordReverted(ctx context.Context, name string) error {
	stmt := fmt.Sprintf(
		`-%s(Name, At) <- %s(Name, At), Name = "%s"`,
		MigrationRelation, MigrationRelation, name,
	)
	_, err := r.kg.Execute(ctx, stmt)
	return err
}
