// Package executor applies and reverts migrations against a knowledge
// graph, tracking progress via migrate/recorder.
//
// Grounded on inputlayer's migrations/executor.py, with one deliberate
// correction: the source's migrate() checks `m.name == target` and
// breaks *before* applying that migration, which — despite the function's
// own docstring ("Apply unapplied migrations up to target") — means the
// target migration itself is never applied or recorded; the `break` after
// the apply call further down is then unreachable for that migration.
// This implementation applies a migration first and only then checks
// whether it was the target, so Migrate actually includes the target
// migration in what it applies, matching the documented contract.
package executor

import (
	"context"
	"fmt"

	"github.com/inputlayer/inputlayer-go/migrate/loader"
	"github.com/inputlayer/inputlayer-go/migrate/recorder"

	executorpkg "github.com/inputlayer/inputlayer-go/executor"
)

// MigrationNotFoundError is raised when RevertTo's target does not match
// any loaded migration.
type MigrationNotFoundError struct {
	Target string
}

func (e *MigrationNotFoundError) Error() string {
	return fmt.Sprintf("migration %q not found", e.Target)
}

// ApplyMigration runs one migration's forward operations in order.
func ApplyMigration(ctx context.Context, kg executorpkg.Executor, m loader.Migration) error {
	for _, op := range m.Operations {
		for _, cmd := range op.ForwardCommands() {
			if _, err := kg.Execute(ctx, cmd); err != nil {
				return err
			}
		}
	}
	return nil
}

// RevertMigration runs one migration's operations' backward commands,
// in reverse operation order.
func RevertMigration(ctx context.Context, kg executorpkg.Executor, m loader.Migration) error {
	for i := len(m.Operations) - 1; i >= 0; i-- {
		for _, cmd := range m.Operations[i].BackwardCommands() {
			if _, err := kg.Execute(ctx, cmd); err != nil {
				return err
			}
		}
	}
	return nil
}

// Migrate applies every unapplied migration in order, stopping after
// target is applied (or running to completion if target is empty).
// Returns the names of the migrations it applied.
func Migrate(ctx context.Context, kg executorpkg.Executor, migrations []loader.Migration, rec *recorder.Recorder, target string) ([]string, error) {
	if err := rec.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	appliedNames, err := rec.GetApplied(ctx)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]struct{}, len(appliedNames))
	for _, n := range appliedNames {
		applied[n] = struct{}{}
	}

	var result []string
	for _, m := range migrations {
		if _, ok := applied[m.Name]; ok {
			continue
		}

		if err := ApplyMigration(ctx, kg, m); err != nil {
			return result, err
		}
		if err := rec.RecordApplied(ctx, m.Name); err != nil {
			return result, err
		}
		result = append(result, m.Name)

		if target != "" && m.Name == target {
			break
		}
	}

	return result, nil
}

// RevertTo reverts applied migrations back to (but not including) target,
// in reverse order. Returns the names of the migrations it reverted.
func RevertTo(ctx context.Context, kg executorpkg.Executor, migrations []loader.Migration, rec *recorder.Recorder, target string) ([]string, error) {
	if err := rec.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	appliedNames, err := rec.GetApplied(ctx)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]struct{}, len(appliedNames))
	for _, n := range appliedNames {
		applied[n] = struct{}{}
	}

	targetIdx := -1
	for i, m := range migrations {
		if m.Name == target {
			targetIdx = i
			break
		}
	}
	if targetIdx == -1 {
		return nil, &MigrationNotFoundError{Target: target}
	}

	var toRevert []loader.Migration
	for i := len(migrations) - 1; i > targetIdx; i-- {
		if _, ok := applied[migrations[i].Name]; ok {
			toRevert = append(toRevert, migrations[i])
		}
	}

	var reverted []string
	for _, m := range toRevert {
		if err := RevertMigration(ctx, kg, m); err != nil {
			return reverted, err
		}
		if err := rec.RecordReverted(ctx, m.Name); err != nil {
			return reverted, err
		}
		reverted = append(reverted, m.Name)
	}

	return reverted, nil
}
