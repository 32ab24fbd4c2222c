package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/inputlayer/inputlayer-go/migrate/loader"
	"github.com/inputlayer/inputlayer-go/migrate/ops"
	"github.com/inputlayer/inputlayer-go/migrate/recorder"
)

// doctorCommand cross-checks the recorder's applied-migration bookkeeping
// against the on-disk/compiled-in migration list, and concurrently probes
// that every relation the migrations declared is still queryable against
// the configured executor. It is not part of the core spec (that never
// runs concurrent requests against the executor): it is read-only
// diagnostics layered on top, per SPEC_FULL.md.
type doctorCommand struct {
	Concurrency int `long:"concurrency" description:"Max concurrent relation-presence checks" default:"4"`
}

type declaredRelation struct {
	name  string
	arity int
}

func (c *doctorCommand) Execute(args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	migrations, err := loader.LoadMigrations(cfg.MigrationsDir)
	if err != nil {
		return err
	}

	kg, closeFn, err := resolveExecutor(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := context.Background()
	rec := recorder.New(kg)
	if err := rec.EnsureSchema(ctx); err != nil {
		return err
	}

	appliedList, err := rec.GetApplied(ctx)
	if err != nil {
		return err
	}
	applied := make(map[string]struct{}, len(appliedList))
	for _, n := range appliedList {
		applied[n] = struct{}{}
	}
	onDisk := make(map[string]struct{}, len(migrations))
	for _, m := range migrations {
		onDisk[m.Name] = struct{}{}
	}

	var problems int

	recordedNames := make([]string, 0, len(applied))
	for n := range applied {
		recordedNames = append(recordedNames, n)
	}
	sort.Strings(recordedNames)
	for _, n := range recordedNames {
		if _, ok := onDisk[n]; !ok {
			fmt.Printf("recorded as applied but missing on disk: %s\n", n)
			problems++
		}
	}
	for _, m := range migrations {
		if _, ok := applied[m.Name]; !ok {
			fmt.Printf("present on disk but not recorded as applied: %s\n", m.Name)
			problems++
		}
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	var mu sync.Mutex
	var missing []string

	for _, rel := range declaredRelations(migrations) {
		rel := rel
		g.Go(func() error {
			vars := make([]string, rel.arity)
			for i := range vars {
				vars[i] = fmt.Sprintf("V%d", i+1)
			}
			q := fmt.Sprintf("?%s <- %s(%s)", strings.Join(vars, ", "), rel.name, strings.Join(vars, ", "))
			if _, err := kg.Execute(gctx, q); err != nil {
				mu.Lock()
				missing = append(missing, fmt.Sprintf("%s: %v", rel.name, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(missing)
	for _, m := range missing {
		fmt.Printf("relation check failed: %s\n", m)
	}
	problems += len(missing)

	if problems == 0 {
		fmt.Println("doctor: no issues found.")
		return nil
	}
	return fmt.Errorf("doctor found %d issue(s)", problems)
}

// declaredRelations collects every relation still standing after all
// loaded migrations' CreateRelation/DropRelation operations are replayed
// in order, with the column count (arity) from its last CreateRelation.
func declaredRelations(migrations []loader.Migration) []declaredRelation {
	arity := map[string]int{}
	dropped := map[string]bool{}

	for _, m := range migrations {
		for _, op := range m.Operations {
			switch o := op.(type) {
			case ops.CreateRelation:
				arity[o.Name] = len(o.Columns)
				delete(dropped, o.Name)
			case ops.DropRelation:
				dropped[o.Name] = true
			}
		}
	}

	names := make([]string, 0, len(arity))
	for name := range arity {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]declaredRelation, 0, len(names))
	for _, name := range names {
		if dropped[name] {
			continue
		}
		out = append(out, declaredRelation{name: name, arity: arity[name]})
	}
	return out
}
