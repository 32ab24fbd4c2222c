package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/k0kubun/pp/v3"

	"github.com/inputlayer/inputlayer-go/index"
	"github.com/inputlayer/inputlayer-go/migrate/autodetect"
	"github.com/inputlayer/inputlayer-go/migrate/loader"
	"github.com/inputlayer/inputlayer-go/migrate/models"
	"github.com/inputlayer/inputlayer-go/migrate/state"
	"github.com/inputlayer/inputlayer-go/migrate/writer"
)

type makemigrationsCommand struct {
	Name string `long:"name" description:"Custom migration name suffix" value-name:"suffix"`
}

func (c *makemigrationsCommand) Execute(args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.MigrationsDir, 0o755); err != nil {
		return fmt.Errorf("creating migrations dir: %w", err)
	}

	relations, indexes := models.Snapshot()

	filteredRelations := make([]state.RelationInput, 0, len(relations))
	for _, r := range relations {
		if cfg.SkipsRelation(r.Relation.Name()) {
			continue
		}
		filteredRelations = append(filteredRelations, r)
	}
	filteredIndexes := make([]index.HnswIndex, 0, len(indexes))
	for _, idx := range indexes {
		if cfg.SkipsRelation(idx.Relation.Name()) {
			continue
		}
		filteredIndexes = append(filteredIndexes, idx)
	}

	if len(filteredRelations) == 0 && len(filteredIndexes) == 0 {
		fmt.Println("No models found in the model registry.")
		return errors.New("no models registered (see migrate/models.Register)")
	}

	newState, err := state.FromModels(filteredRelations, filteredIndexes)
	if err != nil {
		return err
	}

	oldStateDict, err := loader.GetLatestState(cfg.MigrationsDir)
	if err != nil {
		return err
	}
	oldState := state.FromDict(oldStateDict)

	operations := autodetect.DetectChanges(oldState, newState)
	if len(operations) == 0 {
		fmt.Println("No changes detected.")
		return nil
	}

	number, err := loader.GetNextNumber(cfg.MigrationsDir)
	if err != nil {
		return err
	}
	existing, err := loader.LoadMigrations(cfg.MigrationsDir)
	if err != nil {
		return err
	}
	var deps []string
	if len(existing) > 0 {
		deps = []string{existing[len(existing)-1].Name}
	}

	if opts.Debug {
		pp.Println(newState.ToDict())
		for _, op := range operations {
			pp.Println(op)
		}
	}

	filename, content, err := writer.GenerateMigration(number, operations, newState.ToDict(), deps, c.Name)
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.MigrationsDir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing migration file: %w", err)
	}

	fmt.Printf("Created migration: %s\n", path)
	for _, op := range operations {
		fmt.Printf("  - %s\n", op.Describe())
	}
	return nil
}
