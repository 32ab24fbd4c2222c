package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/inputlayer/inputlayer-go/migrate/loader"
	"github.com/inputlayer/inputlayer-go/migrate/recorder"
)

type showmigrationsCommand struct {
	Format string `long:"format" description:"Output format: \"text\" (default) or \"yaml\"" default:"text"`
}

func (c *showmigrationsCommand) Execute(args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	switch c.Format {
	case "text":
	case "yaml":
		return c.printYAML(cfg.MigrationsDir)
	default:
		return fmt.Errorf("showmigrations: unknown --format %q (want \"text\" or \"yaml\")", c.Format)
	}

	migrations, err := loader.LoadMigrations(cfg.MigrationsDir)
	if err != nil {
		return err
	}
	if len(migrations) == 0 {
		fmt.Println("No migrations found.")
		return nil
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

	for _, m := range migrations {
		mark := " "
		if _, ok := applied[m.Name]; ok {
			mark = "X"
		}
		fmt.Printf("  [%s] %s\n", mark, m.Name)
	}
	return nil
}

// printYAML renders the latest migration's declarative state snapshot
// (the same map ModelState.ToDict produces) as YAML, via goccy/go-yaml —
// the library migrate/config already uses for the CLI's own config file.
func (c *showmigrationsCommand) printYAML(migrationsDir string) error {
	state, err := loader.GetLatestState(migrationsDir)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(state)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
