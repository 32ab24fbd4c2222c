package main

import (
	"context"
	"fmt"

	migexec "github.com/inputlayer/inputlayer-go/migrate/executor"
	"github.com/inputlayer/inputlayer-go/migrate/loader"
	"github.com/inputlayer/inputlayer-go/migrate/recorder"
)

type revertCommand struct {
	Args struct {
		Target string `positional-arg-name:"target" description:"Migration name to revert to (e.g. 0001_initial)" required:"yes"`
	} `positional-args:"yes"`
}

func (c *revertCommand) Execute(args []string) error {
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

	reverted, err := migexec.RevertTo(ctx, kg, migrations, rec, c.Args.Target)
	if err != nil {
		return err
	}

	if len(reverted) > 0 {
		fmt.Printf("Reverted %d migration(s):\n", len(reverted))
		for _, name := range reverted {
			fmt.Printf("  [ ] %s\n", name)
		}
	} else {
		fmt.Println("Nothing to revert.")
	}
	return nil
}
