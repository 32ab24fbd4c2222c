package main

import (
	"context"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/inputlayer/inputlayer-go/authfmt"
	migexec "github.com/inputlayer/inputlayer-go/migrate/executor"
	"github.com/inputlayer/inputlayer-go/migrate/loader"
	"github.com/inputlayer/inputlayer-go/migrate/recorder"
)

type migrateCommand struct {
	Target        string `long:"target" description:"Stop after applying this migration" value-name:"name"`
	BootstrapUser string `long:"bootstrap-user" description:"Create this admin user (password prompted) before migrating" value-name:"username"`
}

func (c *migrateCommand) Execute(args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
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

	if c.BootstrapUser != "" {
		fmt.Printf("Enter password for %s: ", c.BootstrapUser)
		pw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		if _, err := kg.Execute(ctx, authfmt.CreateUser(c.BootstrapUser, string(pw), "admin")); err != nil {
			return fmt.Errorf("bootstrapping user %s: %w", c.BootstrapUser, err)
		}
	}

	rec := recorder.New(kg)

	applied, err := migexec.Migrate(ctx, kg, migrations, rec, c.Target)
	if err != nil {
		return err
	}

	if len(applied) > 0 {
		fmt.Printf("Applied %d migration(s):\n", len(applied))
		for _, name := range applied {
			fmt.Printf("  [X] %s\n", name)
		}
	} else {
		fmt.Println("No migrations to apply.")
	}
	return nil
}
