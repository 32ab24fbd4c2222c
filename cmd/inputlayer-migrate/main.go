// Command inputlayer-migrate is the migration management CLI: discover
// model changes, write migration files, and apply/revert them against a
// knowledge-graph executor.
//
// Grounded on original_source's migrations/cli.py for subcommand and flag
// naming, and on sqldef-sqldef/cmd/mysqldef's go-flags + x/term idiom for
// option parsing and the masked password prompt.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/inputlayer/inputlayer-go/inputlayerlog"
)

var version string

type globalOptions struct {
	Config        string `long:"config" description:"YAML config file (connections, migrations_dir, skip_relations)" value-name:"path" default:"inputlayer.yml"`
	MigrationsDir string `long:"migrations-dir" description:"Directory for migration files (overrides the config file)" value-name:"dir"`
	Connection    string `long:"connection" description:"Named connection profile from the config file" value-name:"name"`
	ExecutorKind  string `long:"executor" description:"Executor kind: memstore, demo-sqlite (overrides the connection profile)" value-name:"kind"`
	DSN           string `long:"dsn" description:"DSN for the demo-sqlite executor (overrides the connection profile)" value-name:"dsn"`
	Debug         bool   `long:"debug" description:"makemigrations: pretty-print the new model state and operations before writing the file"`
	Version       bool   `long:"version" description:"Show this version"`
}

var opts globalOptions

func main() {
	inputlayerlog.Init()

	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "inputlayer-migrate"

	if _, err := parser.AddCommand("makemigrations", "Generate a new migration", "Diffs the registered models against the last recorded state and writes a migration file.", &makemigrationsCommand{}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("migrate", "Apply pending migrations", "Applies unapplied migrations in order, optionally stopping at --target.", &migrateCommand{}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("revert", "Revert migrations to a target", "Reverts applied migrations back to (but not including) the given target.", &revertCommand{}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("showmigrations", "Show migration status", "Lists every loaded migration with an [X]/[ ] applied marker.", &showmigrationsCommand{}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("doctor", "Cross-check recorded and on-disk migration state", "Reports migrations recorded as applied but missing on disk (or vice versa), and probes that every relation the migrations declared is still queryable.", &doctorCommand{}); err != nil {
		panic(err)
	}

	if _, err := parser.Parse(); err != nil {
		if opts.Version {
			fmt.Println(version)
			os.Exit(0)
		}
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
}
