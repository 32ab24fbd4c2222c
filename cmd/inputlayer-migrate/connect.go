package main

import (
	"fmt"

	"github.com/inputlayer/inputlayer-go/executor"
	"github.com/inputlayer/inputlayer-go/executor/memstore"
	"github.com/inputlayer/inputlayer-go/executor/sqlitestore"
	"github.com/inputlayer/inputlayer-go/migrate/config"
)

// resolveConfig loads the config file, applying the --migrations-dir
// override if given.
func resolveConfig() (config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return config.Config{}, err
	}
	if opts.MigrationsDir != "" {
		cfg.MigrationsDir = opts.MigrationsDir
	}
	return cfg, nil
}

// resolveExecutor builds the configured Executor: --executor/--dsn
// override a --connection profile looked up in cfg, which in turn
// defaults to an in-memory memstore when nothing is configured at all.
// The returned close func is always safe to call.
func resolveExecutor(cfg config.Config) (executor.Executor, func() error, error) {
	kind := opts.ExecutorKind
	dsn := opts.DSN

	if kind == "" && opts.Connection != "" {
		conn, ok := cfg.Connection(opts.Connection)
		if !ok {
			return nil, nil, fmt.Errorf("connection %q not found in %s", opts.Connection, opts.Config)
		}
		kind = conn.Kind
		if dsn == "" {
			dsn = conn.DSN
		}
	}
	if kind == "" {
		kind = "memstore"
	}

	switch kind {
	case "memstore":
		return memstore.New(), func() error { return nil }, nil
	case "demo-sqlite":
		if dsn == "" {
			dsn = ":memory:"
		}
		store, err := sqlitestore.Open(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("opening demo-sqlite executor: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown executor kind %q", kind)
	}
}
