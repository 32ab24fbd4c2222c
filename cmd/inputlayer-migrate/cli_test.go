package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inputlayer/inputlayer-go/executor/sqlitestore"
	"github.com/inputlayer/inputlayer-go/migrate/loader"
	"github.com/inputlayer/inputlayer-go/migrate/ops"
	"github.com/inputlayer/inputlayer-go/migrate/recorder"
)

func init() {
	loader.Register(loader.Migration{
		Name:   "0001_cli_initial",
		Number: 1,
		Operations: []ops.Operation{
			ops.CreateRelation{Name: "cli_edge", Columns: []ops.Column{{Name: "src", Type: "int"}, {Name: "dst", Type: "int"}}},
		},
	})
	loader.Register(loader.Migration{
		Name:         "0002_cli_second",
		Number:       2,
		Dependencies: []string{"0001_cli_initial"},
		Operations: []ops.Operation{
			ops.CreateRelation{Name: "cli_node", Columns: []ops.Column{{Name: "id", Type: "int"}}},
		},
		State: map[string]any{
			"relations": map[string]any{
				"cli_edge": []any{
					map[string]any{"name": "src", "type": "int"},
					map[string]any{"name": "dst", "type": "int"},
				},
				"cli_node": []any{
					map[string]any{"name": "id", "type": "int"},
				},
			},
			"rules":   map[string]any{},
			"indexes": map[string]any{},
		},
	})
}

func setupCLIDir(t *testing.T) (dir, dsn string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0001_cli_initial.go"), []byte("package migrations\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0002_cli_second.go"), []byte("package migrations\n"), 0o644))
	dsn = filepath.Join(dir, "cli_test.db")
	return dir, dsn
}

func setCLIOpts(t *testing.T, dir, dsn string) {
	t.Helper()
	prev := opts
	opts = globalOptions{
		Config:        filepath.Join(dir, "inputlayer.yml"),
		MigrationsDir: dir,
		ExecutorKind:  "demo-sqlite",
		DSN:           dsn,
	}
	t.Cleanup(func() { opts = prev })
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	require.NoError(t, w.Close())
	os.Stdout = old

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestMigrateCommandAppliesAndRecords(t *testing.T) {
	dir, dsn := setupCLIDir(t)
	setCLIOpts(t, dir, dsn)

	out := captureStdout(t, func() {
		cmd := &migrateCommand{}
		require.NoError(t, cmd.Execute(nil))
	})
	assert.Contains(t, out, "[X] 0001_cli_initial")
	assert.Contains(t, out, "[X] 0002_cli_second")

	store, err := sqlitestore.Open(dsn)
	require.NoError(t, err)
	defer store.Close()
	rec := recorder.New(store)
	applied, err := rec.GetApplied(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_cli_initial", "0002_cli_second"}, applied)
}

func TestShowmigrationsReflectsAppliedState(t *testing.T) {
	dir, dsn := setupCLIDir(t)
	setCLIOpts(t, dir, dsn)

	require.NoError(t, (&migrateCommand{Target: "0001_cli_initial"}).Execute(nil))

	out := captureStdout(t, func() {
		cmd := &showmigrationsCommand{}
		require.NoError(t, cmd.Execute(nil))
	})
	assert.Contains(t, out, "[X] 0001_cli_initial")
	assert.Contains(t, out, "[ ] 0002_cli_second")
}

func TestShowmigrationsYAMLFormatRendersLatestState(t *testing.T) {
	dir, dsn := setupCLIDir(t)
	setCLIOpts(t, dir, dsn)

	out := captureStdout(t, func() {
		cmd := &showmigrationsCommand{Format: "yaml"}
		require.NoError(t, cmd.Execute(nil))
	})
	assert.Contains(t, out, "cli_edge")
	assert.Contains(t, out, "cli_node")
	assert.Contains(t, out, "relations")
}

func TestRevertCommandUnwindsToTarget(t *testing.T) {
	dir, dsn := setupCLIDir(t)
	setCLIOpts(t, dir, dsn)

	require.NoError(t, (&migrateCommand{}).Execute(nil))

	var revertCmd revertCommand
	revertCmd.Args.Target = "0001_cli_initial"
	out := captureStdout(t, func() {
		require.NoError(t, revertCmd.Execute(nil))
	})
	assert.Contains(t, out, "[ ] 0002_cli_second")

	store, err := sqlitestore.Open(dsn)
	require.NoError(t, err)
	defer store.Close()
	rec := recorder.New(store)
	applied, err := rec.GetApplied(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_cli_initial"}, applied)
}

func TestDoctorReportsNoIssuesWhenConsistent(t *testing.T) {
	dir, dsn := setupCLIDir(t)
	setCLIOpts(t, dir, dsn)

	require.NoError(t, (&migrateCommand{}).Execute(nil))

	out := captureStdout(t, func() {
		cmd := &doctorCommand{}
		assert.NoError(t, cmd.Execute(nil))
	})
	assert.Contains(t, out, "no issues found")
}

func TestDoctorReportsUnrecordedMigration(t *testing.T) {
	dir, dsn := setupCLIDir(t)
	setCLIOpts(t, dir, dsn)

	require.NoError(t, (&migrateCommand{Target: "0001_cli_initial"}).Execute(nil))

	out := captureStdout(t, func() {
		cmd := &doctorCommand{}
		err := cmd.Execute(nil)
		assert.Error(t, err)
	})
	assert.Contains(t, out, "present on disk but not recorded as applied: 0002_cli_second")
}
