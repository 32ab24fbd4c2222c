package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inputlayer/inputlayer-go/migrate/ops"
)

func writeMigrationFile(t *testing.T, dir, filename string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte("package migrations\n"), 0o644))
}

func TestScanDirectoryMissing(t *testing.T) {
	entries, err := ScanDirectory(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScanDirectorySortsByNumber(t *testing.T) {
	dir := t.TempDir()
	writeMigrationFile(t, dir, "0002_add_index.go")
	writeMigrationFile(t, dir, "0001_initial.go")
	writeMigrationFile(t, dir, "not_a_migration.txt")

	entries, err := ScanDirectory(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "0001_initial", entries[0].Name)
	assert.Equal(t, "0002_add_index", entries[1].Name)
}

func TestGetNextNumberEmpty(t *testing.T) {
	n, err := GetNextNumber(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetNextNumberIncrementsFromLatest(t *testing.T) {
	dir := t.TempDir()
	writeMigrationFile(t, dir, "0001_initial.go")
	writeMigrationFile(t, dir, "0003_skip.go")

	n, err := GetNextNumber(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestLoadMigrationsCrossChecksRegistry(t *testing.T) {
	dir := t.TempDir()
	writeMigrationFile(t, dir, "0001_loadmigrations_initial.go")

	t.Cleanup(func() { delete(registry, "0001_loadmigrations_initial") })
	Register(Migration{
		Name:       "0001_loadmigrations_initial",
		Number:     1,
		Filename:   "0001_loadmigrations_initial.go",
		Operations: []ops.Operation{ops.CreateRelation{Name: "edge"}},
		State:      map[string]any{"relations": map[string]any{}},
	})

	migrations, err := LoadMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 1)
	assert.Equal(t, "0001_loadmigrations_initial", migrations[0].Name)
}

func TestLoadMigrationsFileWithoutRegistration(t *testing.T) {
	dir := t.TempDir()
	writeMigrationFile(t, dir, "0001_loadmigrations_unregistered.go")

	_, err := LoadMigrations(dir)
	require.Error(t, err)
	var badFile *BadMigrationFileError
	assert.ErrorAs(t, err, &badFile)
}

func TestGetLatestStateEmpty(t *testing.T) {
	s, err := GetLatestState(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, s["relations"])
}
