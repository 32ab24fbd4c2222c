// Package loader discovers migrations and makes them available in number
// order.
//
// Grounded on inputlayer's migrations/loader.py, with one structural
// change forced by the host language: the source dynamically imports
// each migration .py file and reads its M class off the freshly loaded
// module. Go cannot importlib-load an arbitrary .go file at runtime, so
// each generated migration (see migrate/writer) registers itself with
// Register from an init() function when its package is blank-imported —
// the same convention golang-migrate/migrate and pressly/goose use for
// compiled-in migrations. LoadMigrations reads that registry; ScanDirectory
// independently walks the migrations directory by filename, which is all
// migrate/writer needs to pick the next migration number before the new
// file exists (and therefore before it could possibly be registered).
package loader

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/inputlayer/inputlayer-go/migrate/ops"
)

// Migration is one loaded migration: its identity, dependency edges, the
// operations it applies, and the state snapshot after those operations
// are applied.
type Migration struct {
	Name         string // e.g. "0001_initial"
	Number       int
	Filename     string // e.g. "0001_initial.go"
	Dependencies []string
	Operations   []ops.Operation
	State        map[string]any
}

var registry = map[string]Migration{}

// Register adds a migration to the process-wide registry. Called from a
// generated migration file's init(); panics on a duplicate name, since
// two migrations sharing a name is a build-time authoring mistake, not a
// runtime condition to recover from.
func Register(m Migration) {
	if _, dup := registry[m.Name]; dup {
		panic(fmt.Sprintf("loader: migration %q registered twice", m.Name))
	}
	registry[m.Name] = m
}

// migrationFileRE matches "0001_initial.go"-shaped filenames: a
// four-digit number, underscore, name, and a ".go" extension.
var migrationFileRE = regexp.MustCompile(`^(\d{4})_.+\.go$`)

// DirEntry is one migration file found on disk, independent of whether
// the binary has it compiled in.
type DirEntry struct {
	Name     string
	Number   int
	Filename string
}

// ScanDirectory lists the migration files present in directory, sorted by
// number. A missing directory returns an empty slice, not an error —
// mirroring the source's Path.is_dir() guard.
func ScanDirectory(directory string) ([]DirEntry, error) {
	entries, err := os.ReadDir(directory)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []DirEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := migrationFileRE.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		number, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, DirEntry{
			Name:     strings.TrimSuffix(e.Name(), ".go"),
			Number:   number,
			Filename: e.Name(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// BadMigrationFileError reports a mismatch between the directory's
// migration files and the process's compiled-in registry: a file present
// on disk with no matching Register call (the binary predates it) or a
// registered migration with no backing file (a stale build artifact).
type BadMigrationFileError struct {
	Name   string
	Reason string
}

func (e *BadMigrationFileError) Error() string {
	return fmt.Sprintf("loader: %s: %s", e.Name, e.Reason)
}

// LoadMigrations returns every registered migration, sorted by number,
// cross-checked against the files actually present in directory.
func LoadMigrations(directory string) ([]Migration, error) {
	entries, err := ScanDirectory(directory)
	if err != nil {
		return nil, err
	}

	onDisk := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		onDisk[e.Name] = struct{}{}
		if _, ok := registry[e.Name]; !ok {
			return nil, &BadMigrationFileError{Name: e.Name, Reason: "present on disk but not registered; rebuild the binary"}
		}
	}

	for name := range registry {
		if _, ok := onDisk[name]; !ok {
			return nil, &BadMigrationFileError{Name: name, Reason: "registered but its file is missing from the migrations directory"}
		}
	}

	out := make([]Migration, 0, len(entries))
	for _, e := range entries {
		out = append(out, registry[e.Name])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// GetLatestState returns the state snapshot of the most recently numbered
// migration, or an empty snapshot if none exist.
func GetLatestState(directory string) (map[string]any, error) {
	migrations, err := LoadMigrations(directory)
	if err != nil {
		return nil, err
	}
	if len(migrations) == 0 {
		return map[string]any{"relations": map[string]any{}, "rules": map[string]any{}, "indexes": map[string]any{}}, nil
	}
	return migrations[len(migrations)-1].State, nil
}

// GetNextNumber returns the number the next generated migration should
// use. This scans the directory rather than the registry — the migration
// about to be written does not exist yet, so it cannot possibly be
// registered.
func GetNextNumber(directory string) (int, error) {
	entries, err := ScanDirectory(directory)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 1, nil
	}
	return entries[len(entries)-1].Number + 1, nil
}
