// Package executor defines the minimal synchronous contract the compiler
// and migration engine require of whatever remote knowledge-graph engine
// executes their emitted textual programs (spec §6.1). The core never
// implements this interface itself — only consumes it.
package executor

import "context"

// Result is the tabular (or error) outcome of executing one program.
type Result struct {
	Columns []string
	Rows    [][]any
	Error   string
}

// Executor runs one textual program (exactly what the compiler or a
// migration operation emits) and returns its result. Implementations may
// block; the core treats this as the sole suspension point in its
// otherwise synchronous control flow (spec §5).
type Executor interface {
	Execute(ctx context.Context, program string) (Result, error)
}
