package compiler

import "strings"

// CompileInsert compiles a single fact to an insert statement.
// persistent=true  -> +employee(1, "Alice", ...)
// persistent=false -> employee(1, "Alice", ...)   (session fact)
func CompileInsert(fact Fact, persistent bool) (string, error) {
	if err := fact.validate(); err != nil {
		return "", err
	}
	values, err := compileValues(fact.Values)
	if err != nil {
		return "", err
	}
	prefix := ""
	if persistent {
		prefix = "+"
	}
	return prefix + fact.Relation.Name() + "(" + strings.Join(values, ", ") + ")", nil
}

// CompileBulkInsert compiles a slice of facts for the same relation into a
// bulk insert statement: +employee[(1, "Alice", ...), (2, "Bob", ...)].
// A single-fact slice still renders as the bracketed bulk form, not the
// single-fact form — bulk and single are distinct statement shapes.
func CompileBulkInsert(facts []Fact, persistent bool) (string, error) {
	if len(facts) == 0 {
		return "", nil
	}
	name := facts[0].Relation.Name()
	tuples := make([]string, len(facts))
	for i, f := range facts {
		if err := f.validate(); err != nil {
			return "", err
		}
		values, err := compileValues(f.Values)
		if err != nil {
			return "", err
		}
		tuples[i] = "(" + strings.Join(values, ", ") + ")"
	}
	prefix := ""
	if persistent {
		prefix = "+"
	}
	return prefix + name + "[" + strings.Join(tuples, ", ") + "]", nil
}
