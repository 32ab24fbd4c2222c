// Package writer generates the Go source for a new migration file.
//
// Grounded on inputlayer's migrations/writer.py: the same suffix
// defaulting ("initial" for migration #1, "auto" otherwise), the same
// NNNN_suffix filename shape, and the same three-part body (dependencies,
// operations, trailing state snapshot) — rendered as Go literals and an
// init()-registration call instead of a Python class body, per the
// registry convention migrate/loader documents.
package writer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/inputlayer/inputlayer-go/migrate/ops"
)

const fileTemplate = `// Migration: {{.Filename}}
// Auto-generated by inputlayer-migrate

package migrations

import (
	"github.com/inputlayer/inputlayer-go/migrate/loader"
	"github.com/inputlayer/inputlayer-go/migrate/ops"
)

func init() {
	loader.Register(loader.Migration{
		Name:         "{{.Name}}",
		Number:       {{.Number}},
		Filename:     "{{.Filename}}",
		Dependencies: {{.DependenciesLiteral}},
		Operations: {{.OperationsLiteral}},
		State: {{.StateLiteral}},
	})
}
`

var tmpl = template.Must(template.New("migration").Parse(fileTemplate))

type templateData struct {
	Name                string
	Number              int
	Filename            string
	DependenciesLiteral string
	OperationsLiteral   string
	StateLiteral        string
}

// GenerateMigration renders a migration file's (filename, content). If
// nameSuffix is empty, it defaults the same way the source does: "initial"
// for migration #1, "auto" otherwise.
func GenerateMigration(number int, operations []ops.Operation, state map[string]any, dependencies []string, nameSuffix string) (filename, content string, err error) {
	if nameSuffix == "" {
		if number == 1 {
			nameSuffix = "initial"
		} else {
			nameSuffix = "auto"
		}
	}

	name := fmt.Sprintf("%04d_%s", number, nameSuffix)
	filename = name + ".go"

	opsLiteral, err := renderOperations(operations)
	if err != nil {
		return "", "", err
	}

	data := templateData{
		Name:                name,
		Number:              number,
		Filename:            filename,
		DependenciesLiteral: renderStringSlice(dependencies),
		OperationsLiteral:   opsLiteral,
		StateLiteral:        renderState(state),
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", "", err
	}
	return filename, sb.String(), nil
}

func renderStringSlice(items []string) string {
	if len(items) == 0 {
		return "[]string{}"
	}
	parts := make([]string, len(items))
	for i, s := range items {
		parts[i] = strconv.Quote(s)
	}
	return "[]string{" + strings.Join(parts, ", ") + "}"
}

func renderColumns(cols []ops.Column) string {
	if len(cols) == 0 {
		return "[]ops.Column{}"
	}
	var sb strings.Builder
	sb.WriteString("[]ops.Column{\n")
	for _, c := range cols {
		fmt.Fprintf(&sb, "\t\t\t\t{Name: %s, Type: %s},\n", strconv.Quote(c.Name), strconv.Quote(c.Type))
	}
	sb.WriteString("\t\t\t}")
	return sb.String()
}

func renderOperations(operations []ops.Operation) (string, error) {
	if len(operations) == 0 {
		return "[]ops.Operation{}", nil
	}
	var sb strings.Builder
	sb.WriteString("[]ops.Operation{\n")
	for _, op := range operations {
		rendered, err := renderOperation(op)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "\t\t\t%s,\n", rendered)
	}
	sb.WriteString("\t\t}")
	return sb.String(), nil
}

func renderOperation(op ops.Operation) (string, error) {
	switch o := op.(type) {
	case ops.CreateRelation:
		return fmt.Sprintf("ops.CreateRelation{\n\t\t\t\tName:    %s,\n\t\t\t\tColumns: %s,\n\t\t\t}",
			strconv.Quote(o.Name), renderColumns(o.Columns)), nil
	case ops.DropRelation:
		return fmt.Sprintf("ops.DropRelation{\n\t\t\t\tName:    %s,\n\t\t\t\tColumns: %s,\n\t\t\t}",
			strconv.Quote(o.Name), renderColumns(o.Columns)), nil
	case ops.CreateRule:
		return fmt.Sprintf("ops.CreateRule{\n\t\t\t\tName:    %s,\n\t\t\t\tClauses: %s,\n\t\t\t}",
			strconv.Quote(o.Name), renderStringSlice(o.Clauses)), nil
	case ops.DropRule:
		return fmt.Sprintf("ops.DropRule{\n\t\t\t\tName:    %s,\n\t\t\t\tClauses: %s,\n\t\t\t}",
			strconv.Quote(o.Name), renderStringSlice(o.Clauses)), nil
	case ops.ReplaceRule:
		return fmt.Sprintf("ops.ReplaceRule{\n\t\t\t\tName:       %s,\n\t\t\t\tOldClauses: %s,\n\t\t\t\tNewClauses: %s,\n\t\t\t}",
			strconv.Quote(o.Name), renderStringSlice(o.OldClauses), renderStringSlice(o.NewClauses)), nil
	case ops.CreateIndex:
		return fmt.Sprintf("ops.NewCreateIndex(%s, %s, %s, %s, %d, %d, %d)",
			strconv.Quote(o.Name), strconv.Quote(o.Relation), strconv.Quote(o.Column), strconv.Quote(o.Metric),
			o.M, o.EfConstruction, o.EfSearch), nil
	case ops.DropIndex:
		return fmt.Sprintf("ops.NewDropIndex(%s, %s, %s, %s, %d, %d, %d)",
			strconv.Quote(o.Name), strconv.Quote(o.Relation), strconv.Quote(o.Column), strconv.Quote(o.Metric),
			o.M, o.EfConstruction, o.EfSearch), nil
	case ops.RunDatalog:
		return fmt.Sprintf("ops.RunDatalog{\n\t\t\t\tForward:  %s,\n\t\t\t\tBackward: %s,\n\t\t\t}",
			renderStringSlice(o.Forward), renderStringSlice(o.Backward)), nil
	default:
		return "", fmt.Errorf("writer: unknown operation type: %T", op)
	}
}

// renderState renders a ModelState's ToDict() output (relations/rules/
// indexes nested maps) as a Go map[string]any literal, sorted by key for
// deterministic output across runs.
func renderState(state map[string]any) string {
	var sb strings.Builder
	sb.WriteString("map[string]any{\n")

	fmt.Fprintf(&sb, "\t\t\t\"relations\": map[string]any{\n")
	for _, name := range sortedStringKeys(asMap(state["relations"])) {
		cols, _ := asMap(state["relations"])[name].([]any)
		sb.WriteString("\t\t\t\t" + strconv.Quote(name) + ": []any{\n")
		for _, item := range cols {
			c, _ := item.(map[string]any)
			fmt.Fprintf(&sb, "\t\t\t\t\tmap[string]any{\"name\": %s, \"type\": %s},\n",
				strconv.Quote(asStr(c["name"])), strconv.Quote(asStr(c["type"])))
		}
		sb.WriteString("\t\t\t\t},\n")
	}
	sb.WriteString("\t\t\t},\n")

	fmt.Fprintf(&sb, "\t\t\t\"rules\": map[string]any{\n")
	for _, name := range sortedStringKeys(asMap(state["rules"])) {
		clauses, _ := asMap(state["rules"])[name].([]any)
		strs := make([]string, len(clauses))
		for i, c := range clauses {
			strs[i] = asStr(c)
		}
		fmt.Fprintf(&sb, "\t\t\t\t%s: %s,\n", strconv.Quote(name), renderStringSlice(strs))
	}
	sb.WriteString("\t\t\t},\n")

	fmt.Fprintf(&sb, "\t\t\t\"indexes\": map[string]any{\n")
	for _, name := range sortedStringKeys(asMap(state["indexes"])) {
		info, _ := asMap(state["indexes"])[name].(map[string]any)
		sb.WriteString("\t\t\t\t" + strconv.Quote(name) + ": map[string]any{\n")
		for _, k := range sortedStringKeys(info) {
			fmt.Fprintf(&sb, "\t\t\t\t\t%s: %#v,\n", strconv.Quote(k), info[k])
		}
		sb.WriteString("\t\t\t\t},\n")
	}
	sb.WriteString("\t\t\t},\n")

	sb.WriteString("\t\t}")
	return sb.String()
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	if m == nil {
		return map[string]any{}
	}
	return m
}

func asStr(v any) string {
	s, _ := v.(string)
	return s
}

func sortedStringKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
