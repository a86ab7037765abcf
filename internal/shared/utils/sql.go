package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// WhereBuilder collects SQL predicates with positional $n args.
type WhereBuilder struct {
	clauses []string
	args    []any
}

// NextArg appends v to args and returns its placeholder.
func (w *WhereBuilder) NextArg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// Add appends a clause; each "?" in clause is replaced by the next placeholder.
func (w *WhereBuilder) Add(clause string, args ...any) {
	for _, a := range args {
		clause = strings.Replace(clause, "?", w.NextArg(a), 1)
	}
	w.clauses = append(w.clauses, clause)
}

// SQL returns " WHERE a AND b" or "" when empty.
func (w *WhereBuilder) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + JoinWithAnd(w.clauses)
}

func (w *WhereBuilder) Args() []any { return w.args }

// EscapeLike escapes LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
