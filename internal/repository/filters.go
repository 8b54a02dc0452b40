package repository

import (
	"fmt"
	"strings"
)

// rowScanner is satisfied by both pgx.Row and pgx.Rows, so the same scan
// helper serves single-row and multi-row queries.
type rowScanner interface {
	Scan(dest ...any) error
}

// conditions accumulates WHERE clauses with positional placeholders. Filter
// predicates always compose conjunctively.
type conditions struct {
	clauses []string
	args    []any
}

// add appends a clause whose single %d verb is replaced with the next
// placeholder number, e.g. add("status = $%d", status).
func (c *conditions) add(format string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(format, len(c.args)))
}

// addRaw appends a clause with no bound argument.
func (c *conditions) addRaw(clause string) {
	c.clauses = append(c.clauses, clause)
}

// where renders the accumulated clauses, or an empty string when there are
// none.
func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// and renders the accumulated clauses joined by AND, without the WHERE
// keyword, for embedding into larger statements.
func (c *conditions) and() string {
	return strings.Join(c.clauses, " AND ")
}

// next returns the placeholder number a subsequently appended argument will
// get, for LIMIT/OFFSET suffixes.
func (c *conditions) next() int {
	return len(c.args) + 1
}

// withArgs appends extra arguments (limit/offset) and returns the full list.
func (c *conditions) withArgs(extra ...any) []any {
	return append(append([]any{}, c.args...), extra...)
}
