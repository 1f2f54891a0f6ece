package storage

import (
	"strings"
)

// updateBuilder accumulates column assignments for a partial UPDATE.
// Column names come from fixed literals at each call site, never from input.
type updateBuilder struct {
	columns []string
	args    []any
}

func (b *updateBuilder) set(column string, value any) {
	b.columns = append(b.columns, column+" = ?")
	b.args = append(b.args, value)
}

func (b *updateBuilder) empty() bool {
	return len(b.columns) == 0
}

// clause renders the SET clause with update bookkeeping appended. Only
// called when at least one field is queued: updated_at and version move
// together with real changes, never on their own.
func (b *updateBuilder) clause() (string, []any) {
	columns := append(b.columns, "updated_at = CURRENT_TIMESTAMP", "version = version + 1")
	return strings.Join(columns, ", "), b.args
}

// nullable maps an empty string to SQL NULL for optional text columns.
// Sending "" in a patch clears the field.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
