package prototype

import (
	"errors"
	"strings"
)

var ErrNoSchema = errors.New("prototype: no database schema")

// SQLSchema renders the generated database schema as plain-text CREATE TABLE
// statements, one per table, columns as `name type [NOT NULL]`.
func (p *Prototype) SQLSchema() (string, error) {
	if p == nil || len(p.DatabaseSchema) == 0 {
		return "", ErrNoSchema
	}
	var b strings.Builder
	for i, table := range p.DatabaseSchema {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("CREATE TABLE ")
		b.WriteString(table.Name)
		b.WriteString(" (\n")
		for j, col := range table.Columns {
			b.WriteString("  ")
			b.WriteString(col.Name)
			b.WriteString(" ")
			b.WriteString(col.Type)
			if !col.IsNullable {
				b.WriteString(" NOT NULL")
			}
			if j < len(table.Columns)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(");\n")
	}
	return b.String(), nil
}
