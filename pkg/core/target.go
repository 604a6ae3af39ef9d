package core

import "strings"

// TargetKind discriminates the two ways a model can be backed.
type TargetKind string

// Target kind constants.
const (
	// TargetTable means the model reads from a physical table or view.
	TargetTable TargetKind = "table"
	// TargetSQL means the model is defined by a SQL template that must
	// be rendered before it can be referenced.
	TargetSQL TargetKind = "sql"
)

// Target is a model's physical or templated SQL source.
// Exactly one of (Table, SQL) is meaningful, selected by Kind.
type Target struct {
	// Kind selects the variant
	Kind TargetKind
	// Database qualifies the physical table (table targets only)
	Database string
	// Schema qualifies the physical table (table targets only)
	Schema string
	// Table is the physical table name (table targets only)
	Table string
	// SQL is the template body (sql targets only)
	SQL string
}

// TableTarget builds a table-backed target.
func TableTarget(database, schema, table string) Target {
	return Target{Kind: TargetTable, Database: database, Schema: schema, Table: table}
}

// SQLTarget builds a template-backed target.
func SQLTarget(sql string) Target {
	return Target{Kind: TargetSQL, SQL: sql}
}

// IsSQL reports whether the target is defined by a SQL template.
func (t Target) IsSQL() bool {
	return t.Kind == TargetSQL
}

// QualifiedParts returns the non-empty parts of a table target in
// database.schema.table order.
func (t Target) QualifiedParts() []string {
	parts := make([]string, 0, 3)
	for _, p := range []string{t.Database, t.Schema, t.Table} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// String returns a printable form of the target for logs and errors.
func (t Target) String() string {
	if t.IsSQL() {
		return "sql:<template>"
	}
	return strings.Join(t.QualifiedParts(), ".")
}
