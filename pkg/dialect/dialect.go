// Package dialect defines the warehouse dialect contract: identifier
// quoting, SQL reference construction for model targets, and the
// warehouse-specific defaults applied at installation time.
//
// Concrete dialects live in pkg/dialects/*/ and register themselves via
// init(), in the same style as database/sql drivers.
package dialect

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/semlayer/pkg/core"
)

// RenderFunc renders the SQL template behind a template-backed target.
// The resolution context supplies it when asking for a target reference.
type RenderFunc func() (string, error)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. (PostgreSQL).
	PlaceholderDollar
)

// Dialect is the warehouse-specific rule set the resolution context
// consults when turning logical references into SQL fragments.
type Dialect interface {
	// Name is the dialect identifier ("postgres", "duckdb", "bigquery")
	Name() string

	// QuoteIdentifier quotes a single identifier for this warehouse
	QuoteIdentifier(name string) string

	// SQLForColumn returns the reference for a column on a target,
	// qualified by the given alias
	SQLForColumn(t core.Target, alias, column string) string

	// SQLForTarget returns the reference for the target itself. For
	// template-backed targets it invokes render to obtain the body.
	SQLForTarget(t core.Target, alias string, render RenderFunc) (string, error)

	// NeedsAlias reports whether a reference to this target must be
	// wrapped inline with an alias. When false the caller hoists the
	// rendered reference into a WITH-style prologue instead.
	NeedsAlias(t core.Target) bool

	// FillTargetDefaults fills warehouse defaults (database, schema)
	// into a table target in place
	FillTargetDefaults(t *core.Target)

	// DefaultPostOperations returns the post-operations a dimension of
	// the given type gets when the recipe declares none
	DefaultPostOperations(d core.Dimension) []core.PostOperation

	// Placeholder is the parameter placeholder style for this warehouse
	Placeholder() PlaceholderStyle

	// DriverName is the database/sql driver used for type discovery;
	// empty when no driver is available
	DriverName() string
}

// Identifiers defines how a dialect quotes identifiers.
type Identifiers struct {
	Quote    string // start quote: ", `
	QuoteEnd string // end quote, usually same as Quote
	Escape   string // escape sequence for QuoteEnd inside a name
}

// Base carries the configuration shared by concrete dialects and
// implements the parts of the contract that are pure data.
type Base struct {
	DialectName     string
	Identifier      Identifiers
	DefaultDatabase string
	DefaultSchema   string
	Placeholders    PlaceholderStyle
	Driver          string
	// SQLTargetNeedsAlias controls whether template-backed references
	// are wrapped inline or hoisted into a WITH prologue
	SQLTargetNeedsAlias bool
}

// Name returns the dialect identifier.
func (b *Base) Name() string { return b.DialectName }

// QuoteIdentifier quotes an identifier with the dialect's quote
// characters, escaping embedded end quotes.
func (b *Base) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, b.Identifier.QuoteEnd, b.Identifier.Escape)
	return b.Identifier.Quote + escaped + b.Identifier.QuoteEnd
}

// QuoteQualified quotes each part of a qualified name.
func (b *Base) QuoteQualified(parts ...string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = b.QuoteIdentifier(p)
	}
	return strings.Join(quoted, ".")
}

// SQLForColumn qualifies a column with the quoted alias.
func (b *Base) SQLForColumn(_ core.Target, alias, column string) string {
	return b.QuoteIdentifier(alias) + "." + b.QuoteIdentifier(column)
}

// SQLForTarget returns the quoted qualified table name for table targets
// and the rendered template body for SQL targets. Inline wrapping of the
// rendered body is applied only when the target needs an alias.
func (b *Base) SQLForTarget(t core.Target, alias string, render RenderFunc) (string, error) {
	if !t.IsSQL() {
		return b.QuoteQualified(t.QualifiedParts()...), nil
	}
	if render == nil {
		return "", fmt.Errorf("sql target %q: no render callback supplied", alias)
	}
	body, err := render()
	if err != nil {
		return "", err
	}
	if b.SQLTargetNeedsAlias {
		return "(" + body + ")", nil
	}
	return body, nil
}

// NeedsAlias reports whether the target reference must be aliased inline.
// Table references never need hoisting.
func (b *Base) NeedsAlias(t core.Target) bool {
	if !t.IsSQL() {
		return true
	}
	return b.SQLTargetNeedsAlias
}

// FillTargetDefaults fills the dialect's default database and schema into
// an unqualified table target.
func (b *Base) FillTargetDefaults(t *core.Target) {
	if t.IsSQL() {
		return
	}
	if t.Database == "" {
		t.Database = b.DefaultDatabase
	}
	if t.Schema == "" {
		t.Schema = b.DefaultSchema
	}
}

// DefaultPostOperations offers date truncation on date and time
// dimensions; other types get none.
func (b *Base) DefaultPostOperations(d core.Dimension) []core.PostOperation {
	switch d.Type {
	case core.FieldTypeDate, core.FieldTypeTime:
		return core.DatePostOperations()
	default:
		return nil
	}
}

// Placeholder returns the parameter placeholder style.
func (b *Base) Placeholder() PlaceholderStyle { return b.Placeholders }

// DriverName returns the database/sql driver name for discovery.
func (b *Base) DriverName() string { return b.Driver }
