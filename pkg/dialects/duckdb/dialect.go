// Package duckdb provides the DuckDB warehouse dialect.
package duckdb

import (
	"github.com/leapstack-labs/semlayer/pkg/dialect"
)

// New returns the DuckDB dialect.
func New() dialect.Dialect {
	return &dialect.Base{
		DialectName: "duckdb",
		Identifier: dialect.Identifiers{
			Quote:    `"`,
			QuoteEnd: `"`,
			Escape:   `""`,
		},
		DefaultSchema: "main",
		Placeholders:  dialect.PlaceholderQuestion,
		Driver:        "duckdb",
		// Template-backed references are hoisted into a WITH prologue;
		// the context records the rendered body under the alias.
		SQLTargetNeedsAlias: false,
	}
}

func init() {
	dialect.Register(New())
}
