// Package postgres provides the PostgreSQL warehouse dialect.
package postgres

import (
	"github.com/leapstack-labs/semlayer/pkg/dialect"
)

// New returns the PostgreSQL dialect.
func New() dialect.Dialect {
	return &dialect.Base{
		DialectName: "postgres",
		Identifier: dialect.Identifiers{
			Quote:    `"`,
			QuoteEnd: `"`,
			Escape:   `""`,
		},
		DefaultSchema: "public",
		Placeholders:  dialect.PlaceholderDollar,
		Driver:        "pgx",
		// Subquery references must carry an inline alias in Postgres.
		SQLTargetNeedsAlias: true,
	}
}

func init() {
	dialect.Register(New())
}
