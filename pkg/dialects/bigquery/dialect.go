// Package bigquery provides the BigQuery warehouse dialect.
package bigquery

import (
	"github.com/leapstack-labs/semlayer/pkg/dialect"
)

// New returns the BigQuery dialect.
func New() dialect.Dialect {
	return &dialect.Base{
		DialectName: "bigquery",
		Identifier: dialect.Identifiers{
			Quote:    "`",
			QuoteEnd: "`",
			Escape:   "\\`",
		},
		Placeholders: dialect.PlaceholderQuestion,
		// No database/sql driver wired; discovery is unavailable and
		// installation keeps the declared dimension types.
		Driver:              "",
		SQLTargetNeedsAlias: false,
	}
}

func init() {
	dialect.Register(New())
}
