// Package discovery implements field-type discovery against the
// physical warehouse: it probes information_schema for the columns
// backing a model and merges the discovered types into the declared
// dimensions. Failures are structured so installation can degrade to
// the declared dimensions.
package discovery

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/semlayer/pkg/apierr"
	"github.com/leapstack-labs/semlayer/pkg/core"
	"github.com/leapstack-labs/semlayer/pkg/dialect"
)

// Prober discovers dimension field types via database/sql. It implements
// core.Discoverer.
type Prober struct {
	db      *sql.DB
	dialect dialect.Dialect
	logger  *slog.Logger
}

// NewProber creates a prober over an open database handle.
func NewProber(db *sql.DB, d dialect.Dialect, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Prober{db: db, dialect: d, logger: logger}
}

var _ core.Discoverer = (*Prober)(nil)

// DiscoverDimensionTypes probes information_schema for the model's
// backing table and fills discovered types into dimensions that declare
// none. Declared types always win. SQL-defined models are unsupported.
func (p *Prober) DiscoverDimensionTypes(ctx context.Context, modelName string, target core.Target, dims []core.Dimension) ([]core.Dimension, error) {
	if target.IsSQL() {
		return nil, apierr.InvalidInput("field type discovery not supported for sql-defined model %q", modelName)
	}

	query := "SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = " +
		p.placeholder(1) + " AND table_name = " + p.placeholder(2)

	rows, err := p.db.QueryContext(ctx, query, target.Schema, target.Table)
	if err != nil {
		return nil, apierr.InvalidInput("discovering model %q from %s: %v", modelName, target, err)
	}
	defer rows.Close()

	types := make(map[string]core.FieldType)
	for rows.Next() {
		var column, dataType string
		if err := rows.Scan(&column, &dataType); err != nil {
			return nil, apierr.InvalidInput("discovering model %q: %v", modelName, err)
		}
		types[column] = mapDataType(dataType)
	}
	if err := rows.Err(); err != nil {
		return nil, apierr.InvalidInput("discovering model %q: %v", modelName, err)
	}

	out := append([]core.Dimension(nil), dims...)
	found := 0
	for i := range out {
		if out[i].Type != core.FieldTypeUnknown {
			continue
		}
		if t, ok := types[out[i].PhysicalColumn()]; ok {
			out[i].Type = t
			found++
		}
	}

	p.logger.Debug("field types discovered", "model", modelName, "columns", len(types), "filled", found)
	return out, nil
}

// placeholder formats the nth query parameter for the target warehouse.
func (p *Prober) placeholder(n int) string {
	if p.dialect.Placeholder() == dialect.PlaceholderDollar {
		return "$" + string(rune('0'+n))
	}
	return "?"
}

// mapDataType folds an information_schema data type into a field type.
func mapDataType(dataType string) core.FieldType {
	dt := strings.ToLower(dataType)
	switch {
	case strings.Contains(dt, "timestamp"), strings.Contains(dt, "time"):
		return core.FieldTypeTime
	case strings.Contains(dt, "date"):
		return core.FieldTypeDate
	case strings.Contains(dt, "bool"):
		return core.FieldTypeBool
	case strings.Contains(dt, "int"), strings.Contains(dt, "numeric"),
		strings.Contains(dt, "decimal"), strings.Contains(dt, "float"),
		strings.Contains(dt, "double"), strings.Contains(dt, "real"):
		return core.FieldTypeNumber
	case strings.Contains(dt, "char"), strings.Contains(dt, "text"),
		strings.Contains(dt, "string"), strings.Contains(dt, "uuid"):
		return core.FieldTypeString
	default:
		return core.FieldTypeUnknown
	}
}
