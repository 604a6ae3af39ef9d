package resolve

import (
	"github.com/leapstack-labs/semlayer/pkg/core"
)

// DimensionAlias computes the deterministic alias for a dimension
// reference. Mapping names are replaced by their slugified canonical
// label; a relation context prefixes the alias with "relation."; a
// post-operation appends a double-underscore suffix of the operation
// type and value in lower snake case:
//
//	DimensionAlias("amount", "orders", DATE_TRUNC/MONTH)
//	  -> "orders.amount__date_trunc_month"
//
// Identical inputs always yield the identical alias.
func (c *Context) DimensionAlias(dimensionName, relationName string, postOp *core.PostOperation) string {
	name := dimensionName
	if core.IsMappingName(dimensionName) {
		name = core.Slugify(core.MappingLabel(dimensionName))
	}
	if relationName != "" {
		name = relationName + "." + name
	}
	if postOp != nil {
		name += "__" + postOp.AliasSuffix()
	}
	return name
}

// MeasureAlias computes the alias for a measure reference: the optional
// relation prefix, then the composed name quoted by the warehouse
// dialect.
func (c *Context) MeasureAlias(measureName, relationName string) string {
	name := measureName
	if relationName != "" {
		name = relationName + "." + name
	}
	return c.dialect.QuoteIdentifier(name)
}
