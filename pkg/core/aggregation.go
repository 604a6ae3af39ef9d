package core

// Aggregation describes how a measure aggregates rows.
type Aggregation string

// Aggregation constants.
const (
	AggSum           Aggregation = "sum"
	AggCount         Aggregation = "count"
	AggCountDistinct Aggregation = "count_distinct"
	AggAvg           Aggregation = "avg"
	AggMin           Aggregation = "min"
	AggMax           Aggregation = "max"
	// AggCountRows counts rows without reference to a column. It backs
	// the built-in $total_rows measure.
	AggCountRows Aggregation = "count_rows"
)

// TotalRowsMeasure is the sentinel name of the built-in row-count measure
// available on every model without declaration.
const TotalRowsMeasure = "$total_rows"

// SyntheticTotalRows returns the built-in row-count measure. The measure
// is consulted only after a declared-measure lookup misses; a model that
// declares its own measure under this name shadows the builtin.
func SyntheticTotalRows() Measure {
	return Measure{Name: TotalRowsMeasure, Aggregation: AggCountRows}
}

// ValidAggregation reports whether a is a recognized aggregation.
func ValidAggregation(a Aggregation) bool {
	switch a {
	case AggSum, AggCount, AggCountDistinct, AggAvg, AggMin, AggMax, AggCountRows:
		return true
	default:
		return false
	}
}
