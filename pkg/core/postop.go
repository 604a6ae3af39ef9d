package core

import "strings"

// PostOpType identifies a query-time transform applied to a dimension.
type PostOpType string

// Post-operation type constants. Values are carried in upper snake case;
// alias rendering lowercases them.
const (
	PostOpDateTrunc PostOpType = "DATE_TRUNC"
	PostOpExtract   PostOpType = "EXTRACT"
	PostOpCast      PostOpType = "CAST"
)

// PostOperation is a transform applied to a dimension at query time,
// such as truncating a timestamp to a month.
type PostOperation struct {
	// Type is the transform kind
	Type PostOpType
	// Value is the transform argument in upper snake case (e.g. MONTH,
	// DAY_OF_WEEK)
	Value string
}

// AliasSuffix renders the two-part alias suffix for the post-operation:
// the type in lower snake case followed by the value in lower snake case,
// joined with an underscore. DATE_TRUNC/MONTH yields "date_trunc_month".
func (p PostOperation) AliasSuffix() string {
	return strings.ToLower(string(p.Type)) + "_" + strings.ToLower(p.Value)
}

// DatePostOperations is the standard set of transforms dialects offer on
// date and time dimensions by default.
func DatePostOperations() []PostOperation {
	return []PostOperation{
		{Type: PostOpDateTrunc, Value: "DAY"},
		{Type: PostOpDateTrunc, Value: "WEEK"},
		{Type: PostOpDateTrunc, Value: "MONTH"},
		{Type: PostOpDateTrunc, Value: "QUARTER"},
		{Type: PostOpDateTrunc, Value: "YEAR"},
	}
}
