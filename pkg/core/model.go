package core

import "regexp"

// NamePattern is the identifier pattern every model, dimension, measure,
// and relation name must match before installation.
var NamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidName reports whether name is a legal semantic-layer identifier.
func ValidName(name string) bool {
	return NamePattern.MatchString(name)
}

// Model is a logical dataset definition: a target (physical table or SQL
// template) plus the dimensions, measures, and relations declared on it.
//
// Models are immutable once installed. Updates replace the registered
// model, they never mutate it in place.
type Model struct {
	// Name is the unique model identifier (lowercase with underscores)
	Name string
	// Target is the physical table or SQL template backing this model
	Target Target
	// Dimensions are the queryable attributes, in declaration order
	Dimensions []Dimension
	// Measures are the aggregable metrics, in declaration order
	Measures []Measure
	// Relations are named links to other models
	Relations []Relation
	// Mappings translates common mapping names (e.g. "primary_key") to
	// the names of actual dimensions declared on this model
	Mappings map[string]string
	// Aggregates are optional materialized-aggregate definitions
	Aggregates []Aggregate
}

// Dimension returns the declared dimension with the given name.
func (m *Model) Dimension(name string) (Dimension, bool) {
	for _, d := range m.Dimensions {
		if d.Name == name {
			return d, true
		}
	}
	return Dimension{}, false
}

// Measure returns the declared measure with the given name.
func (m *Model) Measure(name string) (Measure, bool) {
	for _, ms := range m.Measures {
		if ms.Name == name {
			return ms, true
		}
	}
	return Measure{}, false
}

// Relation returns the declared relation with the given name.
func (m *Model) Relation(name string) (Relation, bool) {
	for _, r := range m.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

// Clone returns a deep copy of the model. Installation finalizes a copy
// rather than mutating the provisional model.
func (m *Model) Clone() *Model {
	c := &Model{
		Name:   m.Name,
		Target: m.Target,
	}
	c.Dimensions = append([]Dimension(nil), m.Dimensions...)
	for i, d := range c.Dimensions {
		c.Dimensions[i].PostOperations = append([]PostOperation(nil), d.PostOperations...)
	}
	c.Measures = append([]Measure(nil), m.Measures...)
	c.Relations = append([]Relation(nil), m.Relations...)
	c.Aggregates = append([]Aggregate(nil), m.Aggregates...)
	if m.Mappings != nil {
		c.Mappings = make(map[string]string, len(m.Mappings))
		for k, v := range m.Mappings {
			c.Mappings[k] = v
		}
	}
	return c
}

// Dimension is a queryable attribute of a model.
type Dimension struct {
	// Name is the logical dimension name
	Name string
	// Column is the physical column or SQL expression (defaults to Name)
	Column string
	// Type is the field type, possibly filled in by discovery
	Type FieldType
	// PostOperations are the query-time transforms available on this
	// dimension (e.g. date truncation); filled from dialect defaults
	// when empty at installation
	PostOperations []PostOperation
}

// PhysicalColumn returns the column backing the dimension.
func (d Dimension) PhysicalColumn() string {
	if d.Column != "" {
		return d.Column
	}
	return d.Name
}

// Measure is an aggregable metric of a model.
type Measure struct {
	// Name is the logical measure name
	Name string
	// Column is the physical column or SQL expression the aggregation
	// applies to; empty for row-count aggregations
	Column string
	// Aggregation is how the measure aggregates
	Aggregation Aggregation
}

// RelationType describes the cardinality of a relation.
type RelationType string

// Relation cardinality constants.
const (
	RelationOneToOne   RelationType = "one_to_one"
	RelationManyToOne  RelationType = "many_to_one"
	RelationOneToMany  RelationType = "one_to_many"
	RelationManyToMany RelationType = "many_to_many"
)

// Relation is a named link from one model to another.
type Relation struct {
	// Name is the relation identifier on the source model
	Name string
	// Model is the target model name
	Model string
	// SourceColumn is the join column on the source model
	SourceColumn string
	// TargetColumn is the join column on the target model
	TargetColumn string
	// Type is the relation cardinality
	Type RelationType
}

// Aggregate is a materialized-aggregate definition attached to a model.
type Aggregate struct {
	// Name identifies the aggregate
	Name string
	// Table is the physical table holding the pre-aggregated rows
	Table string
	// Dimensions are the dimension names the aggregate is grouped by
	Dimensions []string
	// Measures are the measure names the aggregate covers
	Measures []string
}

// FieldType classifies a dimension's data type.
type FieldType string

// Field type constants.
const (
	FieldTypeUnknown FieldType = ""
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBool    FieldType = "bool"
	FieldTypeDate    FieldType = "date"
	FieldTypeTime    FieldType = "time"
)
