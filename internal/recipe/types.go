// Package recipe loads recipe documents (the YAML description of a
// project's semantic models) and converts them into core models for
// installation.
package recipe

import (
	"github.com/leapstack-labs/semlayer/pkg/core"
)

// Recipe is the top-level recipe document.
type Recipe struct {
	// Dialect is the target warehouse dialect name
	Dialect string `koanf:"dialect"`
	// DSN is the optional connection string used for field discovery
	DSN string `koanf:"dsn"`
	// Models are the candidate model definitions, in document order
	Models []Model `koanf:"models"`
}

// Model is one model entry in a recipe document.
type Model struct {
	Name       string            `koanf:"name"`
	Target     Target            `koanf:"target"`
	Dimensions []Dimension       `koanf:"dimensions"`
	Measures   []Measure         `koanf:"measures"`
	Relations  []Relation        `koanf:"relations"`
	Mappings   map[string]string `koanf:"mappings"`
}

// Target is a model's source: either a physical table or an inline SQL
// template. SQL wins when both are set.
type Target struct {
	Database string `koanf:"database"`
	Schema   string `koanf:"schema"`
	Table    string `koanf:"table"`
	SQL      string `koanf:"sql"`
}

// Dimension is a recipe dimension entry.
type Dimension struct {
	Name   string `koanf:"name"`
	Column string `koanf:"column"`
	Type   string `koanf:"type"`
}

// Measure is a recipe measure entry.
type Measure struct {
	Name        string `koanf:"name"`
	Column      string `koanf:"column"`
	Aggregation string `koanf:"aggregation"`
}

// Relation is a recipe relation entry.
type Relation struct {
	Name         string `koanf:"name"`
	Model        string `koanf:"model"`
	SourceColumn string `koanf:"source_column"`
	TargetColumn string `koanf:"target_column"`
	Type         string `koanf:"type"`
}

// ToCore converts the recipe models into core models, preserving
// document order. Conversion is purely structural; validation happens
// at installation.
func (r *Recipe) ToCore() []*core.Model {
	out := make([]*core.Model, 0, len(r.Models))
	for _, m := range r.Models {
		out = append(out, m.toCore())
	}
	return out
}

func (m Model) toCore() *core.Model {
	cm := &core.Model{
		Name:     m.Name,
		Mappings: m.Mappings,
	}

	if m.Target.SQL != "" {
		cm.Target = core.SQLTarget(m.Target.SQL)
	} else {
		cm.Target = core.TableTarget(m.Target.Database, m.Target.Schema, m.Target.Table)
	}

	for _, d := range m.Dimensions {
		cm.Dimensions = append(cm.Dimensions, core.Dimension{
			Name:   d.Name,
			Column: d.Column,
			Type:   core.FieldType(d.Type),
		})
	}
	for _, ms := range m.Measures {
		cm.Measures = append(cm.Measures, core.Measure{
			Name:        ms.Name,
			Column:      ms.Column,
			Aggregation: core.Aggregation(ms.Aggregation),
		})
	}
	for _, rel := range m.Relations {
		cm.Relations = append(cm.Relations, core.Relation{
			Name:         rel.Name,
			Model:        rel.Model,
			SourceColumn: rel.SourceColumn,
			TargetColumn: rel.TargetColumn,
			Type:         core.RelationType(rel.Type),
		})
	}
	return cm
}
