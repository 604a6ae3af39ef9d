// Package core defines the shared domain types for the semantic layer:
// models, dimensions, measures, relations, targets, and the collaborator
// contracts consumed by the resolution context.
//
// Types in this package are pure data. Behavior (resolution, rendering,
// dialect rules) lives in internal/resolve, internal/template, and
// pkg/dialect.
package core
