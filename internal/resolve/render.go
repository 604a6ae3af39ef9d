package resolve

import (
	"fmt"

	"github.com/leapstack-labs/semlayer/pkg/core"
	"github.com/leapstack-labs/semlayer/pkg/dialect"
)

// Resolver is the narrow view of the context that collaborators need:
// resolution and SQL-reference operations plus the variable side channel.
// The template renderer resolves field references inside templates
// through this interface, which recursively re-enters the same context.
type Resolver interface {
	Model(name string) (*core.Model, error)
	ModelDimension(dimensionName, modelName string) (*ModelDimension, error)
	ModelMeasure(measureName, modelName string) (*ModelMeasure, error)
	Relation(relationName, sourceModelName string) (*ModelRelation, error)
	SQLReference(target core.Target, aliasName string, opts SQLRefOptions) (string, error)
	Variables() map[string]any
	AddComment(comment string)
}

// Context implements Resolver.
var _ Resolver = (*Context)(nil)

// RenderHook rewrites the variable bindings a template will be rendered
// with, before evaluation. Used to inject computed defaults.
type RenderHook func(vars map[string]any)

// RenderOptions carries the optional arguments of RenderSQL.
type RenderOptions struct {
	// ModelName is the model the template belongs to ("this" in the
	// template)
	ModelName string
	// InQueryDimensions restricts rendering to dimensions already in
	// the query
	InQueryDimensions []string
	// DateRange bounds the render to a time window
	DateRange *core.DateRange
	// TargetModelName names the model the render output feeds into
	TargetModelName string
	// Hook rewrites variable bindings before evaluation
	Hook RenderHook
}

// RenderRequest is the full payload handed to a Renderer.
type RenderRequest struct {
	Auth       *core.Auth
	Dialect    dialect.Dialect
	Renderable string
	Resolver   Resolver
	RenderOptions
}

// Renderer renders a SQL template. Field references inside the template
// call back into the supplied Resolver.
type Renderer interface {
	Render(req RenderRequest) (string, error)
}

// RenderSQL renders a SQL template through the context's renderer,
// passing the context itself as the resolution callback so references
// inside the template resolve against the same request state.
func (c *Context) RenderSQL(renderable string, opts RenderOptions) (string, error) {
	if c.renderer == nil {
		return "", fmt.Errorf("render %q: no renderer configured", opts.ModelName)
	}
	return c.renderer.Render(RenderRequest{
		Auth:          c.auth,
		Dialect:       c.dialect,
		Renderable:    renderable,
		Resolver:      c,
		RenderOptions: opts,
	})
}
