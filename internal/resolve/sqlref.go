package resolve

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/semlayer/pkg/core"
)

// SQLRefOptions carries the optional arguments of SQLReference.
type SQLRefOptions struct {
	// Column, when set, requests a column reference instead of a
	// reference to the target itself
	Column string
	// InQueryDimensions restricts template rendering to a subset of
	// dimension names already present in the query
	InQueryDimensions []string
	// DateRange bounds template rendering to a time window
	DateRange *core.DateRange
}

// SQLReference produces the SQL fragment referring to a model target in
// the warehouse dialect.
//
// With a column, the dialect's column rule is applied directly; no
// rendering happens. Columns referenced on sql-defined targets are also
// recorded in the raw-column set for later dependency checks.
//
// Without a column, the target itself is referenced. Template-backed
// targets are rendered through the context's renderer. When the dialect
// says the target needs no inline alias, the rendered reference is
// recorded in the view alias table under aliasName and only the quoted
// alias is returned; the caller assembles the WITH prologue separately.
func (c *Context) SQLReference(target core.Target, aliasName string, opts SQLRefOptions) (string, error) {
	if opts.Column != "" {
		if target.IsSQL() {
			c.recordRawColumn(aliasName, opts.Column)
		}
		return c.dialect.SQLForColumn(target, aliasName, opts.Column), nil
	}

	ref, err := c.dialect.SQLForTarget(target, aliasName, func() (string, error) {
		return c.RenderSQL(target.SQL, RenderOptions{
			ModelName:         aliasName,
			InQueryDimensions: opts.InQueryDimensions,
			DateRange:         opts.DateRange,
		})
	})
	if err != nil {
		return "", fmt.Errorf("sql reference for %q: %w", aliasName, err)
	}

	if !c.dialect.NeedsAlias(target) {
		c.recordViewAlias(aliasName, ref)
		return c.dialect.QuoteIdentifier(aliasName), nil
	}
	return ref, nil
}

// recordViewAlias appends an alias definition, preserving insertion
// order. Re-recording an alias overwrites the definition in place; its
// original position is kept.
func (c *Context) recordViewAlias(alias, definition string) {
	c.viewMu.Lock()
	defer c.viewMu.Unlock()
	if i, ok := c.viewIndex[alias]; ok {
		c.views[i].Definition = definition
		return
	}
	c.viewIndex[alias] = len(c.views)
	c.views = append(c.views, ViewAlias{Alias: alias, Definition: definition})
}

// ViewAliases returns the accumulated alias definitions in insertion
// order.
func (c *Context) ViewAliases() []ViewAlias {
	c.viewMu.Lock()
	defer c.viewMu.Unlock()
	return append([]ViewAlias(nil), c.views...)
}

// recordRawColumn marks a column as referenced on a sql-defined target.
func (c *Context) recordRawColumn(alias, column string) {
	c.rawMu.Lock()
	defer c.rawMu.Unlock()
	cols, ok := c.rawColumns[alias]
	if !ok {
		cols = make(map[string]struct{})
		c.rawColumns[alias] = cols
	}
	cols[column] = struct{}{}
}

// RawColumns returns the referenced raw columns per alias, sorted per
// alias for deterministic consumption.
func (c *Context) RawColumns() map[string][]string {
	c.rawMu.Lock()
	defer c.rawMu.Unlock()
	out := make(map[string][]string, len(c.rawColumns))
	for alias, cols := range c.rawColumns {
		names := make([]string, 0, len(cols))
		for col := range cols {
			names = append(names, col)
		}
		sort.Strings(names)
		out[alias] = names
	}
	return out
}

// AddComment attaches a free-form comment to the request's side channel.
func (c *Context) AddComment(comment string) {
	c.sideMu.Lock()
	defer c.sideMu.Unlock()
	c.comments = append(c.comments, comment)
}

// Comments returns the accumulated comments in insertion order.
func (c *Context) Comments() []string {
	c.sideMu.Lock()
	defer c.sideMu.Unlock()
	return append([]string(nil), c.comments...)
}

// SetVariable binds a named parameter for template rendering.
func (c *Context) SetVariable(name string, value any) {
	c.sideMu.Lock()
	defer c.sideMu.Unlock()
	c.variables[name] = value
}

// Variables returns a copy of the current variable bindings.
func (c *Context) Variables() map[string]any {
	c.sideMu.Lock()
	defer c.sideMu.Unlock()
	out := make(map[string]any, len(c.variables))
	for k, v := range c.variables {
		out[k] = v
	}
	return out
}
