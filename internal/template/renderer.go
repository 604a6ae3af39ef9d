package template

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/leapstack-labs/semlayer/internal/resolve"
)

// Renderer evaluates SQL templates. It implements resolve.Renderer.
type Renderer struct {
	logger *slog.Logger
}

// New creates a template renderer. A nil logger uses discard.
func New(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{logger: logger}
}

var _ resolve.Renderer = (*Renderer)(nil)

// Render tokenizes the renderable and evaluates each {{ expr }} span as
// a Starlark expression against the request's globals. References inside
// expressions resolve through req.Resolver, re-entering the same
// request context.
func (r *Renderer) Render(req resolve.RenderRequest) (string, error) {
	lexer := NewLexer(req.Renderable, req.ModelName)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return "", err
	}

	globals, err := r.globals(req)
	if err != nil {
		return "", err
	}

	thread := &starlark.Thread{
		Name:  "render:" + req.ModelName,
		Print: func(_ *starlark.Thread, _ string) {},
	}

	var sb strings.Builder
	for _, tok := range tokens {
		switch tok.Type {
		case TokenText:
			sb.WriteString(tok.Value)
		case TokenExpr:
			value, err := starlark.Eval(thread, req.ModelName, tok.Value, globals) //nolint:staticcheck // SA1019: will migrate to EvalOptions later
			if err != nil {
				return "", WrapRenderError(tok.Pos, fmt.Sprintf("evaluating %q", tok.Value), err)
			}
			sb.WriteString(valueToString(value))
		case TokenEOF:
			// done
		}
	}

	r.logger.Debug("template rendered", "model", req.ModelName, "bytes", sb.Len())
	return sb.String(), nil
}

// globals builds the predeclared environment for one render: the
// reference builtins, the variable bag (after the hook ran), and the
// this/date_range structs.
func (r *Renderer) globals(req resolve.RenderRequest) (starlark.StringDict, error) {
	vars := req.Resolver.Variables()
	if req.Hook != nil {
		req.Hook(vars)
	}

	globals := starlark.StringDict{
		"ref":     starlark.NewBuiltin("ref", refBuiltin(req)),
		"column":  starlark.NewBuiltin("column", columnBuiltin(req)),
		"quote":   starlark.NewBuiltin("quote", quoteBuiltin(req)),
		"var":     starlark.NewBuiltin("var", varBuiltin(vars)),
		"comment": starlark.NewBuiltin("comment", commentBuiltin(req)),
		"this":    thisStruct(req),
	}

	if req.DateRange != nil {
		globals["date_range"] = starlarkstruct.FromStringDict(starlark.String("date_range"), starlark.StringDict{
			"start": dateValue(req.DateRange.Start),
			"end":   dateValue(req.DateRange.End),
		})
	} else {
		globals["date_range"] = starlark.None
	}

	if len(req.InQueryDimensions) > 0 {
		items := make([]starlark.Value, len(req.InQueryDimensions))
		for i, d := range req.InQueryDimensions {
			items[i] = starlark.String(d)
		}
		globals["in_query_dimensions"] = starlark.NewList(items)
	} else {
		globals["in_query_dimensions"] = starlark.NewList(nil)
	}

	return globals, nil
}

type builtinFunc = func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error)

// refBuiltin returns the SQL reference for another model:
// {{ ref("customers") }}.
func refBuiltin(req resolve.RenderRequest) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "model", &name); err != nil {
			return nil, err
		}
		model, err := req.Resolver.Model(name)
		if err != nil {
			return nil, err
		}
		ref, err := req.Resolver.SQLReference(model.Target, name, resolve.SQLRefOptions{
			InQueryDimensions: req.InQueryDimensions,
			DateRange:         req.DateRange,
		})
		if err != nil {
			return nil, err
		}
		return starlark.String(ref), nil
	}
}

// columnBuiltin returns the SQL reference for a dimension's column:
// {{ column("orders", "amount") }}.
func columnBuiltin(req resolve.RenderRequest) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var modelName, dimName string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "model", &modelName, "dimension", &dimName); err != nil {
			return nil, err
		}
		dim, err := req.Resolver.ModelDimension(dimName, modelName)
		if err != nil {
			return nil, err
		}
		ref, err := req.Resolver.SQLReference(dim.Target, modelName, resolve.SQLRefOptions{
			Column: dim.Dimension.PhysicalColumn(),
		})
		if err != nil {
			return nil, err
		}
		return starlark.String(ref), nil
	}
}

// quoteBuiltin quotes an identifier in the target dialect.
func quoteBuiltin(req resolve.RenderRequest) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
			return nil, err
		}
		return starlark.String(req.Dialect.QuoteIdentifier(name)), nil
	}
}

// varBuiltin looks up a named variable binding, with an optional default.
func varBuiltin(vars map[string]any) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		var fallback starlark.Value = starlark.None
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "default?", &fallback); err != nil {
			return nil, err
		}
		v, ok := vars[name]
		if !ok {
			if fallback != starlark.None {
				return fallback, nil
			}
			return nil, fmt.Errorf("undefined template variable %q", name)
		}
		return goToStarlark(v)
	}
}

// commentBuiltin attaches a comment to the request side channel and
// emits nothing.
func commentBuiltin(req resolve.RenderRequest) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var text string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text); err != nil {
			return nil, err
		}
		req.Resolver.AddComment(text)
		return starlark.None, nil
	}
}

// thisStruct exposes the current model to the template.
func thisStruct(req resolve.RenderRequest) starlark.Value {
	return starlarkstruct.FromStringDict(starlark.String("this"), starlark.StringDict{
		"name":         starlark.String(req.ModelName),
		"target_model": starlark.String(req.TargetModelName),
	})
}

func dateValue(t time.Time) starlark.Value {
	if t.IsZero() {
		return starlark.None
	}
	return starlark.String(t.Format("2006-01-02"))
}
