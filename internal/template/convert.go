package template

import (
	"fmt"

	"go.starlark.net/starlark"
)

// goToStarlark converts a Go value to a Starlark value.
// Supported: nil, string, bool, int, int64, float64, []string, []any,
// map[string]any.
func goToStarlark(v any) (starlark.Value, error) {
	switch val := v.(type) {
	case nil:
		return starlark.None, nil
	case string:
		return starlark.String(val), nil
	case bool:
		return starlark.Bool(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case int64:
		return starlark.MakeInt64(val), nil
	case float64:
		return starlark.Float(val), nil
	case []string:
		items := make([]starlark.Value, len(val))
		for i, s := range val {
			items[i] = starlark.String(s)
		}
		return starlark.NewList(items), nil
	case []any:
		items := make([]starlark.Value, len(val))
		for i, item := range val {
			conv, err := goToStarlark(item)
			if err != nil {
				return nil, err
			}
			items[i] = conv
		}
		return starlark.NewList(items), nil
	case map[string]any:
		dict := starlark.NewDict(len(val))
		for k, item := range val {
			conv, err := goToStarlark(item)
			if err != nil {
				return nil, err
			}
			if err := dict.SetKey(starlark.String(k), conv); err != nil {
				return nil, err
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported template value type %T", v)
	}
}

// valueToString renders an evaluated expression into SQL text. Strings
// are emitted raw (they are already SQL fragments), None emits nothing,
// everything else uses its Starlark representation.
func valueToString(v starlark.Value) string {
	switch val := v.(type) {
	case starlark.NoneType:
		return ""
	case starlark.String:
		return string(val)
	default:
		return v.String()
	}
}
