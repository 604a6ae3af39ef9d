package recipe

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load reads a recipe document from a YAML file.
func Load(path string) (*Recipe, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading recipe %s: %w", path, err)
	}

	var r Recipe
	if err := k.Unmarshal("", &r); err != nil {
		return nil, fmt.Errorf("parsing recipe %s: %w", path, err)
	}
	return &r, nil
}
