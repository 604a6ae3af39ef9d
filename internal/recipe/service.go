package recipe

import (
	"github.com/leapstack-labs/semlayer/pkg/core"
)

// StaticService serves a fixed batch of models as a core.ModelService.
// It backs CLI usage, where the recipe document is the whole project.
type StaticService struct {
	models map[string]*core.Model
	order  []string
}

// NewStaticService builds a service over the given models.
func NewStaticService(models []*core.Model) *StaticService {
	s := &StaticService{models: make(map[string]*core.Model, len(models))}
	for _, m := range models {
		if _, seen := s.models[m.Name]; !seen {
			s.order = append(s.order, m.Name)
		}
		s.models[m.Name] = m
	}
	return s
}

var _ core.ModelService = (*StaticService)(nil)

// GetModel returns the named model, or nil when absent.
func (s *StaticService) GetModel(_ *core.Auth, name string) (*core.Model, error) {
	return s.models[name], nil
}

// List returns all models in document order.
func (s *StaticService) List(_ *core.Auth) ([]*core.Model, error) {
	out := make([]*core.Model, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.models[name])
	}
	return out, nil
}
