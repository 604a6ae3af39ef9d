package core

import (
	"context"
	"time"
)

// Auth is the authenticated-project identity a request runs under. The
// core passes it through to collaborators and never interprets it.
type Auth struct {
	ProjectID   string
	UserID      string
	Timezone    string
	Permissions []string
}

// DateRange bounds a time-filtered render. Zero values mean unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ModelService lists and fetches model definitions for a project. The
// resolution context wraps it with a per-request memoizing cache.
//
// GetModel returns (nil, nil) when the project has no model with the
// given name; the caller converts that into a structured error.
type ModelService interface {
	GetModel(auth *Auth, name string) (*Model, error)
	List(auth *Auth) ([]*Model, error)
}

// Discoverer performs field-type discovery against the physical source
// backing a model. Implementations return a structured error when the
// source is unsupported or unreachable; installation treats that as
// non-fatal and keeps the declared dimensions.
type Discoverer interface {
	DiscoverDimensionTypes(ctx context.Context, modelName string, target Target, dims []Dimension) ([]Dimension, error)
}
