// Package resolve implements the query generation context: a
// request-scoped resolution layer that lazily loads model definitions,
// resolves dimension, measure, and relation references, and accumulates
// the side-channel state (view aliases, raw columns, comments) needed to
// assemble the final query.
package resolve

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/leapstack-labs/semlayer/pkg/apierr"
	"github.com/leapstack-labs/semlayer/pkg/core"
	"github.com/leapstack-labs/semlayer/pkg/dialect"
)

// Config holds the collaborators a context is bound to.
type Config struct {
	// Auth is the authenticated project identity for this request
	Auth *core.Auth
	// Dialect is the target warehouse rule set
	Dialect dialect.Dialect
	// Models is the model-listing service backing lazy lookups
	Models core.ModelService
	// Renderer renders SQL-templated targets (optional; SQLReference on
	// template targets fails without one)
	Renderer Renderer
	// Logger is the structured logger (nil uses discard)
	Logger *slog.Logger
}

// Context is the per-request resolution context. One context is created
// per logical query request and discarded afterward; it is never shared
// across requests. All cache tables are safe for concurrent use from the
// workers resolving a single query's fields in parallel.
type Context struct {
	id       string
	auth     *core.Auth
	dialect  dialect.Dialect
	models   core.ModelService
	renderer Renderer
	logger   *slog.Logger

	// model cache: name -> *core.Model, fetch deduplicated per name
	modelMu    sync.RWMutex
	modelCache map[string]*core.Model
	fetchGroup singleflight.Group

	// field caches keyed by "<model>.<field>"; first store wins so
	// concurrent resolution of one key yields one wrapper
	dimMu    sync.RWMutex
	dims     map[string]*ModelDimension
	measMu   sync.RWMutex
	measures map[string]*ModelMeasure
	relMu    sync.RWMutex
	rels     map[string]*ModelRelation

	// view alias table: insertion order is dependency order and must
	// survive concurrent writers, hence the single mutex
	viewMu    sync.Mutex
	views     []ViewAlias
	viewIndex map[string]int

	// raw columns referenced on sql-defined targets, per alias
	rawMu      sync.Mutex
	rawColumns map[string]map[string]struct{}

	// free-form side channels consumed by final query assembly
	sideMu    sync.Mutex
	comments  []string
	variables map[string]any
}

// ViewAlias pairs a generated alias with its rendered SQL definition.
// The caller assembles these into a WITH prologue in insertion order.
type ViewAlias struct {
	Alias      string
	Definition string
}

// NewContext creates a resolution context for one request.
func NewContext(cfg Config) *Context {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.NewString()
	return &Context{
		id:         id,
		auth:       cfg.Auth,
		dialect:    cfg.Dialect,
		models:     cfg.Models,
		renderer:   cfg.Renderer,
		logger:     logger.With("request_id", id),
		modelCache: make(map[string]*core.Model),
		dims:       make(map[string]*ModelDimension),
		measures:   make(map[string]*ModelMeasure),
		rels:       make(map[string]*ModelRelation),
		viewIndex:  make(map[string]int),
		rawColumns: make(map[string]map[string]struct{}),
		variables:  make(map[string]any),
	}
}

// ID returns the request-scoped context id.
func (c *Context) ID() string { return c.id }

// Auth returns the authenticated project identity.
func (c *Context) Auth() *core.Auth { return c.auth }

// Dialect returns the warehouse rule set the context targets.
func (c *Context) Dialect() dialect.Dialect { return c.dialect }

// AddModel registers or overwrites a model by name. Last write wins.
func (c *Context) AddModel(m *core.Model) {
	c.modelMu.Lock()
	defer c.modelMu.Unlock()
	c.modelCache[m.Name] = m
}

// Model returns the cached model or, on miss, fetches it from the
// model-listing service. Concurrent first lookups of one name share a
// single fetch. A model unknown to the service fails with a structured
// 400-classified error.
func (c *Context) Model(name string) (*core.Model, error) {
	c.modelMu.RLock()
	m, ok := c.modelCache[name]
	c.modelMu.RUnlock()
	if ok {
		return m, nil
	}

	v, err, _ := c.fetchGroup.Do(name, func() (any, error) {
		// Another caller may have populated the cache while we waited
		// on the flight group.
		c.modelMu.RLock()
		cached, ok := c.modelCache[name]
		c.modelMu.RUnlock()
		if ok {
			return cached, nil
		}

		if c.models == nil {
			return nil, apierr.New(http.StatusBadRequest, "model %q not found", name)
		}
		fetched, err := c.models.GetModel(c.auth, name)
		if err != nil {
			return nil, err
		}
		if fetched == nil {
			return nil, apierr.New(http.StatusBadRequest, "model %q not found", name)
		}

		c.modelMu.Lock()
		c.modelCache[name] = fetched
		c.modelMu.Unlock()

		c.logger.Debug("model fetched", "model", name)
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*core.Model), nil
}

// Models returns the names of all models currently registered or cached.
func (c *Context) Models() []string {
	c.modelMu.RLock()
	defer c.modelMu.RUnlock()
	names := make([]string, 0, len(c.modelCache))
	for name := range c.modelCache {
		names = append(names, name)
	}
	return names
}

// referenceKey builds the composite cache key for a (model, field) pair.
func referenceKey(modelName, fieldName string) string {
	return modelName + "." + fieldName
}
