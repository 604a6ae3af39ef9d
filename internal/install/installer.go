// Package install validates a batch of candidate models and commits them
// into a resolution context. Validation is all-or-nothing: every
// violation across the batch is collected and raised as one structured
// error before any model becomes queryable.
package install

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/semlayer/internal/resolve"
	"github.com/leapstack-labs/semlayer/pkg/apierr"
	"github.com/leapstack-labs/semlayer/pkg/core"
	"github.com/leapstack-labs/semlayer/pkg/dialect"
)

// Installer validates and installs recipe models.
type Installer struct {
	dialect    dialect.Dialect
	discoverer core.Discoverer
	logger     *slog.Logger
}

// New creates an installer. The discoverer is optional; without one,
// installation keeps the declared dimension types. A nil logger uses
// discard.
func New(d dialect.Dialect, discoverer core.Discoverer, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Installer{dialect: d, discoverer: discoverer, logger: logger}
}

// Install validates the batch, registers the models into rctx, runs
// best-effort field-type discovery, fills dialect defaults, and returns
// the finalized models in input order. On validation failure nothing is
// committed and the returned error aggregates every violation.
func (i *Installer) Install(ctx context.Context, rctx *resolve.Context, models []*core.Model) ([]*core.Model, error) {
	if err := Validate(models); err != nil {
		return nil, err
	}

	// Register provisional models first so discovery and later renders
	// can see the whole batch.
	for _, m := range models {
		rctx.AddModel(m)
	}

	finalized := make([]*core.Model, 0, len(models))
	for _, m := range models {
		final := m.Clone()

		final.Dimensions = i.discoverDimensions(ctx, final)

		for di := range final.Dimensions {
			d := &final.Dimensions[di]
			if len(d.PostOperations) == 0 {
				d.PostOperations = i.dialect.DefaultPostOperations(*d)
			}
		}

		i.dialect.FillTargetDefaults(&final.Target)

		rctx.AddModel(final)
		finalized = append(finalized, final)
	}

	i.logger.Info("recipe installed", "models", len(finalized), "dialect", i.dialect.Name())
	return finalized, nil
}

// discoverDimensions runs field-type discovery for one model. Structured
// discovery failures are non-fatal: the declared dimensions are kept
// unmodified.
func (i *Installer) discoverDimensions(ctx context.Context, m *core.Model) []core.Dimension {
	if i.discoverer == nil {
		return m.Dimensions
	}
	dims, err := i.discoverer.DiscoverDimensionTypes(ctx, m.Name, m.Target, m.Dimensions)
	if err != nil {
		if apierr.IsStructured(err) {
			i.logger.Warn("field type discovery failed, keeping declared dimensions",
				"model", m.Name, "error", err)
			return m.Dimensions
		}
		// Unstructured failures are still non-fatal but worth louder
		// logging; discovery is an optimization, not a requirement.
		i.logger.Error("field type discovery errored", "model", m.Name, "error", err)
		return m.Dimensions
	}
	return dims
}

// Validate checks a batch of models without committing anything:
// name legality, dimension/measure collisions, and relation-target
// existence within the batch. All violations are aggregated into one
// 400-classified batch error.
func Validate(models []*core.Model) error {
	var details []string

	inBatch := make(map[string]struct{}, len(models))
	for _, m := range models {
		inBatch[m.Name] = struct{}{}
	}

	for _, m := range models {
		if !core.ValidName(m.Name) {
			details = append(details, fmt.Sprintf("model %q: invalid name, must match %s", m.Name, core.NamePattern))
		}

		dimNames := make(map[string]struct{}, len(m.Dimensions))
		for _, d := range m.Dimensions {
			if !core.ValidName(d.Name) {
				details = append(details, fmt.Sprintf("model %q: invalid dimension name %q", m.Name, d.Name))
			}
			dimNames[d.Name] = struct{}{}
		}

		for _, ms := range m.Measures {
			if !core.ValidName(ms.Name) {
				details = append(details, fmt.Sprintf("model %q: invalid measure name %q", m.Name, ms.Name))
			}
			if _, clash := dimNames[ms.Name]; clash {
				details = append(details, fmt.Sprintf("model %q: field %q declared as both dimension and measure", m.Name, ms.Name))
			}
		}

		for _, r := range m.Relations {
			if !core.ValidName(r.Name) {
				details = append(details, fmt.Sprintf("model %q: invalid relation name %q", m.Name, r.Name))
			}
			if _, ok := inBatch[r.Model]; !ok {
				details = append(details, fmt.Sprintf("model %q: relation %q targets unknown model %q", m.Name, r.Name, r.Model))
			}
		}
	}

	if len(details) > 0 {
		return apierr.Batch("recipe validation failed", details)
	}
	return nil
}
