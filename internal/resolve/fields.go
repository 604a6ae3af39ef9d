package resolve

import (
	"github.com/leapstack-labs/semlayer/pkg/apierr"
	"github.com/leapstack-labs/semlayer/pkg/core"
)

// ModelDimension is a resolved, context-bound dimension: the raw field
// definition paired with the owning model's name and target.
type ModelDimension struct {
	ModelName string
	Target    core.Target
	Dimension core.Dimension
}

// ModelMeasure is a resolved, context-bound measure.
type ModelMeasure struct {
	ModelName string
	Target    core.Target
	Measure   core.Measure
}

// ModelRelation is a resolved relation carrying both endpoints.
type ModelRelation struct {
	SourceModel  string
	SourceTarget core.Target
	TargetModel  string
	TargetTarget core.Target
	Relation     core.Relation
}

// ModelDimension resolves a dimension name against a model. A recognized
// mapping name is first translated through the model's mapping table;
// a mapping name missing from the table is a resolution error, not a
// silent fallback. The wrapper is cached under the original, untranslated
// name for the lifetime of the context.
func (c *Context) ModelDimension(dimensionName, modelName string) (*ModelDimension, error) {
	key := referenceKey(modelName, dimensionName)

	c.dimMu.RLock()
	cached, ok := c.dims[key]
	c.dimMu.RUnlock()
	if ok {
		return cached, nil
	}

	model, err := c.Model(modelName)
	if err != nil {
		return nil, err
	}

	lookupName := dimensionName
	if core.IsMappingName(dimensionName) {
		mapped, ok := model.Mappings[dimensionName]
		if !ok {
			return nil, apierr.NotFound("mapping dimension %q not defined on model %q", dimensionName, modelName)
		}
		lookupName = mapped
	}

	dim, ok := model.Dimension(lookupName)
	if !ok {
		return nil, apierr.NotFound("dimension %q not found in model %q", lookupName, modelName)
	}

	resolved := &ModelDimension{
		ModelName: model.Name,
		Target:    model.Target,
		Dimension: dim,
	}

	// First store wins so concurrent resolvers of the same key observe
	// one wrapper.
	c.dimMu.Lock()
	if prior, ok := c.dims[key]; ok {
		resolved = prior
	} else {
		c.dims[key] = resolved
	}
	c.dimMu.Unlock()

	return resolved, nil
}

// ModelMeasure resolves a measure name against a model. When the model
// declares no measure under the name, the built-in $total_rows row-count
// measure is consulted as a fallback; any other undeclared name fails.
func (c *Context) ModelMeasure(measureName, modelName string) (*ModelMeasure, error) {
	key := referenceKey(modelName, measureName)

	c.measMu.RLock()
	cached, ok := c.measures[key]
	c.measMu.RUnlock()
	if ok {
		return cached, nil
	}

	model, err := c.Model(modelName)
	if err != nil {
		return nil, err
	}

	measure, ok := model.Measure(measureName)
	if !ok {
		if measureName != core.TotalRowsMeasure {
			return nil, apierr.NotFound("measure %q not found in model %q", measureName, modelName)
		}
		measure = core.SyntheticTotalRows()
	}

	resolved := &ModelMeasure{
		ModelName: model.Name,
		Target:    model.Target,
		Measure:   measure,
	}

	c.measMu.Lock()
	if prior, ok := c.measures[key]; ok {
		resolved = prior
	} else {
		c.measures[key] = resolved
	}
	c.measMu.Unlock()

	return resolved, nil
}

// Relation resolves a named relation on the source model, including the
// target model's definition. A relation whose target model is absent
// from the registry fails NotFound; other fetch errors propagate
// unchanged.
func (c *Context) Relation(relationName, sourceModelName string) (*ModelRelation, error) {
	key := referenceKey(sourceModelName, relationName)

	c.relMu.RLock()
	cached, ok := c.rels[key]
	c.relMu.RUnlock()
	if ok {
		return cached, nil
	}

	source, err := c.Model(sourceModelName)
	if err != nil {
		return nil, err
	}

	rel, ok := source.Relation(relationName)
	if !ok {
		return nil, apierr.NotFound("relation %q not found in model %q", relationName, sourceModelName)
	}

	target, err := c.Model(rel.Model)
	if err != nil {
		if apierr.IsInvalidInput(err) {
			return nil, apierr.NotFound("relation %q in model %q: target model %q not found", relationName, sourceModelName, rel.Model)
		}
		return nil, err
	}

	resolved := &ModelRelation{
		SourceModel:  source.Name,
		SourceTarget: source.Target,
		TargetModel:  target.Name,
		TargetTarget: target.Target,
		Relation:     rel,
	}

	c.relMu.Lock()
	if prior, ok := c.rels[key]; ok {
		resolved = prior
	} else {
		c.rels[key] = resolved
	}
	c.relMu.Unlock()

	return resolved, nil
}
