package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/semlayer/internal/resolve"
	"github.com/leapstack-labs/semlayer/internal/testutil"
	"github.com/leapstack-labs/semlayer/pkg/core"
	"github.com/leapstack-labs/semlayer/pkg/dialect"
)

type staticService struct {
	models map[string]*core.Model
}

func (s *staticService) GetModel(_ *core.Auth, name string) (*core.Model, error) {
	return s.models[name], nil
}

func (s *staticService) List(_ *core.Auth) ([]*core.Model, error) {
	out := make([]*core.Model, 0, len(s.models))
	for _, m := range s.models {
		out = append(out, m)
	}
	return out, nil
}

func testContext(t *testing.T, models ...*core.Model) *resolve.Context {
	t.Helper()
	svc := &staticService{models: make(map[string]*core.Model)}
	for _, m := range models {
		svc.models[m.Name] = m
	}
	return resolve.NewContext(resolve.Config{
		Auth: &core.Auth{ProjectID: "p1"},
		Dialect: &dialect.Base{
			DialectName:         "test",
			Identifier:          dialect.Identifiers{Quote: `"`, QuoteEnd: `"`, Escape: `""`},
			SQLTargetNeedsAlias: true,
		},
		Models:   svc,
		Renderer: New(testutil.NewTestLogger(t)),
		Logger:   testutil.NewTestLogger(t),
	})
}

func TestRenderPlainText(t *testing.T) {
	c := testContext(t)
	out, err := c.RenderSQL("select 1 from t", resolve.RenderOptions{ModelName: "m"})
	require.NoError(t, err)
	assert.Equal(t, "select 1 from t", out)
}

func TestRenderRef(t *testing.T) {
	orders := &core.Model{Name: "orders", Target: core.TableTarget("db", "public", "orders")}
	c := testContext(t, orders)

	out, err := c.RenderSQL("select * from {{ ref('orders') }}", resolve.RenderOptions{ModelName: "m"})
	require.NoError(t, err)
	assert.Equal(t, `select * from "db"."public"."orders"`, out)
}

func TestRenderRefRecursesIntoTemplates(t *testing.T) {
	base := &core.Model{Name: "base_events", Target: core.SQLTarget("select id from raw_events")}
	c := testContext(t, base)

	out, err := c.RenderSQL("select count(*) from {{ ref('base_events') }}", resolve.RenderOptions{ModelName: "m"})
	require.NoError(t, err)
	assert.Equal(t, "select count(*) from (select id from raw_events)", out)
}

func TestRenderColumn(t *testing.T) {
	orders := &core.Model{
		Name:       "orders",
		Target:     core.TableTarget("db", "public", "orders"),
		Dimensions: []core.Dimension{{Name: "amount", Column: "amount_cents"}},
	}
	c := testContext(t, orders)

	out, err := c.RenderSQL("sum({{ column('orders', 'amount') }})", resolve.RenderOptions{ModelName: "m"})
	require.NoError(t, err)
	assert.Equal(t, `sum("orders"."amount_cents")`, out)
}

func TestRenderVarAndHook(t *testing.T) {
	c := testContext(t)
	c.SetVariable("tenant", "acme")

	out, err := c.RenderSQL("where tenant = '{{ var('tenant') }}' and injected = {{ var('flag') }}", resolve.RenderOptions{
		ModelName: "m",
		Hook: func(vars map[string]any) {
			vars["flag"] = true
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "where tenant = 'acme' and injected = True", out)
}

func TestRenderVarDefault(t *testing.T) {
	c := testContext(t)
	out, err := c.RenderSQL("limit {{ var('limit', 100) }}", resolve.RenderOptions{ModelName: "m"})
	require.NoError(t, err)
	assert.Equal(t, "limit 100", out)
}

func TestRenderUndefinedVarFails(t *testing.T) {
	c := testContext(t)
	_, err := c.RenderSQL("{{ var('nope') }}", resolve.RenderOptions{ModelName: "m"})
	require.Error(t, err)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Contains(t, err.Error(), "nope")
}

func TestRenderDateRange(t *testing.T) {
	c := testContext(t)
	dr := &core.DateRange{
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	out, err := c.RenderSQL("between '{{ date_range.start }}' and '{{ date_range.end }}'", resolve.RenderOptions{
		ModelName: "m",
		DateRange: dr,
	})
	require.NoError(t, err)
	assert.Equal(t, "between '2026-01-01' and '2026-03-31'", out)
}

func TestRenderThisAndQuote(t *testing.T) {
	c := testContext(t)
	out, err := c.RenderSQL("{{ quote(this.name) }}", resolve.RenderOptions{ModelName: "daily_orders"})
	require.NoError(t, err)
	assert.Equal(t, `"daily_orders"`, out)
}

func TestRenderComment(t *testing.T) {
	c := testContext(t)
	out, err := c.RenderSQL("select 1{{ comment('generated for report x') }}", resolve.RenderOptions{ModelName: "m"})
	require.NoError(t, err)
	assert.Equal(t, "select 1", out, "comment emits nothing inline")
	assert.Equal(t, []string{"generated for report x"}, c.Comments())
}

func TestRenderInQueryDimensions(t *testing.T) {
	c := testContext(t)
	out, err := c.RenderSQL("{{ ', '.join(in_query_dimensions) }}", resolve.RenderOptions{
		ModelName:         "m",
		InQueryDimensions: []string{"amount", "created_at"},
	})
	require.NoError(t, err)
	assert.Equal(t, "amount, created_at", out)
}

func TestRenderEvalErrorCarriesPosition(t *testing.T) {
	c := testContext(t)
	_, err := c.RenderSQL("select 1\nfrom {{ undefined_fn() }}", resolve.RenderOptions{ModelName: "m"})
	require.Error(t, err)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, 2, renderErr.Position().Line)
}
