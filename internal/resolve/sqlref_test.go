package resolve

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/semlayer/internal/testutil"
	"github.com/leapstack-labs/semlayer/pkg/core"
	"github.com/leapstack-labs/semlayer/pkg/dialect"
)

// echoRenderer returns the renderable unchanged, recording requests.
type echoRenderer struct {
	mu   sync.Mutex
	reqs []RenderRequest
}

func (r *echoRenderer) Render(req RenderRequest) (string, error) {
	r.mu.Lock()
	r.reqs = append(r.reqs, req)
	r.mu.Unlock()
	return req.Renderable, nil
}

func newRenderContext(t *testing.T, d dialect.Dialect) (*Context, *echoRenderer) {
	t.Helper()
	r := &echoRenderer{}
	c := NewContext(Config{
		Auth:     &core.Auth{ProjectID: "p1"},
		Dialect:  d,
		Models:   newStubService(ordersModel()),
		Renderer: r,
		Logger:   testutil.NewTestLogger(t),
	})
	return c, r
}

func TestSQLReferenceColumn(t *testing.T) {
	c, _ := newRenderContext(t, testDialect())

	got, err := c.SQLReference(core.TableTarget("db", "s", "orders"), "o", SQLRefOptions{Column: "amount"})
	require.NoError(t, err)
	assert.Equal(t, `"o"."amount"`, got)
	assert.Empty(t, c.RawColumns(), "table targets record no raw columns")
}

func TestSQLReferenceRecordsRawColumns(t *testing.T) {
	c, _ := newRenderContext(t, testDialect())
	target := core.SQLTarget("select * from raw.orders")

	_, err := c.SQLReference(target, "o", SQLRefOptions{Column: "amount"})
	require.NoError(t, err)
	_, err = c.SQLReference(target, "o", SQLRefOptions{Column: "id"})
	require.NoError(t, err)
	_, err = c.SQLReference(target, "o", SQLRefOptions{Column: "amount"})
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{"o": {"amount", "id"}}, c.RawColumns())
}

func TestSQLReferenceTableTarget(t *testing.T) {
	c, _ := newRenderContext(t, testDialect())

	got, err := c.SQLReference(core.TableTarget("db", "s", "orders"), "o", SQLRefOptions{})
	require.NoError(t, err)
	assert.Equal(t, `"db"."s"."orders"`, got)
	assert.Empty(t, c.ViewAliases())
}

func TestSQLReferenceRendersTemplateInline(t *testing.T) {
	// Dialect wraps sql targets inline, so no view alias is recorded.
	c, r := newRenderContext(t, testDialect())

	got, err := c.SQLReference(core.SQLTarget("select 1 as x"), "m", SQLRefOptions{})
	require.NoError(t, err)
	assert.Equal(t, "(select 1 as x)", got)
	assert.Empty(t, c.ViewAliases())

	require.Len(t, r.reqs, 1)
	assert.Equal(t, "m", r.reqs[0].ModelName)
	assert.Same(t, c, r.reqs[0].Resolver.(*Context), "renderer receives the same context")
}

func TestSQLReferenceHoistsViewAlias(t *testing.T) {
	d := testDialect().(*dialect.Base)
	d.SQLTargetNeedsAlias = false
	c, _ := newRenderContext(t, d)

	got, err := c.SQLReference(core.SQLTarget("select 1 as x"), "m", SQLRefOptions{})
	require.NoError(t, err)
	assert.Equal(t, `"m"`, got, "caller gets the quoted alias for WITH assembly")

	views := c.ViewAliases()
	require.Len(t, views, 1)
	assert.Equal(t, "m", views[0].Alias)
	assert.Equal(t, "select 1 as x", views[0].Definition)
}

func TestViewAliasInsertionOrder(t *testing.T) {
	d := testDialect().(*dialect.Base)
	d.SQLTargetNeedsAlias = false
	c, _ := newRenderContext(t, d)

	for i := range 10 {
		alias := fmt.Sprintf("view_%02d", i)
		_, err := c.SQLReference(core.SQLTarget("select "+alias), alias, SQLRefOptions{})
		require.NoError(t, err)
	}

	views := c.ViewAliases()
	require.Len(t, views, 10)
	for i, v := range views {
		assert.Equal(t, fmt.Sprintf("view_%02d", i), v.Alias, "insertion order preserved")
	}
}

func TestViewAliasConcurrentAppendsKeepAllEntries(t *testing.T) {
	d := testDialect().(*dialect.Base)
	d.SQLTargetNeedsAlias = false
	c, _ := newRenderContext(t, d)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			alias := fmt.Sprintf("view_%02d", i)
			_, errs[i] = c.SQLReference(core.SQLTarget("select 1"), alias, SQLRefOptions{})
		}(i)
	}
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
	}
	views := c.ViewAliases()
	assert.Len(t, views, workers)
	seen := make(map[string]bool, workers)
	for _, v := range views {
		assert.False(t, seen[v.Alias], "no duplicate aliases")
		seen[v.Alias] = true
	}
}

func TestRenderSQLRequiresRenderer(t *testing.T) {
	c := newTestContext(t, newStubService())
	_, err := c.RenderSQL("select 1", RenderOptions{ModelName: "m"})
	assert.Error(t, err)
}

func TestRenderSQLPassesOptionsThrough(t *testing.T) {
	c, r := newRenderContext(t, testDialect())
	c.SetVariable("tenant", "acme")

	dr := &core.DateRange{}
	hook := func(vars map[string]any) { vars["injected"] = true }

	out, err := c.RenderSQL("select {{ x }}", RenderOptions{
		ModelName:         "orders",
		InQueryDimensions: []string{"amount"},
		DateRange:         dr,
		TargetModelName:   "report",
		Hook:              hook,
	})
	require.NoError(t, err)
	assert.Equal(t, "select {{ x }}", out)

	require.Len(t, r.reqs, 1)
	req := r.reqs[0]
	assert.Equal(t, []string{"amount"}, req.InQueryDimensions)
	assert.Same(t, dr, req.DateRange)
	assert.Equal(t, "report", req.TargetModelName)
	assert.NotNil(t, req.Hook)
}

func TestCommentsAndVariables(t *testing.T) {
	c := newTestContext(t, newStubService())

	c.AddComment("first")
	c.AddComment("second")
	assert.Equal(t, []string{"first", "second"}, c.Comments())

	c.SetVariable("a", 1)
	vars := c.Variables()
	assert.Equal(t, 1, vars["a"])

	// Returned map is a copy; mutating it must not leak back.
	vars["b"] = 2
	assert.NotContains(t, c.Variables(), "b")
}
