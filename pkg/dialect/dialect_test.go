package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/semlayer/pkg/core"
)

func testBase() *Base {
	return &Base{
		DialectName:         "test",
		Identifier:          Identifiers{Quote: `"`, QuoteEnd: `"`, Escape: `""`},
		DefaultDatabase:     "analytics",
		DefaultSchema:       "public",
		SQLTargetNeedsAlias: true,
	}
}

func TestQuoteIdentifier(t *testing.T) {
	b := testBase()

	assert.Equal(t, `"orders"`, b.QuoteIdentifier("orders"))
	assert.Equal(t, `"we""ird"`, b.QuoteIdentifier(`we"ird`), "embedded quotes are escaped")
}

func TestSQLForColumn(t *testing.T) {
	b := testBase()
	got := b.SQLForColumn(core.TableTarget("db", "s", "t"), "orders", "amount")
	assert.Equal(t, `"orders"."amount"`, got)
}

func TestSQLForTarget(t *testing.T) {
	b := testBase()

	t.Run("table target quotes qualified name", func(t *testing.T) {
		got, err := b.SQLForTarget(core.TableTarget("db", "s", "t"), "orders", nil)
		require.NoError(t, err)
		assert.Equal(t, `"db"."s"."t"`, got)
	})

	t.Run("sql target renders and wraps", func(t *testing.T) {
		got, err := b.SQLForTarget(core.SQLTarget("select 1"), "m", func() (string, error) {
			return "select 1", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "(select 1)", got)
	})

	t.Run("sql target without wrapper when alias not needed", func(t *testing.T) {
		noAlias := testBase()
		noAlias.SQLTargetNeedsAlias = false
		got, err := noAlias.SQLForTarget(core.SQLTarget("select 1"), "m", func() (string, error) {
			return "select 1", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "select 1", got)
	})

	t.Run("sql target requires render callback", func(t *testing.T) {
		_, err := b.SQLForTarget(core.SQLTarget("select 1"), "m", nil)
		assert.Error(t, err)
	})
}

func TestFillTargetDefaults(t *testing.T) {
	b := testBase()

	tgt := core.TableTarget("", "", "orders")
	b.FillTargetDefaults(&tgt)
	assert.Equal(t, "analytics", tgt.Database)
	assert.Equal(t, "public", tgt.Schema)

	explicit := core.TableTarget("other", "sales", "orders")
	b.FillTargetDefaults(&explicit)
	assert.Equal(t, "other", explicit.Database)

	sqlTgt := core.SQLTarget("select 1")
	b.FillTargetDefaults(&sqlTgt)
	assert.Empty(t, sqlTgt.Schema, "sql targets take no physical defaults")
}

func TestDefaultPostOperations(t *testing.T) {
	b := testBase()

	assert.NotEmpty(t, b.DefaultPostOperations(core.Dimension{Name: "created_at", Type: core.FieldTypeTime}))
	assert.NotEmpty(t, b.DefaultPostOperations(core.Dimension{Name: "day", Type: core.FieldTypeDate}))
	assert.Empty(t, b.DefaultPostOperations(core.Dimension{Name: "amount", Type: core.FieldTypeNumber}))
}

func TestRegistry(t *testing.T) {
	d := testBase()
	d.DialectName = "registry_test_dialect"
	Register(d)

	got, err := Get("registry_test_dialect")
	require.NoError(t, err)
	assert.Equal(t, "registry_test_dialect", got.Name())

	_, err = Get("no_such_dialect")
	require.Error(t, err)
	var unknown *UnknownDialectError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Available, "registry_test_dialect")
}
