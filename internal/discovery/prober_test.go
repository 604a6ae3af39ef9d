package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/semlayer/internal/testutil"
	"github.com/leapstack-labs/semlayer/pkg/apierr"
	"github.com/leapstack-labs/semlayer/pkg/core"
	"github.com/leapstack-labs/semlayer/pkg/dialect"
)

func dollarDialect() dialect.Dialect {
	return &dialect.Base{
		DialectName:  "test",
		Identifier:   dialect.Identifiers{Quote: `"`, QuoteEnd: `"`, Escape: `""`},
		Placeholders: dialect.PlaceholderDollar,
	}
}

func TestDiscoverDimensionTypes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT column_name, data_type FROM information_schema\.columns`).
		WithArgs("public", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
			AddRow("id", "bigint").
			AddRow("amount_cents", "numeric").
			AddRow("created_at", "timestamp with time zone").
			AddRow("status", "character varying"))

	p := NewProber(db, dollarDialect(), testutil.NewTestLogger(t))
	dims := []core.Dimension{
		{Name: "id"},
		{Name: "amount", Column: "amount_cents"},
		{Name: "created_at"},
		{Name: "status", Type: core.FieldTypeString},
		{Name: "ghost"},
	}

	out, err := p.DiscoverDimensionTypes(context.Background(), "orders",
		core.TableTarget("analytics", "public", "orders"), dims)
	require.NoError(t, err)

	assert.Equal(t, core.FieldTypeNumber, out[0].Type)
	assert.Equal(t, core.FieldTypeNumber, out[1].Type, "lookup uses the physical column")
	assert.Equal(t, core.FieldTypeTime, out[2].Type)
	assert.Equal(t, core.FieldTypeString, out[3].Type, "declared type wins")
	assert.Equal(t, core.FieldTypeUnknown, out[4].Type, "unknown columns stay untyped")

	// Input slice untouched.
	assert.Equal(t, core.FieldTypeUnknown, dims[0].Type)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscoverRejectsSQLTargets(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := NewProber(db, dollarDialect(), testutil.NewTestLogger(t))
	_, err = p.DiscoverDimensionTypes(context.Background(), "report",
		core.SQLTarget("select 1"), nil)

	require.Error(t, err)
	assert.True(t, apierr.IsInvalidInput(err), "unsupported sources fail with a structured error")
}

func TestDiscoverQueryFailureIsStructured(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT column_name`).
		WillReturnError(errors.New("connection refused"))

	p := NewProber(db, dollarDialect(), testutil.NewTestLogger(t))
	_, err = p.DiscoverDimensionTypes(context.Background(), "orders",
		core.TableTarget("", "public", "orders"), nil)

	require.Error(t, err)
	assert.True(t, apierr.IsStructured(err))
	assert.Contains(t, err.Error(), "orders")
}

func TestMapDataType(t *testing.T) {
	tests := []struct {
		dataType string
		want     core.FieldType
	}{
		{"bigint", core.FieldTypeNumber},
		{"numeric", core.FieldTypeNumber},
		{"double precision", core.FieldTypeNumber},
		{"character varying", core.FieldTypeString},
		{"text", core.FieldTypeString},
		{"uuid", core.FieldTypeString},
		{"boolean", core.FieldTypeBool},
		{"date", core.FieldTypeDate},
		{"timestamp without time zone", core.FieldTypeTime},
		{"geometry", core.FieldTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			assert.Equal(t, tt.want, mapDataType(tt.dataType))
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	d := &dialect.Base{DialectName: "nodriver"}
	_, err := Open(d, "dsn")
	assert.Error(t, err)
}
