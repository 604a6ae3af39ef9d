package discovery

import (
	"database/sql"
	"fmt"

	// database/sql drivers for the dialects that support discovery.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/leapstack-labs/semlayer/pkg/dialect"
)

// Open opens a database handle for the dialect's discovery driver.
func Open(d dialect.Dialect, dsn string) (*sql.DB, error) {
	driver := d.DriverName()
	if driver == "" {
		return nil, fmt.Errorf("dialect %q has no discovery driver", d.Name())
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", d.Name(), err)
	}
	return db, nil
}
