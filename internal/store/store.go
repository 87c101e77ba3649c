// Package store persists the ingredient catalog, supplier directory and recipe book.
package store

import (
	"errors"
	"fmt"

	"kitchenbook/internal/ingredient"
	"kitchenbook/internal/recipe"
	"kitchenbook/internal/supplier"
)

// ErrNotFound is returned when a record lookup by id finds nothing.
var ErrNotFound = errors.New("not found")

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite3"
)

// Store is the full persistence surface used by the API.
type Store interface {
	ingredient.Store
	supplier.Store
	recipe.Store
	Close() error
}

// Open returns the store for the given driver.
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverPostgres, DriverPgx, DriverSQLite:
		return NewSQLStore(driver, dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
