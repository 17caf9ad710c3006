// Package store holds the process-lifetime recipe collection. Every
// implementation keeps insertion order and makes each operation atomic
// with respect to the others.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/recipebox/backend/internal/types"
)

var (
	// ErrNotFound is returned when no recipe has the requested id
	ErrNotFound = errors.New("recipe not found")
	// ErrDuplicateID is returned when a create reuses an id already held
	ErrDuplicateID = errors.New("recipe id already exists")
)

// Store is the recipe collection
type Store interface {
	List(ctx context.Context) ([]types.Recipe, error)
	Get(ctx context.Context, id string) (types.Recipe, error)
	Create(ctx context.Context, recipe types.Recipe) (types.Recipe, error)
	Update(ctx context.Context, recipe types.Recipe) (types.Recipe, error)
	Delete(ctx context.Context, id string) error
	Len(ctx context.Context) (int, error)
	Close() error
}

// Driver names accepted by New
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// New builds the store selected by driver
func New(driver string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return NewGormStore()
	default:
		return nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}
