// Package storage persists life snapshots keyed by life id.
//
// Every backend overwrites a snapshot wholesale on Put; there are no partial
// updates and no cross-life transactions.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/lifesim/config"
	"github.com/user/lifesim/internal/types"
)

// ErrNotFound is returned when no snapshot exists for an id
var ErrNotFound = errors.New("life not found")

// Store loads and replaces life snapshots
type Store interface {
	Get(ctx context.Context, id string) (*types.Life, error)
	Put(ctx context.Context, life *types.Life) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Store drivers
const (
	DriverMemory  = "memory"
	DriverFile    = "file"
	DriverSQLite3 = "sqlite3"
	DriverRedis   = "redis"
)

// Open returns the store selected by the database configuration
func Open(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverFile:
		return NewFileStore(cfg.DSN)
	case DriverSQLite3:
		return OpenSQLite(cfg.DSN)
	case DriverRedis:
		return NewRedisStore(cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
