package store

import (
	"fmt"

	"swcommons/internal/config"
)

// Open builds the backend selected by cfg.Store.Driver
func Open(cfg *config.Config) (Gateway, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory, "":
		return NewMemoryStore(), nil
	case config.StoreSQLite:
		return OpenSQLite(cfg.Store.DSN)
	case config.StorePostgres:
		return OpenPostgres(cfg.Store.DSN)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
