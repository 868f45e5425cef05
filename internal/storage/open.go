package storage

import (
	"fmt"

	"swcommons/internal/config"
)

// Open builds the backend selected by cfg.Storage.Driver
func Open(cfg *config.Config) (ObjectStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageLocal, "":
		return NewLocalStorage(cfg.Storage.Local.Dir, cfg.BaseURL(), cfg.Storage.UploadTTL)
	case config.StorageSpaces:
		return NewSpacesStorage(cfg)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
