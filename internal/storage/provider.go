package storage

import (
	"fmt"
	"trustive/internal/providers"
	"trustive/internal/storage/interfaces"
	"trustive/internal/structures"
)

// NewStorageProvider builds the backend selected by storage.driver.
func NewStorageProvider(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (KeyValueStorage, error) {
	switch conf.Storage.Driver {
	case "", "memory":
		logger.Infof(providers.TypeStore, "Using in-memory storage")
		return NewMemoryStorage(), nil
	case "file":
		logger.Infof(providers.TypeStore, "Using snapshot file storage at %s", conf.Storage.FilePath)
		return NewFileStorage(conf.Storage.FilePath, compressor, logger), nil
	case "postgres":
		logger.Infof(providers.TypeStore, "Using postgres storage")
		return NewPostgresStorage(conf.Storage.DSN, conf.Storage.Table)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}
