package db

import (
	"fmt"

	"github.com/user/reactvid-cli/config"
)

// OpenFromConfig opens the storage backend selected in cfg.
func OpenFromConfig(cfg *config.Config) (KV, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return OpenSQLite(PathIn(cfg.DataDir))
	case config.BackendRedis:
		return ConnectRedis(cfg.Storage.RedisAddr, cfg.Storage.RedisDB)
	case config.BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
