package session

import (
	"fmt"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/internal/common/config"
	"go.uber.org/zap"
)

// NewStore creates a new session store based on configuration
func NewStore(logger *zap.Logger, cfg *config.SessionConfig) (Store, error) {
	logger.Info("Initializing session storage", zap.String("type", cfg.Type))
	switch cfg.Type {
	case cnst.SessionTypeMemory:
		return NewMemoryStore(), nil
	case cnst.SessionTypeRedis:
		return NewRedisStore(cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported session storage type: %s", cfg.Type)
	}
}
