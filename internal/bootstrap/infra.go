package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/varejo-api/internal/application/ports"
	"github.com/jhoicas/varejo-api/internal/infrastructure/cache"
	"github.com/jhoicas/varejo-api/internal/infrastructure/memory"
	"github.com/jhoicas/varejo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/varejo-api/pkg/config"
	"github.com/jhoicas/varejo-api/pkg/logger"
)

// OpenRepositories abre el almacenamiento según DB_DRIVER. El cierre devuelto
// libera el pool (no-op en memoria).
func OpenRepositories(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (Repositories, func(), error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		return MemoryRepositories(memory.NewDB()), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return Repositories{}, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return Repositories{}, nil, fmt.Errorf("migraciones: %w", err)
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}
	return PostgresRepositories(pool), pool.Close, nil
}

// NewStoreCache usa Redis cuando REDIS_ADDR está definido y responde; si no,
// cae a la caché en memoria del proceso.
func NewStoreCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (ports.StoreCache, func()) {
	if cfg.Addr == "" {
		return cache.NewMemoryStoreCache(cfg.TTL()), func() {}
	}
	rc := cache.NewRedisStoreCache(cfg.Addr, cfg.Password, cfg.DB, cfg.TTL())
	if err := rc.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis no disponible, usando caché en memoria")
		_ = rc.Close()
		return cache.NewMemoryStoreCache(cfg.TTL()), func() {}
	}
	log.Info().Str("addr", cfg.Addr).Msg("caché Redis conectada")
	return rc, func() { _ = rc.Close() }
}
