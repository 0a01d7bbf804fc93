package cache

import (
	"shopmydish/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

var (
	_ fiber.Storage = (*RedisStorage)(nil)
	_ fiber.Storage = (*MemoryStorage)(nil)
)

// NewStorage returns a redis store when REDIS_HOST is set and falls back
// to memory when it is not, or when redis cannot be reached.
func NewStorage(cfg utils.Config, prefix string) fiber.Storage {
	if !cfg.RedisEnabled() {
		return NewMemoryStorage()
	}
	s, err := NewRedisStorage(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, prefix)
	if err != nil {
		log.Warnw("redis unavailable, using in-memory storage", "prefix", prefix, "error", err)
		return NewMemoryStorage()
	}
	return s
}
