package database

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/todamoon/terminal/internal/config"
)

// InitRedis connects to the dashboard feed. It returns nil when redis is not
// reachable; the terminal keeps scanning without publishing events.
func InitRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	addr := cfg.Host + ":" + cfg.Port
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[REDIS] Redis connection failed, continuing without Redis: %v", err)
		rdb.Close()
		return nil
	}

	log.Println("[REDIS] Redis connection established")
	return rdb
}
