package cache

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/group2dev/landmark-api/internal/pkg/env"
)

var client *redis.Client

// SetupCache initializes the Redis connection. Redis only backs the OAuth
// handshake state; API responses are never cached.
func SetupCache() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Username: env.GetEnv("CACHE_USERNAME", ""),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       0,
	})

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		log.Warnf("Could not connect to redis: %v", err)
	} else {
		log.Infof("Successfully connected to redis: %s", pong)
	}
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	if client == nil {
		SetupCache()
	}
	return client
}

// Ping checks that redis answers
func Ping(ctx context.Context) error {
	return GetClient().Ping(ctx).Err()
}
