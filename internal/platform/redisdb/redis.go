package redisdb

import (
	"blog_api/internal/platform/config"
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// Connect initializes the shared client. Redis is optional: when no address
// is configured the client stays nil and rate limiting is disabled.
func Connect() {
	if config.AppConfig.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, login rate limiting disabled")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	_, err := RDB.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	fmt.Println("Successfully connected to Redis!")
}

func Close() {
	if RDB != nil {
		RDB.Close()
		fmt.Println("Redis connection closed.")
	}
}
