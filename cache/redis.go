package cache

import (
	"context"
	"fmt"
	"log"

	config "github.com/jadesdev/limo-drive/configs"
	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

func Connect() {
	Client = redis.NewClient(&redis.Options{
		Addr:     config.ConfigOr("REDIS_ADDR", "localhost:6379"),
		Password: config.Config("REDIS_PASSWORD"),
		DB:       config.ConfigInt("REDIS_DB", 0),
	})

	if err := Client.Ping(context.Background()).Err(); err != nil {
		log.Printf("⚠️ Redis unavailable, caching disabled: %v", err)
		Client = nil
		return
	}

	fmt.Println("✅ Redis connected successfully")
}
