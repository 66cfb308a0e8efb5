// Package redis wraps the Redis client used for the contact-list cache
// and the typing-event relay.
package redis

import (
	"strconv"

	"unitcom_server/internal/config"

	"github.com/redis/go-redis/v9"
)

// redisClient is the package-wide client instance.
var redisClient *redis.Client

// Init creates the Redis client and starts the cache worker pool.
func Init() {
	conf := config.GetConfig()
	addr := conf.RedisConfig.Host + ":" + strconv.Itoa(conf.RedisConfig.Port)

	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conf.RedisConfig.Password,
		DB:       conf.RedisConfig.Db,
		// pool sizing matches the cache worker count
		PoolSize:     50,
		MinIdleConns: 8,
	})

	InitCacheWorker(8, 2000)
}
