package rdx

import (
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"mistri/globals"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
}

// RdxHset stores a field in a Redis hash.
func RdxHset(hash, field, value string) error {
	err := Conn.HSet(globals.Ctx, hash, field, value).Err()
	if err != nil {
		log.Printf("Redis HSET error for %s/%s: %v", hash, field, err)
	}
	return err
}

// RdxHget reads a field from a Redis hash.
func RdxHget(hash, field string) (string, error) {
	return Conn.HGet(globals.Ctx, hash, field).Result()
}

// RdxHdel removes a field from a Redis hash.
func RdxHdel(hash, field string) error {
	return Conn.HDel(globals.Ctx, hash, field).Err()
}

// RdxSet stores a key with a TTL. A zero ttl means no expiry.
func RdxSet(key, value string, ttl time.Duration) error {
	return Conn.Set(globals.Ctx, key, value, ttl).Err()
}

// RdxGet reads a key.
func RdxGet(key string) (string, error) {
	return Conn.Get(globals.Ctx, key).Result()
}

// RdxDel removes a key.
func RdxDel(key string) error {
	return Conn.Del(globals.Ctx, key).Err()
}
