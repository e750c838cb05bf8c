package kv

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultRedisTimeout bounds every call so a dead server degrades to "absent" quickly.
const defaultRedisTimeout = 2 * time.Second

// Redis stores keys on a Redis server, namespaced as "<origin>:<key>".
type Redis struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedis creates a Redis-backed store. No connection is made until the first call.
func NewRedis(addr, origin string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  defaultRedisTimeout,
		ReadTimeout:  defaultRedisTimeout,
		WriteTimeout: defaultRedisTimeout,
	})
	return &Redis{client: client, prefix: origin + ":", timeout: defaultRedisTimeout}
}

func (r *Redis) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

func (r *Redis) Get(key string) (string, bool) {
	ctx, cancel := r.ctx()
	defer cancel()
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Printf("ERROR: kv/redis: get '%s': %v", key, err)
		return "", false
	}
	return v, true
}

func (r *Redis) Set(key, value string) {
	ctx, cancel := r.ctx()
	defer cancel()
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		log.Printf("ERROR: kv/redis: set '%s': %v", key, err)
	}
}

func (r *Redis) Remove(key string) {
	ctx, cancel := r.ctx()
	defer cancel()
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		log.Printf("ERROR: kv/redis: remove '%s': %v", key, err)
	}
}

// Keys walks the origin namespace with SCAN; KEYS would block the server.
func (r *Redis) Keys() []string {
	ctx, cancel := r.ctx()
	defer cancel()

	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 256).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		log.Printf("ERROR: kv/redis: scan keys: %v", err)
		return nil
	}
	return keys
}

func (r *Redis) Close() error {
	return r.client.Close()
}
