package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicgrid/backend/internal/config"
)

var RedisClient *redis.Client

func ConnectRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	RedisClient = client
	log.Println("Redis connected successfully")
	return client, nil
}

func CloseRedis(client *redis.Client) error {
	return client.Close()
}

type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, expiration).Err()
}

func (s *SessionStore) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *SessionStore) Exists(ctx context.Context, key string) (bool, error) {
	result, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

func (s *SessionStore) SetUserSession(ctx context.Context, userID string, sessionData interface{}, expiration time.Duration) error {
	key := fmt.Sprintf("session:%s", userID)
	return s.Set(ctx, key, sessionData, expiration)
}

func (s *SessionStore) DeleteUserSession(ctx context.Context, userID string) error {
	key := fmt.Sprintf("session:%s", userID)
	return s.Delete(ctx, key)
}

func (s *SessionStore) BlacklistToken(ctx context.Context, token string, expiration time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", token)
	return s.client.Set(ctx, key, "1", expiration).Err()
}

func (s *SessionStore) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)
	return s.Exists(ctx, key)
}

// SLACache memoizes per-department SLA hours so deadline computation
// does not hit Postgres on every submission. A cache miss or Redis error
// simply sends the caller to the database.
type SLACache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSLACache(client *redis.Client, ttl time.Duration) *SLACache {
	return &SLACache{client: client, ttl: ttl}
}

func (c *SLACache) GetSLAHours(ctx context.Context, departmentCode string) (int, bool) {
	val, err := c.client.Get(ctx, slaKey(departmentCode)).Result()
	if err != nil {
		return 0, false
	}
	hours, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return hours, true
}

func (c *SLACache) SetSLAHours(ctx context.Context, departmentCode string, hours int) {
	if err := c.client.Set(ctx, slaKey(departmentCode), hours, c.ttl).Err(); err != nil {
		log.Printf("Failed to cache SLA hours for %s: %v", departmentCode, err)
	}
}

func (c *SLACache) Invalidate(ctx context.Context, departmentCode string) {
	c.client.Del(ctx, slaKey(departmentCode))
}

func slaKey(departmentCode string) string {
	return fmt.Sprintf("sla:hours:%s", departmentCode)
}
