package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"study-planner/internal/model"
)

// DefaultCatalogKey is the key the whole catalog is stored under.
const DefaultCatalogKey = "study_planner:courses"

// RedisCatalogStore keeps the catalog as one JSON document in Redis.
type RedisCatalogStore struct {
	client *redis.Client
	key    string
}

// ParseRedisURL validates a Redis connection URL.
func ParseRedisURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("redis URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return opts, nil
}

// NewRedisCatalogStore connects and pings Redis.
func NewRedisCatalogStore(ctx context.Context, url, key string) (*RedisCatalogStore, error) {
	opts, err := ParseRedisURL(url)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	if key == "" {
		key = DefaultCatalogKey
	}
	return &RedisCatalogStore{client: client, key: key}, nil
}

func (s *RedisCatalogStore) LoadCatalog(ctx context.Context) ([]model.Course, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	return decodeCatalog(raw)
}

func (s *RedisCatalogStore) SaveCatalog(ctx context.Context, courses []model.Course) error {
	raw, err := encodeCatalog(courses)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("set catalog: %w", err)
	}
	return nil
}

func (s *RedisCatalogStore) Close() error {
	return s.client.Close()
}

func encodeCatalog(courses []model.Course) ([]byte, error) {
	if courses == nil {
		courses = []model.Course{}
	}
	raw, err := json.Marshal(courses)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return raw, nil
}

func decodeCatalog(raw []byte) ([]model.Course, error) {
	var courses []model.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return courses, nil
}

// NopCatalogStore keeps nothing; the catalog lives in memory only.
type NopCatalogStore struct{}

func (NopCatalogStore) LoadCatalog(context.Context) ([]model.Course, error) { return nil, nil }

func (NopCatalogStore) SaveCatalog(context.Context, []model.Course) error { return nil }
